package raster

import (
	"image"
	"image/color"

	"coaster-viewer/internal/mathutil"
	"coaster-viewer/internal/terrain"
)

// Mesh is a triangle list in world space with one material.
type Mesh struct {
	Verts []mathutil.Vec3
	UVs   [][2]float32 // per vertex, used with Tex
	Tris  [][3]int

	Colour     color.NRGBA
	TriColours []color.NRGBA // per triangle, overrides Colour
	Tex        *image.NRGBA

	// BackOnly draws only triangles facing away from the eye.
	BackOnly bool
}

// Normal returns the unit normal of triangle i.
func (m *Mesh) Normal(i int) mathutil.Vec3 {
	t := m.Tris[i]
	a, b, c := m.Verts[t[0]], m.Verts[t[1]], m.Verts[t[2]]
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

func (m *Mesh) colourOf(i int) color.NRGBA {
	if i < len(m.TriColours) {
		return m.TriColours[i]
	}
	return m.Colour
}

// unit cube corners and faces, counter-clockwise seen from outside
var (
	cubeCorners = [8]mathutil.Vec3{
		{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
	}
	cubeTris = [12][3]int{
		{0, 2, 1}, {0, 3, 2}, // bottom
		{4, 5, 6}, {4, 6, 7}, // top
		{0, 1, 5}, {0, 5, 4}, // front
		{2, 3, 7}, {2, 7, 6}, // back
		{1, 2, 6}, {1, 6, 5}, // right
		{3, 0, 4}, {3, 4, 7}, // left
	}
)

// BoxMesh returns the unit cube centred on the origin, transformed by m.
func BoxMesh(m mathutil.Mat4, colour color.NRGBA) Mesh {
	mesh := Mesh{Colour: colour}
	for _, c := range cubeCorners {
		mesh.Verts = append(mesh.Verts, m.MulPoint(c))
	}
	mesh.Tris = append(mesh.Tris, cubeTris[:]...)
	return mesh
}

// SegmentMesh returns a square bar of the given thickness from a to b.
func SegmentMesh(a, b mathutil.Vec3, thickness float64, colour color.NRGBA) Mesh {
	d := b.Sub(a)
	length := d.Len()
	if length < 1e-9 {
		return Mesh{Colour: colour}
	}
	z := d.Scale(1 / length)
	side := mathutil.ZAxis
	if abs(z[2]) > 0.9 {
		side = mathutil.XAxis
	}
	x := side.Cross(z).Normalize()
	y := z.Cross(x)

	m := mathutil.Mat4Mul(
		mathutil.FromAxes(a.Lerp(b, 0.5), x, y, z),
		mathutil.Scale(thickness, thickness, length),
	)
	return BoxMesh(m, colour)
}

// Append adds o's triangles to m. o's material is dropped.
func (m *Mesh) Append(o Mesh) {
	base := len(m.Verts)
	m.Verts = append(m.Verts, o.Verts...)
	for _, t := range o.Tris {
		m.Tris = append(m.Tris, [3]int{t[0] + base, t[1] + base, t[2] + base})
	}
}

// TerrainMesh triangulates hf in world space through the object transform
// obj. With tex the colour map is stretched over the whole grid;
// otherwise triangles are coloured by height.
func TerrainMesh(hf *terrain.HeightField, obj mathutil.Mat4, tex *image.NRGBA) Mesh {
	mesh := Mesh{Tex: tex, Colour: color.NRGBA{110, 140, 90, 255}}
	w, h := hf.Width, hf.Height

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mesh.Verts = append(mesh.Verts, obj.MulPoint(hf.Point(x, y)))
			mesh.UVs = append(mesh.UVs, [2]float32{float32(x) / float32(w-1), float32(y) / float32(h-1)})
		}
	}

	lo, hi := hf.HeightRange()
	for y := 0; y+1 < h; y++ {
		for x := 0; x+1 < w; x++ {
			ll, lr, ul, ur := x+y*w, x+1+y*w, x+(y+1)*w, x+1+(y+1)*w
			mesh.Tris = append(mesh.Tris, [3]int{ll, lr, ul}, [3]int{ul, lr, ur})

			if tex == nil {
				mid := (hf.HeightAt(x, y) + hf.HeightAt(x+1, y+1)) / 2
				c := heightColour(mid, lo, hi)
				mesh.TriColours = append(mesh.TriColours, c, c)
			}
		}
	}
	return mesh
}

// heightColour ramps from lowland green through brown to snow.
func heightColour(z, lo, hi float64) color.NRGBA {
	t := 0.0
	if hi > lo {
		t = (z - lo) / (hi - lo)
	}
	stops := [3]mathutil.Vec3{{70, 120, 60}, {140, 110, 70}, {240, 240, 245}}
	var c mathutil.Vec3
	if t < 0.5 {
		c = stops[0].Lerp(stops[1], t*2)
	} else {
		c = stops[1].Lerp(stops[2], t*2-1)
	}
	return color.NRGBA{uint8(c[0]), uint8(c[1]), uint8(c[2]), 255}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
