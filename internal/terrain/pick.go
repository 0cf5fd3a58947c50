package terrain

import (
	"math"

	"coaster-viewer/internal/mathutil"
)

const (
	// edgeEpsilon rejects boundary edges nearly parallel to the ray's plane.
	edgeEpsilon = 0.001

	// rayEpsilon rejects rays nearly parallel to a triangle's plane.
	rayEpsilon = 0.0001
)

// boundary edge indices, counter-clockwise from the y=0 edge
const (
	edgeBottom = iota // y = 0
	edgeRight         // x = Width-1
	edgeTop           // y = Height-1
	edgeLeft          // x = 0
)

// inward normals of the boundary edges
var edgeInward = [4]mathutil.Vec3{
	edgeBottom: {0, 1, 0},
	edgeRight:  {-1, 0, 0},
	edgeTop:    {0, -1, 0},
	edgeLeft:   {1, 0, 0},
}

// FindIntersection returns the first point where the ray rayStart + t·rayDir
// (t ≥ 0, world space) meets the surface. m is the terrain's object-to-world
// transform; the returned point is in object space. planePerp is the normal
// of the vertical plane that contains the ray.
//
// The search walks the cells crossed by that plane, starting where the
// plane enters the grid footprint, and stops when the walk leaves the grid.
func (hf *HeightField) FindIntersection(rayStart, rayDir, planePerp mathutil.Vec3, m mathutil.Mat4) (mathutil.Vec3, bool) {
	minv := m.Inverse()
	start := minv.MulPoint(rayStart)
	dir := minv.MulDir(rayDir)
	// plane normals map by the transpose of the object-to-world linear part
	perp := m.Mat3().Transpose().MulVec3(planePerp)

	// direction of the plane across the ground, pointed along the ray
	walk := perp.Cross(mathutil.ZAxis)
	if walk.Dot(dir) < 0 {
		walk = walk.Neg()
	}

	edge, entry, ok := hf.entryEdge(start, perp, walk)
	if !ok {
		return mathutil.Vec3{}, false
	}

	xinc, yinc := stepSign(walk[0]), stepSign(walk[1])
	cx, cy := hf.entryCell(edge, entry)

	for hf.CellInBounds(cx, cy) {
		ll, lr, ul, ur := hf.Corners(cx, cy)

		if p, _, ok := RayTriangle(start, dir, ll, lr, ul); ok {
			return p, true
		}
		if p, _, ok := RayTriangle(start, dir, ul, lr, ur); ok {
			return p, true
		}

		// Step to the neighbouring cell that still straddles the plane:
		// x unless the x-stepped cell lies wholly on one side of it.
		switch {
		case xinc == 0:
			cy += yinc
		case yinc == 0:
			cx += xinc
		case sameSide(start, perp, xinc, ll, lr, ul, ur):
			cy += yinc
		default:
			cx += xinc
		}
	}

	return mathutil.Vec3{}, false
}

// entryEdge intersects the vertical plane through start (normal perp) with
// the four footprint edges and returns the closest crossing at which walk
// points into the footprint.
func (hf *HeightField) entryEdge(start, perp, walk mathutil.Vec3) (int, mathutil.Vec3, bool) {
	w, h := float64(hf.Width-1), float64(hf.Height-1)
	corners := [4]mathutil.Vec3{{0, 0, 0}, {w, 0, 0}, {w, h, 0}, {0, h, 0}}

	minDist := math.Inf(1)
	minEdge := -1
	var minPoint mathutil.Vec3

	for i := 0; i < 4; i++ {
		c0, c1 := corners[i], corners[(i+1)%4]
		along := c1.Sub(c0)

		// t such that (c0 + t(c1-c0))·perp = start·perp
		denom := along.Dot(perp)
		if math.Abs(denom) <= edgeEpsilon {
			continue // plane parallel to this edge
		}
		t := start.Sub(c0).Dot(perp) / denom
		if t < 0 || t > 1 {
			continue
		}
		if walk.Dot(edgeInward[i]) <= 0 {
			continue // plane leaves the footprint here
		}

		p := c0.Add(along.Scale(t))
		if d := p.Sub(start).Len(); d < minDist {
			minDist, minEdge, minPoint = d, i, p
		}
	}

	return minEdge, minPoint, minEdge >= 0
}

// entryCell snaps a boundary crossing to the lower-left corner of the
// boundary cell that contains it.
func (hf *HeightField) entryCell(edge int, p mathutil.Vec3) (int, int) {
	switch edge {
	case edgeBottom:
		return clampCell(math.Floor(p[0]), hf.Width), 0
	case edgeTop:
		return clampCell(math.Floor(p[0]), hf.Width), hf.Height - 2
	case edgeRight:
		return hf.Width - 2, clampCell(math.Floor(p[1]), hf.Height)
	default:
		return 0, clampCell(math.Floor(p[1]), hf.Height)
	}
}

// clampCell keeps a cell index in [0, n-2] so a crossing exactly on the far
// corner still maps to a real cell.
func clampCell(v float64, n int) int {
	return int(mathutil.Clamp(v, 0, float64(n-2)))
}

func stepSign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// sameSide reports whether the cell one x step away has all four corners
// strictly on one side of the plane through start with normal perp.
func sameSide(start, perp mathutil.Vec3, xinc int, ll, lr, ul, ur mathutil.Vec3) bool {
	off := mathutil.Vec3{float64(xinc), 0, 0}
	llDot := ll.Add(off).Sub(start).Dot(perp)
	for _, c := range [3]mathutil.Vec3{lr, ul, ur} {
		if c.Add(off).Sub(start).Dot(perp)*llDot <= 0 {
			return false
		}
	}
	return true
}

// RayTriangle intersects the ray start + t·dir (t ≥ 0) with triangle
// v0 v1 v2. It returns the hit point and t scaled by the triangle normal's
// length.
func RayTriangle(start, dir, v0, v1, v2 mathutil.Vec3) (mathutil.Vec3, float64, bool) {
	normal := v1.Sub(v0).Cross(v2.Sub(v0)) // unnormalized

	dn := dir.Dot(normal)
	if math.Abs(dn) < rayEpsilon {
		return mathutil.Vec3{}, 0, false // parallel to the plane
	}

	param := (v0.Dot(normal) - start.Dot(normal)) / dn
	if param < 0 {
		return mathutil.Vec3{}, 0, false // plane is behind the start
	}
	point := start.Add(dir.Scale(param))

	// barycentric coordinates from signed areas
	totalArea := normal.Dot(normal)
	u := v2.Sub(v1).Cross(point.Sub(v1)).Dot(normal) / totalArea
	v := v0.Sub(v2).Cross(point.Sub(v2)).Dot(normal) / totalArea
	if u < 0 || v < 0 || u+v > 1 {
		return mathutil.Vec3{}, 0, false
	}

	return point, param / normal.Len(), true
}
