package raster

import (
	"coaster-viewer/internal/mathutil"
	"coaster-viewer/internal/spline"
)

// Camera maps world space to framebuffer pixels.
type Camera struct {
	View   mathutil.Mat4 // world-to-view
	Proj   mathutil.Mat4 // view-to-clip
	Width  int
	Height int
}

// Eye returns the camera position in world space.
func (c Camera) Eye() mathutil.Vec3 {
	return c.View.Inverse().MulPoint(mathutil.Vec3{})
}

// ViewDir is the world-space direction the camera looks along.
func (c Camera) ViewDir() mathutil.Vec3 {
	return c.View.Row(2).Neg()
}

// Project maps p to pixel coordinates and a depth where larger is nearer.
// ok is false when p lies outside the near and far planes.
func (c Camera) Project(p mathutil.Vec3) (x, y, depth float64, ok bool) {
	clip := mathutil.Mat4Mul(c.Proj, c.View).MulVec4(mathutil.V4(p, 1))
	if clip[3] <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Project()
	if ndc[2] < -1 || ndc[2] > 1 {
		return 0, 0, 0, false
	}
	x = (ndc[0] + 1) / 2 * float64(c.Width)
	y = (1 - ndc[1]) / 2 * float64(c.Height)
	return x, y, -ndc[2], true
}

// ProjectVertices projects a vertex list. visible[i] is false for vertices
// clipped by the near or far plane.
func (c Camera) ProjectVertices(verts []mathutil.Vec3) (px, py, pz []float64, visible []bool) {
	px = make([]float64, len(verts))
	py = make([]float64, len(verts))
	pz = make([]float64, len(verts))
	visible = make([]bool, len(verts))

	vp := mathutil.Mat4Mul(c.Proj, c.View)
	w, h := float64(c.Width), float64(c.Height)
	for i, v := range verts {
		clip := vp.MulVec4(mathutil.V4(v, 1))
		if clip[3] <= 0 {
			continue
		}
		ndc := clip.Project()
		if ndc[2] < -1 || ndc[2] > 1 {
			continue
		}
		px[i] = (ndc[0] + 1) / 2 * w
		py[i] = (1 - ndc[1]) / 2 * h
		pz[i] = -ndc[2]
		visible[i] = true
	}
	return px, py, pz, visible
}

// RideView is the world-to-view transform of a rider on the track at
// frame f, lifted along the frame's up axis and looking along the track.
// obj maps the track's object space to world space.
func RideView(f spline.Frame, obj mathutil.Mat4, lift float64) mathutil.Mat4 {
	eye := obj.MulPoint(f.O.Add(f.Y.Scale(lift)))
	ahead := obj.MulDir(f.Z)
	up := obj.MulDir(f.Y)
	return mathutil.LookAt(eye, eye.Add(ahead), up)
}
