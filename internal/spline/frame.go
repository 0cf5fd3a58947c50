package spline

import "coaster-viewer/internal/mathutil"

// Frame is an orthonormal coordinate system on the curve. Z follows the
// direction of travel and Y points as far up as Z allows.
type Frame struct {
	O, X, Y, Z mathutil.Vec3
}

// LocalFrame returns the frame at parameter t.
func (s *Spline) LocalFrame(t float64) Frame {
	o := s.Value(t)
	z := s.Tangent(t).Normalize()
	y := z.Cross(mathutil.ZAxis.Cross(z)).Normalize()
	x := z.Cross(y).Normalize()
	return Frame{O: o, X: x, Y: y, Z: z}
}

// Transform maps frame coordinates to world coordinates.
func (f Frame) Transform() mathutil.Mat4 {
	return mathutil.FromAxes(f.O, f.X, f.Y, f.Z)
}
