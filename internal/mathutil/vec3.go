package mathutil

import "math"

// Vec3 is a 3-component vector (value type, stack-allocated).
type Vec3 [3]float64

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func (v Vec3) LenSq() float64 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}

// Lerp returns a + t(b-a).
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

// DistanceToLine returns the perpendicular distance from v to the line
// through start with direction dir. dir need not be unit length.
func (v Vec3) DistanceToLine(start, dir Vec3) float64 {
	d := dir.Normalize()
	toPoint := v.Sub(start)
	return toPoint.Sub(d.Scale(toPoint.Dot(d))).Len()
}

// ApproxEqual reports whether every component differs by at most eps.
func (a Vec3) ApproxEqual(b Vec3, eps float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Vec2 is a 2-component vector, used for normalized pointer positions.
type Vec2 [2]float64

func (v Vec2) Len() float64 {
	return math.Hypot(v[0], v[1])
}

// Vec4 is a homogeneous 4-component vector.
type Vec4 [4]float64

// V4 extends a Vec3 with the given w.
func V4(v Vec3, w float64) Vec4 {
	return Vec4{v[0], v[1], v[2], w}
}

// Vec3 drops w without dividing.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Project divides xyz by w. A zero w returns xyz unchanged.
func (v Vec4) Project() Vec3 {
	if v[3] == 0 {
		return v.Vec3()
	}
	return Vec3{v[0] / v[3], v[1] / v[3], v[2] / v[3]}
}
