// Package spline implements a closed cubic curve through cyclic control
// points with a selectable basis, and its arc-length parameterization.
//
// The knot vector is fixed at 0, 1, 2, ...: t=i sits at segment i, and t
// is taken modulo the number of control points.
package spline

import (
	"math"

	"coaster-viewer/internal/mathutil"
)

// DivsPerSeg is the number of arc-length samples per curve segment.
const DivsPerSeg = 20

// EvalKind selects what Eval returns.
type EvalKind int

const (
	EvalValue EvalKind = iota
	EvalTangent
)

// Spline is a closed curve through data[0], data[1], ..., data[n-1].
// The zero value is an empty linear spline.
type Spline struct {
	data  []mathutil.Vec3
	basis Basis
	arc   arcLengthCache
}

// New returns a spline through the given points.
func New(basis Basis, points ...mathutil.Vec3) *Spline {
	s := &Spline{basis: basis}
	s.data = append(s.data, points...)
	return s
}

func (s *Spline) Len() int {
	return len(s.data)
}

// Point returns control point i.
func (s *Spline) Point(i int) mathutil.Vec3 {
	return s.data[i]
}

// Points returns a copy of the control points.
func (s *Spline) Points() []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(s.data))
	copy(out, s.data)
	return out
}

func (s *Spline) Basis() Basis {
	return s.basis
}

func (s *Spline) SetBasis(b Basis) {
	s.basis = b
	s.arc.invalidate()
}

// NextBasis cycles to the next basis and returns it.
func (s *Spline) NextBasis() Basis {
	s.SetBasis(s.basis.Next())
	return s.basis
}

// Name returns the current basis name.
func (s *Spline) Name() string {
	return s.basis.String()
}

func (s *Spline) Clear() {
	s.data = s.data[:0]
	s.arc.invalidate()
}

// SetPoints replaces all control points.
func (s *Spline) SetPoints(points []mathutil.Vec3) {
	s.data = append(s.data[:0], points...)
	s.arc.invalidate()
}

func (s *Spline) Append(p mathutil.Vec3) {
	s.data = append(s.data, p)
	s.arc.invalidate()
}

// Insert places p at index i, shifting i and later points up by one.
func (s *Spline) Insert(i int, p mathutil.Vec3) {
	s.data = append(s.data, mathutil.Vec3{})
	copy(s.data[i+1:], s.data[i:])
	s.data[i] = p
	s.arc.invalidate()
}

func (s *Spline) Set(i int, p mathutil.Vec3) {
	s.data[i] = p
	s.arc.invalidate()
}

func (s *Spline) Remove(i int) {
	s.data = append(s.data[:i], s.data[i+1:]...)
	s.arc.invalidate()
}

// Eval evaluates the curve or its first derivative (with respect to the
// segment parameter u) at t. An empty spline evaluates to zero.
func (s *Spline) Eval(t float64, kind EvalKind) mathutil.Vec3 {
	n := len(s.data)
	if n == 0 {
		return mathutil.Vec3{}
	}

	t = math.Mod(t, float64(n))
	if t < 0 {
		t += float64(n)
	}
	i := int(math.Floor(t))
	u := t - float64(i)

	qm1 := s.data[mathutil.Wrap(i-1, n)]
	q0 := s.data[mathutil.Wrap(i, n)]
	q1 := s.data[mathutil.Wrap(i+1, n)]
	q2 := s.data[mathutil.Wrap(i+2, n)]

	m := s.basis.Matrix()
	var out mathutil.Vec3
	for axis := 0; axis < 3; axis++ {
		c := m.MulVec4(mathutil.Vec4{qm1[axis], q0[axis], q1[axis], q2[axis]})
		if kind == EvalTangent {
			out[axis] = 3*c[0]*u*u + 2*c[1]*u + c[2]
		} else {
			out[axis] = c[0]*u*u*u + c[1]*u*u + c[2]*u + c[3]
		}
	}
	return out
}

// Value returns the curve position at t.
func (s *Spline) Value(t float64) mathutil.Vec3 {
	return s.Eval(t, EvalValue)
}

// Tangent returns the curve's first derivative at t.
func (s *Spline) Tangent(t float64) mathutil.Vec3 {
	return s.Eval(t, EvalTangent)
}

// ParamSamples returns parameters spaced 1/perSeg apart over [0, n).
func (s *Spline) ParamSamples(perSeg int) []float64 {
	if perSeg <= 0 {
		return nil
	}
	count := len(s.data) * perSeg
	params := make([]float64, count)
	for i := range params {
		params[i] = float64(i) / float64(perSeg)
	}
	return params
}
