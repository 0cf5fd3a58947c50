package mathutil

import "math"

// Mat4 is a 4×4 matrix stored row-major. Points are column vectors, so
// Mat4Mul(a, b) applies b first.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// Mat4Chain multiplies left to right: Mat4Chain(a, b, c) = a × b × c.
func Mat4Chain(ms ...Mat4) Mat4 {
	out := Mat4Identity()
	for _, m := range ms {
		out = Mat4Mul(out, m)
	}
	return out
}

// MulPoint transforms a 3D point (w=1) by the 4×4 matrix, ignoring the
// bottom row.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}

// MulDir transforms a direction (w=0): no translation.
func (m Mat4) MulDir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2],
	}
}

func (m Mat4) MulVec4(v Vec4) Vec4 {
	var out Vec4
	for r := 0; r < 4; r++ {
		out[r] = m[r*4]*v[0] + m[r*4+1]*v[1] + m[r*4+2]*v[2] + m[r*4+3]*v[3]
	}
	return out
}

// Row returns the first three components of row r.
func (m Mat4) Row(r int) Vec3 {
	return Vec3{m[r*4], m[r*4+1], m[r*4+2]}
}

// Translation returns the fourth column's xyz.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[3], m[7], m[11]}
}

// Mat3 returns the upper-left 3×3 block.
func (m Mat4) Mat3() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			t[c*4+r] = m[r*4+c]
		}
	}
	return t
}

// FromMat3Translation builds a 4×4 affine matrix from a 3×3 rotation and translation.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// FromAxes builds a matrix whose columns are x, y, z and origin o, i.e. the
// transform from a local frame into the frame the axes are expressed in.
func FromAxes(o, x, y, z Vec3) Mat4 {
	return Mat4{
		x[0], y[0], z[0], o[0],
		x[1], y[1], z[1], o[1],
		x[2], y[2], z[2], o[2],
		0, 0, 0, 1,
	}
}

// IsIdentity checks if the matrix is approximately identity.
func (m Mat4) IsIdentity() bool {
	return m.ApproxEqual(Mat4Identity(), 1e-8)
}

func (m Mat4) ApproxEqual(o Mat4, eps float64) bool {
	for i := 0; i < 16; i++ {
		d := m[i] - o[i]
		if d > eps || d < -eps {
			return false
		}
	}
	return true
}

func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, v[0],
		0, 1, 0, v[1],
		0, 0, 1, v[2],
		0, 0, 0, 1,
	}
}

func Scale(x, y, z float64) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// Rotate returns a rotation of theta radians about axis (right-handed).
func Rotate(theta float64, axis Vec3) Mat4 {
	return FromMat3Translation(QuatToMat3(QuatFromAxisAngle(axis, theta)), Vec3{})
}

// LookAt returns the right-handed world-to-view transform for an eye at
// eye looking at target: view z points from target to eye.
func LookAt(eye, target, up Vec3) Mat4 {
	z := eye.Sub(target).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x).Normalize()
	return Mat4{
		x[0], x[1], x[2], -eye.Dot(x),
		y[0], y[1], y[2], -eye.Dot(y),
		z[0], z[1], z[2], -eye.Dot(z),
		0, 0, 0, 1,
	}
}

func Frustum(l, r, b, t, n, f float64) Mat4 {
	return Mat4{
		2 * n / (r - l), 0, (r + l) / (r - l), 0,
		0, 2 * n / (t - b), (t + b) / (t - b), 0,
		0, 0, (f + n) / (n - f), 2 * f * n / (n - f),
		0, 0, -1, 0,
	}
}

// Perspective returns an OpenGL-style projection; fovy in radians.
func Perspective(fovy, aspect, n, f float64) Mat4 {
	s := 1 / math.Tan(fovy/2)
	return Mat4{
		s / aspect, 0, 0, 0,
		0, s, 0, 0,
		0, 0, (f + n) / (n - f), 2 * f * n / (n - f),
		0, 0, -1, 0,
	}
}

func Ortho(l, r, b, t, n, f float64) Mat4 {
	return Mat4{
		2 / (r - l), 0, 0, (l + r) / (l - r),
		0, 2 / (t - b), 0, (b + t) / (b - t),
		0, 0, 2 / (n - f), (n + f) / (n - f),
		0, 0, 0, 1,
	}
}

// Inverse returns the general 4×4 inverse by cofactor expansion.
// A singular matrix returns identity, like Mat3.Inverse.
func (m Mat4) Inverse() Mat4 {
	var inv Mat4

	inv[0] = m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] +
		m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	inv[4] = -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] -
		m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	inv[8] = m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] +
		m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	inv[12] = -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] -
		m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	inv[1] = -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] -
		m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	inv[5] = m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] +
		m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	inv[9] = -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] -
		m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	inv[13] = m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] +
		m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	inv[2] = m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] +
		m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	inv[6] = -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] -
		m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	inv[10] = m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] +
		m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	inv[14] = -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] -
		m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	inv[3] = -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] -
		m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]
	inv[7] = m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] +
		m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]
	inv[11] = -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] -
		m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]
	inv[15] = m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] +
		m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]

	det := m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
	if det == 0 {
		return Mat4Identity()
	}
	det = 1.0 / det
	for i := range inv {
		inv[i] *= det
	}
	return inv
}
