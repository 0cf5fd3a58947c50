package mathutil

import "math"

// RotZ returns a 3×3 rotation matrix around the Z axis.
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 {
	return r * 180 / math.Pi
}
