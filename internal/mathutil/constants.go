package mathutil

// World axes. The scene is Z-up: terrain heights and spline "up" use ZAxis.
var (
	XAxis = Vec3{1, 0, 0}
	YAxis = Vec3{0, 1, 0}
	ZAxis = Vec3{0, 0, 1}
)

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Wrap maps i into [0, n) for any integer i. n must be positive.
func Wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
