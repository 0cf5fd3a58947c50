package terrain

import (
	"image"
	"image/color"
	"math"
	"testing"

	"coaster-viewer/internal/mathutil"
)

func flatField(t *testing.T, w, h int) *HeightField {
	t.Helper()
	hf, err := NewFromFunc(w, h, func(x, y int) float64 { return 0 })
	if err != nil {
		t.Fatalf("NewFromFunc: %v", err)
	}
	return hf
}

func rampField(t *testing.T, w, h int) *HeightField {
	t.Helper()
	hf, err := NewFromFunc(w, h, func(x, y int) float64 { return float64(x) })
	if err != nil {
		t.Fatalf("NewFromFunc: %v", err)
	}
	return hf
}

func TestFindIntersectionFlat(t *testing.T) {
	hf := flatField(t, 4, 4)
	down := mathutil.Vec3{0, 0, -1}
	start := mathutil.Vec3{1.5, 1.5, 10}
	want := mathutil.Vec3{1.5, 1.5, 0}

	perps := []mathutil.Vec3{
		{0, 1, 0},
		{0, -1, 0},
		{1, 0, 0},
		{-1, 0, 0},
		{1, 1, 0},
		{1, -1, 0},
	}
	for _, perp := range perps {
		got, ok := hf.FindIntersection(start, down, perp, mathutil.Mat4Identity())
		if !ok {
			t.Errorf("perp %v: no hit", perp)
			continue
		}
		if !got.ApproxEqual(want, 1e-9) {
			t.Errorf("perp %v: hit %v; want %v", perp, got, want)
		}
	}
}

func TestFindIntersectionCentred(t *testing.T) {
	hf := flatField(t, 4, 4)
	m := hf.CentreTransform()
	got, ok := hf.FindIntersection(mathutil.Vec3{-0.5, -0.5, 10}, mathutil.Vec3{0, 0, -1}, mathutil.Vec3{0, 1, 0}, m)
	if !ok {
		t.Fatal("no hit")
	}
	// object space
	if want := (mathutil.Vec3{1.5, 1.5, 0}); !got.ApproxEqual(want, 1e-9) {
		t.Fatalf("hit %v; want %v", got, want)
	}
}

func TestFindIntersectionOblique(t *testing.T) {
	hf := flatField(t, 4, 4)
	start := mathutil.Vec3{-3, 1.5, 5}
	dir := mathutil.Vec3{1, 0, -1}
	got, ok := hf.FindIntersection(start, dir, mathutil.Vec3{0, 1, 0}, mathutil.Mat4Identity())
	if !ok {
		t.Fatal("no hit")
	}
	if want := (mathutil.Vec3{2, 1.5, 0}); !got.ApproxEqual(want, 1e-9) {
		t.Fatalf("hit %v; want %v", got, want)
	}
}

func TestFindIntersectionRamp(t *testing.T) {
	hf := rampField(t, 5, 5)
	got, ok := hf.FindIntersection(mathutil.Vec3{2.25, 1.5, 10}, mathutil.Vec3{0, 0, -1}, mathutil.Vec3{0, 1, 0}, mathutil.Mat4Identity())
	if !ok {
		t.Fatal("no hit")
	}
	if want := (mathutil.Vec3{2.25, 1.5, 2.25}); !got.ApproxEqual(want, 1e-9) {
		t.Fatalf("hit %v; want %v", got, want)
	}
}

func TestFindIntersectionMiss(t *testing.T) {
	hf := flatField(t, 4, 4)
	id := mathutil.Mat4Identity()

	cases := []struct {
		name             string
		start, dir, perp mathutil.Vec3
	}{
		{"pointing up", mathutil.Vec3{1.5, 1.5, 10}, mathutil.Vec3{0, 0, 1}, mathutil.Vec3{0, 1, 0}},
		{"horizontal", mathutil.Vec3{-1, 1.5, 10}, mathutil.Vec3{1, 0, 0}, mathutil.Vec3{0, 1, 0}},
		{"plane off grid", mathutil.Vec3{1.5, 10, 10}, mathutil.Vec3{0, 0, -1}, mathutil.Vec3{0, 1, 0}},
		{"pointing away", mathutil.Vec3{-1, 1.5, 1}, mathutil.Vec3{-1, 0, -0.1}, mathutil.Vec3{0, 1, 0}},
	}
	for _, tc := range cases {
		if p, ok := hf.FindIntersection(tc.start, tc.dir, tc.perp, id); ok {
			t.Errorf("%s: unexpected hit at %v", tc.name, p)
		}
	}
}

func TestFindIntersectionDeterministic(t *testing.T) {
	hf := rampField(t, 8, 6)
	start := mathutil.Vec3{-2, 2.3, 12}
	dir := mathutil.Vec3{1, 0.2, -1.5}
	perp := dir.Cross(mathutil.ZAxis).Normalize()

	first, ok := hf.FindIntersection(start, dir, perp, mathutil.Mat4Identity())
	if !ok {
		t.Fatal("no hit")
	}
	for i := 0; i < 10; i++ {
		got, ok := hf.FindIntersection(start, dir, perp, mathutil.Mat4Identity())
		if !ok || got != first {
			t.Fatalf("run %d: %v,%v; want %v", i, got, ok, first)
		}
	}
	// the hit lies on the ray and on the surface z = x
	if d := first.DistanceToLine(start, dir); d > 1e-9 {
		t.Errorf("hit %v is %v off the ray", first, d)
	}
	if math.Abs(first[2]-first[0]) > 1e-9 {
		t.Errorf("hit %v not on z=x", first)
	}
}

func TestRayTriangle(t *testing.T) {
	v0 := mathutil.Vec3{0, 0, 0}
	v1 := mathutil.Vec3{2, 0, 0}
	v2 := mathutil.Vec3{0, 2, 0}

	p, param, ok := RayTriangle(mathutil.Vec3{0.5, 0.5, 3}, mathutil.Vec3{0, 0, -1}, v0, v1, v2)
	if !ok {
		t.Fatal("no hit")
	}
	if want := (mathutil.Vec3{0.5, 0.5, 0}); !p.ApproxEqual(want, 1e-12) {
		t.Errorf("point %v; want %v", p, want)
	}
	// |normal| = 4 for this triangle
	if math.Abs(param-0.75) > 1e-12 {
		t.Errorf("param %v; want 0.75", param)
	}

	if _, _, ok := RayTriangle(mathutil.Vec3{1.5, 1.5, 3}, mathutil.Vec3{0, 0, -1}, v0, v1, v2); ok {
		t.Error("hit outside the hypotenuse")
	}
	if _, _, ok := RayTriangle(mathutil.Vec3{0.5, 0.5, 3}, mathutil.Vec3{1, 0, 0}, v0, v1, v2); ok {
		t.Error("hit with a parallel ray")
	}
	if _, _, ok := RayTriangle(mathutil.Vec3{0.5, 0.5, -3}, mathutil.Vec3{0, 0, -1}, v0, v1, v2); ok {
		t.Error("hit behind the start")
	}
}

func TestNormals(t *testing.T) {
	flat := flatField(t, 3, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if n := flat.Normal(x, y); !n.ApproxEqual(mathutil.ZAxis, 1e-12) {
				t.Fatalf("flat normal (%d,%d)=%v", x, y, n)
			}
		}
	}

	ramp := rampField(t, 4, 4)
	want := mathutil.Vec3{-1, 0, 1}.Normalize()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if n := ramp.Normal(x, y); !n.ApproxEqual(want, 1e-12) {
				t.Fatalf("ramp normal (%d,%d)=%v; want %v", x, y, n, want)
			}
		}
	}
}

func TestConstructors(t *testing.T) {
	if _, err := NewFromFunc(1, 5, func(x, y int) float64 { return 0 }); err == nil {
		t.Error("1x5 grid accepted")
	}
	if _, err := NewFromHeights(2, 2, []float64{1, 2, 3}); err == nil {
		t.Error("short height slice accepted")
	}

	hf, err := NewFromHeights(2, 2, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("NewFromHeights: %v", err)
	}
	if got := hf.Point(1, 1); got != (mathutil.Vec3{1, 1, 4}) {
		t.Errorf("Point(1,1)=%v", got)
	}
	if lo, hi := hf.HeightRange(); lo != 1 || hi != 4 {
		t.Errorf("HeightRange=%v,%v", lo, hi)
	}
	if hf.HeightAt(5, 5) != 0 {
		t.Error("off-grid height not 0")
	}
	if hf.CellInBounds(1, 0) {
		t.Error("cell (1,0) reported in bounds on a 2x2 grid")
	}
}

func TestNewFromImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.SetGray(0, 0, color.Gray{Y: 255})

	hf, err := NewFromImage(img, DefaultMaxHeightFraction)
	if err != nil {
		t.Fatalf("NewFromImage: %v", err)
	}
	if hf.Width != 3 || hf.Height != 2 {
		t.Fatalf("size %dx%d", hf.Width, hf.Height)
	}
	// image row 0 is grid row Height-1
	if got := hf.HeightAt(0, 1); math.Abs(got-0.3) > 1e-9 {
		t.Errorf("HeightAt(0,1)=%v; want 0.3", got)
	}
	if got := hf.HeightAt(0, 0); got != 0 {
		t.Errorf("HeightAt(0,0)=%v; want 0", got)
	}
}

func TestCentreTransform(t *testing.T) {
	hf := flatField(t, 5, 4)
	got := hf.CentreTransform().MulPoint(mathutil.Vec3{2, 2, 0})
	if want := (mathutil.Vec3{0, 0, 0}); got != want {
		t.Fatalf("centre maps to %v; want %v", got, want)
	}
}
