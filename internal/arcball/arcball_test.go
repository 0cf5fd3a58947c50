package arcball

import (
	"math"
	"testing"

	"coaster-viewer/internal/mathutil"
)

const eps = 1e-9

func newTestBall() *Arcball {
	return NewLookAt(800, 600,
		mathutil.Vec3{0, -200, 150},
		mathutil.Vec3{0, 0, 0},
		mathutil.ZAxis)
}

func TestSetInitialView(t *testing.T) {
	a := newTestBall()
	want := math.Hypot(200, 150)
	if math.Abs(a.DistToCentre-want) > eps {
		t.Fatalf("DistToCentre=%v; want %v", a.DistToCentre, want)
	}
	if got := a.EyePosition(); !got.ApproxEqual(mathutil.Vec3{0, -200, 150}, 1e-9) {
		t.Fatalf("EyePosition=%v", got)
	}
	dir := a.ViewDirection()
	wantDir := mathutil.Vec3{0, 200, -150}.Normalize()
	if !dir.ApproxEqual(wantDir, 1e-12) {
		t.Fatalf("ViewDirection=%v; want %v", dir, wantDir)
	}
	if up := a.UpDirection(); up[2] <= 0 {
		t.Fatalf("UpDirection=%v; want positive z", up)
	}
	if got := a.LookAtPoint(); !got.ApproxEqual(mathutil.Vec3{}, 1e-9) {
		t.Fatalf("LookAtPoint=%v; want origin", got)
	}
}

func TestOrthonormalAfterInteraction(t *testing.T) {
	a := newTestBall()
	steps := []func(){
		func() { a.Press(0, 400, 300) },
		func() { a.Drag(450, 320) },
		func() { a.Drag(600, 100) },
		func() { a.Release() },
		func() { a.Scroll(1) },
		func() { a.Press(0, 10, 10) }, // corner: z rotation
		func() { a.Drag(790, 20) },
		func() { a.Release() },
		func() { a.Scroll(-1) },
		func() { a.Press(1, 200, 500) },
		func() { a.Drag(300, 250) },
		func() { a.Release() },
	}
	for i, step := range steps {
		step()
		if !a.V.Mat3().IsOrthonormal(1e-9) {
			t.Fatalf("step %d: V not orthonormal: %v", i, a.V)
		}
		if r := a.V; r[12] != 0 || r[13] != 0 || r[14] != 0 || r[15] != 1 {
			t.Fatalf("step %d: bottom row changed: %v", i, a.V)
		}
	}
}

func TestZoomInvariant(t *testing.T) {
	a := newTestBall()
	d0 := a.DistToCentre
	e0 := a.EyePosition()
	for i := 0; i < 7; i++ {
		a.Scroll(-1)
	}
	if a.DistToCentre >= d0 {
		t.Fatalf("scroll in did not reduce distance: %v", a.DistToCentre)
	}
	for i := 0; i < 7; i++ {
		a.Scroll(1)
	}
	if math.Abs(a.DistToCentre-d0) > 1e-9 {
		t.Fatalf("DistToCentre=%v; want %v", a.DistToCentre, d0)
	}
	if got := a.EyePosition(); !got.ApproxEqual(e0, 1e-8) {
		t.Fatalf("EyePosition=%v; want %v", got, e0)
	}
}

func TestScrollKeepsCentre(t *testing.T) {
	a := newTestBall()
	a.Scroll(-1)
	if got := a.LookAtPoint(); !got.ApproxEqual(mathutil.Vec3{}, 1e-9) {
		t.Fatalf("LookAtPoint=%v; want origin", got)
	}
}

func TestDragRotatesAboutCentre(t *testing.T) {
	a := newTestBall()
	d := a.DistToCentre
	a.Press(0, 400, 300)
	a.Drag(500, 250)
	if got := a.LookAtPoint(); !got.ApproxEqual(mathutil.Vec3{}, 1e-9) {
		t.Fatalf("LookAtPoint=%v; want origin", got)
	}
	if got := a.EyePosition().Len(); math.Abs(got-d) > 1e-9 {
		t.Fatalf("eye distance=%v; want %v", got, d)
	}
	if a.V == a.initV {
		t.Fatalf("drag did not change V")
	}
}

func TestDragReadsPressSnapshot(t *testing.T) {
	a := newTestBall()
	a.Press(0, 400, 300)
	a.Drag(500, 250)
	first := a.V
	a.Drag(450, 280)
	a.Drag(500, 250)
	if !a.V.ApproxEqual(first, 1e-12) {
		t.Fatalf("same pointer position gave different V")
	}
}

func TestZRotationMode(t *testing.T) {
	a := newTestBall()
	dir0 := a.ViewDirection()
	// (800,300) normalizes to (1,0); (400,0) to (0,1)
	a.Press(0, 800, 300)
	if !a.doingZRotation {
		t.Fatalf("edge press did not select z rotation")
	}
	a.Drag(400, 0)
	if got := a.ViewDirection(); !got.ApproxEqual(dir0, 1e-12) {
		t.Fatalf("z rotation changed view direction: %v", got)
	}
	want := mathutil.Mat4Mul(mathutil.Rotate(math.Pi/2, mathutil.ZAxis), a.initV)
	if !a.V.ApproxEqual(want, 1e-12) {
		t.Fatalf("V=%v; want %v", a.V, want)
	}
}

func TestDragWithoutPress(t *testing.T) {
	a := newTestBall()
	v := a.V
	a.Drag(10, 10)
	if a.V != v {
		t.Fatalf("drag without press changed V")
	}
}

func TestRotationOnly(t *testing.T) {
	a := newTestBall()
	r := a.RotationOnly()
	if r.Translation() != (mathutil.Vec3{}) {
		t.Fatalf("translation=%v; want zero", r.Translation())
	}
	if r.Mat3() != a.V.Mat3() {
		t.Fatalf("rotation part changed")
	}
}

func TestCentre(t *testing.T) {
	a := newTestBall()
	a.Centre()
	if a.DistToCentre != 0 || !a.V.IsIdentity() {
		t.Fatalf("Centre: dist=%v V=%v", a.DistToCentre, a.V)
	}
}
