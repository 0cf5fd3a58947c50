package spline

import (
	"math"
	"testing"

	"coaster-viewer/internal/mathutil"
)

func square() []mathutil.Vec3 {
	return []mathutil.Vec3{{0, 0, 0}, {10, 0, 0}, {10, 10, 0}, {0, 10, 0}}
}

func track() []mathutil.Vec3 {
	return []mathutil.Vec3{
		{0, 0, 30}, {40, -5, 45}, {70, 20, 38}, {60, 60, 55},
		{20, 70, 31}, {-15, 40, 42},
	}
}

func TestLinearSquare(t *testing.T) {
	s := New(Linear, square()...)
	if got := s.Value(0); got != (mathutil.Vec3{0, 0, 0}) {
		t.Fatalf("Value(0)=%v", got)
	}
	if got := s.Value(1); got != (mathutil.Vec3{10, 0, 0}) {
		t.Fatalf("Value(1)=%v", got)
	}
	if got := s.Value(2.5); !got.ApproxEqual(mathutil.Vec3{5, 10, 0}, 1e-12) {
		t.Fatalf("Value(2.5)=%v", got)
	}
	if got := s.TotalArcLength(); math.Abs(got-40) > 1e-9 {
		t.Fatalf("TotalArcLength=%v; want 40", got)
	}
	if got := s.Tangent(0.5); !got.ApproxEqual(mathutil.Vec3{10, 0, 0}, 1e-12) {
		t.Fatalf("Tangent(0.5)=%v", got)
	}
	if got := s.ParamAtArcLength(15); math.Abs(got-1.5) > 1e-12 {
		t.Fatalf("ParamAtArcLength(15)=%v; want 1.5", got)
	}
}

func TestArcLengthTableMonotonic(t *testing.T) {
	for b := Basis(0); b < numBases; b++ {
		s := New(b, track()...)
		table := s.Lengths()
		if len(table) != s.Len()*DivsPerSeg+1 {
			t.Fatalf("%v: table len=%d", b, len(table))
		}
		if table[0] != 0 {
			t.Fatalf("%v: table[0]=%v", b, table[0])
		}
		for i := 1; i < len(table); i++ {
			if table[i] < table[i-1] {
				t.Fatalf("%v: table[%d]=%v < table[%d]=%v", b, i, table[i], i-1, table[i-1])
			}
		}
	}
}

// walkPolyline finds the point at arc length s along the sampled polyline
// the table was built from.
func walkPolyline(sp *Spline, s float64) mathutil.Vec3 {
	table := sp.Lengths()
	for k := 0; k+1 < len(table); k++ {
		if table[k] <= s && s < table[k+1] {
			a := sp.Value(float64(k) / DivsPerSeg)
			b := sp.Value(float64(k+1) / DivsPerSeg)
			return a.Lerp(b, (s-table[k])/(table[k+1]-table[k]))
		}
	}
	return sp.Value(0)
}

func TestParamAtArcLengthRoundTrip(t *testing.T) {
	for b := Basis(0); b < numBases; b++ {
		sp := New(b, track()...)
		total := sp.TotalArcLength()
		for i := 0; i < 97; i++ {
			s := total * float64(i) / 97
			got := sp.Value(sp.ParamAtArcLength(s))
			want := walkPolyline(sp, s)
			if d := got.Sub(want).Len(); d > 0.5 {
				t.Fatalf("%v: s=%v: curve %v vs polyline %v (d=%v)", b, s, got, want, d)
			}
		}
	}
}

func TestParamAtArcLengthWraps(t *testing.T) {
	sp := New(CatmullRom, track()...)
	total := sp.TotalArcLength()
	for _, s := range []float64{3, 50, 120} {
		want := sp.ParamAtArcLength(s)
		if got := sp.ParamAtArcLength(s - total); math.Abs(got-want) > 1e-9 {
			t.Errorf("negative s=%v: %v; want %v", s-total, got, want)
		}
		if got := sp.ParamAtArcLength(s + total); math.Abs(got-want) > 1e-9 {
			t.Errorf("s=%v beyond total: %v; want %v", s+total, got, want)
		}
	}
	if got := sp.ParamAtArcLength(0); got != 0 {
		t.Fatalf("ParamAtArcLength(0)=%v; want 0", got)
	}
}

func TestCyclicWrap(t *testing.T) {
	for b := Basis(0); b < numBases; b++ {
		sp := New(b, track()...)
		n := float64(sp.Len())
		for _, tt := range []float64{0, 0.25, 1, 2.7, 5.99} {
			for _, kind := range []EvalKind{EvalValue, EvalTangent} {
				a := sp.Eval(tt, kind)
				if got := sp.Eval(tt+n, kind); !got.ApproxEqual(a, 1e-9) {
					t.Errorf("%v: Eval(%v+n)=%v; want %v", b, tt, got, a)
				}
				if got := sp.Eval(tt-n, kind); !got.ApproxEqual(a, 1e-9) {
					t.Errorf("%v: Eval(%v-n)=%v; want %v", b, tt, got, a)
				}
			}
		}
	}
}

func TestCatmullRomInterpolates(t *testing.T) {
	pts := track()
	sp := New(CatmullRom, pts...)
	for i, p := range pts {
		if got := sp.Value(float64(i)); !got.ApproxEqual(p, 1e-9) {
			t.Errorf("Value(%d)=%v; want %v", i, got, p)
		}
	}
}

func TestBSplineBlends(t *testing.T) {
	pts := track()
	sp := New(BSpline, pts...)
	// uniform B-spline at a knot: (q[i-1] + 4q[i] + q[i+1]) / 6
	want := pts[5].Add(pts[0].Scale(4)).Add(pts[1]).Scale(1.0 / 6)
	if got := sp.Value(0); !got.ApproxEqual(want, 1e-9) {
		t.Fatalf("Value(0)=%v; want %v", got, want)
	}
}

func TestMutationsInvalidate(t *testing.T) {
	sp := New(Linear, square()...)
	if got := sp.TotalArcLength(); math.Abs(got-40) > 1e-9 {
		t.Fatalf("total=%v", got)
	}
	sp.Set(2, mathutil.Vec3{10, 20, 0})
	want := 10 + 20 + 10 + math.Hypot(10, 10)
	if got := sp.TotalArcLength(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("after Set total=%v; want %v", got, want)
	}
	sp.Remove(2)
	if got := sp.TotalArcLength(); math.Abs(got-(10+math.Hypot(10, 10)+10)) > 1e-9 {
		t.Fatalf("after Remove total=%v", got)
	}
	sp.Insert(1, mathutil.Vec3{5, -5, 0})
	if sp.Len() != 4 || sp.Point(1) != (mathutil.Vec3{5, -5, 0}) {
		t.Fatalf("Insert: %v", sp.Points())
	}
	if got := len(sp.Lengths()); got != 4*DivsPerSeg+1 {
		t.Fatalf("table len=%d", got)
	}
	sp.Clear()
	if got := sp.TotalArcLength(); got != 0 {
		t.Fatalf("empty total=%v", got)
	}
}

func TestMaxHeight(t *testing.T) {
	sp := New(Linear, track()...)
	if got := sp.MaxHeight(); got != 55 {
		t.Fatalf("MaxHeight=%v; want 55", got)
	}
	sp.Append(mathutil.Vec3{0, 0, 80})
	if got := sp.MaxHeight(); got != 80 {
		t.Fatalf("MaxHeight after Append=%v; want 80", got)
	}
}

func TestLocalFrameOrthonormal(t *testing.T) {
	sp := New(CatmullRom, track()...)
	for _, tt := range []float64{0, 0.4, 1.5, 3.3, 5.8} {
		f := sp.LocalFrame(tt)
		m := f.Transform().Mat3()
		if !m.IsOrthonormal(1e-9) {
			t.Fatalf("t=%v: frame not orthonormal: %+v", tt, f)
		}
		if f.Y[2] < 0 {
			t.Fatalf("t=%v: Y points down: %v", tt, f.Y)
		}
		if f.O != sp.Value(tt) {
			t.Fatalf("t=%v: origin=%v", tt, f.O)
		}
	}
}

func TestEvenArcLengthParams(t *testing.T) {
	sp := New(Linear, square()...)
	params := sp.EvenArcLengthParams(8)
	want := []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5}
	for i := range want {
		if math.Abs(params[i]-want[i]) > 1e-9 {
			t.Fatalf("params=%v; want %v", params, want)
		}
	}
	if got := len(sp.ParamSamples(DivsPerSeg)); got != 4*DivsPerSeg {
		t.Fatalf("ParamSamples len=%d", got)
	}
}

func TestParseBasis(t *testing.T) {
	tcs := []struct {
		in   string
		want Basis
		ok   bool
	}{
		{"linear", Linear, true},
		{"Catmull-Rom", CatmullRom, true},
		{"catmullrom", CatmullRom, true},
		{"B-spline", BSpline, true},
		{"bspline", BSpline, true},
		{"bezier", Linear, false},
	}
	for _, tc := range tcs {
		got, err := ParseBasis(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Errorf("ParseBasis(%q)=%v,%v; want %v ok=%v", tc.in, got, err, tc.want, tc.ok)
		}
	}
	if BSpline.Next() != Linear {
		t.Fatalf("Next did not cycle")
	}
}

func TestEmptySpline(t *testing.T) {
	var sp Spline
	if got := sp.Value(1.3); got != (mathutil.Vec3{}) {
		t.Fatalf("empty Value=%v", got)
	}
	if got := sp.ParamAtArcLength(5); got != 0 {
		t.Fatalf("empty ParamAtArcLength=%v", got)
	}
}
