package batch

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"coaster-viewer/internal/mathutil"
	"coaster-viewer/internal/scene"
	"coaster-viewer/internal/terrain"

	"golang.org/x/image/webp"
)

func testScene(t *testing.T) *scene.Scene {
	t.Helper()
	hf, err := terrain.NewFromFunc(16, 16, func(x, y int) float64 { return float64(x+y) / 4 })
	if err != nil {
		t.Fatal(err)
	}
	s := scene.New(hf, 64, 48)
	for _, p := range []mathutil.Vec3{{3, 3, 1.5}, {12, 4, 4}, {8, 12, 5}} {
		s.Posts.AddPointWithHeight(p, 10)
	}
	return s
}

func TestPlanFlyThrough(t *testing.T) {
	s := testScene(t)
	frames, err := PlanFlyThrough(s, 4, 32, 24)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 4 {
		t.Fatalf("got %d frames; want 4", len(frames))
	}

	total := s.Track.TotalArcLength()
	for i, f := range frames {
		want := total * float64(i) / 4
		if f.Index != i || math.Abs(f.ArcLength-want) > 1e-9 {
			t.Errorf("frame %d: index %d arc %.3f; want arc %.3f", i, f.Index, f.ArcLength, want)
		}
		if f.Camera.Width != 32 || f.Camera.Height != 24 {
			t.Errorf("frame %d: size %dx%d", i, f.Camera.Width, f.Camera.Height)
		}
	}

	// first frame rides above the first post top
	top := s.ObjectTransform().MulPoint(s.Posts.Points()[0])
	eye := frames[0].Camera.Eye()
	if d := eye.Sub(top).Len(); math.Abs(d-rideLift) > 1e-6 {
		t.Errorf("eye %.3f from the rail; want %.1f", d, rideLift)
	}
	if eye[2] <= top[2] {
		t.Errorf("eye z %.3f not above rail z %.3f", eye[2], top[2])
	}
}

func TestPlanFlyThroughErrors(t *testing.T) {
	s := testScene(t)
	if _, err := PlanFlyThrough(s, 0, 32, 24); err == nil {
		t.Error("zero frames accepted")
	}

	hf, _ := terrain.NewFromFunc(4, 4, func(x, y int) float64 { return 0 })
	empty := scene.New(hf, 64, 48)
	if _, err := PlanFlyThrough(empty, 4, 32, 24); !errors.Is(err, ErrNoTrack) {
		t.Errorf("err = %v; want ErrNoTrack", err)
	}
}

func TestFlyThroughGeometryRestoresOptions(t *testing.T) {
	s := testScene(t)
	s.Options.DrawCoaster = true
	g := FlyThroughGeometry(s)
	if !s.Options.DrawCoaster {
		t.Error("options not restored")
	}
	// terrain, posts, curve
	if len(g.Meshes) != 3 {
		t.Errorf("got %d meshes; want 3", len(g.Meshes))
	}
}

func TestRun(t *testing.T) {
	s := testScene(t)
	frames, err := PlanFlyThrough(s, 3, 32, 24)
	if err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()
	cfg := Config{OutputDir: out, Width: 16, Height: 12, Sharpen: true, Workers: 2}

	results := Run(context.Background(), cfg, FlyThroughGeometry(s), frames)
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if !r.Success {
			t.Fatalf("frame %d failed: %s", i, r.Error)
		}
		if r.Index != i || r.Image != FrameName(i) {
			t.Errorf("result %d = %+v", i, r)
		}

		f, err := os.Open(filepath.Join(out, r.Image))
		if err != nil {
			t.Fatal(err)
		}
		cfgImg, err := webp.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if cfgImg.Width != 16 || cfgImg.Height != 12 {
			t.Errorf("frame %d is %dx%d; want 16x12", i, cfgImg.Width, cfgImg.Height)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	s := testScene(t)
	frames, _ := PlanFlyThrough(s, 2, 16, 12)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := t.TempDir()
	results := Run(ctx, Config{OutputDir: out, Workers: 1}, FlyThroughGeometry(s), frames)
	for i, r := range results {
		if r.Success || r.Error == "" {
			t.Errorf("frame %d ran after cancel: %+v", i, r)
		}
	}
	if _, err := os.Stat(filepath.Join(out, FrameName(0))); !os.IsNotExist(err) {
		t.Error("frame written after cancel")
	}
}

func TestWriteManifest(t *testing.T) {
	results := []Result{
		{Index: 0, ArcLength: 0, Image: FrameName(0), Success: true},
		{Index: 1, ArcLength: 12.5, Error: "boom"},
	}
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := WriteManifest(path, NewManifest("park/scene.txt", 25, "Catmull-Rom", results)); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m.Scene != "park/scene.txt" || m.TrackLength != 25 || m.Basis != "Catmull-Rom" {
		t.Errorf("header %+v", m)
	}
	if len(m.Frames) != 2 || m.Frames[0].Image != "frame_0000.webp" || m.Frames[1].Error != "boom" {
		t.Errorf("frames %+v", m.Frames)
	}
}
