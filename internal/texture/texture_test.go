package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/bmp"
)

func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	switch filepath.Ext(path) {
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		t.Fatal(err)
	}
}

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 60), uint8(y * 100), 7, 255})
		}
	}
	return img
}

func TestLoadPNGAndBMP(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"map.png", "map2.bmp"} {
		path := filepath.Join(dir, name)
		writeImage(t, path, testImage())

		img, err := Load(path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if img.Bounds() != image.Rect(0, 0, 4, 3) {
			t.Fatalf("%s: bounds %v", name, img.Bounds())
		}
		if got := img.NRGBAAt(3, 2); got != (color.NRGBA{180, 200, 7, 255}) {
			t.Errorf("%s: pixel (3,2)=%v", name, got)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("missing file loaded")
	}
	bad := filepath.Join(dir, "bad.png")
	os.WriteFile(bad, []byte("not a png"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("garbage decoded")
	}
	odd := filepath.Join(dir, "x.xyz")
	os.WriteFile(odd, []byte{0}, 0o644)
	if _, err := Load(odd); err == nil {
		t.Error("unknown extension accepted")
	}
}

func TestToNRGBAGray(t *testing.T) {
	g := image.NewGray(image.Rect(2, 2, 4, 4))
	g.SetGray(3, 3, color.Gray{Y: 90})
	n := ToNRGBA(g)
	if n.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds %v", n.Bounds())
	}
	if got := n.NRGBAAt(1, 1); got != (color.NRGBA{90, 90, 90, 255}) {
		t.Errorf("pixel=%v", got)
	}
	if got := Texel(n, 10, -4); got != n.NRGBAAt(1, 0) {
		t.Errorf("clamped texel=%v", got)
	}
}

func TestIndexPrefersPNG(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "maps")
	os.MkdirAll(sub, 0o755)
	writeImage(t, filepath.Join(sub, "Ground.bmp"), testImage())
	writeImage(t, filepath.Join(sub, "Ground.png"), testImage())
	os.WriteFile(filepath.Join(sub, "notes.txt"), []byte("x"), 0o644)

	idx := BuildIndex(dir)
	if idx.Len() != 1 {
		t.Fatalf("Len=%d; want 1", idx.Len())
	}
	path, ok := idx.ResolvePath(`textures\ground.jpg`)
	if !ok || filepath.Ext(path) != ".png" {
		t.Fatalf("ResolvePath=%q,%v", path, ok)
	}
}

func TestCacheLoad(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "terrain.png"), testImage())
	os.MkdirAll(filepath.Join(dir, "tex"), 0o755)
	writeImage(t, filepath.Join(dir, "tex", "grass.png"), testImage())

	c := NewCache(dir, BuildIndex(dir))

	var wg sync.WaitGroup
	imgs := make([]*image.NRGBA, 8)
	for i := range imgs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			imgs[i], _ = c.Load("terrain.png")
		}(i)
	}
	wg.Wait()
	if imgs[0] == nil {
		t.Fatal("terrain.png not resolved")
	}
	// every caller sees the cached image after the first store
	a, _ := c.Load("terrain.png")
	b, _ := c.Load("terrain.png")
	if a != b || a != imgs[0] {
		t.Error("cache returned different images")
	}

	if img, err := c.Load("grass"); err != nil || img == nil {
		t.Error("index fallback failed")
	}
	if _, err := c.Load("nothing.png"); err == nil {
		t.Error("missing texture resolved")
	}
}

func TestSmooth(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			v := uint8(0)
			if x >= 8 {
				v = 200
			}
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}

	if Smooth(img, 0) != img {
		t.Error("radius 0 should return the input")
	}

	out := Smooth(img, 2)
	if out.Bounds() != img.Bounds() {
		t.Fatalf("bounds %v; want %v", out.Bounds(), img.Bounds())
	}
	if r := out.NRGBAAt(7, 8).R; r == 0 || r >= 200 {
		t.Errorf("step edge not softened: r=%d", r)
	}
	if r := out.NRGBAAt(1, 8).R; r > 2 {
		t.Errorf("flat dark region changed: r=%d", r)
	}
}
