package postprocess

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDownsample(t *testing.T) {
	c := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	tests := []struct {
		name         string
		w, h         int
		tw, th       int
		wantW, wantH int
	}{
		{"halve", 64, 48, 32, 24, 32, 24},
		{"already small", 16, 12, 32, 24, 16, 12},
		{"zero target", 16, 12, 0, 0, 16, 12},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := Downsample(solid(tc.w, tc.h, c), tc.tw, tc.th)
			if out.Bounds().Dx() != tc.wantW || out.Bounds().Dy() != tc.wantH {
				t.Fatalf("size %v; want %dx%d", out.Bounds(), tc.wantW, tc.wantH)
			}
			got := out.NRGBAAt(out.Bounds().Dx()/2, out.Bounds().Dy()/2)
			if absDiff(got.R, c.R) > 2 || absDiff(got.G, c.G) > 2 || absDiff(got.B, c.B) > 2 || got.A != 255 {
				t.Errorf("centre %v; want about %v", got, c)
			}
		})
	}
}

func TestDownsampleTransparentEdges(t *testing.T) {
	img := solid(8, 8, color.NRGBA{})
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	out := Downsample(img, 4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			p := out.NRGBAAt(x, y)
			// colour is never darkened by the transparent half
			if p.A > 16 && p.R < 240 {
				t.Errorf("pixel (%d,%d) = %v; red darkened", x, y, p)
			}
		}
	}
}

func TestSharpenKeepsFlat(t *testing.T) {
	c := color.NRGBA{R: 90, G: 120, B: 30, A: 255}
	out := Sharpen(solid(10, 10, c))
	if out.Bounds().Dx() != 10 || out.Bounds().Dy() != 10 {
		t.Fatalf("size %v", out.Bounds())
	}
	got := out.NRGBAAt(5, 5)
	if absDiff(got.R, c.R) > 1 || absDiff(got.G, c.G) > 1 || absDiff(got.B, c.B) > 1 {
		t.Errorf("flat region changed: %v; want %v", got, c)
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
