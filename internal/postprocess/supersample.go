// Package postprocess holds image passes applied to rendered frames before
// they are encoded.
package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample reduces img to width×height with premultiplied-alpha-aware
// CatmullRom filtering, avoiding dark fringes where coverage is partial.
// Images already no larger than the target are returned unchanged.
func Downsample(img *image.NRGBA, width, height int) *image.NRGBA {
	b := img.Bounds()
	if width <= 0 || height <= 0 || (b.Dx() <= width && b.Dy() <= height) {
		return img
	}

	premul := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := premul.PixOffset(x, y)
			a := float64(img.Pix[si+3]) / 255.0
			premul.Pix[di] = uint8(float64(img.Pix[si])*a + 0.5)
			premul.Pix[di+1] = uint8(float64(img.Pix[si+1])*a + 0.5)
			premul.Pix[di+2] = uint8(float64(img.Pix[si+2])*a + 0.5)
			premul.Pix[di+3] = img.Pix[si+3]
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	return unpremultiply(dst)
}

func unpremultiply(src *image.RGBA) *image.NRGBA {
	b := src.Bounds()
	result := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := src.PixOffset(x, y)
			di := result.PixOffset(x, y)
			a := float64(src.Pix[si+3])
			if a > 1 {
				inv := 255.0 / a
				result.Pix[di] = clamp8(float64(src.Pix[si]) * inv)
				result.Pix[di+1] = clamp8(float64(src.Pix[si+1]) * inv)
				result.Pix[di+2] = clamp8(float64(src.Pix[si+2]) * inv)
			}
			result.Pix[di+3] = src.Pix[si+3]
		}
	}
	return result
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
