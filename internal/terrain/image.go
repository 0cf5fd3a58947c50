package terrain

import (
	"image"
	"image/color"
)

// DefaultMaxHeightFraction caps terrain height at 10% of the grid width.
const DefaultMaxHeightFraction = 0.1

// NewFromImage reads heights from image luminance: black is 0 and white is
// maxHeightFraction*width. Image row 0 is the far (largest y) edge of the
// grid so the map reads upright when viewed from above.
func NewFromImage(img image.Image, maxHeightFraction float64) (*HeightField, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	scale := maxHeightFraction * float64(w)

	return NewFromFunc(w, h, func(x, y int) float64 {
		c := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Max.Y-1-y)).(color.Gray16)
		return float64(c.Y) / 0xffff * scale
	})
}
