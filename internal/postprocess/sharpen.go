package postprocess

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"golang.org/x/image/draw"
)

// Sharpen restores edge contrast lost in Downsample. Only opaque frames
// should be passed; bild works on premultiplied RGBA.
func Sharpen(img *image.NRGBA) *image.NRGBA {
	out := effect.Sharpen(img)
	result := image.NewNRGBA(image.Rect(0, 0, out.Bounds().Dx(), out.Bounds().Dy()))
	draw.Draw(result, result.Bounds(), out, out.Bounds().Min, draw.Src)
	return result
}
