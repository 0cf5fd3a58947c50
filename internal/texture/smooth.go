package texture

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
)

// Smooth applies a Gaussian blur of the given radius, used to soften
// stair-stepping in 8-bit height maps. A radius <= 0 returns img as is.
func Smooth(img *image.NRGBA, radius float64) *image.NRGBA {
	if radius <= 0 {
		return img
	}
	return ToNRGBA(blur.Gaussian(img, radius))
}
