// Package texture decodes height-field and colour-map images and caches
// them by name.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Extensions lists the file types Load understands, in resolution
// priority order for Index.
var Extensions = []string{".png", ".tga", ".bmp", ".tif", ".tiff", ".jpg", ".jpeg", ".webp"}

// Load reads an image file and returns it as NRGBA.
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tga":
		// TGA has no magic number, so image.Decode can't sniff it
		img, err = tga.Decode(bytes.NewReader(raw))
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		img, _, err = image.Decode(bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("texture: unknown extension: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}

	return ToNRGBA(img), nil
}

// ToNRGBA converts any image to NRGBA with its bounds moved to the origin.
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch src.(type) {
	case *image.YCbCr, *image.Gray, *image.Gray16:
		// opaque sources: draw then force alpha
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 255
		}
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				dst.SetNRGBA(x, y, c)
			}
		}
	}
	return dst
}

// Texel returns the colour at (x, y) with coordinates clamped to the image.
func Texel(img *image.NRGBA, x, y int) color.NRGBA {
	b := img.Bounds()
	x = min(max(x, b.Min.X), b.Max.X-1)
	y = min(max(y, b.Min.Y), b.Max.Y-1)
	return img.NRGBAAt(x, y)
}
