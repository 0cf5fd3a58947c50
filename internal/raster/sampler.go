package raster

import (
	"image"
	"math"
)

// SampleTexture performs bilinear filtering. UVs outside [0,1] wrap; v=0
// is the bottom row of the image. Accesses tex.Pix directly for performance.
func SampleTexture(tex *image.NRGBA, u, v float64) (r, g, b, a uint8) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, 0, 0, 0
	}

	if u < 0 || u > 1 {
		u -= math.Floor(u)
	}
	if v < 0 || v > 1 {
		v -= math.Floor(v)
	}

	fx := u * float64(w-1)
	fy := (1 - v) * float64(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := min(x0+1, w-1)
	y1 := min(y0+1, h-1)
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	stride := tex.Stride
	pix := tex.Pix

	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	mix := func(c int) uint8 {
		f := float64(pix[i00+c])*w00 + float64(pix[i10+c])*w10 + float64(pix[i01+c])*w01 + float64(pix[i11+c])*w11
		return uint8(f + 0.5)
	}
	return mix(0), mix(1), mix(2), mix(3)
}
