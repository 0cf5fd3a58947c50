// Package raster is a small CPU renderer for scene previews: z-buffered,
// flat-shaded triangles with optional texture mapping.
package raster

import (
	"image"
	"math"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // depth per pixel, larger is nearer, initialized to -inf
}

// NewFrameBuffer allocates a transparent colour buffer and -inf z-buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	n := w * h
	zbuf := make([]float64, n)
	for i := range zbuf {
		zbuf[i] = math.Inf(-1)
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, n*4),
		ZBuf:   zbuf,
	}
}

// Fill sets every pixel to the given opaque background without touching
// the z-buffer.
func (fb *FrameBuffer) Fill(r, g, b uint8) {
	for i := 0; i < len(fb.Color); i += 4 {
		fb.Color[i], fb.Color[i+1], fb.Color[i+2], fb.Color[i+3] = r, g, b, 255
	}
}

// Image copies the colour buffer into a new NRGBA image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}
