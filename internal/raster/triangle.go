package raster

import (
	"image"
	"image/color"
	"math"
)

// RasterizeTriangle fills screen-space triangle vi with z-buffering and a
// single lighting scalar. px, py are pixel coordinates and pz depth
// (larger is nearer). With tex set and UVs for all three vertices the
// texture is sampled per pixel, otherwise base is used.
//
// This is the hot path: no allocations in the pixel loop.
func RasterizeTriangle(
	fb *FrameBuffer,
	px, py, pz []float64,
	uvs [][2]float32,
	vi [3]int,
	tex *image.NRGBA,
	base color.NRGBA,
	shade float64,
	lc *LightConfig,
) {
	nv := len(px)
	for _, i := range vi {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := px[vi[0]], py[vi[0]], pz[vi[0]]
	x1, y1, z1 := px[vi[1]], py[vi[1]], pz[vi[1]]
	x2, y2, z2 := px[vi[2]], py[vi[2]], pz[vi[2]]

	hasUV := tex != nil
	for _, i := range vi {
		if i >= len(uvs) {
			hasUV = false
			break
		}
	}
	var u0, v0uv, u1, v1uv, u2, v2uv float64
	if hasUV {
		u0, v0uv = float64(uvs[vi[0]][0]), float64(uvs[vi[0]][1])
		u1, v1uv = float64(uvs[vi[1]][0]), float64(uvs[vi[1]][1])
		u2, v2uv = float64(uvs[vi[2]][0]), float64(uvs[vi[2]][1])
	}

	// flat colour is lit once
	var flatR, flatG, flatB uint8
	if !hasUV {
		flatR, flatG, flatB = lc.shadeColour(base.R, base.G, base.B, shade)
	}

	// Bounding box
	minX := max(int(math.Floor(math.Min(math.Min(x0, x1), x2))), 0)
	maxX := min(int(math.Ceil(math.Max(math.Max(x0, x1), x2))), fb.Width-1)
	minY := max(int(math.Floor(math.Min(math.Min(y0, y1), y2))), 0)
	maxY := min(int(math.Ceil(math.Max(math.Max(y0, y1), y2))), fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			cr, cg, cb, ca := flatR, flatG, flatB, base.A
			if hasUV {
				u := w0*u0 + w1*u1 + w2*u2
				v := w0*v0uv + w1*v1uv + w2*v2uv
				var tr, tg, tb uint8
				tr, tg, tb, ca = SampleTexture(tex, u, v)
				cr, cg, cb = lc.shadeColour(tr, tg, tb, shade)
			}

			// Skip transparent texels
			if ca < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = cr
			fb.Color[pxIdx+1] = cg
			fb.Color[pxIdx+2] = cb
			fb.Color[pxIdx+3] = 255
		}
	}
}
