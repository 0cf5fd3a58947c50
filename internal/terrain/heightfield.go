// Package terrain holds the height-field surface and resolves rays
// against it.
//
// Sample (x, y) of a HeightField lies at (x, y, h) in the terrain's object
// space, so grid indices and object-space x, y coincide. Each cell
// (x,y)-(x+1,y+1) is split along its lr-ul diagonal into the triangles
// (ll, lr, ul) and (ul, lr, ur).
package terrain

import (
	"fmt"

	"coaster-viewer/internal/mathutil"
)

// HeightField is an immutable grid of surface samples and vertex normals,
// stored densely at x + y*Width. Safe for concurrent reads.
type HeightField struct {
	Width, Height int

	points  []mathutil.Vec3
	normals []mathutil.Vec3
}

// fan offsets around a sample, counter-clockwise seen from above
var fanOffsets = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// NewFromFunc samples height(x, y) on a width×height grid.
func NewFromFunc(width, height int, h func(x, y int) float64) (*HeightField, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("terrain: grid %dx%d too small, need at least 2x2", width, height)
	}

	hf := &HeightField{
		Width:   width,
		Height:  height,
		points:  make([]mathutil.Vec3, width*height),
		normals: make([]mathutil.Vec3, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			hf.points[hf.index(x, y)] = mathutil.Vec3{float64(x), float64(y), h(x, y)}
		}
	}
	hf.computeNormals()
	return hf, nil
}

// NewFromHeights builds a grid from row-major heights (index x + y*width).
func NewFromHeights(width, height int, heights []float64) (*HeightField, error) {
	if len(heights) != width*height {
		return nil, fmt.Errorf("terrain: %d heights for a %dx%d grid", len(heights), width, height)
	}
	return NewFromFunc(width, height, func(x, y int) float64 {
		return heights[x+y*width]
	})
}

// computeNormals averages the face normals of the eight triangles fanned
// around each sample, skipping any whose corners fall off the grid.
func (hf *HeightField) computeNormals() {
	for y := 0; y < hf.Height; y++ {
		for x := 0; x < hf.Width; x++ {
			c := hf.points[hf.index(x, y)]

			var sum mathutil.Vec3
			count := 0
			for i := 0; i < 8; i++ {
				cwx, cwy := x+fanOffsets[i][0], y+fanOffsets[i][1]
				ccwx, ccwy := x+fanOffsets[(i+1)%8][0], y+fanOffsets[(i+1)%8][1]
				if !hf.InBounds(cwx, cwy) || !hf.InBounds(ccwx, ccwy) {
					continue
				}
				cw := hf.points[hf.index(cwx, cwy)]
				ccw := hf.points[hf.index(ccwx, ccwy)]
				sum = sum.Add(cw.Sub(c).Cross(ccw.Sub(c)).Normalize())
				count++
			}
			if count > 0 {
				sum = sum.Scale(1 / float64(count))
			}
			hf.normals[hf.index(x, y)] = sum
		}
	}
}

func (hf *HeightField) index(x, y int) int {
	return x + y*hf.Width
}

// InBounds reports whether (x, y) is a valid sample index.
func (hf *HeightField) InBounds(x, y int) bool {
	return x >= 0 && x < hf.Width && y >= 0 && y < hf.Height
}

// Point returns sample (x, y). It panics when (x, y) is off the grid.
func (hf *HeightField) Point(x, y int) mathutil.Vec3 {
	if !hf.InBounds(x, y) {
		panic(fmt.Sprintf("terrain: point (%d,%d) outside %dx%d grid", x, y, hf.Width, hf.Height))
	}
	return hf.points[hf.index(x, y)]
}

// Normal returns the averaged vertex normal at (x, y). It panics when
// (x, y) is off the grid.
func (hf *HeightField) Normal(x, y int) mathutil.Vec3 {
	if !hf.InBounds(x, y) {
		panic(fmt.Sprintf("terrain: normal (%d,%d) outside %dx%d grid", x, y, hf.Width, hf.Height))
	}
	return hf.normals[hf.index(x, y)]
}

// HeightAt returns the sample height at (x, y), or 0 off the grid.
func (hf *HeightField) HeightAt(x, y int) float64 {
	if !hf.InBounds(x, y) {
		return 0
	}
	return hf.points[hf.index(x, y)][2]
}

// CellInBounds reports whether all four corners of cell (x, y) exist.
func (hf *HeightField) CellInBounds(x, y int) bool {
	return x >= 0 && x+1 < hf.Width && y >= 0 && y+1 < hf.Height
}

// Corners returns the ll, lr, ul, ur samples of cell (x, y).
func (hf *HeightField) Corners(x, y int) (ll, lr, ul, ur mathutil.Vec3) {
	return hf.Point(x, y), hf.Point(x+1, y), hf.Point(x, y+1), hf.Point(x+1, y+1)
}

// Triangles returns the two triangles of cell (x, y) with the fixed lr-ul
// diagonal, both wound counter-clockwise from above.
func (hf *HeightField) Triangles(x, y int) [2][3]mathutil.Vec3 {
	ll, lr, ul, ur := hf.Corners(x, y)
	return [2][3]mathutil.Vec3{{ll, lr, ul}, {ul, lr, ur}}
}

// HeightRange returns the lowest and highest sample heights.
func (hf *HeightField) HeightRange() (lo, hi float64) {
	lo, hi = hf.points[0][2], hf.points[0][2]
	for _, p := range hf.points[1:] {
		lo = min(lo, p[2])
		hi = max(hi, p[2])
	}
	return lo, hi
}

// CentreTransform is the object-to-world transform that puts the middle of
// the grid at the world origin: T(-Width/2, -Height/2, 0) with integer
// halving.
func (hf *HeightField) CentreTransform() mathutil.Mat4 {
	return mathutil.Translate(mathutil.Vec3{float64(-hf.Width / 2), float64(-hf.Height / 2), 0})
}

// Diagonal returns the length of the footprint diagonal.
func (hf *HeightField) Diagonal() float64 {
	return mathutil.Vec3{float64(hf.Width), float64(hf.Height), 0}.Len()
}
