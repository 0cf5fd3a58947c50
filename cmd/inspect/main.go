package main

import (
	"fmt"
	"math"
	"os"

	"coaster-viewer/internal/scene"
	"coaster-viewer/internal/spline"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: inspect <scene.txt>")
		os.Exit(1)
	}
	path := os.Args[1]

	s, err := scene.Load(path, 640, 480)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	lo, hi := s.Terrain.HeightRange()
	fmt.Printf("Terrain: %dx%d, heights [%.2f, %.2f], diagonal %.2f\n",
		s.Terrain.Width, s.Terrain.Height, lo, hi, s.Terrain.Diagonal())
	fmt.Printf("Height map: %s, texture: %s\n", s.File.HeightField, s.File.Texture)

	fmt.Printf("Posts: %d\n", s.Posts.Count())
	bases, tops := s.Posts.Bases(), s.Posts.Points()
	for i := range bases {
		b, p := bases[i], tops[i]
		ground := math.NaN()
		if x, y := int(math.Round(b[0])), int(math.Round(b[1])); s.Terrain.InBounds(x, y) {
			ground = s.Terrain.HeightAt(x, y)
		}
		fmt.Printf("  Post[%d]: base (%.2f, %.2f, %.2f) ground %.2f, height %.2f\n",
			i, b[0], b[1], b[2], ground, p[2]-b[2])
	}

	if s.Posts.Count() < 2 {
		return
	}

	// Track length and height under each basis
	for b := spline.Linear; b <= spline.BSpline; b++ {
		s.Track.SetBasis(b)
		lengths := s.Track.Lengths()
		fmt.Printf("%-12s length %8.2f, max height %7.2f\n", b.String()+":", s.Track.TotalArcLength(), s.Track.MaxHeight())

		// Longest and shortest segment
		minSeg, maxSeg := math.Inf(1), math.Inf(-1)
		for seg := 0; seg < s.Track.Len(); seg++ {
			l := lengths[(seg+1)*spline.DivsPerSeg] - lengths[seg*spline.DivsPerSeg]
			minSeg = min(minSeg, l)
			maxSeg = max(maxSeg, l)
		}
		fmt.Printf("             segments [%.2f, %.2f]\n", minSeg, maxSeg)
	}
}
