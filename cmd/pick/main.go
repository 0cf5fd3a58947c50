package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"coaster-viewer/internal/ctrlpoints"
	"coaster-viewer/internal/scene"
)

func main() {
	width := flag.Int("width", 640, "Window width the pixel refers to")
	height := flag.Int("height", 480, "Window height the pixel refers to")
	viewPath := flag.String("view", "", "View file (default: view.txt next to the scene)")
	flag.Parse()

	if flag.NArg() < 3 {
		fmt.Println("Usage: pick [flags] <scene.txt> <x> <y>")
		os.Exit(1)
	}
	x, errX := strconv.ParseFloat(flag.Arg(1), 64)
	y, errY := strconv.ParseFloat(flag.Arg(2), 64)
	if err := errors.Join(errX, errY); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	s, err := scene.Load(flag.Arg(0), *width, *height)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if *viewPath != "" {
		s.ViewPath = *viewPath
		if err := s.ReadView(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	start, dir := s.MouseRay(x, y)
	fmt.Printf("Eye: (%.3f, %.3f, %.3f)\n", start[0], start[1], start[2])
	fmt.Printf("Ray: (%.4f, %.4f, %.4f)\n", dir[0], dir[1], dir[2])

	if id := s.Posts.FindSelected(start, dir, s.ObjectTransform()); id >= 0 {
		part := "base"
		if ctrlpoints.IsTop(id) {
			part = "top"
		}
		fmt.Printf("Post: %d (%s)\n", ctrlpoints.PostOf(id), part)
	}

	p, ok := s.PickTerrain(x, y)
	if !ok {
		fmt.Println("Terrain: no hit")
		os.Exit(2)
	}
	fmt.Printf("Terrain: (%.3f, %.3f, %.3f)\n", p[0], p[1], p[2])
}
