package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"coaster-viewer/internal/batch"
	"coaster-viewer/internal/config"
	"coaster-viewer/internal/logger"
	"coaster-viewer/internal/mathutil"
	"coaster-viewer/internal/postprocess"
	"coaster-viewer/internal/raster"
	"coaster-viewer/internal/scene"

	"github.com/HugoSmits86/nativewebp"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to a .json or .yaml config file")
	scenePath := flag.String("scene", "", "Scene file (terrain and posts)")
	viewPath := flag.String("view", "", "View file (default: view.txt next to the scene)")
	outputDir := flag.String("output", "", "Output directory (default: renders next to the scene)")
	width := flag.Int("width", 0, "Output width (default: 640)")
	height := flag.Int("height", 0, "Output height (default: 480)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	frames := flag.Int("frames", 0, "Also render N fly-through frames riding the track")
	basis := flag.String("basis", "", "Spline basis: linear, catmull-rom or b-spline")
	logLevel := flag.String("log", "", "Log level: debug, info, warn, error")
	track := flag.Bool("track", false, "Draw track ties instead of the bare curve")
	axes := flag.Bool("axes", false, "Draw the world axes")

	flag.Parse()
	if *scenePath == "" && flag.NArg() > 0 {
		*scenePath = flag.Arg(0)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	err := cfg.Resolve(config.Flags{
		Scene:     *scenePath,
		View:      *viewPath,
		OutputDir: *outputDir,
		Width:     *width,
		Height:    *height,
		Workers:   *workers,
		Frames:    *frames,
		Basis:     *basis,
		LogLevel:  *logLevel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(os.Stderr, cfg.Level(), "render")

	s, err := loadScene(cfg, log)
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	s.Options.DrawTrack = *track
	s.Options.ShowAxes = *axes

	fmt.Println("Coaster scene renderer → WebP")
	fmt.Printf("Scene: %s (%dx%d terrain, %d posts, %s)\n", cfg.Scene, s.Terrain.Width, s.Terrain.Height, s.Posts.Count(), s.Track.Name())
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	start := time.Now()
	done := log.Step("preview")
	img := raster.RenderScene(s, cfg.Supersample)
	img = postprocess.Downsample(img, cfg.Width, cfg.Height)
	if cfg.Sharpen {
		img = postprocess.Sharpen(img)
	}
	previewPath := filepath.Join(cfg.OutputDir, "preview.webp")
	if err := writeWebP(previewPath, img); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	done()
	fmt.Printf("Preview: %s\n", previewPath)

	failed := 0
	if cfg.Frames > 0 {
		failed = flyThrough(cfg, s, log)
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	if failed > 0 {
		os.Exit(1)
	}
}

func loadScene(cfg config.Config, log *logger.Logger) (*scene.Scene, error) {
	defer log.Step("load " + cfg.Scene)()

	s, err := scene.Load(cfg.Scene, cfg.Width, cfg.Height, scene.WithSmoothing(cfg.Smoothing))
	if err != nil {
		return nil, err
	}
	b, err := cfg.SplineBasis()
	if err != nil {
		return nil, err
	}
	s.Track.SetBasis(b)

	viewLoaded := true
	if cfg.View != s.ViewPath {
		s.ViewPath = cfg.View
		s.DefaultView()
	}
	if err := s.ReadView(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		viewLoaded = false
	}
	if !viewLoaded {
		log.Debug("no view file at %s, using the default view", s.ViewPath)
		s.Fovy = mathutil.Deg2Rad(cfg.Fovy)
	}
	return s, nil
}

// flyThrough renders cfg.Frames riding frames and writes their manifest.
// It returns the number of failed frames.
func flyThrough(cfg config.Config, s *scene.Scene, log *logger.Logger) int {
	frames, err := batch.PlanFlyThrough(s, cfg.Frames, cfg.Width*cfg.Supersample, cfg.Height*cfg.Supersample)
	if err != nil {
		log.Error("%v", err)
		return cfg.Frames
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Frames: %d, Workers: %d\n", len(frames), cfg.Workers)
	results := batch.Run(ctx, batch.Config{
		OutputDir: cfg.OutputDir,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Sharpen:   cfg.Sharpen,
		Workers:   cfg.Workers,
		Log:       log.WithPrefix("batch"),
	}, batch.FlyThroughGeometry(s), frames)

	// Count results
	success, failed := 0, 0
	var errs []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errs = append(errs, r)
		}
	}
	fmt.Printf("Rendered: %d/%d\n", success, len(frames))

	if len(errs) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		for _, e := range errs[:min(len(errs), 20)] {
			fmt.Printf("  frame %d: %s\n", e.Index, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	m := batch.NewManifest(cfg.Scene, s.Track.TotalArcLength(), s.Track.Name(), results)
	if err := batch.WriteManifest(manifestPath, m); err != nil {
		log.Warn("manifest write failed: %v", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}
	return failed
}

func writeWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("WebP encode %s: %w", path, err)
	}
	return f.Close()
}
