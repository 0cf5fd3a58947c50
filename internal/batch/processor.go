// Package batch renders fly-through frames of a scene on a worker pool and
// writes them out as WebP images.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"coaster-viewer/internal/logger"
	"coaster-viewer/internal/postprocess"
	"coaster-viewer/internal/raster"

	"github.com/HugoSmits86/nativewebp"
)

// Config holds the shared settings for a batch run.
type Config struct {
	OutputDir string
	Width     int // output size; frames rendered larger are downsampled
	Height    int
	Sharpen   bool
	Workers   int
	Log       *logger.Logger
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Index     int
	ArcLength float64
	Image     string // relative to OutputDir
	Success   bool
	Error     string
}

// FrameName is the file name of frame i.
func FrameName(i int) string {
	return fmt.Sprintf("frame_%04d.webp", i)
}

// Run renders every frame from the shared, read-only geometry using a
// worker pool. Frames not started before ctx is done fail with its error.
func Run(ctx context.Context, cfg Config, g *raster.Geometry, frames []Frame) []Result {
	log := cfg.Log
	if log == nil {
		log = logger.Discard()
	}
	workers := max(cfg.Workers, 1)

	total := len(frames)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("[%d/%d] %.1f frames/sec", p, total, rate)
				}
			}
		}
	}()

	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				if err := ctx.Err(); err != nil {
					results[idx] = failed(frames[idx], err.Error())
				} else {
					results[idx] = processFrame(cfg, g, frames[idx])
				}
				if !results[idx].Success {
					log.Warn("frame %d: %s", frames[idx].Index, results[idx].Error)
				}
				processed.Add(1)
			}
		}()
	}

	for i := range frames {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

func failed(f Frame, msg string) Result {
	return Result{Index: f.Index, ArcLength: f.ArcLength, Error: msg}
}

func processFrame(cfg Config, g *raster.Geometry, f Frame) Result {
	img := raster.Render(g, f.Camera)

	if cfg.Width > 0 && cfg.Height > 0 {
		img = postprocess.Downsample(img, cfg.Width, cfg.Height)
	}
	if cfg.Sharpen {
		img = postprocess.Sharpen(img)
	}

	name := FrameName(f.Index)
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return failed(f, err.Error())
	}
	out, err := os.Create(filepath.Join(cfg.OutputDir, name))
	if err != nil {
		return failed(f, err.Error())
	}
	defer out.Close()

	if err := nativewebp.Encode(out, img, nil); err != nil {
		return failed(f, fmt.Sprintf("WebP encode: %v", err))
	}

	return Result{
		Index:     f.Index,
		ArcLength: f.ArcLength,
		Image:     name,
		Success:   true,
	}
}
