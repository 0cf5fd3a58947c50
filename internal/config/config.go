// Package config loads render settings for the command-line tools from a
// JSON or YAML file and merges them with flags and defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"coaster-viewer/internal/logger"
	"coaster-viewer/internal/spline"

	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	Scene     string `json:"scene" yaml:"scene"`
	View      string `json:"view" yaml:"view"`
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Render settings
	Width       int     `json:"width" yaml:"width"`
	Height      int     `json:"height" yaml:"height"`
	Supersample int     `json:"supersample" yaml:"supersample"`
	Workers     int     `json:"workers" yaml:"workers"`
	Frames      int     `json:"frames" yaml:"frames"`
	Fovy        float64 `json:"fovy" yaml:"fovy"` // degrees
	Basis       string  `json:"basis" yaml:"basis"`
	Smoothing   float64 `json:"smoothing" yaml:"smoothing"`
	Sharpen     bool    `json:"sharpen" yaml:"sharpen"`

	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Flags holds CLI flag values that override config file settings. Field
// names match Config so they can be copied across; zero values are ignored.
type Flags struct {
	Scene     string
	View      string
	OutputDir string
	Width     int
	Height    int
	Workers   int
	Frames    int
	Basis     string
	LogLevel  string
}

// Defaults returns the settings used for anything left unset.
func Defaults() Config {
	return Config{
		Width:       640,
		Height:      480,
		Supersample: 2,
		Workers:     runtime.NumCPU(),
		Fovy:        30,
		Basis:       spline.CatmullRom.String(),
		LogLevel:    "info",
	}
}

// Load reads a config file. The format follows the extension: .json, or
// .yaml/.yml. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: %s: unsupported format", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies non-empty flags over c, fills the remaining gaps from
// Defaults and derives the view file and output directory from the scene
// path when they are not given.
func (c *Config) Resolve(flags Flags) error {
	if err := copier.CopyWithOption(c, &flags, copier.Option{IgnoreEmpty: true}); err != nil {
		return fmt.Errorf("config: apply flags: %w", err)
	}

	merged := Defaults()
	if err := copier.CopyWithOption(&merged, c, copier.Option{IgnoreEmpty: true}); err != nil {
		return fmt.Errorf("config: apply defaults: %w", err)
	}
	*c = merged

	if c.Scene == "" {
		return fmt.Errorf("config: no scene file given")
	}
	dir := filepath.Dir(c.Scene)
	if c.View == "" {
		c.View = filepath.Join(dir, "view.txt")
	} else if !filepath.IsAbs(c.View) {
		c.View = filepath.Join(dir, c.View)
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(dir, "renders")
	}

	if _, err := c.SplineBasis(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Supersample < 1 {
		c.Supersample = 1
	}
	return nil
}

// SplineBasis parses the Basis name.
func (c *Config) SplineBasis() (spline.Basis, error) {
	return spline.ParseBasis(c.Basis)
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() logger.Level {
	l, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.LevelInfo
	}
	return l
}
