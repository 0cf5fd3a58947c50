package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Index     int     `json:"index"`
	ArcLength float64 `json:"arc_length"`
	Image     string  `json:"image,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// Manifest describes a fly-through run.
type Manifest struct {
	Scene       string          `json:"scene"`
	TrackLength float64         `json:"track_length"`
	Basis       string          `json:"basis"`
	Frames      []ManifestEntry `json:"frames"`
}

// NewManifest collects results in frame order.
func NewManifest(scenePath string, trackLength float64, basis string, results []Result) Manifest {
	m := Manifest{
		Scene:       scenePath,
		TrackLength: trackLength,
		Basis:       basis,
		Frames:      make([]ManifestEntry, len(results)),
	}
	for i, r := range results {
		m.Frames[i] = ManifestEntry{
			Index:     r.Index,
			ArcLength: r.ArcLength,
			Image:     r.Image,
			Error:     r.Error,
		}
	}
	return m
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
