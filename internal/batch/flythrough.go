package batch

import (
	"errors"
	"fmt"

	"coaster-viewer/internal/mathutil"
	"coaster-viewer/internal/raster"
	"coaster-viewer/internal/scene"
)

// ErrNoTrack is returned when the scene has fewer than two posts.
var ErrNoTrack = errors.New("batch: scene has no track")

const (
	rideLift = 3.0 // eye height above the rail
	rideNear = 0.5
	rideFar  = 4.0 // in terrain diagonals
)

// Frame is one camera position of a fly-through.
type Frame struct {
	Index     int
	ArcLength float64
	Camera    raster.Camera
}

// PlanFlyThrough places count cameras riding the track at evenly spaced
// arc lengths, each rendering width×height pixels.
func PlanFlyThrough(s *scene.Scene, count, width, height int) ([]Frame, error) {
	if s.Posts.Count() < 2 {
		return nil, ErrNoTrack
	}
	if count <= 0 || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("batch: bad fly-through size %d frames at %dx%d", count, width, height)
	}

	obj := s.ObjectTransform()
	proj := mathutil.Perspective(s.Fovy, float64(width)/float64(height), rideNear, rideFar*s.Terrain.Diagonal())
	total := s.Track.TotalArcLength()

	frames := make([]Frame, count)
	for i := range frames {
		sLen := total * float64(i) / float64(count)
		f := s.Track.LocalFrame(s.Track.ParamAtArcLength(sLen))
		frames[i] = Frame{
			Index:     i,
			ArcLength: sLen,
			Camera: raster.Camera{
				View:   raster.RideView(f, obj, rideLift),
				Proj:   proj,
				Width:  width,
				Height: height,
			},
		}
	}
	return frames, nil
}

// FlyThroughGeometry builds the scene's meshes without the train, which
// would otherwise enclose the riding camera.
func FlyThroughGeometry(s *scene.Scene) *raster.Geometry {
	opt := s.Options
	defer func() { s.Options = opt }()
	s.Options.DrawCoaster = false
	return raster.BuildGeometry(s)
}
