package scene

import (
	"math"

	"coaster-viewer/internal/mathutil"
	"coaster-viewer/internal/spline"
)

const (
	// Gravity drives the train's acceleration along the track.
	Gravity = 9.81

	InitialSpeed = 70.0
	MinSpeed     = 20.0
	SpeedStep    = 0.5

	// drag coefficient on speed
	friction = 0.2
)

// Train rides the track at an arc-length position.
type Train struct {
	track *spline.Spline
	pos   float64 // arc length from t=0
	speed float64
}

func NewTrain(track *spline.Spline) *Train {
	return &Train{track: track, speed: InitialSpeed}
}

// Position returns the arc length travelled, in [0, total).
func (tr *Train) Position() float64 { return tr.pos }

func (tr *Train) Speed() float64 { return tr.speed }

func (tr *Train) Accelerate() { tr.speed += SpeedStep }

func (tr *Train) Brake() { tr.speed -= SpeedStep }

// Reset puts the train back at the start with its initial speed.
func (tr *Train) Reset() {
	tr.pos, tr.speed = 0, InitialSpeed
}

// Frame returns the track frame at the train's position.
func (tr *Train) Frame() spline.Frame {
	return tr.track.LocalFrame(tr.track.ParamAtArcLength(tr.pos))
}

// Advance moves the train dt seconds along the track. Speed below MinSpeed
// snaps back to it; otherwise it changes by the tangent's vertical
// component times the net acceleration. The track needs two or more
// points.
func (tr *Train) Advance(dt float64) {
	if tr.track.Len() < 2 {
		return
	}
	f := tr.Frame()
	zComp := f.Z.Dot(mathutil.ZAxis)
	accel := Gravity - friction*tr.speed

	if tr.speed < MinSpeed {
		tr.speed = MinSpeed
	} else {
		tr.speed += zComp * accel * dt
	}

	tr.pos += tr.speed * dt
	if total := tr.track.TotalArcLength(); total > 0 {
		tr.pos = math.Mod(tr.pos, total)
		if tr.pos < 0 {
			tr.pos += total
		}
	}
}
