// Package arcball turns 2D pointer motion into rotations and zoom of a
// world-to-view transform around a look-at centre.
//
// Drag with the tracked button to rotate about the centre, starting near
// the window edge to roll about the view z axis instead. Scroll to zoom.
// The caller feeds Press, Drag and Scroll from its input layer and uses
// View as the world-to-view transform.
package arcball

import (
	"math"

	"coaster-viewer/internal/mathutil"
)

const (
	// ZoomFactor scales DistToCentre per scroll step.
	ZoomFactor = 1.1

	// EdgeRadius is the normalized press radius beyond which a drag rolls
	// about the view z axis.
	EdgeRadius = 0.9
)

// Arcball holds the world-to-view transform and the transient drag state.
type Arcball struct {
	V            mathutil.Mat4 // world-to-view transform
	DistToCentre float64       // eye to look-at point

	width, height int

	// drag state, valid between Press and Release
	active         bool
	button         int
	initPos        mathutil.Vec2
	initV          mathutil.Mat4
	doingZRotation bool
}

// New returns an arcball at the identity view for a window of the given size.
func New(width, height int) *Arcball {
	return &Arcball{
		V:      mathutil.Mat4Identity(),
		width:  width,
		height: height,
	}
}

// NewLookAt returns an arcball whose initial view looks from eye at lookAt.
func NewLookAt(width, height int, eye, lookAt, up mathutil.Vec3) *Arcball {
	a := New(width, height)
	a.SetInitialView(eye, lookAt, up)
	return a
}

// SetWindowSize updates the size used to normalize pointer coordinates.
func (a *Arcball) SetWindowSize(width, height int) {
	a.width, a.height = width, height
}

// WindowSize returns the size last given to SetWindowSize.
func (a *Arcball) WindowSize() (int, int) {
	return a.width, a.height
}

// SetInitialView builds V as a right-handed look-at transform and sets
// DistToCentre to |lookAt - eye|.
func (a *Arcball) SetInitialView(eye, lookAt, up mathutil.Vec3) {
	a.DistToCentre = lookAt.Sub(eye).Len()
	a.V = mathutil.LookAt(eye, lookAt, up)
}

// Centre resets the view to the origin.
func (a *Arcball) Centre() {
	a.DistToCentre = 0
	a.V = mathutil.Mat4Identity()
}

// Press records the button, the normalized press position and a snapshot
// of V, and picks the drag mode.
func (a *Arcball) Press(button int, x, y float64) {
	a.active = true
	a.button = button
	a.initPos = a.normalize(x, y)
	a.initV = a.V

	// outside an ellipse that almost touches the window edges: roll about z
	a.doingZRotation = a.initPos.Len() > EdgeRadius
}

// Drag updates V from the offset between the press position and (x, y).
// Without a preceding Press it does nothing.
func (a *Arcball) Drag(x, y float64) {
	if !a.active {
		return
	}
	pos := a.normalize(x, y)

	if a.doingZRotation {
		angle := math.Atan2(pos[1], pos[0]) - math.Atan2(a.initPos[1], a.initPos[0])
		rz := mathutil.FromMat3Translation(mathutil.RotZ(angle), mathutil.Vec3{})
		a.V = mathutil.Mat4Mul(rz, a.initV)
		return
	}

	// (x, y, 1) rather than a point on the unit hemisphere
	from := mathutil.Vec3{a.initPos[0], a.initPos[1], 1}
	to := mathutil.Vec3{pos[0], pos[1], 1}
	angle, axis := rotationBetween(from, to)

	d := a.DistToCentre
	a.V = mathutil.Mat4Chain(
		mathutil.Translate(mathutil.Vec3{0, 0, -d}),
		mathutil.Rotate(angle, axis),
		mathutil.Translate(mathutil.Vec3{0, 0, d}),
		a.initV,
	)
}

// Release ends the current drag.
func (a *Arcball) Release() {
	a.active = false
}

// Dragging reports whether a press is active and which button started it.
func (a *Arcball) Dragging() (int, bool) {
	return a.button, a.active
}

// Scroll zooms along the view axis. deltaY < 0 divides DistToCentre by
// ZoomFactor, anything else multiplies it. V is translated along its own z
// axis by the change so the centre stays where it was.
func (a *Arcball) Scroll(deltaY float64) {
	newDist := a.DistToCentre * ZoomFactor
	if deltaY < 0 {
		newDist = a.DistToCentre / ZoomFactor
	}
	a.V = mathutil.Mat4Mul(mathutil.Translate(mathutil.Vec3{0, 0, a.DistToCentre - newDist}), a.V)
	a.DistToCentre = newDist
}

// View returns the current world-to-view transform.
func (a *Arcball) View() mathutil.Mat4 {
	return a.V
}

// RotationOnly returns V with its translation zeroed.
func (a *Arcball) RotationOnly() mathutil.Mat4 {
	v := a.V
	v[3], v[7], v[11] = 0, 0, 0
	return v
}

// EyePosition returns the eye in world coordinates: -Rᵀt for V = [R|t].
func (a *Arcball) EyePosition() mathutil.Vec3 {
	t := a.V.Translation()
	e := a.V.Row(0).Scale(t[0]).
		Add(a.V.Row(1).Scale(t[1])).
		Add(a.V.Row(2).Scale(t[2]))
	return e.Neg()
}

// ViewDirection is the negated third row of V.
func (a *Arcball) ViewDirection() mathutil.Vec3 {
	return a.V.Row(2).Neg()
}

// UpDirection is the second row of V.
func (a *Arcball) UpDirection() mathutil.Vec3 {
	return a.V.Row(1)
}

// LookAtPoint returns the centre the arcball rotates about.
func (a *Arcball) LookAtPoint() mathutil.Vec3 {
	return a.EyePosition().Add(a.ViewDirection().Scale(a.DistToCentre))
}

// normalize maps window pixels to [-1,1]², flipping y so up is positive.
func (a *Arcball) normalize(x, y float64) mathutil.Vec2 {
	w := float64(a.width) / 2
	h := float64(a.height) / 2
	if w == 0 || h == 0 {
		return mathutil.Vec2{}
	}
	return mathutil.Vec2{(x - w) / w, (h - y) / h}
}

// rotationBetween returns the angle and axis that rotate from onto to.
// Parallel directions give a zero angle and zero axis.
func rotationBetween(from, to mathutil.Vec3) (float64, mathutil.Vec3) {
	cross := from.Cross(to)
	s := cross.Len() / (from.Len() * to.Len())
	if s > 1 {
		s = 1
	}
	return math.Asin(s), cross.Normalize()
}
