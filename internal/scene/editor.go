package scene

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"coaster-viewer/internal/ctrlpoints"
	"coaster-viewer/internal/logger"
	"coaster-viewer/internal/mathutil"
)

// Mouse buttons as reported by the input layer.
const (
	ButtonLeft  = 0
	ButtonRight = 1
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModControl
)

// minDragHeight is the shortest post a top drag may produce.
const minDragHeight = 1.0

// Help lists the editor's mouse and key bindings.
const Help = `Click to add a control point.
Ctrl-click to delete a control point.
Move a control point by dragging its base.
Change a control point's height by dragging its top.
Right-drag to rotate the view, scroll to zoom.

-/+ change train speed
a - toggle arc length parameterization
c - toggle coaster drawing
d - toggle debug mode (shows local coordinate frame on track)
f - toggle flag
m - cycle through basis matrices
p - toggle pause
r - read initial view
s - store scene
t - toggle track drawing
u - toggle underside of terrain
w - write initial view (for use on next startup)
x - toggle world axes`

// Editor turns mouse and key events into camera moves and post edits.
type Editor struct {
	scene *Scene
	log   *logger.Logger

	arcballActive bool
	dragging      bool // a post handle is held
	dragDone      bool // the pointer moved while holding it

	selected   int
	movingBase bool
}

func NewEditor(s *Scene, log *logger.Logger) *Editor {
	if log == nil {
		log = logger.Discard()
	}
	return &Editor{scene: s, log: log, selected: -1}
}

// Selected returns the post being dragged.
func (e *Editor) Selected() (post int, base bool, ok bool) {
	return e.selected, e.movingBase, e.dragging
}

// Press handles a button going down at window pixel (x, y). The right
// button drives the camera; the left button grabs a post handle under
// the pointer, if any.
func (e *Editor) Press(button int, x, y float64) {
	switch button {
	case ButtonRight:
		e.arcballActive = true
		e.scene.Camera.Press(button, x, y)

	case ButtonLeft:
		e.dragDone = false

		start, dir := e.scene.MouseRay(x, y)
		id := e.scene.Posts.FindSelected(start, dir, e.scene.ObjectTransform())
		if id < 0 {
			return
		}
		e.dragging = true
		e.selected = ctrlpoints.PostOf(id)
		e.movingBase = !ctrlpoints.IsTop(id)
		e.log.Debug("grab post %d (base=%v)", e.selected, e.movingBase)
	}
}

// Move handles pointer motion to (x, y).
func (e *Editor) Move(x, y float64) {
	if e.arcballActive {
		e.scene.Camera.Drag(x, y)
		return
	}
	if !e.dragging {
		return
	}
	e.dragDone = true

	if e.movingBase {
		if p, ok := e.scene.PickTerrain(x, y); ok {
			if err := e.scene.Posts.MoveBase(e.selected, p); err != nil {
				e.log.Warn("move base: %v", err)
			}
		}
		return
	}

	start, dir := e.scene.MouseRay(x, y)
	up := e.scene.Camera.UpDirection()
	m := e.scene.ObjectTransform()

	// the top rides the vertical through its base, cut by the plane
	// through the eye that holds the ray and the view's sideways axis
	n := dir.Cross(up).Cross(dir).Normalize()
	d := n.Dot(start)

	b, err := e.scene.Posts.Base(e.selected)
	if err != nil {
		e.log.Warn("drag top: %v", err)
		return
	}
	base := m.MulPoint(b)
	nz := n.Dot(mathutil.ZAxis)
	if math.Abs(nz) < 0.001 {
		return
	}
	t := (d - n.Dot(base)) / nz
	if t < minDragHeight {
		return
	}
	if err := e.scene.Posts.SetHeight(e.selected, t); err != nil {
		e.log.Warn("set height: %v", err)
	}
}

// Release handles a button going up. A left press that did not drag a
// post is a click.
func (e *Editor) Release(button int, x, y float64, mods Modifier) {
	if button == ButtonLeft && !e.dragDone {
		e.Click(x, y, mods)
	}
	if e.arcballActive {
		e.scene.Camera.Release()
	}
	e.dragging = false
	e.arcballActive = false
}

// Click adds a post where the pointer meets the terrain, or with
// ModControl deletes the post under the pointer.
func (e *Editor) Click(x, y float64, mods Modifier) {
	if mods&ModControl != 0 {
		start, dir := e.scene.MouseRay(x, y)
		if id := e.scene.Posts.FindSelected(start, dir, e.scene.ObjectTransform()); id >= 0 {
			if err := e.scene.Posts.Delete(ctrlpoints.PostOf(id)); err != nil {
				e.log.Warn("delete: %v", err)
				return
			}
			e.log.Debug("deleted post %d", ctrlpoints.PostOf(id))
		}
		return
	}

	if p, ok := e.scene.PickTerrain(x, y); ok {
		i := e.scene.Posts.AddPoint(p)
		e.log.Debug("added post %d at %v", i, p)
	}
}

func (e *Editor) Scroll(deltaY float64) {
	e.scene.Camera.Scroll(deltaY)
}

// Key applies a key binding and returns a message for the user, if any.
// Letters are case-insensitive.
func (e *Editor) Key(key rune) (string, error) {
	s := e.scene
	o := &s.Options

	switch unicode.ToUpper(key) {
	case 'D':
		o.Debug = !o.Debug
	case 'T':
		o.DrawTrack = !o.DrawTrack
	case 'C':
		o.DrawCoaster = !o.DrawCoaster
	case 'A':
		o.UseArcLength = !o.UseArcLength
	case 'U':
		o.UndersideOnly = !o.UndersideOnly
	case 'P':
		o.Pause = !o.Pause
	case 'F':
		o.Flag = !o.Flag
	case 'X':
		o.ShowAxes = !o.ShowAxes
	case 'M':
		return "using " + s.Track.NextBasis().String(), nil
	case '+', '=':
		s.Train.Accelerate()
	case '-', '_':
		s.Train.Brake()
	case 'S':
		if err := s.Save(); err != nil {
			return "", fmt.Errorf("store scene: %w", err)
		}
		return fmt.Sprintf("Scene stored in '%s'.", s.Path), nil
	case 'R':
		if err := s.ReadView(); err != nil {
			return "", err
		}
	case 'W':
		if err := s.WriteView(); err != nil {
			return "", err
		}
		return fmt.Sprintf("View stored in '%s'.", s.ViewPath), nil
	case '/', '?':
		return Help, nil
	default:
		return "", fmt.Errorf("scene: no binding for key %q", strings.ToLower(string(key)))
	}
	return "", nil
}
