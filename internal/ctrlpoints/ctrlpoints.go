// Package ctrlpoints keeps the track's support posts: a base on the terrain
// and a top in the air for each post. The tops are the control points of
// the track spline, and every edit is mirrored into it.
package ctrlpoints

import (
	"errors"
	"fmt"
	"math"

	"coaster-viewer/internal/mathutil"
	"coaster-viewer/internal/spline"
)

const (
	// InitialHeight is how far above its base a newly added post's top sits.
	InitialHeight = 30.0

	// PointRadius is the pick radius around a base or top.
	PointRadius = 4.0

	// PostRadius is the drawn radius of a post.
	PostRadius = 2.0
)

// ErrIndex is returned when a post index is out of range.
var ErrIndex = errors.New("post index out of range")

// Set is an ordered, cyclic list of posts. Points are in terrain object
// space.
type Set struct {
	bases  []mathutil.Vec3
	points []mathutil.Vec3
	spline *spline.Spline
}

// New returns an empty post set that drives s. s is cleared.
func New(s *spline.Spline) *Set {
	s.Clear()
	return &Set{spline: s}
}

// Spline returns the curve through the post tops.
func (c *Set) Spline() *spline.Spline {
	return c.spline
}

func (c *Set) Count() int {
	return len(c.points)
}

func (c *Set) Clear() {
	c.bases = c.bases[:0]
	c.points = c.points[:0]
	c.spline.Clear()
}

func (c *Set) check(i int) error {
	if i < 0 || i >= len(c.points) {
		return fmt.Errorf("ctrlpoints: %w: %d of %d", ErrIndex, i, len(c.points))
	}
	return nil
}

// Base returns the terrain end of post i.
func (c *Set) Base(i int) (mathutil.Vec3, error) {
	if err := c.check(i); err != nil {
		return mathutil.Vec3{}, err
	}
	return c.bases[i], nil
}

// Point returns the top of post i.
func (c *Set) Point(i int) (mathutil.Vec3, error) {
	if err := c.check(i); err != nil {
		return mathutil.Vec3{}, err
	}
	return c.points[i], nil
}

// Height returns the length of post i.
func (c *Set) Height(i int) (float64, error) {
	if err := c.check(i); err != nil {
		return 0, err
	}
	return c.points[i][2] - c.bases[i][2], nil
}

// Bases returns a copy of all base positions.
func (c *Set) Bases() []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(c.bases))
	copy(out, c.bases)
	return out
}

// Points returns a copy of all top positions.
func (c *Set) Points() []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(c.points))
	copy(out, c.points)
	return out
}

// MaxHeight returns the highest top z, or -Inf with no posts.
func (c *Set) MaxHeight() float64 {
	m := math.Inf(-1)
	for _, p := range c.points {
		m = max(m, p[2])
	}
	return m
}

// AddPoint inserts a post based at pt into the loop edge closest to it.
// Only edges onto which pt projects between their ends are considered;
// with none, or when the closing edge wins, the post is appended.
// It returns the new post's index.
func (c *Set) AddPoint(pt mathutil.Vec3) int {
	minDist := math.MaxFloat64
	edge := -1

	n := len(c.bases)
	for i := 0; i < n; i++ {
		a, b := c.bases[i], c.bases[(i+1)%n]
		u := pt.Sub(a)
		v := b.Sub(a).Normalize()
		t := u.Dot(v)
		if t < 0 || t > b.Sub(a).Len() {
			continue
		}
		if d := u.Sub(v.Scale(t)).LenSq(); d < minDist {
			minDist, edge = d, i
		}
	}

	top := pt.Add(mathutil.Vec3{0, 0, InitialHeight})
	idx := edge + 1
	if idx >= n || edge < 0 {
		idx = n
	}

	c.bases = insertAt(c.bases, idx, pt)
	c.points = insertAt(c.points, idx, top)
	c.spline.Insert(idx, top)
	return idx
}

// AddPointWithHeight appends a post based at pt with the given length.
func (c *Set) AddPointWithHeight(pt mathutil.Vec3, height float64) {
	top := pt.Add(mathutil.Vec3{0, 0, height})
	c.bases = append(c.bases, pt)
	c.points = append(c.points, top)
	c.spline.Append(top)
}

// Delete removes post i.
func (c *Set) Delete(i int) error {
	if err := c.check(i); err != nil {
		return err
	}
	c.bases = append(c.bases[:i], c.bases[i+1:]...)
	c.points = append(c.points[:i], c.points[i+1:]...)
	c.spline.Remove(i)
	return nil
}

// MoveBase moves the base of post i to pos. The top follows in x and y
// and keeps its absolute height.
func (c *Set) MoveBase(i int, pos mathutil.Vec3) error {
	if err := c.check(i); err != nil {
		return err
	}
	top := mathutil.Vec3{pos[0], pos[1], c.points[i][2]}
	c.bases[i] = pos
	c.points[i] = top
	c.spline.Set(i, top)
	return nil
}

// SetHeight makes post i the given length above its base.
func (c *Set) SetHeight(i int, height float64) error {
	if err := c.check(i); err != nil {
		return err
	}
	c.points[i][2] = c.bases[i][2] + height
	c.spline.Set(i, c.points[i])
	return nil
}

// BaseID is the selection id of post i's base.
func BaseID(i int) int { return 2 * i }

// TopID is the selection id of post i's top.
func TopID(i int) int { return 2*i + 1 }

// PostOf returns the post index of a selection id.
func PostOf(id int) int { return id / 2 }

// IsTop reports whether a selection id names a top.
func IsTop(id int) bool { return id%2 == 1 }

// FindSelected returns the id of the base or top nearest along the line
// start + t·dir that passes within PointRadius of it, or -1. m maps the
// posts into the line's space.
func (c *Set) FindSelected(start, dir mathutil.Vec3, m mathutil.Mat4) int {
	dir = dir.Normalize()
	best := -1
	bestDist := math.MaxFloat64

	try := func(p mathutil.Vec3, id int) {
		p = m.MulPoint(p)
		if p.DistanceToLine(start, dir) >= PointRadius {
			return
		}
		if d := p.Sub(start).Dot(dir); d < bestDist {
			bestDist, best = d, id
		}
	}

	for i := range c.points {
		try(c.bases[i], BaseID(i))
		try(c.points[i], TopID(i))
	}
	return best
}

func insertAt(s []mathutil.Vec3, i int, v mathutil.Vec3) []mathutil.Vec3 {
	s = append(s, mathutil.Vec3{})
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
