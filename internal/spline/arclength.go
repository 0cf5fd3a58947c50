package spline

import "math"

// arcLengthCache holds cumulative chord lengths sampled DivsPerSeg times
// per segment. Entry k is the length up to parameter k/DivsPerSeg, so the
// table has n*DivsPerSeg+1 entries and ends at the closed curve's length.
//
// Every Spline mutation calls invalidate; every length or parameter query
// goes through table, which rebuilds first when stale.
type arcLengthCache struct {
	fresh   bool
	lengths []float64
	maxZ    float64
}

func (c *arcLengthCache) invalidate() {
	c.fresh = false
}

func (c *arcLengthCache) table(s *Spline) []float64 {
	if !c.fresh {
		c.rebuild(s)
	}
	return c.lengths
}

func (c *arcLengthCache) maxHeight(s *Spline) float64 {
	if !c.fresh {
		c.rebuild(s)
	}
	return c.maxZ
}

func (c *arcLengthCache) rebuild(s *Spline) {
	n := len(s.data)
	c.fresh = true
	if n == 0 {
		c.lengths = c.lengths[:0]
		c.maxZ = 0
		return
	}

	size := n*DivsPerSeg + 1
	if cap(c.lengths) < size {
		c.lengths = make([]float64, size)
	}
	c.lengths = c.lengths[:size]

	prev := s.Value(0)
	c.lengths[0] = 0
	c.maxZ = prev[2]

	k := 1
	for i := 0; i < n; i++ {
		j := 0
		if i == 0 {
			j = 1
		}
		for ; j < DivsPerSeg; j++ {
			next := s.Value(float64(i) + float64(j)/DivsPerSeg)
			c.lengths[k] = c.lengths[k-1] + next.Sub(prev).Len()
			c.maxZ = max(c.maxZ, next[2])
			prev = next
			k++
		}
	}

	// closing sample at t = n, i.e. back at t = 0 on the cyclic curve
	next := s.Value(float64(n))
	c.lengths[k] = c.lengths[k-1] + next.Sub(prev).Len()
	c.maxZ = max(c.maxZ, next[2])
}

// Lengths returns a copy of the current arc-length table, rebuilding it if
// needed.
func (s *Spline) Lengths() []float64 {
	t := s.arc.table(s)
	out := make([]float64, len(t))
	copy(out, t)
	return out
}

// TotalArcLength returns the length of the closed curve, 0 when empty.
func (s *Spline) TotalArcLength() float64 {
	if len(s.data) == 0 {
		return 0
	}
	t := s.arc.table(s)
	return t[len(t)-1]
}

// MaxHeight returns the largest z seen while sampling the curve.
func (s *Spline) MaxHeight() float64 {
	return s.arc.maxHeight(s)
}

// ParamAtArcLength inverts the arc-length table: it returns the curve
// parameter whose arc length from t=0 is s. Negative s counts back from the
// end; s beyond the total length wraps around.
func (s *Spline) ParamAtArcLength(sLen float64) float64 {
	if len(s.data) == 0 {
		return 0
	}
	table := s.arc.table(s)
	last := len(table) - 1
	total := table[last]

	if sLen < 0 {
		sLen += total
	}
	if (sLen < 0 || sLen >= total) && total > 0 {
		sLen = wrapLength(sLen, total)
	}

	// binary search for table[l] <= s < table[l+1]
	l, r := 0, last
	for r-l > 1 {
		m := (l + r) / 2
		if table[m] <= sLen {
			l = m
		} else {
			r = m
		}
	}

	if table[l] > sLen || table[l+1] <= sLen {
		// rounding left no proper bracket
		return (float64(l) + 0.5) / DivsPerSeg
	}

	p := (sLen - table[l]) / (table[l+1] - table[l])
	return (float64(l) + p) / DivsPerSeg
}

// EvenArcLengthParams returns count parameters spaced evenly by arc length,
// starting at s=0.
func (s *Spline) EvenArcLengthParams(count int) []float64 {
	if count <= 0 || len(s.data) == 0 {
		return nil
	}
	total := s.TotalArcLength()
	step := total / float64(count)
	params := make([]float64, count)
	for i := range params {
		params[i] = s.ParamAtArcLength(float64(i) * step)
	}
	return params
}

func wrapLength(v, total float64) float64 {
	v = math.Mod(v, total)
	if v < 0 {
		v += total
	}
	if v >= total {
		v = 0
	}
	return v
}
