package affine

import (
	"math"

	"github.com/njchilds90/goaffine/internal/roundoff"
	"github.com/njchilds90/goaffine/interval"
)

// compensated holds float64 coefficients for symbols 1..len. Every update
// recovers its exact rounding error with TwoSum/TwoProd and reports it as spill.
type compensated []float64

func (c compensated) Len() int { return len(c) }

func (c compensated) clone() terms {
	out := make(compensated, len(c))
	copy(out, c)
	return out
}

func (c compensated) set(symbol int, v float64) { c[symbol-1] = v }

func (c compensated) last() float64 {
	if len(c) == 0 {
		return 0
	}
	return math.Abs(c[len(c)-1])
}

func (c compensated) radius() float64 {
	r := 0.0
	for _, v := range c {
		r = roundoff.AddUp(r, math.Abs(v))
	}
	return r
}

func (c compensated) neg() {
	for i := range c {
		c[i] = -c[i]
	}
}

func (c compensated) scale(a float64) float64 {
	var s spill
	for i, v := range c {
		c[i] = s.flush(s.mul(v, a))
	}
	return s.bound()
}

func (c compensated) lincomb(a float64, y terms, b float64) (terms, float64) {
	yc := y.(compensated)
	var s spill
	out := make(compensated, len(c))
	for i := range c {
		out[i] = s.flush(s.add(s.mul(a, c[i]), s.mul(b, yc[i])))
	}
	return out, s.bound()
}

func (c compensated) dot(y terms) (interval.Interval, float64) {
	yc := y.(compensated)
	var d pointDot
	for i := range c {
		d.add(c[i], yc[i])
	}
	return d.result()
}

func (c compensated) pad(n int) terms {
	if n <= len(c) {
		return c
	}
	out := make(compensated, n)
	copy(out, c)
	return out
}

func (c compensated) finite() bool {
	for _, v := range c {
		if !roundoff.IsFinite(v) {
			return false
		}
	}
	return true
}

func (c compensated) prune(thr float64) float64 {
	removed := 0.0
	for i, v := range c {
		if v != 0 && math.Abs(v) < thr {
			removed = roundoff.AddUp(removed, math.Abs(v))
			c[i] = 0
		}
	}
	return removed
}

func (c compensated) snapshot() []Term {
	out := make([]Term, len(c))
	for i, v := range c {
		out[i] = Term{Symbol: i + 1, Coef: interval.Point(v)}
	}
	return out
}

func (c compensated) eval(assign map[int]float64) interval.Interval {
	acc := interval.Point(0)
	for i, v := range c {
		acc = acc.Add(weigh(v, assign, i+1))
	}
	return acc
}
