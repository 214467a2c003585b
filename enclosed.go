package affine

import (
	"github.com/njchilds90/goaffine/internal/roundoff"
	"github.com/njchilds90/goaffine/interval"
)

// enclosed holds an outward-rounded enclosure per coefficient. Its updates are
// interval operations, so nothing spills.
type enclosed []interval.Interval

func (c enclosed) Len() int { return len(c) }

func (c enclosed) clone() terms {
	out := make(enclosed, len(c))
	copy(out, c)
	return out
}

func (c enclosed) set(symbol int, v float64) { c[symbol-1] = interval.Point(v) }

func (c enclosed) last() float64 {
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1].Mag()
}

func (c enclosed) radius() float64 {
	r := 0.0
	for _, v := range c {
		r = roundoff.AddUp(r, v.Mag())
	}
	return r
}

func (c enclosed) neg() {
	for i := range c {
		c[i] = c[i].Neg()
	}
}

func (c enclosed) scale(a float64) float64 {
	for i := range c {
		c[i] = c[i].Scale(a)
	}
	return 0
}

func (c enclosed) lincomb(a float64, y terms, b float64) (terms, float64) {
	yc := y.(enclosed)
	out := make(enclosed, len(c))
	for i := range c {
		out[i] = c[i].Scale(a).Add(yc[i].Scale(b))
	}
	return out, 0
}

func (c enclosed) dot(y terms) (interval.Interval, float64) {
	yc := y.(enclosed)
	sum, abs := interval.Point(0), 0.0
	for i := range c {
		sum = sum.Add(c[i].Mul(yc[i]))
		abs = roundoff.AddDown(abs, roundoff.MulDown(c[i].Mag(), yc[i].Mag()))
	}
	return sum, abs
}

func (c enclosed) pad(n int) terms {
	if n <= len(c) {
		return c
	}
	out := make(enclosed, n)
	copy(out, c)
	for i := len(c); i < n; i++ {
		out[i] = interval.Point(0)
	}
	return out
}

func (c enclosed) finite() bool {
	for _, v := range c {
		if !v.IsBounded() {
			return false
		}
	}
	return true
}

func (c enclosed) prune(thr float64) float64 {
	removed := 0.0
	for i, v := range c {
		if m := v.Mag(); m != 0 && m < thr {
			removed = roundoff.AddUp(removed, m)
			c[i] = interval.Point(0)
		}
	}
	return removed
}

func (c enclosed) snapshot() []Term {
	out := make([]Term, len(c))
	for i, v := range c {
		out[i] = Term{Symbol: i + 1, Coef: v}
	}
	return out
}

func (c enclosed) eval(assign map[int]float64) interval.Interval {
	acc := interval.Point(0)
	for i, v := range c {
		if e, ok := assign[i+1]; ok {
			acc = acc.Add(v.Scale(e))
		} else {
			acc = acc.Add(interval.New(-v.Mag(), v.Mag()))
		}
	}
	return acc
}
