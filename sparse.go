package affine

import (
	"math"
	"sort"

	"github.com/njchilds90/goaffine/internal/roundoff"
	"github.com/njchilds90/goaffine/interval"
)

// sparse holds (id, coefficient) pairs in strictly ascending id order. Zero
// coefficients are never stored.
type sparse struct {
	ids []int
	c   []float64
}

func (s *sparse) Len() int { return len(s.ids) }

func (s *sparse) clone() terms {
	return &sparse{
		ids: append([]int(nil), s.ids...),
		c:   append([]float64(nil), s.c...),
	}
}

func (s *sparse) set(id int, v float64) {
	i := sort.SearchInts(s.ids, id)
	switch {
	case i < len(s.ids) && s.ids[i] == id && v == 0:
		s.ids = append(s.ids[:i], s.ids[i+1:]...)
		s.c = append(s.c[:i], s.c[i+1:]...)
	case i < len(s.ids) && s.ids[i] == id:
		s.c[i] = v
	case v != 0:
		s.ids = append(s.ids, 0)
		s.c = append(s.c, 0)
		copy(s.ids[i+1:], s.ids[i:])
		copy(s.c[i+1:], s.c[i:])
		s.ids[i], s.c[i] = id, v
	}
}

// push appends a pair whose id is greater than every stored id.
func (s *sparse) push(id int, v float64) {
	s.ids = append(s.ids, id)
	s.c = append(s.c, v)
}

func (s *sparse) last() float64 {
	if len(s.c) == 0 {
		return 0
	}
	return math.Abs(s.c[len(s.c)-1])
}

func (s *sparse) radius() float64 {
	r := 0.0
	for _, v := range s.c {
		r = roundoff.AddUp(r, math.Abs(v))
	}
	return r
}

func (s *sparse) neg() {
	for i := range s.c {
		s.c[i] = -s.c[i]
	}
}

func (s *sparse) scale(a float64) float64 {
	var sp spill
	k := 0
	for i, v := range s.c {
		if p := sp.flush(sp.mul(v, a)); p != 0 {
			s.ids[k], s.c[k] = s.ids[i], p
			k++
		}
	}
	s.ids, s.c = s.ids[:k], s.c[:k]
	return sp.bound()
}

// lincomb is an ordered two-pointer merge: matching ids combine, the others
// are scaled and inserted in order.
func (s *sparse) lincomb(a float64, y terms, b float64) (terms, float64) {
	ys := y.(*sparse)
	var sp spill
	out := &sparse{
		ids: make([]int, 0, len(s.ids)+len(ys.ids)),
		c:   make([]float64, 0, len(s.ids)+len(ys.ids)),
	}
	i, j := 0, 0
	for i < len(s.ids) || j < len(ys.ids) {
		var id int
		var v float64
		switch {
		case j == len(ys.ids) || (i < len(s.ids) && s.ids[i] < ys.ids[j]):
			id, v = s.ids[i], sp.mul(a, s.c[i])
			i++
		case i == len(s.ids) || ys.ids[j] < s.ids[i]:
			id, v = ys.ids[j], sp.mul(b, ys.c[j])
			j++
		default:
			id, v = s.ids[i], sp.add(sp.mul(a, s.c[i]), sp.mul(b, ys.c[j]))
			i++
			j++
		}
		if v = sp.flush(v); v != 0 {
			out.push(id, v)
		}
	}
	return out, sp.bound()
}

func (s *sparse) dot(y terms) (interval.Interval, float64) {
	ys := y.(*sparse)
	var d pointDot
	for i, j := 0, 0; i < len(s.ids) && j < len(ys.ids); {
		switch {
		case s.ids[i] < ys.ids[j]:
			i++
		case ys.ids[j] < s.ids[i]:
			j++
		default:
			d.add(s.c[i], ys.c[j])
			i++
			j++
		}
	}
	return d.result()
}

func (s *sparse) pad(int) terms { return s }

func (s *sparse) finite() bool {
	for _, v := range s.c {
		if !roundoff.IsFinite(v) {
			return false
		}
	}
	return true
}

func (s *sparse) prune(thr float64) float64 {
	removed := 0.0
	k := 0
	for i, v := range s.c {
		if math.Abs(v) < thr {
			removed = roundoff.AddUp(removed, math.Abs(v))
			continue
		}
		s.ids[k], s.c[k] = s.ids[i], v
		k++
	}
	s.ids, s.c = s.ids[:k], s.c[:k]
	return removed
}

func (s *sparse) snapshot() []Term {
	out := make([]Term, len(s.ids))
	for i, id := range s.ids {
		out[i] = Term{Symbol: id, Coef: interval.Point(s.c[i])}
	}
	return out
}

func (s *sparse) eval(assign map[int]float64) interval.Interval {
	acc := interval.Point(0)
	for i, id := range s.ids {
		acc = acc.Add(weigh(s.c[i], assign, id))
	}
	return acc
}
