package affine

import (
	"math"

	"github.com/njchilds90/goaffine/internal/roundoff"
	"github.com/njchilds90/goaffine/interval"
)

// Term is one noise term of a form: the symbol it refers to and an enclosure
// of its coefficient.
type Term struct {
	Symbol int
	Coef   interval.Interval
}

// terms is the storage of the noise coefficients, one implementation per
// Policy. Dense implementations address symbols 1..Len(); the sparse one keeps
// explicit ids. Methods returning a float64 report an upper bound of the
// magnitude they dropped (rounding error and flushed coefficients), which the
// caller adds to the form's error.
type terms interface {
	Len() int
	clone() terms
	set(symbol int, c float64)
	// last is the magnitude of the coefficient of the highest symbol.
	last() float64
	// radius bounds the sum of the coefficient magnitudes from above.
	radius() float64
	neg()
	scale(a float64) float64
	// lincomb returns a*self + b*y as fresh storage. Dense operands must have
	// the same length.
	lincomb(a float64, y terms, b float64) (terms, float64)
	// dot returns an enclosure of Σ xᵢyᵢ and a lower bound of Σ |xᵢ||yᵢ|,
	// where |xᵢ| is the magnitude radius sums over.
	dot(y terms) (interval.Interval, float64)
	// pad zero-extends dense storage to n symbols.
	pad(n int) terms
	finite() bool
	// prune drops the coefficients below thr in magnitude.
	prune(thr float64) float64
	snapshot() []Term
	// eval encloses Σ xᵢεᵢ for the assigned symbols; the others range over [-1, 1].
	eval(assign map[int]float64) interval.Interval
}

func newTerms(s *Space, n int) terms {
	switch s.policy {
	case Enclosed:
		t := make(enclosed, n)
		for i := range t {
			t[i] = interval.Point(0)
		}
		return t
	case Sparse:
		return &sparse{}
	}
	return make(compensated, n)
}

// ============================================================
// Rounding bookkeeping
// ============================================================

// underflowZone is where the FMA residual of a product may be inexact.
const underflowZone = 0x1p-960

// spill accumulates the exact rounding errors of coefficient updates (ttt)
// and the magnitude of coefficients flushed to zero below AFEC (sss).
type spill struct {
	ttt, sss float64
}

func (s *spill) mul(a, b float64) float64 {
	p, e := roundoff.TwoProd(a, b)
	s.ttt += math.Abs(e)
	if a != 0 && b != 0 && math.Abs(p) < underflowZone {
		s.ttt += roundoff.MinNormal
	}
	return p
}

func (s *spill) add(a, b float64) float64 {
	r, e := roundoff.TwoSum(a, b)
	s.ttt += math.Abs(e)
	return r
}

func (s *spill) flush(c float64) float64 {
	if c != 0 && math.Abs(c) < AFEC {
		s.sss += math.Abs(c)
		return 0
	}
	return c
}

// bound is AFEE*(ttt+sss); the amplification covers the rounding of the
// accumulation itself.
func (s *spill) bound() float64 {
	if s.ttt == 0 && s.sss == 0 {
		return 0
	}
	return roundoff.MulUp(AFEE, roundoff.AddUp(s.ttt, s.sss))
}

// pointDot accumulates the directed bounds of Σ ab and Σ |a||b| over float pairs.
type pointDot struct {
	lo, hi, abs float64
}

func (d *pointDot) add(a, b float64) {
	d.lo = roundoff.AddDown(d.lo, roundoff.MulDown(a, b))
	d.hi = roundoff.AddUp(d.hi, roundoff.MulUp(a, b))
	d.abs = roundoff.AddDown(d.abs, roundoff.MulDown(math.Abs(a), math.Abs(b)))
}

func (d *pointDot) result() (interval.Interval, float64) {
	return interval.Interval{Lo: d.lo, Hi: d.hi}, math.Max(d.abs, 0)
}

// weigh returns an enclosure of c*assign[symbol], or of c*[-1, 1] when the
// symbol is not assigned.
func weigh(c float64, assign map[int]float64, symbol int) interval.Interval {
	e, ok := assign[symbol]
	if !ok {
		return interval.New(-math.Abs(c), math.Abs(c))
	}
	return interval.Interval{Lo: roundoff.MulDown(c, e), Hi: roundoff.MulUp(c, e)}
}
