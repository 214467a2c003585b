// Package affine is a self-validating numeric kernel based on affine
// arithmetic.
//
// An affine form represents a real quantity as
//
//	x = x₀ + x₁ε₁ + … + xₙεₙ ± err
//
// where every noise symbol εᵢ ranges over [-1, 1] and is shared by all the
// forms that mention it. Sharing is what lets affine arithmetic cancel
// correlated terms that plain interval arithmetic would double-count.
//
// All operators are sound: the reconstructed enclosure (ToInterval) always
// contains the true range of the represented quantity, including the
// floating-point rounding error of every operation. Irregular states (empty,
// unbounded, half-bounded) are kinds, not errors, and overflow degrades a form
// to Entire.
//
// Quick start:
//
//	s := affine.NewSpace()
//	x := s.Var(1, 1, interval.New(2, 4))   // 3 + 1·ε₁
//	y := x.Clone().MulForm(x)              // x²
//	y.SubForm(x)                           // x² - x, the ε₁ terms partly cancel
//	fmt.Println(y.ToInterval())
package affine

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/njchilds90/goaffine/internal/roundoff"
	"github.com/njchilds90/goaffine/interval"
)

// ============================================================
// Constants
// ============================================================

const (
	// AFEC is the degeneracy threshold: enclosures narrower than this become
	// forms without noise terms, and compensated coefficients smaller than
	// this are flushed into the error.
	AFEC = 0x1p-55

	// AFEE amplifies accumulated rounding errors before they are added to the
	// error term.
	AFEE = 2.0
)

// ============================================================
// Kind
// ============================================================

// Kind tags the state of a form. Only Active forms carry noise terms.
type Kind int

const (
	Active Kind = iota
	Empty
	Entire
	// LowerBounded is [bound, +inf).
	LowerBounded
	// UpperBounded is (-inf, bound].
	UpperBounded
)

func (k Kind) String() string {
	switch k {
	case Active:
		return "active"
	case Empty:
		return "empty"
	case Entire:
		return "entire"
	case LowerBounded:
		return "lower-bounded"
	case UpperBounded:
		return "upper-bounded"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ============================================================
// Form
// ============================================================

// Form is an affine form. Operators mutate the receiver in place and return
// it, so calls chain:
//
//	x.MulScalar(2).AddScalar(1)
//
// A Form belongs to the Space that created it and is not safe for concurrent
// mutation.
type Form struct {
	space  *Space
	kind   Kind
	bound  float64
	center float64
	terms  terms
	err    float64
}

// Space returns the space the form belongs to.
func (f *Form) Space() *Space { return f.space }

func (f *Form) Kind() Kind      { return f.kind }
func (f *Form) IsActive() bool  { return f.kind == Active }
func (f *Form) IsEmpty() bool   { return f.kind == Empty }
func (f *Form) Center() float64 { return f.center }
func (f *Form) Err() float64    { return f.err }

func (f *Form) IsUnbounded() bool {
	return f.kind == Entire || f.kind == LowerBounded || f.kind == UpperBounded
}

// IsDegenerate reports an active form without noise terms.
func (f *Form) IsDegenerate() bool { return f.kind == Active && f.terms.Len() == 0 }

// Len is the number of stored noise terms, 0 for inactive forms.
func (f *Form) Len() int {
	if f.kind != Active {
		return 0
	}
	return f.terms.Len()
}

// Size returns the number of noise terms of an active form, or the sentinel
// code of its kind: -1 empty, -2 entire, -3 lower-bounded, -4 upper-bounded.
func (f *Form) Size() int {
	switch f.kind {
	case Empty:
		return -1
	case Entire:
		return -2
	case LowerBounded:
		return -3
	case UpperBounded:
		return -4
	}
	return f.terms.Len()
}

// ToInterval returns center ± (Σ|xᵢ| + err), rounded outward.
func (f *Form) ToInterval() interval.Interval {
	switch f.kind {
	case Empty:
		return interval.Empty()
	case Entire:
		return interval.Entire()
	case LowerBounded:
		return interval.Interval{Lo: f.bound, Hi: math.Inf(1)}
	case UpperBounded:
		return interval.Interval{Lo: math.Inf(-1), Hi: f.bound}
	}
	r := roundoff.AddUp(f.terms.radius(), f.err)
	return interval.Interval{Lo: roundoff.SubDown(f.center, r), Hi: roundoff.AddUp(f.center, r)}
}

// Mid returns the center of an active form and the midpoint of the enclosure otherwise.
func (f *Form) Mid() float64 {
	if f.kind == Active {
		return f.center
	}
	return f.ToInterval().Mid()
}

// LastRadius returns the magnitude of the coefficient of the highest noise
// symbol, 0 if there is none.
func (f *Form) LastRadius() float64 {
	if f.kind != Active {
		return 0
	}
	return f.terms.last()
}

// Terms returns a copy of the noise terms.
func (f *Form) Terms() []Term {
	if f.kind != Active {
		return nil
	}
	return f.terms.snapshot()
}

// Evaluate returns an enclosure of the form for a concrete assignment of some
// of its noise symbols. Unassigned symbols range over [-1, 1] and the error
// term stays a ± range.
func (f *Form) Evaluate(assign map[int]float64) interval.Interval {
	if f.kind != Active {
		return f.ToInterval()
	}
	return f.terms.eval(assign).AddScalar(f.center).Inflate(f.err)
}

// Clone returns an independent deep copy.
func (f *Form) Clone() *Form {
	c := *f
	if f.terms != nil {
		c.terms = f.terms.clone()
	}
	return &c
}

// Set makes f a deep copy of y, reallocating the noise storage as needed.
func (f *Form) Set(y *Form) *Form {
	f.space.mustOwn(y)
	if f == y {
		return f
	}
	*f = *y.Clone()
	return f
}

func (f *Form) String() string {
	switch f.kind {
	case Empty:
		return "empty"
	case Entire:
		return "(-inf, +inf)"
	case LowerBounded:
		return fmt.Sprintf("[%g, +inf)", f.bound)
	case UpperBounded:
		return fmt.Sprintf("(-inf, %g]", f.bound)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%g", f.center)
	for _, t := range f.terms.snapshot() {
		c := t.Coef.Mid()
		if c == 0 {
			continue
		}
		sign := "+"
		if c < 0 {
			sign, c = "-", -c
		}
		fmt.Fprintf(&b, " %s %g·e%d", sign, c, t.Symbol)
	}
	fmt.Fprintf(&b, " ± %g", f.err)
	return b.String()
}

// ============================================================
// Internal state transitions
// ============================================================

// setInterval rebuilds f as the form of iv, releasing any noise storage.
func (f *Form) setInterval(iv interval.Interval) {
	*f = Form{space: f.space}
	switch {
	case iv.IsEmpty():
		f.kind = Empty
	case iv.IsEntire():
		f.kind = Entire
	case math.IsInf(iv.Hi, 1):
		f.kind, f.bound = LowerBounded, iv.Lo
	case math.IsInf(iv.Lo, -1):
		f.kind, f.bound = UpperBounded, iv.Hi
	default:
		f.kind = Active
		f.center = iv.Mid()
		f.terms = f.space.newTerms(0)
		r := iv.Rad()
		if sp, ok := f.terms.(*sparse); ok && iv.Diam() >= AFEC {
			sp.push(f.space.ids.Next(), r)
			return
		}
		f.err = r
	}
}

// fallback replaces f by the plain enclosure iv.
func (f *Form) fallback(op string, iv interval.Interval) *Form {
	f.setInterval(iv)
	if f.kind != Active {
		f.space.log.Debug("form degraded", zap.String("op", op), zap.Stringer("kind", f.kind))
	}
	return f
}

// collapse moves every noise term into the error.
func (f *Form) collapse() {
	f.err = roundoff.AddUp(f.err, f.terms.radius())
	f.terms = f.space.newTerms(0)
}

// settle runs after every mutating step: a non-finite center, coefficient or
// error degrades the form to Entire, and sparse forms turn an error above the
// garbage cap into a fresh noise symbol.
func (f *Form) settle(op string) *Form {
	if f.kind != Active {
		return f
	}
	if !roundoff.IsFinite(f.center) || !roundoff.IsFinite(f.err) || !f.terms.finite() {
		return f.fallback(op, interval.Entire())
	}
	if sp, ok := f.terms.(*sparse); ok && f.err > f.space.garbageCap {
		sp.push(f.space.ids.Next(), f.err)
		f.err = 0
	}
	return f
}

// addErr adds magnitudes to the error, rounding up.
func (f *Form) addErr(parts ...float64) {
	for _, p := range parts {
		f.err = roundoff.AddUp(f.err, math.Abs(p))
	}
}
