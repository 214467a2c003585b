// Package interval implements the plain enclosure type that affine forms
// convert to and from: a closed range [Lo, Hi] of float64 values with
// outward-rounded arithmetic and elementary functions.
//
// Intervals are values. Every operation returns a fresh Interval and never
// mutates its receiver.
package interval

import (
	"fmt"
	"math"

	"github.com/njchilds90/goaffine/internal/roundoff"
)

// Interval is the closed range [Lo, Hi]. Lo > Hi (or a NaN bound) is empty.
// Infinite bounds describe unbounded and half-bounded ranges.
type Interval struct {
	Lo, Hi float64
}

// ============================================================
// Constructors
// ============================================================

// New returns [lo, hi], or the empty interval when lo > hi.
func New(lo, hi float64) Interval {
	if !(lo <= hi) {
		return Empty()
	}
	return Interval{Lo: lo, Hi: hi}
}

// Point returns the degenerate interval [x, x].
func Point(x float64) Interval {
	if math.IsNaN(x) {
		return Empty()
	}
	return Interval{Lo: x, Hi: x}
}

// Empty returns the empty interval.
func Empty() Interval { return Interval{Lo: math.Inf(1), Hi: math.Inf(-1)} }

// Entire returns (-inf, +inf).
func Entire() Interval { return Interval{Lo: math.Inf(-1), Hi: math.Inf(1)} }

// NonNegative returns [0, +inf).
func NonNegative() Interval { return Interval{Lo: 0, Hi: math.Inf(1)} }

// libraryError is the relative error budget granted to the math package's
// elementary functions, which are faithful but not correctly rounded.
const libraryError = 0x1p-44

// widen rounds [lo, hi] outward by the library error budget plus two ulps.
func widen(lo, hi float64) Interval {
	if roundoff.IsFinite(lo) {
		lo = roundoff.SubDown(lo, math.Abs(lo)*libraryError)
	}
	if roundoff.IsFinite(hi) {
		hi = roundoff.AddUp(hi, math.Abs(hi)*libraryError)
	}
	return New(roundoff.Down(roundoff.Down(lo)), roundoff.Up(roundoff.Up(hi)))
}

// ============================================================
// Predicates and accessors
// ============================================================

func (x Interval) IsEmpty() bool  { return !(x.Lo <= x.Hi) }
func (x Interval) IsEntire() bool { return math.IsInf(x.Lo, -1) && math.IsInf(x.Hi, 1) }

func (x Interval) IsUnbounded() bool {
	return !x.IsEmpty() && (math.IsInf(x.Lo, -1) || math.IsInf(x.Hi, 1))
}

func (x Interval) IsBounded() bool    { return !x.IsEmpty() && !x.IsUnbounded() }
func (x Interval) IsDegenerate() bool { return !x.IsEmpty() && x.Lo == x.Hi }
func (x Interval) Contains(v float64) bool {
	return x.Lo <= v && v <= x.Hi
}
func (x Interval) ContainsZero() bool { return x.Contains(0) }

// Subset reports whether x is contained in y. The empty set is a subset of everything.
func (x Interval) Subset(y Interval) bool {
	if x.IsEmpty() {
		return true
	}
	return y.Lo <= x.Lo && x.Hi <= y.Hi
}

// Equal reports set equality.
func (x Interval) Equal(y Interval) bool {
	if x.IsEmpty() || y.IsEmpty() {
		return x.IsEmpty() && y.IsEmpty()
	}
	return x.Lo == y.Lo && x.Hi == y.Hi
}

// Mid returns a point inside x, the midpoint whenever x is bounded.
func (x Interval) Mid() float64 {
	switch {
	case x.IsEmpty():
		return math.NaN()
	case x.IsEntire():
		return 0
	case math.IsInf(x.Lo, -1):
		return -math.MaxFloat64
	case math.IsInf(x.Hi, 1):
		return math.MaxFloat64
	}
	m := 0.5*x.Lo + 0.5*x.Hi
	return math.Min(math.Max(m, x.Lo), x.Hi)
}

// Rad returns an upper bound of the distance from Mid to either bound, so that
// [Mid-Rad, Mid+Rad] always contains x.
func (x Interval) Rad() float64 {
	if x.IsEmpty() {
		return math.NaN()
	}
	if x.IsUnbounded() {
		return math.Inf(1)
	}
	m := x.Mid()
	return math.Max(roundoff.SubUp(x.Hi, m), roundoff.SubUp(m, x.Lo))
}

// Diam returns an upper bound of Hi-Lo.
func (x Interval) Diam() float64 {
	if x.IsEmpty() {
		return math.NaN()
	}
	return roundoff.SubUp(x.Hi, x.Lo)
}

// Mag returns max |v| over x.
func (x Interval) Mag() float64 {
	if x.IsEmpty() {
		return math.NaN()
	}
	return math.Max(math.Abs(x.Lo), math.Abs(x.Hi))
}

// Mig returns min |v| over x.
func (x Interval) Mig() float64 {
	switch {
	case x.IsEmpty():
		return math.NaN()
	case x.ContainsZero():
		return 0
	}
	return math.Min(math.Abs(x.Lo), math.Abs(x.Hi))
}

// Hull returns the smallest interval containing x and y.
func (x Interval) Hull(y Interval) Interval {
	switch {
	case x.IsEmpty():
		return y
	case y.IsEmpty():
		return x
	}
	return Interval{Lo: math.Min(x.Lo, y.Lo), Hi: math.Max(x.Hi, y.Hi)}
}

// Intersect returns x ∩ y.
func (x Interval) Intersect(y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	return New(math.Max(x.Lo, y.Lo), math.Min(x.Hi, y.Hi))
}

// Inflate returns [Lo-r, Hi+r] rounded outward, for r >= 0.
func (x Interval) Inflate(r float64) Interval {
	if x.IsEmpty() {
		return x
	}
	r = math.Abs(r)
	return Interval{Lo: roundoff.SubDown(x.Lo, r), Hi: roundoff.AddUp(x.Hi, r)}
}

func (x Interval) String() string {
	if x.IsEmpty() {
		return "[empty]"
	}
	return fmt.Sprintf("[%g, %g]", x.Lo, x.Hi)
}

// ============================================================
// Arithmetic
// ============================================================

func (x Interval) Neg() Interval {
	if x.IsEmpty() {
		return x
	}
	return Interval{Lo: -x.Hi, Hi: -x.Lo}
}

func (x Interval) Add(y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	return Interval{Lo: roundoff.AddDown(x.Lo, y.Lo), Hi: roundoff.AddUp(x.Hi, y.Hi)}
}

func (x Interval) Sub(y Interval) Interval { return x.Add(y.Neg()) }

// AddScalar returns x + a.
func (x Interval) AddScalar(a float64) Interval { return x.Add(Point(a)) }

// Scale returns a*x.
func (x Interval) Scale(a float64) Interval {
	if x.IsEmpty() || math.IsNaN(a) {
		return Empty()
	}
	if a >= 0 {
		return Interval{Lo: roundoff.MulDown(a, x.Lo), Hi: roundoff.MulUp(a, x.Hi)}
	}
	return Interval{Lo: roundoff.MulDown(a, x.Hi), Hi: roundoff.MulUp(a, x.Lo)}
}

func (x Interval) Mul(y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	lo := math.Min(
		math.Min(roundoff.MulDown(x.Lo, y.Lo), roundoff.MulDown(x.Lo, y.Hi)),
		math.Min(roundoff.MulDown(x.Hi, y.Lo), roundoff.MulDown(x.Hi, y.Hi)),
	)
	hi := math.Max(
		math.Max(roundoff.MulUp(x.Lo, y.Lo), roundoff.MulUp(x.Lo, y.Hi)),
		math.Max(roundoff.MulUp(x.Hi, y.Lo), roundoff.MulUp(x.Hi, y.Hi)),
	)
	return Interval{Lo: lo, Hi: hi}
}

// Inv returns 1/x. A zero inside x gives an unbounded result, [0,0] gives empty.
func (x Interval) Inv() Interval {
	switch {
	case x.IsEmpty():
		return x
	case x.Lo == 0 && x.Hi == 0:
		return Empty()
	case x.Lo == 0:
		return Interval{Lo: roundoff.DivDown(1, x.Hi), Hi: math.Inf(1)}
	case x.Hi == 0:
		return Interval{Lo: math.Inf(-1), Hi: roundoff.DivUp(1, x.Lo)}
	case x.ContainsZero():
		return Entire()
	}
	return Interval{Lo: roundoff.DivDown(1, x.Hi), Hi: roundoff.DivUp(1, x.Lo)}
}

// Div returns x/y.
func (x Interval) Div(y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	if y.ContainsZero() {
		return x.Mul(y.Inv())
	}
	lo := math.Min(
		math.Min(roundoff.DivDown(x.Lo, y.Lo), roundoff.DivDown(x.Lo, y.Hi)),
		math.Min(roundoff.DivDown(x.Hi, y.Lo), roundoff.DivDown(x.Hi, y.Hi)),
	)
	hi := math.Max(
		math.Max(roundoff.DivUp(x.Lo, y.Lo), roundoff.DivUp(x.Lo, y.Hi)),
		math.Max(roundoff.DivUp(x.Hi, y.Lo), roundoff.DivUp(x.Hi, y.Hi)),
	)
	return New(lo, hi)
}

func (x Interval) Sqr() Interval {
	if x.IsEmpty() {
		return x
	}
	m, g := x.Mag(), x.Mig()
	return Interval{Lo: roundoff.MulDown(g, g), Hi: roundoff.MulUp(m, m)}
}

func (x Interval) Abs() Interval {
	switch {
	case x.IsEmpty():
		return x
	case x.Lo >= 0:
		return x
	case x.Hi <= 0:
		return x.Neg()
	}
	return Interval{Lo: 0, Hi: x.Mag()}
}

// Sign returns the range of the sign function over x.
func (x Interval) Sign() Interval {
	switch {
	case x.IsEmpty():
		return x
	case x.Lo > 0:
		return Point(1)
	case x.Hi < 0:
		return Point(-1)
	case x.Lo == 0 && x.Hi == 0:
		return Point(0)
	case x.Lo == 0:
		return New(0, 1)
	case x.Hi == 0:
		return New(-1, 0)
	}
	return New(-1, 1)
}
