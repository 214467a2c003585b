package interval

import (
	"math"

	"github.com/njchilds90/goaffine/internal/roundoff"
)

// maxTrigArgument bounds the magnitude for which the extremum search of the
// periodic functions is trusted; beyond it the full range is returned.
const maxTrigArgument = 0x1p50

// increasing maps x through a non-decreasing function.
func (x Interval) increasing(f func(float64) float64) Interval {
	if x.IsEmpty() {
		return x
	}
	return widen(f(x.Lo), f(x.Hi))
}

// decreasing maps x through a non-increasing function.
func (x Interval) decreasing(f func(float64) float64) Interval {
	if x.IsEmpty() {
		return x
	}
	return widen(f(x.Hi), f(x.Lo))
}

func (x Interval) clamp(lo, hi float64) Interval {
	if x.IsEmpty() {
		return x
	}
	return New(math.Max(x.Lo, lo), math.Min(x.Hi, hi))
}

// Sqrt returns sqrt over x ∩ [0, +inf).
func (x Interval) Sqrt() Interval {
	d := x.Intersect(NonNegative())
	if d.IsEmpty() {
		return d
	}
	return Interval{Lo: roundoff.SqrtDown(d.Lo), Hi: roundoff.SqrtUp(d.Hi)}
}

func (x Interval) Exp() Interval {
	return x.increasing(math.Exp).clamp(0, math.Inf(1))
}

// Log returns the natural logarithm over x ∩ (0, +inf).
func (x Interval) Log() Interval {
	d := x.Intersect(NonNegative())
	if d.IsEmpty() || d.Hi == 0 {
		return Empty()
	}
	r := d.increasing(math.Log)
	if d.Lo == 0 {
		r.Lo = math.Inf(-1)
	}
	return r
}

// PowInt returns x^n for an integer n. x^0 is 1 for every non-empty x.
func (x Interval) PowInt(n int) Interval {
	switch {
	case x.IsEmpty():
		return x
	case n == 0:
		return Point(1)
	case n == 1:
		return x
	case n == 2:
		return x.Sqr()
	case n == math.MinInt:
		return x.Sqr().PowInt(n / 2)
	case n < 0:
		return x.PowInt(-n).Inv()
	case n%2 == 0:
		return Interval{Lo: powDown(x.Mig(), n), Hi: powUp(x.Mag(), n)}
	}
	return Interval{Lo: oddPowDown(x.Lo, n), Hi: oddPowUp(x.Hi, n)}
}

// powUp returns an upper bound of v^n for v >= 0, n >= 1.
func powUp(v float64, n int) float64 {
	acc, base := 1.0, v
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			acc = roundoff.MulUp(acc, base)
		}
		if n > 1 {
			base = roundoff.MulUp(base, base)
		}
	}
	return acc
}

// powDown returns a lower bound of v^n for v >= 0, n >= 1.
func powDown(v float64, n int) float64 {
	acc, base := 1.0, v
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			acc = roundoff.MulDown(acc, base)
		}
		if n > 1 {
			base = roundoff.MulDown(base, base)
		}
	}
	return acc
}

func oddPowDown(v float64, n int) float64 {
	if v < 0 {
		return -powUp(-v, n)
	}
	return powDown(v, n)
}

func oddPowUp(v float64, n int) float64 {
	if v < 0 {
		return -powDown(-v, n)
	}
	return powUp(v, n)
}

// Root returns the real n-th root. Even roots restrict x to [0, +inf); odd
// roots are defined everywhere and keep the sign.
func (x Interval) Root(n int) Interval {
	switch {
	case x.IsEmpty() || n == 0:
		return Empty()
	case n == 1:
		return x
	case n == 2:
		return x.Sqrt()
	case n == math.MinInt:
		return x.Sqrt().Root(n / 2)
	case n < 0:
		return x.Root(-n).Inv()
	case n%2 == 0:
		d := x.Intersect(NonNegative())
		if d.IsEmpty() {
			return d
		}
		return Interval{Lo: rootDown(d.Lo, n), Hi: rootUp(d.Hi, n)}
	}
	return Interval{Lo: oddRootDown(x.Lo, n), Hi: oddRootUp(x.Hi, n)}
}

// rootGuess is the library estimate of v^(1/n) for v >= 0. The exponent 1/n is
// itself rounded, so the estimate is only a starting point for rootDown/rootUp.
func rootGuess(v float64, n int) float64 {
	if n == 3 {
		return math.Cbrt(v)
	}
	return math.Pow(v, 1/float64(n))
}

// rootDown returns r with r^n <= v, for v >= 0.
func rootDown(v float64, n int) float64 {
	if v == 0 || math.IsInf(v, 1) {
		return v
	}
	r := rootGuess(v, n)
	for i := 0; i < 64 && powUp(r, n) > v; i++ {
		r = roundoff.Down(r)
	}
	if powUp(r, n) > v {
		return widen(r, r).Lo
	}
	return math.Max(r, 0)
}

// rootUp returns r with r^n >= v, for v >= 0.
func rootUp(v float64, n int) float64 {
	if v == 0 || math.IsInf(v, 1) {
		return v
	}
	r := rootGuess(v, n)
	for i := 0; i < 64 && powDown(r, n) < v; i++ {
		r = roundoff.Up(r)
	}
	if powDown(r, n) < v {
		return widen(r, r).Hi
	}
	return r
}

func oddRootDown(v float64, n int) float64 {
	if v < 0 {
		return -rootUp(-v, n)
	}
	return rootDown(v, n)
}

func oddRootUp(v float64, n int) float64 {
	if v < 0 {
		return -rootDown(-v, n)
	}
	return rootUp(v, n)
}

// PowReal returns x^p for a real exponent, over x ∩ [0, +inf) unless p is an integer.
func (x Interval) PowReal(p float64) Interval {
	if x.IsEmpty() || math.IsNaN(p) {
		return Empty()
	}
	if p == math.Trunc(p) && math.Abs(p) < 1<<31 {
		return x.PowInt(int(p))
	}
	d := x.Intersect(NonNegative())
	switch {
	case d.IsEmpty():
		return d
	case p > 0:
		return d.increasing(func(v float64) float64 { return math.Pow(v, p) }).clamp(0, math.Inf(1))
	case d.Hi == 0:
		return Empty()
	}
	r := d.decreasing(func(v float64) float64 { return math.Pow(v, p) }).clamp(0, math.Inf(1))
	if d.Lo == 0 {
		r.Hi = math.Inf(1)
	}
	return r
}

// Pow returns x^p for an interval exponent, computed as exp(p*log(x)).
func (x Interval) Pow(p Interval) Interval {
	if p.IsEmpty() {
		return p
	}
	if p.IsDegenerate() {
		return x.PowReal(p.Lo)
	}
	return p.Mul(x.Log()).Exp()
}

// ============================================================
// Trigonometric
// ============================================================

// hitsPhase reports whether phase + k*period may fall inside x for some
// integer k. It errs on the side of true.
func (x Interval) hitsPhase(phase, period float64) bool {
	k := math.Floor((x.Lo - phase) / period)
	for i := 0.0; i < 3; i++ {
		p := phase + (k+i)*period
		tol := 1e-12 * (1 + math.Abs(p))
		if p >= x.Lo-tol && p <= x.Hi+tol {
			return true
		}
	}
	return false
}

func (x Interval) trigUntrusted(period float64) bool {
	return x.IsUnbounded() || x.Mag() > maxTrigArgument || x.Hi-x.Lo >= period
}

func (x Interval) Sin() Interval {
	if x.IsEmpty() {
		return x
	}
	if x.trigUntrusted(2 * math.Pi) {
		return New(-1, 1)
	}
	a, b := math.Sin(x.Lo), math.Sin(x.Hi)
	r := widen(math.Min(a, b), math.Max(a, b))
	if x.hitsPhase(math.Pi/2, 2*math.Pi) {
		r.Hi = 1
	}
	if x.hitsPhase(-math.Pi/2, 2*math.Pi) {
		r.Lo = -1
	}
	return r.clamp(-1, 1)
}

func (x Interval) Cos() Interval {
	if x.IsEmpty() {
		return x
	}
	if x.trigUntrusted(2 * math.Pi) {
		return New(-1, 1)
	}
	a, b := math.Cos(x.Lo), math.Cos(x.Hi)
	r := widen(math.Min(a, b), math.Max(a, b))
	if x.hitsPhase(0, 2*math.Pi) {
		r.Hi = 1
	}
	if x.hitsPhase(math.Pi, 2*math.Pi) {
		r.Lo = -1
	}
	return r.clamp(-1, 1)
}

// Tan returns the whole line whenever x may contain a pole.
func (x Interval) Tan() Interval {
	if x.IsEmpty() {
		return x
	}
	if x.trigUntrusted(math.Pi) || x.hitsPhase(math.Pi/2, math.Pi) {
		return Entire()
	}
	a, b := math.Tan(x.Lo), math.Tan(x.Hi)
	if a > b {
		return Entire()
	}
	return widen(a, b)
}

// Asin returns asin over x ∩ [-1, 1].
func (x Interval) Asin() Interval {
	return x.Intersect(New(-1, 1)).increasing(math.Asin)
}

// Acos returns acos over x ∩ [-1, 1].
func (x Interval) Acos() Interval {
	return x.Intersect(New(-1, 1)).decreasing(math.Acos).clamp(0, math.Inf(1))
}

func (x Interval) Atan() Interval { return x.increasing(math.Atan) }

// ============================================================
// Hyperbolic
// ============================================================

func (x Interval) Sinh() Interval { return x.increasing(math.Sinh) }

func (x Interval) Cosh() Interval {
	if x.IsEmpty() {
		return x
	}
	r := widen(math.Cosh(x.Mig()), math.Cosh(x.Mag()))
	if x.ContainsZero() {
		r.Lo = 1
	}
	return r.clamp(1, math.Inf(1))
}

func (x Interval) Tanh() Interval { return x.increasing(math.Tanh).clamp(-1, 1) }
