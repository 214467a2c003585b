package affine

import (
	"fmt"
	"math"

	"github.com/njchilds90/goaffine/interval"
)

// ============================================================
// Powers and roots
// ============================================================

// Sqr squares f with the multiplication kernel applied to f·f, so the
// quadratic terms pair up exactly.
func (f *Form) Sqr(iv interval.Interval) *Form {
	if f.kind != Active {
		return f.fallback("sqr", f.ToInterval().Intersect(iv).Sqr())
	}
	return f.mulKernel(f, "sqr")
}

// PowInt replaces f by fⁿ. Even exponents use a one-extremum fit, odd ones a
// fit with a critical point on each side of zero, and negative ones the
// inverse of the positive power.
func (f *Form) PowInt(n int, iv interval.Interval) *Form {
	switch {
	case n == 0:
		if f.ToInterval().Intersect(iv).IsEmpty() {
			return f.fallback("pow", interval.Empty())
		}
		return f.fallback("pow", interval.Point(1))
	case n == 1:
		return f
	case n == 2:
		return f.Sqr(iv)
	case n == math.MinInt:
		return f.fallback("pow", f.ToInterval().Intersect(iv).PowInt(n))
	case n < 0:
		pos := f.ToInterval().Intersect(iv).PowInt(-n)
		return f.PowInt(-n, iv).Inv(pos)
	}
	return f.apply(powUnary(n), iv)
}

// powUnary returns tⁿ for n >= 3.
func powUnary(n int) *unary {
	fn := float64(n)
	return &unary{
		name:   fmt.Sprintf("pow%d", n),
		domain: interval.Entire(),
		image:  func(x interval.Interval) interval.Interval { return x.PowInt(n) },
		eval:   func(t float64) float64 { return math.Pow(t, fn) },
		deriv:  func(t float64) float64 { return fn * math.Pow(t, fn-1) },
		critical: func(a float64, _ interval.Interval) []float64 {
			u := math.Pow(math.Abs(a)/fn, 1/(fn-1))
			if n%2 == 0 {
				return one(math.Copysign(u, a))
			}
			if a < 0 {
				return nil
			}
			return symmetric(u)
		},
	}
}

// PowReal replaces f by f^p over the non-negative part of the enclosure.
// Integral exponents go to PowInt.
func (f *Form) PowReal(p float64, iv interval.Interval) *Form {
	if p == math.Trunc(p) && math.Abs(p) < 1<<31 {
		return f.PowInt(int(p), iv)
	}
	if math.IsNaN(p) {
		return f.fallback("pow", interval.Empty())
	}
	return f.apply(powRealUnary(p), iv)
}

func powRealUnary(p float64) *unary {
	return &unary{
		name:   "powreal",
		domain: interval.NonNegative(),
		image:  func(x interval.Interval) interval.Interval { return x.PowReal(p) },
		eval:   func(t float64) float64 { return math.Pow(t, p) },
		deriv:  func(t float64) float64 { return p * math.Pow(t, p-1) },
		critical: func(a float64, _ interval.Interval) []float64 {
			return one(math.Pow(a/p, 1/(p-1)))
		},
	}
}

// PowInterval replaces f by f^p for an exponent known through an enclosure,
// as exp(p·log f).
func (f *Form) PowInterval(p interval.Interval, iv interval.Interval) *Form {
	switch {
	case p.IsEmpty():
		return f.fallback("pow", interval.Empty())
	case p.IsDegenerate():
		return f.PowReal(p.Lo, iv)
	}
	return f.Log(iv).MulInterval(p).Exp(interval.Entire())
}

// Root replaces f by its real n-th root. Even roots use the non-negative part
// of the enclosure. An odd root of an enclosure straddling zero is the plain
// union of both branches, since they cannot share one affine form.
func (f *Form) Root(n int, iv interval.Interval) *Form {
	dom := f.ToInterval().Intersect(iv)
	switch {
	case n == 0:
		return f.fallback("root", interval.Empty())
	case n == 1:
		return f
	case n == 2:
		return f.Sqrt(iv)
	case n == math.MinInt:
		return f.fallback("root", dom.Root(n))
	case n < 0:
		return f.Root(-n, iv).Inv(dom.Root(-n))
	case n%2 == 1 && dom.Lo < 0 && dom.Hi > 0:
		return f.fallback("root", dom.Root(n))
	}
	return f.apply(rootUnary(n), iv)
}

// rootUnary returns the real n-th root for n >= 3. Odd roots keep the sign.
func rootUnary(n int) *unary {
	fn := float64(n)
	dom := interval.NonNegative()
	if n%2 == 1 {
		dom = interval.Entire()
	}
	root := func(t float64) float64 {
		if t < 0 {
			return -math.Pow(-t, 1/fn)
		}
		return math.Pow(t, 1/fn)
	}
	return &unary{
		name:   fmt.Sprintf("root%d", n),
		domain: dom,
		image:  func(x interval.Interval) interval.Interval { return x.Root(n) },
		eval:   root,
		deriv:  func(t float64) float64 { return math.Pow(math.Abs(t), 1/fn-1) / fn },
		critical: func(a float64, _ interval.Interval) []float64 {
			if a <= 0 {
				return nil
			}
			u := math.Pow(a*fn, -fn/(fn-1))
			if n%2 == 1 {
				return symmetric(u)
			}
			return one(u)
		},
	}
}
