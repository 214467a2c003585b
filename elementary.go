package affine

import (
	"math"

	"github.com/njchilds90/goaffine/interval"
)

// ============================================================
// Elementary functions
// ============================================================
//
// Every function takes the caller's enclosure of the current value, which may
// be tighter than the form's own; it is intersected with ToInterval() before
// use. Pass interval.Entire() when there is nothing better.

var (
	fnSqrt = &unary{
		name:   "sqrt",
		domain: interval.NonNegative(),
		image:  interval.Interval.Sqrt,
		eval:   math.Sqrt,
		deriv:  func(t float64) float64 { return 0.5 / math.Sqrt(t) },
		critical: func(a float64, _ interval.Interval) []float64 {
			return one(1 / (4 * a * a))
		},
	}

	fnExp = &unary{
		name:     "exp",
		domain:   interval.Entire(),
		image:    interval.Interval.Exp,
		eval:     math.Exp,
		deriv:    math.Exp,
		critical: func(a float64, _ interval.Interval) []float64 { return one(math.Log(a)) },
	}

	fnLog = &unary{
		name:     "log",
		domain:   interval.NonNegative(),
		image:    interval.Interval.Log,
		eval:     math.Log,
		deriv:    func(t float64) float64 { return 1 / t },
		critical: func(a float64, _ interval.Interval) []float64 { return one(1 / a) },
	}

	fnInv = &unary{
		name:   "inv",
		domain: interval.Entire(),
		image:  interval.Interval.Inv,
		eval:   func(t float64) float64 { return 1 / t },
		deriv:  func(t float64) float64 { return -1 / (t * t) },
		critical: func(a float64, _ interval.Interval) []float64 {
			return symmetric(math.Sqrt(-1 / a))
		},
	}

	fnSin = &unary{
		name:    "sin",
		domain:  interval.Entire(),
		image:   interval.Interval.Sin,
		eval:    math.Sin,
		deriv:   math.Cos,
		maxDiam: 2 * math.Pi,
		critical: func(a float64, dom interval.Interval) []float64 {
			u := math.Acos(a)
			return periodic([]float64{u, -u}, 2*math.Pi, dom)
		},
	}

	fnCos = &unary{
		name:    "cos",
		domain:  interval.Entire(),
		image:   interval.Interval.Cos,
		eval:    math.Cos,
		deriv:   func(t float64) float64 { return -math.Sin(t) },
		maxDiam: 2 * math.Pi,
		critical: func(a float64, dom interval.Interval) []float64 {
			u := math.Asin(-a)
			return periodic([]float64{u, math.Pi - u}, 2*math.Pi, dom)
		},
	}

	fnTan = &unary{
		name:   "tan",
		domain: interval.Entire(),
		image:  interval.Interval.Tan,
		eval:   math.Tan,
		deriv: func(t float64) float64 {
			v := math.Tan(t)
			return 1 + v*v
		},
		maxDiam: math.Pi,
		critical: func(a float64, dom interval.Interval) []float64 {
			u := math.Atan(math.Sqrt(a - 1))
			return periodic([]float64{u, -u}, math.Pi, dom)
		},
	}

	fnAsin = &unary{
		name:   "asin",
		domain: interval.New(-1, 1),
		image:  interval.Interval.Asin,
		eval:   math.Asin,
		deriv:  func(t float64) float64 { return 1 / math.Sqrt((1-t)*(1+t)) },
		critical: func(a float64, _ interval.Interval) []float64 {
			return symmetric(math.Sqrt((a-1)*(a+1)) / math.Abs(a))
		},
	}

	fnAcos = &unary{
		name:   "acos",
		domain: interval.New(-1, 1),
		image:  interval.Interval.Acos,
		eval:   math.Acos,
		deriv:  func(t float64) float64 { return -1 / math.Sqrt((1-t)*(1+t)) },
		critical: func(a float64, _ interval.Interval) []float64 {
			return symmetric(math.Sqrt((a-1)*(a+1)) / math.Abs(a))
		},
	}

	fnAtan = &unary{
		name:   "atan",
		domain: interval.Entire(),
		image:  interval.Interval.Atan,
		eval:   math.Atan,
		deriv:  func(t float64) float64 { return 1 / (1 + t*t) },
		critical: func(a float64, _ interval.Interval) []float64 {
			return symmetric(math.Sqrt((1 - a) / a))
		},
	}

	fnSinh = &unary{
		name:     "sinh",
		domain:   interval.Entire(),
		image:    interval.Interval.Sinh,
		eval:     math.Sinh,
		deriv:    math.Cosh,
		critical: func(a float64, _ interval.Interval) []float64 { return symmetric(math.Acosh(a)) },
	}

	fnCosh = &unary{
		name:     "cosh",
		domain:   interval.Entire(),
		image:    interval.Interval.Cosh,
		eval:     math.Cosh,
		deriv:    math.Sinh,
		critical: func(a float64, _ interval.Interval) []float64 { return one(math.Asinh(a)) },
	}

	fnTanh = &unary{
		name:   "tanh",
		domain: interval.Entire(),
		image:  interval.Interval.Tanh,
		eval:   math.Tanh,
		deriv: func(t float64) float64 {
			v := math.Tanh(t)
			return (1 - v) * (1 + v)
		},
		critical: func(a float64, _ interval.Interval) []float64 {
			return symmetric(math.Atanh(math.Sqrt(1 - a)))
		},
	}

	// fnAbs has a kink at 0, which is its only critical point.
	fnAbs = &unary{
		name:   "abs",
		domain: interval.Entire(),
		image:  interval.Interval.Abs,
		eval:   math.Abs,
		deriv: func(t float64) float64 {
			switch {
			case t > 0:
				return 1
			case t < 0:
				return -1
			}
			return 0
		},
		critical: func(_ float64, dom interval.Interval) []float64 {
			if dom.ContainsZero() {
				return one(0)
			}
			return nil
		},
	}
)

func (f *Form) Sqrt(iv interval.Interval) *Form { return f.apply(fnSqrt, iv) }
func (f *Form) Exp(iv interval.Interval) *Form  { return f.apply(fnExp, iv) }
func (f *Form) Log(iv interval.Interval) *Form  { return f.apply(fnLog, iv) }

// Inv replaces f by 1/f. An enclosure containing zero gives the plain
// (unbounded or empty) result.
func (f *Form) Inv(iv interval.Interval) *Form { return f.apply(fnInv, iv) }

func (f *Form) Sin(iv interval.Interval) *Form { return f.apply(fnSin, iv) }
func (f *Form) Cos(iv interval.Interval) *Form { return f.apply(fnCos, iv) }

// Tan gives the plain result (the whole line) when the enclosure may hold a pole.
func (f *Form) Tan(iv interval.Interval) *Form  { return f.apply(fnTan, iv) }
func (f *Form) Asin(iv interval.Interval) *Form { return f.apply(fnAsin, iv) }
func (f *Form) Acos(iv interval.Interval) *Form { return f.apply(fnAcos, iv) }
func (f *Form) Atan(iv interval.Interval) *Form { return f.apply(fnAtan, iv) }
func (f *Form) Sinh(iv interval.Interval) *Form { return f.apply(fnSinh, iv) }
func (f *Form) Cosh(iv interval.Interval) *Form { return f.apply(fnCosh, iv) }
func (f *Form) Tanh(iv interval.Interval) *Form { return f.apply(fnTanh, iv) }

// Abs linearizes |x|. On an enclosure that straddles zero the fit spans the kink.
func (f *Form) Abs(iv interval.Interval) *Form { return f.apply(fnAbs, iv) }

// Sign is discontinuous, so the result is always the plain enclosure.
func (f *Form) Sign(iv interval.Interval) *Form {
	return f.fallback("sign", f.ToInterval().Intersect(iv).Sign())
}
