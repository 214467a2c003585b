package affine

import (
	"math"

	"go.uber.org/zap"

	"github.com/njchilds90/goaffine/internal/roundoff"
	"github.com/njchilds90/goaffine/interval"
)

// ============================================================
// Elementary linear operators
// ============================================================

// Neg negates f. Half-bounded kinds swap.
func (f *Form) Neg() *Form {
	switch f.kind {
	case LowerBounded:
		f.kind, f.bound = UpperBounded, -f.bound
	case UpperBounded:
		f.kind, f.bound = LowerBounded, -f.bound
	case Active:
		f.center = -f.center
		f.terms.neg()
	}
	return f
}

// AddScalar adds a to the center. The rounding error of the update goes to
// the error term.
func (f *Form) AddScalar(a float64) *Form {
	if f.kind != Active || !roundoff.IsFinite(a) {
		return f.fallback("add", f.ToInterval().AddScalar(a))
	}
	s, e := roundoff.TwoSum(f.center, a)
	f.center = s
	f.addErr(e)
	return f.settle("add")
}

func (f *Form) SubScalar(a float64) *Form { return f.AddScalar(-a) }

// AddInterval adds a quantity known only through its enclosure: the midpoint
// goes to the center and the radius to the error.
func (f *Form) AddInterval(iv interval.Interval) *Form {
	if f.kind != Active || !iv.IsBounded() {
		return f.fallback("add", f.ToInterval().Add(iv))
	}
	return f.AddScalar(iv.Mid()).Inflate(iv.Rad())
}

func (f *Form) SubInterval(iv interval.Interval) *Form { return f.AddInterval(iv.Neg()) }

// AddForm adds y to f. y is not modified.
func (f *Form) AddForm(y *Form) *Form { return f.combine(y, 1, "add") }

// SubForm subtracts y from f. x.SubForm(x) is exactly zero.
func (f *Form) SubForm(y *Form) *Form { return f.combine(y, -1, "sub") }

// combine sets f to f + b*y for b = ±1.
func (f *Form) combine(y *Form, b float64, op string) *Form {
	f.space.mustOwn(y)
	if y == f {
		y = f.Clone()
	}
	if f.kind != Active || y.kind != Active {
		return f.fallback(op, f.ToInterval().Add(y.ToInterval().Scale(b)))
	}
	y = f.conform(y, false)
	t, sp := f.terms.lincomb(1, y.terms, b)
	s, e := roundoff.TwoSum(f.center, b*y.center)
	f.terms, f.center = t, s
	f.addErr(y.err, e, sp)
	return f.settle(op)
}

// conform brings f and y to a common dense size and returns the (possibly
// copied) y. A form without noise terms is zero-padded. Otherwise pad decides:
// the smaller form is zero-padded, or the larger one is collapsed to its
// enclosure.
func (f *Form) conform(y *Form, pad bool) *Form {
	if !f.space.dense() {
		return y
	}
	n, m := f.terms.Len(), y.terms.Len()
	if n == m {
		return y
	}
	if !pad && n != 0 && m != 0 {
		f.space.log.Debug("size mismatch, widening larger operand", zap.Int("x", n), zap.Int("y", m))
		if n > m {
			f.collapse()
		} else {
			y = y.Clone()
			y.collapse()
		}
		n, m = f.terms.Len(), y.terms.Len()
	}
	if n < m {
		f.terms = f.terms.pad(m)
		return y
	}
	y = y.Clone()
	y.terms = y.terms.pad(n)
	return y
}

// MulScalar scales center, coefficients and error by a.
func (f *Form) MulScalar(a float64) *Form {
	if f.kind != Active || !roundoff.IsFinite(a) {
		return f.fallback("mul", f.ToInterval().Scale(a))
	}
	x0 := f.center
	p, e := roundoff.TwoProd(x0, a)
	sp := f.terms.scale(a)
	f.center = p
	f.err = roundoff.MulUp(f.err, math.Abs(a))
	f.addErr(e, sp)
	if a != 0 && x0 != 0 && math.Abs(p) < underflowZone {
		f.addErr(roundoff.MinNormal)
	}
	return f.settle("mul")
}

// MulInterval multiplies by a quantity known only through its enclosure:
// f·mid + f·[-rad, rad], the second part bounded by rad·mag(f).
func (f *Form) MulInterval(iv interval.Interval) *Form {
	if f.kind != Active || !iv.IsBounded() {
		return f.fallback("mul", f.ToInterval().Mul(iv))
	}
	if iv.IsDegenerate() {
		return f.MulScalar(iv.Lo)
	}
	extra := roundoff.MulUp(iv.Rad(), f.ToInterval().Mag())
	return f.MulScalar(iv.Mid()).Inflate(extra)
}

// DivScalar divides by a. Division by zero gives Empty.
func (f *Form) DivScalar(a float64) *Form {
	return f.DivInterval(interval.Point(a))
}

// DivInterval multiplies by the enclosure of 1/iv.
func (f *Form) DivInterval(iv interval.Interval) *Form {
	if iv.IsEmpty() || f.kind != Active || iv.ContainsZero() {
		return f.fallback("div", f.ToInterval().Div(iv))
	}
	if iv.IsDegenerate() {
		q := interval.Point(1).Div(iv)
		if q.IsDegenerate() {
			return f.MulScalar(q.Lo)
		}
		return f.MulInterval(q)
	}
	return f.MulInterval(iv.Inv())
}

// DivForm multiplies f by the linearized inverse of y.
func (f *Form) DivForm(y *Form) *Form {
	f.space.mustOwn(y)
	inv := y.Clone()
	inv.Inv(y.ToInterval())
	return f.MulForm(inv)
}

// Inflate adds |delta| to the error.
func (f *Form) Inflate(delta float64) *Form {
	if f.kind != Active {
		return f.fallback("inflate", f.ToInterval().Inflate(delta))
	}
	f.addErr(delta)
	return f.settle("inflate")
}

// ============================================================
// Multiplication kernel
// ============================================================

// MulForm multiplies f by y:
//
//	center  x₀y₀ + ½Σxᵢyᵢ
//	xᵢ      y₀xᵢ + x₀yᵢ
//	err     |y₀|eₓ + |x₀|e_y + (eₓ+Σ|xᵢ|)(e_y+Σ|yᵢ|) − ½Σ|xᵢyᵢ|
//
// The smaller dense operand is zero-padded. Inactive operands fall back to
// plain enclosure multiplication.
func (f *Form) MulForm(y *Form) *Form {
	f.space.mustOwn(y)
	if y == f {
		return f.Sqr(interval.Entire())
	}
	if f.kind != Active || y.kind != Active {
		return f.fallback("mul", f.ToInterval().Mul(y.ToInterval()))
	}
	y = f.conform(y, true)
	return f.mulKernel(y, "mul")
}

// mulKernel applies the product formula; y has the same shape as f and may be f.
func (f *Form) mulKernel(y *Form, op string) *Form {
	x0, y0 := f.center, y.center
	ex, ey := f.err, y.err
	rx := roundoff.AddUp(ex, f.terms.radius())
	ry := roundoff.AddUp(ey, y.terms.radius())
	sum, abs := f.terms.dot(y.terms)

	c := interval.Point(x0).Mul(interval.Point(y0)).Add(sum.Scale(0.5))
	t, sp := f.terms.lincomb(y0, y.terms, x0)

	err := roundoff.SumUp(
		roundoff.MulUp(math.Abs(y0), ex),
		roundoff.MulUp(math.Abs(x0), ey),
		roundoff.MulUp(rx, ry),
	)
	err = math.Max(roundoff.SubUp(err, roundoff.MulDown(0.5, abs)), 0)

	f.center, f.terms, f.err = c.Mid(), t, err
	f.addErr(c.Rad(), sp)
	return f.settle(op)
}
