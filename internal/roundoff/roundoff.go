// Package roundoff provides error-free transformations of float64 sums and
// products, and the directed-rounding helpers built on top of them.
//
// Every function here is exact in the sense of IEEE 754 binary64 with
// round-to-nearest: the returned error term is the exact rounding error of the
// corresponding floating-point operation, provided no overflow occurs.
package roundoff

import "math"

// ============================================================
// Constants
// ============================================================

const (
	// Eps is the unit roundoff distance between 1 and the next float64.
	Eps = 0x1p-52

	// MinNormal is the smallest positive normal float64.
	MinNormal = 0x1p-1022

	// splitter is 2^27+1, Dekker's constant for splitting a float64 in two halves.
	splitter = 134217729.0

	// tinyProduct bounds the region where the FMA residual of a product may underflow.
	tinyProduct = 0x1p-969
)

// ============================================================
// Error-free transformations
// ============================================================

// TwoSum returns s = fl(a+b) and e such that a+b = s+e exactly (Knuth).
func TwoSum(a, b float64) (s, e float64) {
	s = a + b
	bb := s - a
	e = (a - (s - bb)) + (b - bb)
	return s, e
}

// FastTwoSum is TwoSum for |a| >= |b| (Dekker). Fewer operations, same result.
func FastTwoSum(a, b float64) (s, e float64) {
	s = a + b
	e = b - (s - a)
	return s, e
}

// TwoProd returns p = fl(a*b) and e such that a*b = p+e exactly, using a fused
// multiply-add.
func TwoProd(a, b float64) (p, e float64) {
	p = a * b
	e = math.FMA(a, b, -p)
	return p, e
}

// Split returns hi, lo with a = hi+lo, each half holding at most 26 significant bits.
func Split(a float64) (hi, lo float64) {
	c := splitter * a
	hi = c - (c - a)
	lo = a - hi
	return hi, lo
}

// TwoProdDekker is TwoProd without FMA, via Split. Kept for platforms and
// tests that want to cross-check the FMA path.
func TwoProdDekker(a, b float64) (p, e float64) {
	p = a * b
	ah, al := Split(a)
	bh, bl := Split(b)
	e = ((ah*bh - p) + ah*bl + al*bh) + al*bl
	return p, e
}

// ============================================================
// Directed rounding
// ============================================================

// Down returns the largest float64 strictly below x (x itself for -Inf).
func Down(x float64) float64 { return math.Nextafter(x, math.Inf(-1)) }

// Up returns the smallest float64 strictly above x (x itself for +Inf).
func Up(x float64) float64 { return math.Nextafter(x, math.Inf(1)) }

// AddDown returns a lower bound of a+b, equal to it when the sum is exact.
func AddDown(a, b float64) float64 {
	s, e := TwoSum(a, b)
	if math.IsInf(s, 1) && !math.IsInf(a, 1) && !math.IsInf(b, 1) {
		return math.MaxFloat64
	}
	if e < 0 {
		return Down(s)
	}
	return s
}

// AddUp returns an upper bound of a+b, equal to it when the sum is exact.
func AddUp(a, b float64) float64 {
	s, e := TwoSum(a, b)
	if math.IsInf(s, -1) && !math.IsInf(a, -1) && !math.IsInf(b, -1) {
		return -math.MaxFloat64
	}
	if e > 0 {
		return Up(s)
	}
	return s
}

// SubDown returns a lower bound of a-b.
func SubDown(a, b float64) float64 { return AddDown(a, -b) }

// SubUp returns an upper bound of a-b.
func SubUp(a, b float64) float64 { return AddUp(a, -b) }

// MulDown returns a lower bound of a*b. A zero factor gives zero even against an infinity.
func MulDown(a, b float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	p, e := TwoProd(a, b)
	switch {
	case math.IsInf(p, 1) && !math.IsInf(a, 0) && !math.IsInf(b, 0):
		return math.MaxFloat64
	case math.IsInf(p, 0):
		return p
	case math.Abs(p) < tinyProduct:
		return Down(p)
	case e < 0:
		return Down(p)
	}
	return p
}

// MulUp returns an upper bound of a*b. A zero factor gives zero even against an infinity.
func MulUp(a, b float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	p, e := TwoProd(a, b)
	switch {
	case math.IsInf(p, -1) && !math.IsInf(a, 0) && !math.IsInf(b, 0):
		return -math.MaxFloat64
	case math.IsInf(p, 0):
		return p
	case math.Abs(p) < tinyProduct:
		return Up(p)
	case e > 0:
		return Up(p)
	}
	return p
}

// quotientSide reports the sign of a/b - q, where q = fl(a/b): +1 when the exact
// quotient lies above q, -1 below, 0 when q is exact or the sign cannot be trusted.
func quotientSide(a, b, q float64) (side int, trusted bool) {
	if math.IsInf(q, 0) || math.IsInf(a, 0) || math.IsInf(b, 0) || q == 0 {
		return 0, q == 0 && a == 0
	}
	if math.Abs(q) < tinyProduct || math.Abs(a) < tinyProduct {
		return 0, false
	}
	r := math.FMA(-q, b, a)
	switch {
	case r == 0:
		return 0, true
	case (r > 0) == (b > 0):
		return 1, true
	default:
		return -1, true
	}
}

// DivDown returns a lower bound of a/b for b != 0.
func DivDown(a, b float64) float64 {
	q := a / b
	side, ok := quotientSide(a, b, q)
	if math.IsInf(q, 1) && !math.IsInf(a, 0) {
		return math.MaxFloat64
	}
	if !ok || side < 0 {
		return Down(q)
	}
	return q
}

// DivUp returns an upper bound of a/b for b != 0.
func DivUp(a, b float64) float64 {
	q := a / b
	side, ok := quotientSide(a, b, q)
	if math.IsInf(q, -1) && !math.IsInf(a, 0) {
		return -math.MaxFloat64
	}
	if !ok || side > 0 {
		return Up(q)
	}
	return q
}

// SqrtDown returns a lower bound of sqrt(x) for x >= 0. IEEE sqrt is correctly
// rounded, so the residual s*s - x tells which side the exact root lies on.
func SqrtDown(x float64) float64 {
	s := math.Sqrt(x)
	if s == 0 || math.IsInf(s, 1) {
		return s
	}
	if math.FMA(s, s, -x) > 0 {
		return Down(s)
	}
	return s
}

// SqrtUp returns an upper bound of sqrt(x) for x >= 0.
func SqrtUp(x float64) float64 {
	s := math.Sqrt(x)
	if s == 0 || math.IsInf(s, 1) {
		return s
	}
	if math.FMA(s, s, -x) < 0 {
		return Up(s)
	}
	return s
}

// SumUp returns an upper bound of the sum of xs.
func SumUp(xs ...float64) float64 {
	acc := 0.0
	for _, x := range xs {
		acc = AddUp(acc, x)
	}
	return acc
}

// IsFinite reports whether x is neither infinite nor NaN.
func IsFinite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }
