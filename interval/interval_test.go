package interval_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goaffine/interval"
)

// ============================================================
// Construction and predicates
// ============================================================

func TestNew_ReversedIsEmpty(t *testing.T) {
	assert.True(t, interval.New(2, 1).IsEmpty())
	assert.True(t, interval.New(math.NaN(), 1).IsEmpty())
	assert.False(t, interval.New(1, 1).IsEmpty())
}

func TestPoint_NaNIsEmpty(t *testing.T) {
	assert.True(t, interval.Point(math.NaN()).IsEmpty())
	assert.True(t, interval.Point(3).IsDegenerate())
}

func TestKinds(t *testing.T) {
	assert.True(t, interval.Entire().IsEntire())
	assert.True(t, interval.Entire().IsUnbounded())
	assert.True(t, interval.NonNegative().IsUnbounded())
	assert.False(t, interval.NonNegative().IsEntire())
	assert.True(t, interval.New(-1, 1).IsBounded())
	assert.False(t, interval.Empty().IsBounded())
	assert.False(t, interval.Empty().IsUnbounded())
}

func TestSubsetAndEqual(t *testing.T) {
	a, b := interval.New(1, 2), interval.New(0, 3)
	assert.True(t, a.Subset(b))
	assert.False(t, b.Subset(a))
	assert.True(t, interval.Empty().Subset(a))
	assert.True(t, interval.Empty().Equal(interval.New(5, 4)))
	assert.True(t, a.Equal(interval.New(1, 2)))
}

func TestMidRad_Cover(t *testing.T) {
	for _, x := range []interval.Interval{
		interval.New(0.1, 0.7),
		interval.New(-3, 1e-300),
		interval.New(-math.MaxFloat64, math.MaxFloat64),
		interval.New(2, 4),
	} {
		m, r := x.Mid(), x.Rad()
		assert.True(t, x.Contains(m), "mid of %s", x)
		cover := interval.Point(m).Inflate(r)
		assert.True(t, x.Subset(cover), "%s not within %g ± %g", x, m, r)
	}
	assert.Equal(t, 3.0, interval.New(2, 4).Mid())
	assert.Equal(t, 1.0, interval.New(2, 4).Rad())
}

func TestMagMig(t *testing.T) {
	x := interval.New(-3, 2)
	assert.Equal(t, 3.0, x.Mag())
	assert.Equal(t, 0.0, x.Mig())
	assert.Equal(t, 1.0, interval.New(1, 5).Mig())
	assert.Equal(t, 2.0, interval.New(-4, -2).Mig())
}

func TestHullIntersect(t *testing.T) {
	a, b := interval.New(0, 1), interval.New(2, 3)
	assert.Equal(t, interval.New(0, 3), a.Hull(b))
	assert.True(t, a.Intersect(b).IsEmpty())
	assert.Equal(t, interval.New(2, 2.5), b.Intersect(interval.New(1, 2.5)))
	assert.Equal(t, a, interval.Empty().Hull(a))
}

// ============================================================
// Arithmetic
// ============================================================

func TestAdd_OutwardRounded(t *testing.T) {
	x := interval.Point(0.1).Add(interval.Point(0.2))
	assert.LessOrEqual(t, x.Lo, 0.30000000000000004)
	assert.True(t, x.Lo < x.Hi, "0.1+0.2 is inexact, so the enclosure cannot be a point")
}

func TestMul_SignCases(t *testing.T) {
	cases := []struct {
		a, b, want interval.Interval
	}{
		{interval.New(1, 2), interval.New(3, 4), interval.New(3, 8)},
		{interval.New(-1, 2), interval.New(3, 4), interval.New(-4, 8)},
		{interval.New(-2, -1), interval.New(-4, 3), interval.New(-6, 8)},
		{interval.New(0, 0), interval.Entire(), interval.New(0, 0)},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.a.Mul(c.b), "%s * %s", c.a, c.b)
	}
}

func TestScale_ThreeTimesZeroTwo(t *testing.T) {
	x := interval.New(0, 2).Scale(3)
	assert.True(t, interval.New(0, 6).Subset(x))
}

func TestInv(t *testing.T) {
	assert.Equal(t, interval.New(0.25, 0.5), interval.New(2, 4).Inv())
	assert.True(t, interval.New(-1, 1).Inv().IsEntire())
	assert.True(t, interval.Point(0).Inv().IsEmpty())
	up := interval.New(0, 2).Inv()
	assert.Equal(t, 0.5, up.Lo)
	assert.True(t, math.IsInf(up.Hi, 1))
}

func TestDiv(t *testing.T) {
	got := interval.New(1, 2).Div(interval.New(4, 8))
	assert.Equal(t, interval.New(0.125, 0.5), got)
	assert.True(t, interval.New(1, 2).Div(interval.Point(0)).IsEmpty())
}

func TestSqrAbsSign(t *testing.T) {
	assert.Equal(t, interval.New(0, 9), interval.New(-3, 2).Sqr())
	assert.Equal(t, interval.New(1, 9), interval.New(-3, -1).Sqr())
	assert.Equal(t, interval.New(0, 3), interval.New(-3, 2).Abs())
	assert.Equal(t, interval.New(-1, 1), interval.New(-3, 2).Sign())
	assert.Equal(t, interval.Point(1), interval.New(1, 2).Sign())
	assert.Equal(t, interval.New(0, 1), interval.New(0, 2).Sign())
}

// ============================================================
// Elementary functions
// ============================================================

func TestSqrt_ExactSquares(t *testing.T) {
	assert.Equal(t, interval.New(2, 2), interval.Point(4).Sqrt())
	assert.Equal(t, interval.New(0, 3), interval.New(-1, 9).Sqrt())
	assert.True(t, interval.New(-2, -1).Sqrt().IsEmpty())
}

func TestLog_Domain(t *testing.T) {
	assert.True(t, interval.New(-2, 0).Log().IsEmpty())
	l := interval.New(0, 1).Log()
	assert.True(t, math.IsInf(l.Lo, -1))
	assert.True(t, l.Contains(0))
}

func TestPowInt(t *testing.T) {
	assert.Equal(t, interval.New(-8, 27), interval.New(-2, 3).PowInt(3))
	assert.Equal(t, interval.New(0, 16), interval.New(-2, 1).PowInt(4))
	assert.Equal(t, interval.Point(1), interval.New(-2, 1).PowInt(0))
	assert.Equal(t, interval.New(0.25, 0.5), interval.New(2, 4).PowInt(-1))
}

func TestRoot(t *testing.T) {
	cases := []struct {
		x      interval.Interval
		n      int
		lo, hi float64
	}{
		{interval.New(8, 27), 3, 2, 3},
		{interval.New(-8, 27), 3, -2, 3},
		{interval.New(-16, 16), 4, 0, 2},
	}
	for _, c := range cases {
		r := c.x.Root(c.n)
		assert.True(t, r.Contains(c.lo) && r.Contains(c.hi), "root%d of %s = %s", c.n, c.x, r)
		assert.InDelta(t, c.lo, r.Lo, 1e-12)
		assert.InDelta(t, c.hi, r.Hi, 1e-12)
	}
	assert.True(t, interval.New(1, 2).Root(0).IsEmpty())
}

func TestPowIntAndRoot_MinInt(t *testing.T) {
	p := interval.New(2, 3).PowInt(math.MinInt)
	require.False(t, p.IsEmpty())
	assert.LessOrEqual(t, p.Hi, 1.0)

	big := interval.New(0.5, 0.75).PowInt(math.MinInt)
	require.False(t, big.IsEmpty())
	assert.True(t, math.IsInf(big.Hi, 1), "%s", big)

	r := interval.New(2, 4).Root(math.MinInt)
	assert.True(t, r.Contains(1), "%s", r)
	assert.Less(t, r.Diam(), 1e-12)
	assert.True(t, interval.New(-4, -2).Root(math.MinInt).IsEmpty())
}

func TestRoot_Directed(t *testing.T) {
	for _, v := range []float64{2, 10, 1e-5, 12345.678} {
		for _, n := range []int{3, 5, 6} {
			r := interval.Point(v).Root(n)
			require.False(t, r.IsEmpty())
			lo := interval.Point(r.Lo).PowInt(n)
			hi := interval.Point(r.Hi).PowInt(n)
			assert.LessOrEqual(t, lo.Lo, v, "root%d(%g) lower bound", n, v)
			assert.GreaterOrEqual(t, hi.Hi, v, "root%d(%g) upper bound", n, v)
		}
	}
}

func TestPowReal(t *testing.T) {
	x := interval.New(1, 4).PowReal(0.5)
	assert.True(t, x.Contains(1))
	assert.True(t, x.Contains(2))
	assert.True(t, interval.New(-4, -1).PowReal(0.5).IsEmpty())
	neg := interval.New(0, 4).PowReal(-0.5)
	assert.True(t, math.IsInf(neg.Hi, 1))
}

// sampled checks that an enclosure holds f at a grid of points of x.
func sampled(t *testing.T, name string, x interval.Interval, enc interval.Interval, f func(float64) float64) {
	t.Helper()
	for i := 0; i <= 200; i++ {
		v := x.Lo + (x.Hi-x.Lo)*float64(i)/200
		assert.True(t, enc.Contains(f(v)), "%s(%g) = %g outside %s", name, v, f(v), enc)
	}
}

func TestElementary_Contains(t *testing.T) {
	x := interval.New(-2.5, 4)
	sampled(t, "exp", x, x.Exp(), math.Exp)
	sampled(t, "sin", x, x.Sin(), math.Sin)
	sampled(t, "cos", x, x.Cos(), math.Cos)
	sampled(t, "atan", x, x.Atan(), math.Atan)
	sampled(t, "sinh", x, x.Sinh(), math.Sinh)
	sampled(t, "cosh", x, x.Cosh(), math.Cosh)
	sampled(t, "tanh", x, x.Tanh(), math.Tanh)

	p := interval.New(0.25, 9)
	sampled(t, "log", p, p.Log(), math.Log)
	sampled(t, "sqrt", p, p.Sqrt(), math.Sqrt)

	u := interval.New(-0.9, 0.75)
	sampled(t, "asin", u, u.Asin(), math.Asin)
	sampled(t, "acos", u, u.Acos(), math.Acos)

	q := interval.New(-1.2, 1.3)
	sampled(t, "tan", q, q.Tan(), math.Tan)
}

func TestSinCos_ReachExtremes(t *testing.T) {
	x := interval.New(1, 2)
	assert.Equal(t, 1.0, x.Sin().Hi)
	assert.Equal(t, -1.0, interval.New(3, 3.5).Cos().Lo)
	assert.Equal(t, interval.New(-1, 1), interval.New(0, 7).Sin())
}

func TestTan_Pole(t *testing.T) {
	assert.True(t, interval.New(1, 2).Tan().IsEntire())
}

func TestPow_IntervalExponent(t *testing.T) {
	x := interval.New(2, 3).Pow(interval.New(1, 2))
	assert.True(t, x.Contains(2))
	assert.True(t, x.Contains(9))
}
