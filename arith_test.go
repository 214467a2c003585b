package affine_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	affine "github.com/njchilds90/goaffine"
	"github.com/njchilds90/goaffine/interval"
)

// grid is a dyadic sampling of [-1, 1], so forms with dyadic coefficients
// evaluate exactly at every point.
var grid = []float64{-1, -0.75, -0.5, -0.25, 0, 0.25, 0.5, 0.75, 1}

// exact reports whether the rational value of v lies in iv.
func exact(iv interval.Interval, v *big.Float) bool {
	lo := new(big.Float).SetFloat64(iv.Lo)
	hi := new(big.Float).SetFloat64(iv.Hi)
	return lo.Cmp(v) <= 0 && v.Cmp(hi) <= 0
}

func TestSub_SelfIsZero(t *testing.T) {
	for _, p := range policies {
		s := newSpace(p)
		x := s.Var(2, 1, interval.New(2, 4))
		x.SubForm(x)
		assert.Equal(t, interval.Point(0), x.ToInterval(), p.String())
	}
}

func TestSub_CorrelatedCancels(t *testing.T) {
	for _, p := range policies {
		s := newSpace(p)
		x := s.Fresh(interval.New(-1, 3))
		y := x.Clone().MulScalar(2).AddScalar(1)
		y.SubForm(x).SubForm(x)
		assert.Equal(t, interval.Point(1), y.ToInterval(), p.String())
	}
}

func TestAdd_PlainVersusAffine(t *testing.T) {
	s := newSpace(affine.Compensated)
	x := s.Fresh(interval.New(0, 2))
	y := s.Fresh(interval.New(0, 2))

	corr := x.Clone().AddForm(x)
	assert.Equal(t, interval.New(0, 4), corr.ToInterval())

	indep := x.Clone().AddForm(y)
	assert.Equal(t, interval.New(0, 4), indep.ToInterval())

	assert.Equal(t, interval.Point(0), x.Clone().SubForm(x).ToInterval())
	assert.Equal(t, interval.New(-2, 2), x.Clone().SubForm(y).ToInterval())
}

func TestAdd_CompensatedRounding(t *testing.T) {
	s := newSpace(affine.Compensated)
	x := s.FromFloat(0.1)
	x.AddForm(s.FromFloat(0.2))
	want := new(big.Float).SetPrec(200).Add(big.NewFloat(0.1), big.NewFloat(0.2))
	assert.True(t, exact(x.ToInterval(), want), "0.1+0.2 outside %s", x.ToInterval())
	assert.Greater(t, x.Err(), 0.0)
}

func TestMulScalar_CompensatedRounding(t *testing.T) {
	for _, p := range policies {
		s := newSpace(p)
		x := s.Var(1, 1, interval.New(0.1, 0.7))
		x.MulScalar(3)
		lo := new(big.Float).SetPrec(200).Mul(big.NewFloat(0.1), big.NewFloat(3))
		hi := new(big.Float).SetPrec(200).Mul(big.NewFloat(0.7), big.NewFloat(3))
		assert.True(t, exact(x.ToInterval(), lo), p.String())
		assert.True(t, exact(x.ToInterval(), hi), p.String())
	}
}

func TestMulScalar_FlushesTinyCoefficients(t *testing.T) {
	s := newSpace(affine.Compensated)
	x := s.Var(1, 1, interval.New(0, 0x1p-50)) // 2^-51 + 2^-51·ε1
	x.MulScalar(0x1p-6)

	c := 0x1p-57
	require.Less(t, c, affine.AFEC)
	require.Len(t, x.Terms(), 1)
	assert.Equal(t, interval.Point(0), x.Terms()[0].Coef, "coefficient below AFEC is zeroed")
	assert.GreaterOrEqual(t, x.Err(), affine.AFEE*c)
	assert.True(t, x.ToInterval().Contains(0))
	assert.True(t, x.ToInterval().Contains(0x1p-56))
}

func TestMulForm_ConstantTimesInterval(t *testing.T) {
	for _, p := range policies {
		s := newSpace(p)
		x := s.FromFloat(3)
		x.MulForm(s.FromInterval(interval.New(0, 2)))
		assert.True(t, interval.New(0, 6).Subset(x.ToInterval()), "%s: %s", p, x.ToInterval())
	}
}

func TestMulScalar_ThreeTimesZeroTwo(t *testing.T) {
	for _, p := range policies {
		s := newSpace(p)
		x := s.FromInterval(interval.New(0, 2)).MulScalar(3)
		assert.True(t, interval.New(0, 6).Subset(x.ToInterval()), p.String())
	}
}

// TestMulForm_PointwiseContainment checks x*y against the product of the
// values of x and y at every noise assignment of the grid.
func TestMulForm_PointwiseContainment(t *testing.T) {
	for _, p := range policies {
		s := newSpace(p)
		a := s.Fresh(interval.New(1, 3))  // 2 + ε1
		b := s.Fresh(interval.New(-1, 2)) // 0.5 + 1.5ε2
		// c shares ε1 with a.
		c := a.Clone().MulScalar(-0.5).AddForm(b)

		for _, y := range []*affine.Form{b, c, a} {
			z := a.Clone().MulForm(y)
			for _, e1 := range grid {
				for _, e2 := range grid {
					assign := map[int]float64{1: e1, 2: e2}
					av := a.Evaluate(assign)
					yv := y.Evaluate(assign)
					require.True(t, av.IsDegenerate() && yv.IsDegenerate())
					want := av.Lo * yv.Lo
					assert.True(t, z.Evaluate(assign).Contains(want),
						"%s: (%s)*(%s) at %v misses %g", p, a, y, assign, want)
				}
			}
		}
	}
}

func TestSqr_PairsQuadraticTerms(t *testing.T) {
	s := newSpace(affine.Compensated)
	x := s.Var(1, 1, interval.New(1, 3)) // 2 + ε1
	x.Sqr(interval.Entire())
	assert.Equal(t, 4.5, x.Center())
	assert.Equal(t, 0.5, x.Err())
	assert.Equal(t, interval.New(0, 9), x.ToInterval())
}

func TestMulForm_SelfIsSqr(t *testing.T) {
	s := newSpace(affine.Compensated)
	x := s.Var(1, 1, interval.New(1, 3))
	y := x.Clone().Sqr(interval.Entire())
	x.MulForm(x)
	assert.Equal(t, y.ToInterval(), x.ToInterval())
}

func TestMulForm_PadsSmallerOperand(t *testing.T) {
	s := newSpace(affine.Compensated)
	x := s.Var(1, 1, interval.New(1, 3))
	y := s.Var(3, 3, interval.New(1, 3))
	x.MulForm(y)
	assert.Equal(t, 3, x.Size())
	assert.True(t, interval.New(1, 9).Subset(x.ToInterval()))
}

func TestAddForm_SizeMismatchWidens(t *testing.T) {
	s := newSpace(affine.Compensated)
	x := s.Var(1, 1, interval.New(1, 3))
	y := s.Var(3, 3, interval.New(1, 3))
	x.AddForm(y)
	assert.Equal(t, 1, x.Size())
	assert.True(t, interval.New(2, 6).Subset(x.ToInterval()))

	z := s.FromFloat(1)
	z.AddForm(y)
	assert.Equal(t, 3, z.Size())
	assert.Equal(t, interval.New(2, 4), z.ToInterval())
}

func TestInterval_Operands(t *testing.T) {
	for _, p := range policies {
		s := newSpace(p)
		x := s.Var(1, 1, interval.New(1, 3))
		x.AddInterval(interval.New(-1, 1))
		assert.True(t, interval.New(0, 4).Subset(x.ToInterval()), p.String())

		y := s.Var(1, 1, interval.New(1, 3)).MulInterval(interval.New(1, 2))
		assert.True(t, interval.New(1, 6).Subset(y.ToInterval()), p.String())

		z := s.Var(1, 1, interval.New(1, 3)).SubInterval(interval.Point(1))
		assert.Equal(t, interval.New(0, 2), z.ToInterval(), p.String())
	}
}

func TestDivScalar(t *testing.T) {
	s := newSpace(affine.Compensated)
	x := s.Var(1, 1, interval.New(2, 4)).DivScalar(2)
	assert.Equal(t, interval.New(1, 2), x.ToInterval())

	y := s.Var(1, 1, interval.New(2, 4)).DivScalar(3)
	assert.True(t, y.ToInterval().Contains(2.0/3))
	assert.True(t, y.ToInterval().Contains(4.0/3))

	z := s.Var(1, 1, interval.New(2, 4)).DivScalar(0)
	assert.Equal(t, affine.Empty, z.Kind())
}

func TestDivInterval_ZeroInsideIsUnbounded(t *testing.T) {
	s := newSpace(affine.Compensated)
	x := s.Var(1, 1, interval.New(2, 4)).DivInterval(interval.New(-1, 1))
	assert.True(t, x.IsUnbounded())
}

func TestDivForm(t *testing.T) {
	for _, p := range policies {
		s := newSpace(p)
		x := s.Fresh(interval.New(1, 3))
		y := s.Fresh(interval.New(2, 4))
		q := x.Clone().DivForm(y)
		enc := q.ToInterval()
		for _, e1 := range grid {
			for _, e2 := range grid {
				assert.True(t, enc.Contains((2+e1)/(3+e2)), "%s: %s", p, enc)
			}
		}
		assert.Equal(t, interval.New(2, 4), y.ToInterval(), "divisor is not modified")
	}
}

func TestInflate(t *testing.T) {
	s := newSpace(affine.Compensated)
	x := s.Var(1, 1, interval.New(2, 4)).Inflate(-0.5)
	assert.Equal(t, 0.5, x.Err())
	assert.Equal(t, interval.New(1.5, 4.5), x.ToInterval())
}

func TestSparse_InflatePromotesError(t *testing.T) {
	s := newSpace(affine.Sparse)
	x := s.Fresh(interval.New(2, 4)).Inflate(0.5)
	assert.Equal(t, 0.0, x.Err())
	assert.Equal(t, 2, x.Len())
	assert.Equal(t, interval.New(1.5, 4.5), x.ToInterval())

	y := s.Fresh(interval.New(2, 4)).Inflate(1e-12)
	assert.Equal(t, 1e-12, y.Err())
	assert.Equal(t, 1, y.Len())
}

func TestInactive_Arithmetic(t *testing.T) {
	s := newSpace(affine.Compensated)
	x := s.FromInterval(interval.NonNegative())
	x.AddScalar(1)
	assert.Equal(t, affine.LowerBounded, x.Kind())
	assert.Equal(t, 1.0, x.ToInterval().Lo)

	e := s.FromInterval(interval.Empty())
	e.AddForm(s.FromFloat(1))
	assert.True(t, e.IsEmpty())
}
