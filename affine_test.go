package affine_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	affine "github.com/njchilds90/goaffine"
	"github.com/njchilds90/goaffine/interval"
)

var policies = []affine.Policy{affine.Compensated, affine.Enclosed, affine.Sparse}

var modes = []affine.Mode{affine.Chebyshev, affine.MinRange}

func newSpace(p affine.Policy, opts ...affine.Option) *affine.Space {
	return affine.NewSpace(append([]affine.Option{affine.WithPolicy(p), affine.WithDimension(4)}, opts...)...)
}

// ============================================================
// Construction
// ============================================================

func TestVar_TwoToFour(t *testing.T) {
	for _, p := range policies {
		s := newSpace(p)
		x := s.Var(1, 1, interval.New(2, 4))
		assert.Equal(t, 3.0, x.Center(), p.String())
		assert.Equal(t, 0.0, x.Err(), p.String())
		assert.Equal(t, 1, x.Size(), p.String())
		want := []affine.Term{{Symbol: 1, Coef: interval.Point(1)}}
		assert.Empty(t, cmp.Diff(want, x.Terms()), p.String())
		assert.Equal(t, interval.New(2, 4), x.ToInterval(), p.String())
	}
}

func TestFromInterval_SparseDrawsFreshSymbol(t *testing.T) {
	s := newSpace(affine.Sparse)
	x := s.FromInterval(interval.New(2, 4))
	assert.Equal(t, 3.0, x.Center())
	assert.Equal(t, 0.0, x.Err())
	require.Equal(t, 1, x.Size())
	assert.Equal(t, 1, x.Terms()[0].Symbol)
	assert.Equal(t, interval.New(2, 4), x.ToInterval())
}

func TestFromInterval_DenseIsErrorOnly(t *testing.T) {
	s := newSpace(affine.Compensated)
	x := s.FromInterval(interval.New(2, 4))
	assert.True(t, x.IsDegenerate())
	assert.Equal(t, 1.0, x.Err())
	assert.Equal(t, interval.New(2, 4), x.ToInterval())
}

func TestRoundTrip_Contains(t *testing.T) {
	ivs := []interval.Interval{
		interval.New(0.1, 0.7),
		interval.New(-1e10, 3),
		interval.New(1, 1+0x1p-40),
		interval.New(-0.5, 0.25),
	}
	for _, p := range policies {
		s := newSpace(p)
		for _, iv := range ivs {
			got := s.FromInterval(iv).ToInterval()
			assert.True(t, iv.Subset(got), "%s: %s not within %s", p, iv, got)
			got = s.Fresh(iv).ToInterval()
			assert.True(t, iv.Subset(got), "%s: fresh %s not within %s", p, iv, got)
		}
	}
}

func TestDegenerate_CollapsesBelowThreshold(t *testing.T) {
	tiny := interval.New(0, 0x1p-60)
	for _, p := range policies {
		s := newSpace(p)
		x := s.Var(2, 1, tiny)
		assert.Equal(t, 0, x.Size(), p.String())
		assert.True(t, x.IsDegenerate(), p.String())
		assert.True(t, tiny.Subset(x.ToInterval()), p.String())
		assert.Equal(t, 0, s.FromInterval(tiny).Size(), p.String())
	}
}

func TestFromFloat(t *testing.T) {
	s := newSpace(affine.Compensated)
	x := s.FromFloat(1.5)
	assert.Equal(t, interval.Point(1.5), x.ToInterval())
	assert.Equal(t, 0, x.Size())

	assert.Equal(t, affine.Empty, s.FromFloat(math.NaN()).Kind())
	assert.Equal(t, affine.LowerBounded, s.FromFloat(math.Inf(1)).Kind())
	assert.Equal(t, affine.UpperBounded, s.FromFloat(math.Inf(-1)).Kind())
}

func TestSentinelSizes(t *testing.T) {
	s := newSpace(affine.Compensated)
	assert.Equal(t, -1, s.FromInterval(interval.Empty()).Size())
	assert.Equal(t, -2, s.FromInterval(interval.Entire()).Size())
	assert.Equal(t, -3, s.FromInterval(interval.NonNegative()).Size())
	assert.Equal(t, -4, s.FromInterval(interval.New(math.Inf(-1), 0)).Size())
	assert.True(t, s.FromInterval(interval.Entire()).IsUnbounded())
	assert.Equal(t, 0, s.FromInterval(interval.Entire()).Len())
}

func TestVar_Panics(t *testing.T) {
	s := newSpace(affine.Compensated)
	assert.Panics(t, func() { s.Var(2, 3, interval.New(0, 1)) })
	assert.Panics(t, func() { s.Var(2, 0, interval.New(0, 1)) })
	assert.Panics(t, func() { s.Var(-1, 1, interval.New(0, 1)) })

	sp := newSpace(affine.Sparse)
	assert.NotPanics(t, func() { sp.Var(0, 7, interval.New(0, 1)) })
}

func TestFresh_DenseExhaustion(t *testing.T) {
	s := affine.NewSpace(affine.WithDimension(1))
	a := s.Fresh(interval.New(0, 2))
	b := s.Fresh(interval.New(0, 2))
	assert.Equal(t, 1, a.Size())
	assert.Equal(t, 0, b.Size())
	assert.Equal(t, 1.0, b.Err())
}

func TestFresh_SparseAfterVar(t *testing.T) {
	s := newSpace(affine.Sparse)
	s.Var(0, 5, interval.New(0, 1))
	x := s.Fresh(interval.New(0, 1))
	require.Equal(t, 1, x.Size())
	assert.Equal(t, 6, x.Terms()[0].Symbol)
}

func TestFresh_DenseAfterVar(t *testing.T) {
	for _, p := range policies {
		s := newSpace(p)
		x := s.Var(4, 1, interval.New(0, 2))
		y := s.Fresh(interval.New(0, 2))
		assert.Equal(t, 2, s.IDs().Last(), p.String())
		assert.Equal(t, interval.New(-2, 2), x.Clone().SubForm(y).ToInterval(), "%s: independent inputs must not cancel", p)
	}
}

// ============================================================
// Accessors
// ============================================================

func TestString(t *testing.T) {
	s := newSpace(affine.Compensated)
	x := s.Var(1, 1, interval.New(2, 4))
	assert.Equal(t, "3 + 1·e1 ± 0", x.String())
	assert.Equal(t, "-3 - 1·e1 ± 0", x.Neg().String())
	assert.Equal(t, "empty", s.FromInterval(interval.Empty()).String())
	assert.Equal(t, "[0, +inf)", s.FromInterval(interval.NonNegative()).String())
}

func TestLastRadiusAndMid(t *testing.T) {
	s := newSpace(affine.Compensated)
	assert.Equal(t, 1.0, s.Var(2, 2, interval.New(2, 4)).LastRadius())
	assert.Equal(t, 0.0, s.Var(3, 2, interval.New(2, 4)).LastRadius())
	assert.Equal(t, 3.0, s.Var(2, 2, interval.New(2, 4)).Mid())
	assert.Equal(t, 0.0, s.FromInterval(interval.Entire()).LastRadius())
}

func TestEvaluate(t *testing.T) {
	for _, p := range policies {
		s := newSpace(p)
		x := s.Var(1, 1, interval.New(2, 4))
		assert.Equal(t, interval.Point(3.5), x.Evaluate(map[int]float64{1: 0.5}), p.String())
		assert.Equal(t, interval.New(2, 4), x.Evaluate(nil), p.String())
	}
}

func TestCloneIsDeep(t *testing.T) {
	for _, p := range policies {
		s := newSpace(p)
		x := s.Var(2, 1, interval.New(2, 4))
		y := x.Clone()
		y.MulScalar(2)
		assert.Equal(t, interval.New(2, 4), x.ToInterval(), p.String())
		assert.Equal(t, interval.New(4, 8), y.ToInterval(), p.String())
	}
}

func TestSet(t *testing.T) {
	s := newSpace(affine.Enclosed)
	x := s.Var(2, 1, interval.New(2, 4))
	y := s.FromFloat(0)
	y.Set(x)
	x.Neg()
	assert.Equal(t, interval.New(2, 4), y.ToInterval())
	assert.Same(t, y, y.Set(y))
}

func TestMixingSpacesPanics(t *testing.T) {
	a := newSpace(affine.Compensated).FromFloat(1)
	b := newSpace(affine.Compensated).FromFloat(1)
	assert.Panics(t, func() { a.AddForm(b) })
	assert.Panics(t, func() { a.MulForm(b) })
}

// ============================================================
// Kinds
// ============================================================

func TestNeg_SwapsHalfBounds(t *testing.T) {
	s := newSpace(affine.Compensated)
	x := s.FromInterval(interval.New(2, math.Inf(1)))
	x.Neg()
	assert.Equal(t, affine.UpperBounded, x.Kind())
	assert.Equal(t, -4, x.Size())
	assert.Equal(t, -2.0, x.ToInterval().Hi)

	x.Neg()
	assert.Equal(t, affine.LowerBounded, x.Kind())
	assert.Equal(t, 2.0, x.ToInterval().Lo)
}

func TestOverflow_DegradesToEntire(t *testing.T) {
	for _, p := range policies {
		s := newSpace(p)
		x := s.Var(1, 1, interval.New(1e307, 1e308))
		x.MulScalar(1e10)
		assert.Equal(t, affine.Entire, x.Kind(), p.String())
		assert.True(t, x.ToInterval().IsEntire(), p.String())
	}
}

func TestOverflow_IsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := newSpace(affine.Compensated, affine.WithLogger(zap.New(core)))
	s.Var(1, 1, interval.New(1e307, 1e308)).MulScalar(1e10)

	entries := logs.FilterMessage("form degraded").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "entire", fields["kind"])
	assert.Equal(t, s.ID().String(), fields["space"])
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "active", affine.Active.String())
	assert.Equal(t, "upper-bounded", affine.UpperBounded.String())
	assert.Equal(t, "Kind(9)", affine.Kind(9).String())
}
