package affine

import (
	"math"

	"go.uber.org/zap"

	"github.com/njchilds90/goaffine/internal/roundoff"
	"github.com/njchilds90/goaffine/interval"
)

// ============================================================
// Linearization engine
// ============================================================

// unary describes a function the engine can linearize.
type unary struct {
	name string
	// domain is where the function is defined; inputs are intersected with it.
	domain interval.Interval
	// image is the outward-rounded range over an interval.
	image func(interval.Interval) interval.Interval
	// eval and deriv are plain float evaluations. Their accuracy only affects
	// the quality of the fit, never its soundness.
	eval  func(float64) float64
	deriv func(float64) float64
	// critical lists the points u with deriv(u) = alpha. Candidates outside
	// dom are allowed; they are filtered by the engine.
	critical func(alpha float64, dom interval.Interval) []float64
	// maxDiam, when positive, bounds the input diameter above which the plain
	// image is used instead of a fit.
	maxDiam float64
}

// maxPeriodicArgument bounds the magnitude of inputs that periodic functions
// linearize.
const maxPeriodicArgument = 1e8

// bracket widening parameters: an initial relative half-width, the growth
// per attempt and the number of attempts.
const (
	bracketWidth  = 0x1p-44
	bracketFloor  = 0x1p-600
	bracketGrowth = 256
	bracketTries  = 5
)

// linearFit is αt + β with |f(t) - (αt + β)| <= δ over the fitted domain.
type linearFit struct {
	alpha, beta, delta float64
}

// apply linearizes fn over the caller's enclosure iv of the current value.
// Pass interval.Entire() to use the form's own enclosure.
func (f *Form) apply(fn *unary, iv interval.Interval) *Form {
	dom := f.ToInterval().Intersect(iv).Intersect(fn.domain)
	img := fn.image(dom)
	switch {
	case dom.IsEmpty() || img.IsEmpty():
		return f.fallback(fn.name, interval.Empty())
	case f.kind != Active || dom.IsDegenerate() || dom.IsUnbounded() || img.IsUnbounded():
		return f.fallback(fn.name, img)
	case fn.maxDiam > 0 && (dom.Diam() >= fn.maxDiam || dom.Mag() > maxPeriodicArgument):
		return f.fallback(fn.name, img)
	}
	fit, ok := fn.fit(f.space.mode, dom)
	if !ok {
		f.space.log.Debug("linearization failed, using plain enclosure",
			zap.String("op", fn.name), zap.Stringer("domain", dom))
		return f.fallback(fn.name, img)
	}
	return f.MulScalar(fit.alpha).AddScalar(fit.beta).Inflate(fit.delta)
}

// fit picks the slope according to mode and derives β and δ from the offset
// band. MinRange tries the derivative at each end and keeps the narrower band;
// it falls back to the secant when neither derivative is finite.
func (fn *unary) fit(mode Mode, dom interval.Interval) (linearFit, bool) {
	var slopes []float64
	if mode == MinRange {
		for _, t := range []float64{dom.Lo, dom.Hi} {
			if d := fn.deriv(t); roundoff.IsFinite(d) {
				slopes = append(slopes, d)
			}
		}
	}
	if len(slopes) == 0 {
		lo, hi := fn.eval(dom.Lo), fn.eval(dom.Hi)
		slopes = append(slopes, (hi-lo)/(dom.Hi-dom.Lo))
	}

	best, found := linearFit{}, false
	for _, alpha := range slopes {
		if !roundoff.IsFinite(alpha) {
			continue
		}
		band := fn.band(alpha, dom)
		if !band.IsBounded() {
			continue
		}
		cand := linearFit{alpha: alpha, beta: band.Mid(), delta: band.Rad()}
		if !found || cand.delta < best.delta {
			best, found = cand, true
		}
	}
	return best, found
}

// offset encloses f(t) - αt over t.
func (fn *unary) offset(alpha float64, t interval.Interval) interval.Interval {
	return fn.image(t).Sub(t.Scale(alpha))
}

// band encloses f(t) - αt over dom. The extrema of the offset lie at the ends
// of dom or at a critical point, and each critical point is replaced by a
// small bracket on which the derivative minus α is verified to change sign.
// An unverified candidate costs the offset over all of dom.
func (fn *unary) band(alpha float64, dom interval.Interval) interval.Interval {
	b := fn.offset(alpha, interval.Point(dom.Lo)).Hull(fn.offset(alpha, interval.Point(dom.Hi)))
	for _, u := range fn.critical(alpha, dom) {
		if math.IsNaN(u) || !nearby(u, dom) {
			continue
		}
		t, ok := fn.bracket(alpha, u, dom)
		if !ok {
			return b.Hull(fn.offset(alpha, dom))
		}
		if !t.IsEmpty() {
			b = b.Hull(fn.offset(alpha, t))
		}
	}
	return b
}

// bracketStart is the initial half-width of the bracket around u.
func bracketStart(u float64, dom interval.Interval) float64 {
	return (math.Max(math.Abs(u), dom.Diam()) + bracketFloor) * bracketWidth
}

// nearby reports whether the widest bracket around u meets dom.
func nearby(u float64, dom interval.Interval) bool {
	w := bracketStart(u, dom) * math.Pow(bracketGrowth, bracketTries-1)
	return u+w >= dom.Lo && u-w <= dom.Hi
}

// bracket returns [u-w, u+w] ∩ dom for the first width on which deriv - α
// changes sign.
func (fn *unary) bracket(alpha, u float64, dom interval.Interval) (interval.Interval, bool) {
	w := bracketStart(u, dom)
	for i := 0; i < bracketTries; i++ {
		t := interval.Point(u).Inflate(w).Intersect(fn.domain)
		if !t.IsEmpty() {
			da, db := fn.deriv(t.Lo)-alpha, fn.deriv(t.Hi)-alpha
			if (da <= 0 && db >= 0) || (da >= 0 && db <= 0) {
				return t.Intersect(dom), true
			}
		}
		w *= bracketGrowth
	}
	return interval.Interval{}, false
}

// periodic returns base + k·period for every base and every k that may put
// the point inside dom.
func periodic(bases []float64, period float64, dom interval.Interval) []float64 {
	var out []float64
	for _, b := range bases {
		if math.IsNaN(b) {
			continue
		}
		k0 := math.Floor((dom.Lo-b)/period) - 1
		k1 := math.Ceil((dom.Hi-b)/period) + 1
		for k := k0; k <= k1; k++ {
			out = append(out, b+k*period)
		}
	}
	return out
}

// symmetric returns u and -u.
func symmetric(u float64) []float64 { return []float64{u, -u} }

func one(u float64) []float64 { return []float64{u} }
