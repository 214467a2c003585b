package affine

import (
	"math"

	"go.uber.org/zap"

	"github.com/njchilds90/goaffine/internal/roundoff"
	"github.com/njchilds90/goaffine/interval"
)

// Compact folds the noise terms smaller than tol in magnitude into the error.
//
// Sparse forms escalate the threshold by a factor of 10 while more than
// Space.MaxTerms() pairs remain, then turn an error above both the garbage
// cap and tol into one fresh pair if there is room for it. Calling Compact
// twice with the same tol gives the same form as calling it once.
func (f *Form) Compact(tol float64) *Form {
	if f.kind != Active {
		return f
	}
	tol = math.Abs(tol)
	sp, ok := f.terms.(*sparse)
	if !ok {
		f.addErr(f.terms.prune(tol))
		return f.settle("compact")
	}

	thr, before := tol, sp.Len()
	f.addErr(sp.prune(thr))
	for sp.Len() > f.space.maxTerms {
		if thr == 0 {
			thr = AFEC
		} else {
			thr *= 10
		}
		f.addErr(sp.prune(thr))
	}
	if f.err > math.Max(f.space.garbageCap, tol) && sp.Len() < f.space.maxTerms {
		sp.push(f.space.ids.Next(), f.err)
		f.err = 0
	}
	if before != sp.Len() {
		f.space.log.Debug("compacted", zap.Int("before", before), zap.Int("after", sp.Len()),
			zap.Float64("threshold", thr))
	}
	if !roundoff.IsFinite(f.err) {
		return f.fallback("compact", interval.Entire())
	}
	return f
}
