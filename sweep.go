package affine

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/njchilds90/goaffine/interval"
)

// SweepResult is the outcome of Sweep.
type SweepResult struct {
	// Range is the hull of the part results.
	Range interval.Interval
	// Parts holds the result of each sub-enclosure, in order.
	Parts []interval.Interval
}

// Sweep splits iv into parts equal sub-enclosures, runs prog over each one in
// its own Space built from cfg, and returns the hull. Parts run concurrently;
// the first error or the cancellation of ctx stops the remaining ones.
func Sweep(ctx context.Context, cfg *Config, iv interval.Interval, parts int, prog Program, opts ...Option) (SweepResult, error) {
	if parts < 1 {
		return SweepResult{}, fmt.Errorf("%w: parts %d < 1", ErrBadParam, parts)
	}
	if !iv.IsBounded() {
		return SweepResult{}, fmt.Errorf("%w: sweep needs a bounded enclosure, got %s", ErrBadParam, iv)
	}
	if err := cfg.Validate(); err != nil {
		return SweepResult{}, err
	}

	subs := split(iv, parts)
	results := make([]interval.Interval, len(subs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, sub := range subs {
		i, sub := i, sub
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := NewSpaceFromConfig(cfg, opts...)
			if err != nil {
				return err
			}
			results[i] = prog.Run(s.Fresh(sub))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SweepResult{}, fmt.Errorf("sweep: %w", err)
	}

	hull := interval.Empty()
	for _, r := range results {
		hull = hull.Hull(r)
	}
	return SweepResult{Range: hull, Parts: results}, nil
}

// split cuts iv into n adjacent pieces that cover it.
func split(iv interval.Interval, n int) []interval.Interval {
	out := make([]interval.Interval, n)
	lo := iv.Lo
	for i := 0; i < n; i++ {
		hi := iv.Hi
		if i < n-1 {
			hi = iv.Lo + (iv.Hi-iv.Lo)*float64(i+1)/float64(n)
		}
		out[i] = interval.New(lo, hi)
		lo = hi
	}
	return out
}
