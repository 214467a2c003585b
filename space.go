package affine

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/njchilds90/goaffine/interval"
)

// ============================================================
// Mode: slope selection of the linearization engine
// ============================================================

// Mode selects how the linearization engine picks the slope of its linear fit.
type Mode int

const (
	// Chebyshev uses the secant slope and centers the error band (minimax fit).
	Chebyshev Mode = iota
	// MinRange uses the endpoint derivative that gives the narrower band.
	MinRange
)

func (m Mode) String() string {
	switch m {
	case Chebyshev:
		return "chebyshev"
	case MinRange:
		return "minrange"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "chebyshev", "cheb":
		return Chebyshev, nil
	case "minrange", "min-range", "min_range":
		return MinRange, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// ============================================================
// Policy: storage of the noise terms
// ============================================================

// Policy selects the representation of the noise coefficients.
type Policy int

const (
	// Compensated stores float64 coefficients and bounds every rounding error
	// with error-free transformations.
	Compensated Policy = iota
	// Enclosed stores every coefficient as an outward-rounded interval.
	Enclosed
	// Sparse stores (symbol id, coefficient) pairs in ascending id order and
	// draws fresh symbols from the space's id generator.
	Sparse
)

func (p Policy) String() string {
	switch p {
	case Compensated:
		return "compensated"
	case Enclosed:
		return "enclosed"
	case Sparse:
		return "sparse"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy converts a configuration string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "compensated", "default":
		return Compensated, nil
	case "enclosed", "interval":
		return Enclosed, nil
	case "sparse":
		return Sparse, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// ============================================================
// IDGenerator: fresh noise symbols
// ============================================================

// IDGenerator hands out strictly increasing noise symbol ids, starting at 1.
// It is safe for concurrent use.
type IDGenerator struct {
	last atomic.Int64
}

// NewIDGenerator returns a generator whose first id is start+1.
func NewIDGenerator(start int) *IDGenerator {
	g := &IDGenerator{}
	g.last.Store(int64(start))
	return g
}

// Next returns a symbol id never returned before by g.
func (g *IDGenerator) Next() int { return int(g.last.Add(1)) }

// Last returns the most recently issued id (0 if none).
func (g *IDGenerator) Last() int { return int(g.last.Load()) }

// observe makes sure later ids are greater than id.
func (g *IDGenerator) observe(id int) {
	for {
		cur := g.last.Load()
		if cur >= int64(id) || g.last.CompareAndSwap(cur, int64(id)) {
			return
		}
	}
}

// ============================================================
// Space
// ============================================================

const (
	// DefaultGarbageCap is the residual error above which a sparse form turns
	// its error into a fresh noise symbol.
	DefaultGarbageCap = 1e-10
	// DefaultMaxTerms is the number of sparse terms compaction aims to keep.
	DefaultMaxTerms = 10
)

// Space owns everything affine forms share: the storage policy, the
// linearization mode and the noise symbol generator. Forms from different
// spaces cannot be combined. A Space is safe for concurrent use; the forms it
// creates are not.
type Space struct {
	id         uuid.UUID
	policy     Policy
	mode       Mode
	dim        int
	ids        *IDGenerator
	garbageCap float64
	maxTerms   int
	log        *zap.Logger
}

// Option configures a Space.
type Option func(*Space)

func WithPolicy(p Policy) Option { return func(s *Space) { s.policy = p } }
func WithMode(m Mode) Option     { return func(s *Space) { s.mode = m } }

// WithDimension sets the number of noise symbols Fresh hands out in dense spaces.
func WithDimension(n int) Option { return func(s *Space) { s.dim = n } }

// WithIDGenerator shares a symbol generator. Sparse spaces draw every fresh id from it.
func WithIDGenerator(g *IDGenerator) Option { return func(s *Space) { s.ids = g } }

func WithLogger(l *zap.Logger) Option { return func(s *Space) { s.log = l } }

func WithGarbageCap(c float64) Option { return func(s *Space) { s.garbageCap = c } }

func WithMaxTerms(n int) Option { return func(s *Space) { s.maxTerms = n } }

// NewSpace returns a Space with the Compensated policy and Chebyshev mode
// unless options say otherwise.
func NewSpace(opts ...Option) *Space {
	s := &Space{
		id:         uuid.New(),
		policy:     Compensated,
		mode:       Chebyshev,
		garbageCap: DefaultGarbageCap,
		maxTerms:   DefaultMaxTerms,
	}
	for _, o := range opts {
		o(s)
	}
	if s.ids == nil {
		s.ids = NewIDGenerator(0)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.maxTerms < 0 {
		s.maxTerms = 0
	}
	s.log = s.log.With(zap.String("space", s.id.String()), zap.Stringer("policy", s.policy))
	return s
}

func (s *Space) ID() uuid.UUID        { return s.id }
func (s *Space) Policy() Policy       { return s.policy }
func (s *Space) Mode() Mode           { return s.mode }
func (s *Space) Dimension() int       { return s.dim }
func (s *Space) IDs() *IDGenerator    { return s.ids }
func (s *Space) Logger() *zap.Logger  { return s.log }
func (s *Space) GarbageCap() float64  { return s.garbageCap }
func (s *Space) MaxTerms() int        { return s.maxTerms }
func (s *Space) String() string       { return fmt.Sprintf("space(%s, %s, %s)", s.id, s.policy, s.mode) }
func (s *Space) dense() bool          { return s.policy != Sparse }
func (s *Space) newTerms(n int) terms { return newTerms(s, n) }

// mustOwn panics when f was created by another space.
func (s *Space) mustOwn(f *Form) {
	if f == nil {
		panic("affine: nil form")
	}
	if f.space != s {
		panic(fmt.Sprintf("affine: form of %s used with %s", f.space, s))
	}
}

// ============================================================
// Construction
// ============================================================

// FromFloat returns the constant v: center v, no noise terms, zero error.
// Infinities give the matching half-bounded kind, NaN gives Empty.
func (s *Space) FromFloat(v float64) *Form {
	f := &Form{space: s}
	f.setInterval(interval.Point(v))
	return f
}

// FromInterval returns a form enclosing iv. Irregular intervals give the
// matching sentinel kind. In dense spaces the result carries no noise symbol
// (its width goes to the error term, so it is uncorrelated with every other
// form); in sparse spaces it gets a fresh symbol.
func (s *Space) FromInterval(iv interval.Interval) *Form {
	f := &Form{space: s}
	f.setInterval(iv)
	return f
}

// Var returns a form of n noise terms where symbol m (1-based) carries the
// radius of iv. It panics if m is not in 1..n.
func (s *Space) Var(n, m int, iv interval.Interval) *Form {
	if n < 0 || m < 1 || (s.dense() && m > n) {
		panic(fmt.Sprintf("affine: symbol %d outside 1..%d", m, n))
	}
	s.ids.observe(m)
	f := &Form{space: s}
	if !iv.IsBounded() {
		f.setInterval(iv)
		return f
	}
	f.kind = Active
	f.center = iv.Mid()
	if iv.Diam() < AFEC {
		f.terms = s.newTerms(0)
		f.err = iv.Rad()
		return f
	}
	f.terms = s.newTerms(n)
	f.terms.set(m, iv.Rad())
	return f
}

// Fresh returns a form enclosing iv on a symbol not used by any other form of
// this space. Dense spaces hand out the indices 1..Dimension(); once those are
// exhausted the result is the uncorrelated FromInterval form.
func (s *Space) Fresh(iv interval.Interval) *Form {
	if !s.dense() {
		return s.Var(0, s.ids.Next(), iv)
	}
	m := s.ids.Next()
	if m > s.dim {
		s.log.Debug("dense symbols exhausted", zap.Int("symbol", m), zap.Int("dimension", s.dim))
		return s.FromInterval(iv)
	}
	return s.Var(s.dim, m, iv)
}
