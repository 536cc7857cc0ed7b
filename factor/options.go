// SPDX-License-Identifier: MIT
package factor

// Numeric policy defaults (single source of truth, mirrors the teacher's
// DefaultX convention in matrix/options.go).
const (
	// DefaultHyperCancel is the instantaneous density above which every
	// solve abandons hyper-sparse mode for that call, regardless of
	// history.
	DefaultHyperCancel = 0.8

	// DefaultHyperFTRANL/U and DefaultHyperBTRANL/U are the per-operation
	// historical-density switches of spec §4.3/§6.
	DefaultHyperFTRANL = 0.25
	DefaultHyperFTRANU = 0.25
	DefaultHyperBTRANL = 0.25
	DefaultHyperBTRANU = 0.25

	// DefaultHyperPrice is carried for API completeness (spec §6); PRICE
	// itself is an external collaborator out of this engine's scope.
	DefaultHyperPrice = 0.25

	// DefaultEpsilonTiny is the magnitude below which an intermediate
	// solve value is clamped to zero.
	DefaultEpsilonTiny = 1e-20

	// DefaultZero is the canonical small nonzero for fill positions. It is
	// stored in the configuration only; the solves clamp tiny values to
	// exact 0 and never write it.
	DefaultZero = 1e-50

	// DefaultUpdateLimit is the FT update count at which Update starts
	// returning UpdateLimitReached: the update that brings the count to
	// this value already returns it.
	DefaultUpdateLimit = 100

	// DefaultPivotThreshold is the relative-pivot acceptance ratio τ used
	// by the refactorization driver.
	DefaultPivotThreshold = 0.1

	// DefaultPivotTolerance is the absolute-pivot floor τ_abs.
	DefaultPivotTolerance = 1e-10

	// densityWeight is the EWMA weight given to the old historical
	// density value (spec §4.3: "weight 0.95 on the old value").
	densityWeight = 0.95
)

// config gathers every tunable of spec §6 into one struct, built once by
// New through the functional-options pattern rather than exported as bare
// package vars, so independently-tuned Stores can coexist (§5).
type config struct {
	hyperCancel    float64
	hyperFTRANL    float64
	hyperFTRANU    float64
	hyperBTRANL    float64
	hyperBTRANU    float64
	hyperPrice     float64
	epsilonTiny    float64
	zero           float64
	updateLimit    int
	pivotThreshold float64
	pivotTolerance float64
	debugLevel     int
	logSink        LogSink
	clock          Clock
}

func defaultConfig() config {
	return config{
		hyperCancel:    DefaultHyperCancel,
		hyperFTRANL:    DefaultHyperFTRANL,
		hyperFTRANU:    DefaultHyperFTRANU,
		hyperBTRANL:    DefaultHyperBTRANL,
		hyperBTRANU:    DefaultHyperBTRANU,
		hyperPrice:     DefaultHyperPrice,
		epsilonTiny:    DefaultEpsilonTiny,
		zero:           DefaultZero,
		updateLimit:    DefaultUpdateLimit,
		pivotThreshold: DefaultPivotThreshold,
		pivotTolerance: DefaultPivotTolerance,
		logSink:        noopLogSink{},
		clock:          noopClock{},
	}
}

// Option configures a Store at construction time.
type Option func(*config)

func WithHyperCancel(v float64) Option { return func(c *config) { c.hyperCancel = v } }
func WithHyperFTRANL(v float64) Option { return func(c *config) { c.hyperFTRANL = v } }
func WithHyperFTRANU(v float64) Option { return func(c *config) { c.hyperFTRANU = v } }
func WithHyperBTRANL(v float64) Option { return func(c *config) { c.hyperBTRANL = v } }
func WithHyperBTRANU(v float64) Option { return func(c *config) { c.hyperBTRANU = v } }
func WithHyperPrice(v float64) Option  { return func(c *config) { c.hyperPrice = v } }
func WithEpsilonTiny(v float64) Option { return func(c *config) { c.epsilonTiny = v } }
func WithZero(v float64) Option        { return func(c *config) { c.zero = v } }
func WithUpdateLimit(n int) Option     { return func(c *config) { c.updateLimit = n } }
func WithPivotThreshold(v float64) Option {
	return func(c *config) { c.pivotThreshold = v }
}
func WithPivotTolerance(v float64) Option {
	return func(c *config) { c.pivotTolerance = v }
}
func WithDebugLevel(n int) Option { return func(c *config) { c.debugLevel = n } }
func WithLogSink(s LogSink) Option {
	return func(c *config) {
		if s != nil {
			c.logSink = s
		}
	}
}
func WithClock(cl Clock) Option {
	return func(c *config) {
		if cl != nil {
			c.clock = cl
		}
	}
}

// gatherOptions applies opts over the package defaults.
func gatherOptions(opts ...Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogSink receives diagnostic messages from the engine. The engine never
// writes to stdout/stderr directly (spec §7); a host not wanting
// diagnostics passes nothing and gets a no-op sink.
type LogSink interface {
	Logf(level int, format string, args ...any)
}

type noopLogSink struct{}

func (noopLogSink) Logf(int, string, ...any) {}

// Clock lets a host measure time spent in solves/updates without the
// engine importing a timing product of its own (out of scope per §1).
type Clock interface {
	Now() int64
}

type noopClock struct{}

func (noopClock) Now() int64 { return 0 }

// Hint is the closed enumeration Update reports alongside a nil error to
// signal the caller should schedule a refactor, without that being an
// error condition itself (spec §7).
type Hint int

const (
	// OK means the update applied cleanly and is safe to keep using.
	OK Hint = iota
	// UpdateLimitReached means the update applied but PFPivotIndex has
	// reached the configured limit; the caller should refactor soon.
	UpdateLimitReached
	// Numerical means the update was rejected (see ErrNumericalFailure);
	// the store's factorization is unchanged and the caller must
	// refactor before solving again.
	Numerical
)

func (h Hint) String() string {
	switch h {
	case OK:
		return "OK"
	case UpdateLimitReached:
		return "UpdateLimitReached"
	case Numerical:
		return "Numerical"
	default:
		return "Hint(unknown)"
	}
}
