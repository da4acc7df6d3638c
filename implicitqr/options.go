// SPDX-License-Identifier: MIT

// Package implicitqr: functional configuration fixed at construction time.
// Options follow the matrix package conventions: documented Default*
// constants are the single source of truth, and WithX constructors panic on
// nonsensical values (programmer error), never on data.
package implicitqr

// Kind selects the compact matrix family and therefore the rotation kernel.
type Kind uint8

const (
	// Symmetric is a symmetric tridiagonal matrix; rotations are similarity
	// transforms G·T·Gᵀ and the outputs are eigenvalues.
	Symmetric Kind = iota
	// Bidiagonal is an upper (or lower, see Layout) bidiagonal matrix; rotations
	// alternate between the left and right side and the outputs are singular values.
	Bidiagonal
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Symmetric:
		return "symmetric"
	case Bidiagonal:
		return "bidiagonal"
	default:
		return "unknown"
	}
}

// Mode selects whether rotations are accumulated into orthogonal matrices.
type Mode uint8

const (
	// ValuesOnly computes values only. Trailing 2×2 windows are solved in closed form.
	ValuesOnly Mode = iota
	// ValuesAndVectors accumulates every rotation into Ut (and Vt).
	ValuesAndVectors
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == ValuesAndVectors {
		return "values+vectors"
	}

	return "values"
}

// Layout tells a Bidiagonal engine where the off-diagonal lives.
type Layout uint8

const (
	// Upper: off[k] is entry (k, k+1).
	Upper Layout = iota
	// Lower: off[k] is entry (k+1, k). Handled as the transpose of Upper, so
	// the roles of Ut and Vt are exchanged.
	Lower
)

// ShiftPolicy chooses how dynamic shifts are computed.
type ShiftPolicy uint8

const (
	// ShiftAuto uses Wilkinson shifts, except that a Bidiagonal run starts with
	// zero shifts until one window has taken ZeroShiftSweeps sweeps. Zero shifts
	// reveal tiny singular values with full relative accuracy.
	ShiftAuto ShiftPolicy = iota
	// ShiftWilkinson always uses the Wilkinson shift.
	ShiftWilkinson
	// ShiftZero always uses a zero shift. Highest relative accuracy, linear
	// convergence; raise the sweep budget accordingly.
	ShiftZero
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultTolerance is the multiple of machine epsilon used in the relative
	// negligibility tests |off[k]| ≤ tol·(|diag[k]|+|diag[k+1]|).
	DefaultTolerance = 1.0

	// DefaultMaxSweepsPerValue bounds the total number of sweeps at
	// DefaultMaxSweepsPerValue·n per run.
	DefaultMaxSweepsPerValue = 30

	// DefaultExceptionalThreshold is the number of sweeps a window may take
	// without deflating before an exceptional (random-angle) sweep is injected.
	DefaultExceptionalThreshold = 15

	// DefaultKnownShiftPatience is the number of sweeps a window follows known
	// values before falling back to dynamic shifts.
	DefaultKnownShiftPatience = 10

	// DefaultZeroShiftSweeps is the zero-shift budget of ShiftAuto.
	DefaultZeroShiftSweeps = 7

	// DefaultSeed seeds the exceptional-shift generator; runs are reproducible.
	DefaultSeed int64 = 0x34671e
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicToleranceInvalid   = "implicitqr: WithTolerance: multiplier must be finite and > 0"
	panicSweepsInvalid      = "implicitqr: WithMaxSweepsPerValue: must be > 0"
	panicTotalSweepsInvalid = "implicitqr: WithMaxSweeps: must be > 0"
	panicExceptionalInvalid = "implicitqr: WithExceptionalThreshold: must be > 0"
	panicPatienceInvalid    = "implicitqr: WithKnownShiftPatience: must be >= 0"
	panicZeroSweepsInvalid  = "implicitqr: WithZeroShiftSweeps: must be >= 0"
	panicModeInvalid        = "implicitqr: WithMode: unknown mode"
	panicLayoutInvalid      = "implicitqr: WithLayout: unknown layout"
	panicPolicyInvalid      = "implicitqr: WithShiftPolicy: unknown policy"
)

// Option configures an Engine at construction. Options are applied in order.
type Option func(*config)

type config struct {
	mode              Mode
	layout            Layout
	policy            ShiftPolicy
	tolerance         float64
	maxSweepsPerValue int
	maxSweeps         int // absolute cap; 0 means maxSweepsPerValue·n
	exceptional       int
	patience          int
	zeroSweeps        int
	seed              int64
}

func defaultConfig() config {
	return config{
		mode:              ValuesOnly,
		layout:            Upper,
		policy:            ShiftAuto,
		tolerance:         DefaultTolerance,
		maxSweepsPerValue: DefaultMaxSweepsPerValue,
		exceptional:       DefaultExceptionalThreshold,
		patience:          DefaultKnownShiftPatience,
		zeroSweeps:        DefaultZeroShiftSweeps,
		seed:              DefaultSeed,
	}
}

// WithMode fixes the execution mode. Default: ValuesOnly.
func WithMode(m Mode) Option {
	if m != ValuesOnly && m != ValuesAndVectors {
		panic(panicModeInvalid)
	}

	return func(c *config) { c.mode = m }
}

// WithLayout sets the off-diagonal position of a Bidiagonal engine.
// Ignored by Symmetric engines. Default: Upper.
func WithLayout(l Layout) Option {
	if l != Upper && l != Lower {
		panic(panicLayoutInvalid)
	}

	return func(c *config) { c.layout = l }
}

// WithShiftPolicy selects the dynamic shift strategy. Default: ShiftAuto.
func WithShiftPolicy(p ShiftPolicy) Option {
	if p > ShiftZero {
		panic(panicPolicyInvalid)
	}

	return func(c *config) { c.policy = p }
}

// WithTolerance sets the multiple of machine epsilon used by every
// negligibility test. The exact value is a tuning knob: larger values
// converge in fewer sweeps at the cost of accuracy.
func WithTolerance(multiplier float64) Option {
	if !(multiplier > 0) || multiplier > maxFloat {
		panic(panicToleranceInvalid)
	}

	return func(c *config) { c.tolerance = multiplier }
}

// WithMaxSweepsPerValue sets the sweep budget to k·n sweeps per run.
func WithMaxSweepsPerValue(k int) Option {
	if k <= 0 {
		panic(panicSweepsInvalid)
	}

	return func(c *config) { c.maxSweepsPerValue = k }
}

// WithMaxSweeps sets an absolute sweep budget per run, overriding
// WithMaxSweepsPerValue.
func WithMaxSweeps(total int) Option {
	if total <= 0 {
		panic(panicTotalSweepsInvalid)
	}

	return func(c *config) { c.maxSweeps = total }
}

// WithExceptionalThreshold sets how many non-deflating sweeps trigger an
// exceptional random-angle sweep.
func WithExceptionalThreshold(k int) Option {
	if k <= 0 {
		panic(panicExceptionalInvalid)
	}

	return func(c *config) { c.exceptional = k }
}

// WithKnownShiftPatience sets how many sweeps a window follows known values
// in ProcessWithShifts before switching to dynamic shifts.
func WithKnownShiftPatience(k int) Option {
	if k < 0 {
		panic(panicPatienceInvalid)
	}

	return func(c *config) { c.patience = k }
}

// WithZeroShiftSweeps sets the zero-shift budget used by ShiftAuto.
func WithZeroShiftSweeps(k int) Option {
	if k < 0 {
		panic(panicZeroSweepsInvalid)
	}

	return func(c *config) { c.zeroSweeps = k }
}

// WithSeed seeds the exceptional-shift generator.
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed = seed }
}
