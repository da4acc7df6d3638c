// SPDX-License-Identifier: MIT

package implicitqr

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/spectra/matrix"
)

const (
	// machineEpsilon is the spacing of float64 values at 1.
	machineEpsilon = 0x1p-52
	maxFloat       = math.MaxFloat64
)

// State is the last driver state observed by an Engine.
type State uint8

const (
	Idle State = iota
	Scanning
	Shifting
	Sweeping
	Converged
	Failed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Shifting:
		return "shifting"
	case Sweeping:
		return "sweeping"
	case Converged:
		return "converged"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Engine runs implicit-shift QR on one compact matrix at a time.
//
// Lifecycle:
//
//	e := New(kind, opts...)
//	e.SetMatrix(diag, off)        // adopts the slices, no copy
//	e.SetTransforms(ut, vt)       // ValuesAndVectors only
//	ok, err := e.Process()        // or ProcessWithShifts(values)
//
// After a successful run diag holds one value per index in discovery order
// and the transforms satisfy T = Utᵀ·diag(values)·Ut (Symmetric) or
// B = Utᵀ·diag(values)·Vt (Bidiagonal, Upper; Lower: Bᵀ). On failure the
// contents of diag, off, Ut and Vt must not be used.
type Engine struct {
	kind Kind
	cfg  config
	kern kernel

	n      int
	loaded bool
	diag   []float64
	off    []float64

	// ut/vt are the internal left/right accumulators; for the Lower layout
	// they are bound to the caller's Vt/Ut respectively.
	ut, vt         accumulator
	userUt, userVt *matrix.Dense

	lo, hi int
	splits []int

	steps           int // sweeps in the current window since the last deflation
	sweeps          int // sweeps in this run
	maxSweeps       int
	nextExceptional int
	numExceptional  int
	zeroPhase       bool
	scripted        bool
	known           []float64

	tol      float64
	exp      int // input was scaled by 2^-exp
	maxValue float64
	rng      *rand.Rand
	state    State
}

// New constructs an engine for the given matrix kind. Configuration is fixed
// for the engine's lifetime. Panics on an unknown kind.
func New(kind Kind, opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		kind: kind,
		cfg:  cfg,
		tol:  cfg.tolerance * machineEpsilon,
		rng:  rand.New(rand.NewSource(cfg.seed)),
	}
	switch kind {
	case Symmetric:
		e.kern = tridiagonal{}
	case Bidiagonal:
		e.kern = bidiagonal{}
	default:
		panic(fmt.Sprintf("implicitqr: New: unknown kind %d", kind))
	}

	return e
}

// Kind reports the matrix kind.
func (e *Engine) Kind() Kind { return e.kind }

// Mode reports the execution mode.
func (e *Engine) Mode() Mode { return e.cfg.mode }

// SetMatrix adopts diag (length n ≥ 1) and off (length n-1). Both slices are
// mutated in place by Process. Any previously bound transforms are released.
func (e *Engine) SetMatrix(diag, off []float64) error {
	if len(diag) == 0 {
		return fmt.Errorf("SetMatrix: n=0: %w", ErrShape)
	}
	if err := checkCompact(diag, off); err != nil {
		return fmt.Errorf("SetMatrix: %w", err)
	}

	e.n = len(diag)
	e.diag = diag
	e.off = off
	e.loaded = true
	e.ut.bind(nil)
	e.vt.bind(nil)
	e.userUt, e.userVt = nil, nil
	if cap(e.splits) < e.n {
		e.splits = make([]int, 0, e.n)
	}
	e.state = Idle

	return nil
}

// SetCompact is SetMatrix on an owned buffer.
func (e *Engine) SetCompact(c *Compact) error {
	return e.SetMatrix(c.Diag, c.Off)
}

// SetTransforms seeds the accumulators. Each must have n rows; the column
// count is free (e.g. n×m for a thin left factor). Identity seeds yield the
// transforms of the compact matrix itself; reducer seeds yield the transforms
// of the original dense matrix. vt is ignored by Symmetric engines.
func (e *Engine) SetTransforms(ut, vt *matrix.Dense) error {
	if e.cfg.mode != ValuesAndVectors {
		return fmt.Errorf("SetTransforms: mode %s: %w", e.cfg.mode, ErrInvalidConfig)
	}
	if !e.loaded {
		return fmt.Errorf("SetTransforms: %w", ErrNoMatrix)
	}
	if ut == nil || (e.kind == Bidiagonal && vt == nil) {
		return fmt.Errorf("SetTransforms: %w", ErrMissingTransforms)
	}
	if ut.Rows() != e.n {
		return fmt.Errorf("SetTransforms: Ut has %d rows, want %d: %w", ut.Rows(), e.n, ErrShape)
	}
	if e.kind == Symmetric {
		e.userUt, e.userVt = ut, nil
		e.ut.bind(ut)

		return nil
	}
	if vt.Rows() != e.n {
		return fmt.Errorf("SetTransforms: Vt has %d rows, want %d: %w", vt.Rows(), e.n, ErrShape)
	}

	e.userUt, e.userVt = ut, vt
	if e.cfg.layout == Lower {
		e.ut.bind(vt)
		e.vt.bind(ut)
	} else {
		e.ut.bind(ut)
		e.vt.bind(vt)
	}

	return nil
}

// Process runs the driver with dynamic shifts. The error reports contract
// violations only; false means the sweep budget ran out.
func (e *Engine) Process() (bool, error) {
	if err := e.ready(); err != nil {
		return false, fmt.Errorf("Process: %w", err)
	}
	e.known = nil

	return e.run(), nil
}

// ProcessWithShifts runs the driver using values (e.g. the output of a
// ValuesOnly pass on the same matrix) as shifts: the window ending at index
// hi is shifted by values[hi]. A window that has not deflated after the
// known-shift patience switches to dynamic shifts.
func (e *Engine) ProcessWithShifts(values []float64) (bool, error) {
	if err := e.ready(); err != nil {
		return false, fmt.Errorf("ProcessWithShifts: %w", err)
	}
	if len(values) < e.n {
		return false, fmt.Errorf("ProcessWithShifts: %d values for n=%d: %w", len(values), e.n, ErrShape)
	}
	e.known = values

	return e.run(), nil
}

func (e *Engine) ready() error {
	if !e.loaded {
		return ErrNoMatrix
	}
	if e.cfg.mode == ValuesAndVectors {
		if !e.ut.active() || (e.kind == Bidiagonal && !e.vt.active()) {
			return ErrMissingTransforms
		}
	}

	return nil
}

func (e *Engine) run() bool {
	e.sweeps = 0
	e.splits = e.splits[:0]
	e.lo, e.hi = 0, e.n-1
	e.rng.Seed(e.cfg.seed)
	e.zeroPhase = e.kind == Bidiagonal && e.cfg.policy == ShiftAuto && e.cfg.zeroSweeps > 0
	e.maxSweeps = e.cfg.maxSweeps
	if e.maxSweeps == 0 {
		e.maxSweeps = e.cfg.maxSweepsPerValue * e.n
	}
	e.resetSteps()

	e.maxValue = maxAbs(e.diag, e.off)
	e.exp = 0
	if e.maxValue == 0 || e.n == 1 {
		e.state = Converged
		return true
	}

	e.prescale()
	ok := e.drive()
	e.unscale()

	return ok
}

// drive is the Driver state machine. Every pass of the loop either shrinks
// the window (deflation, split, zero elimination, closed-form 2×2) or spends
// one sweep of the budget, so it terminates.
func (e *Engine) drive() bool {
	for {
		if e.lo >= e.hi {
			// isolated value: no shift, no sweep
			if !e.nextWindow() {
				e.state = Converged
				return true
			}
			continue
		}

		e.state = Scanning
		if e.scan() {
			continue
		}
		if e.hi-e.lo == 1 && e.cfg.mode == ValuesOnly {
			e.kern.solve2x2(e)
			e.hi = e.lo
			continue
		}

		e.state = Shifting
		if e.sweeps >= e.maxSweeps {
			e.state = Failed
			return false
		}
		sh := e.selectShift()

		e.state = Sweeping
		e.kern.sweep(e, sh)
		e.steps++
		e.sweeps++
	}
}

// prescale multiplies everything by the power of two that brings the
// largest magnitude into [0.5, 1). Exact unless a result underflows, which
// cannot happen when scaling up.
func (e *Engine) prescale() {
	_, e.exp = math.Frexp(e.maxValue)
	if e.exp == 0 {
		return
	}
	for i := range e.diag {
		e.diag[i] = math.Ldexp(e.diag[i], -e.exp)
	}
	for i := range e.off {
		e.off[i] = math.Ldexp(e.off[i], -e.exp)
	}
}

func (e *Engine) unscale() {
	if e.exp == 0 {
		return
	}
	for i := range e.diag {
		e.diag[i] = math.Ldexp(e.diag[i], e.exp)
	}
	for i := range e.off {
		e.off[i] = math.Ldexp(e.off[i], e.exp)
	}
}

// maxAbs returns the largest magnitude, or NaN if any entry is NaN.
func maxAbs(diag, off []float64) float64 {
	var m float64
	for _, s := range [2][]float64{diag, off} {
		for _, v := range s {
			if v != v {
				return math.NaN()
			}
			if a := math.Abs(v); a > m {
				m = a
			}
		}
	}

	return m
}

// MakeNonNegative flips the sign of every negative value together with the
// matching row of the left accumulator, so the factorization is unchanged
// and singular values come out non-negative. Bidiagonal engines only; a
// no-op otherwise.
func (e *Engine) MakeNonNegative() {
	if e.kind != Bidiagonal {
		return
	}
	for i := 0; i < e.n; i++ {
		if e.diag[i] < 0 {
			e.diag[i] = -e.diag[i]
			e.ut.negateRow(i)
		}
	}
}

// NumValues is n.
func (e *Engine) NumValues() int { return e.n }

// Value returns diag[i]. Panics if i is out of range.
func (e *Engine) Value(i int) float64 { return e.diag[i] }

// Values aliases diag.
func (e *Engine) Values() []float64 { return e.diag }

// Diag aliases the diagonal buffer.
func (e *Engine) Diag() []float64 { return e.diag }

// Off aliases the off-diagonal buffer.
func (e *Engine) Off() []float64 { return e.off }

// Ut returns the left transform as passed to SetTransforms.
func (e *Engine) Ut() *matrix.Dense { return e.userUt }

// Vt returns the right transform as passed to SetTransforms (nil for Symmetric).
func (e *Engine) Vt() *matrix.Dense { return e.userVt }

// Sweeps is the number of sweeps taken by the last run.
func (e *Engine) Sweeps() int { return e.sweeps }

// State is the last driver state; Converged or Failed after a run.
func (e *Engine) State() State { return e.state }

// MaxValue is the largest input magnitude seen by the last run.
func (e *Engine) MaxValue() float64 { return e.maxValue }
