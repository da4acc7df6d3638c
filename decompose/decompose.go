// SPDX-License-Identifier: MIT
// Package decompose assembles the full dense pipelines around the implicit
// QR engine:
//
//	SymmetricEigen: A ─Tridiagonal→ (T, Qt) ─engine→ λ, eigenvectors
//	SVD:            A ─Bidiagonal→  (B, Ut, Vt) ─engine→ σ, U, V
//
// With vectors requested, the default strategy runs the engine twice on the
// same reduced matrix: a ValuesOnly pass, then a ValuesAndVectors pass that
// uses the first pass's values as shifts and converges in few sweeps.
//
// Results are sorted in descending order. Non-convergence is reported as
// ErrNotConverged; no partial results are returned.
package decompose

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/katalvlaran/spectra/implicitqr"
	"github.com/katalvlaran/spectra/matrix"
	"github.com/katalvlaran/spectra/reduce"
)

// ErrNotConverged is returned when the engine exhausts its sweep budget.
var ErrNotConverged = errors.New("decompose: implicit QR did not converge")

const (
	opSymmetricEigen = "SymmetricEigen"
	opSVD            = "SVD"
)

func decomposeErrorf(tag string, err error) error {
	return fmt.Errorf("decompose.%s: %w", tag, err)
}

// Eigen is A = V·diag(Values)·Vᵀ.
type Eigen struct {
	Values  []float64     // descending
	Vectors *matrix.Dense // n×n, column j pairs with Values[j]; nil without vectors
	Sweeps  int           // sweeps spent by the engine, all passes
}

// SVDResult is A = U·diag(Values)·Vᵀ.
type SVDResult struct {
	Values []float64     // non-negative, descending, length min(m,n)
	U      *matrix.Dense // m×k; nil without vectors
	V      *matrix.Dense // n×k; nil without vectors
	Sweeps int
}

// Decomposer owns engines and compact buffers reused across calls. Not safe
// for concurrent use; concurrent callers each create their own.
type Decomposer struct {
	opts     options
	engines  map[engineKey]*implicitqr.Engine
	work     *implicitqr.Compact
	pristine *implicitqr.Compact
}

type engineKey struct {
	kind    implicitqr.Kind
	layout  implicitqr.Layout
	vectors bool
}

// NewDecomposer prepares buffers for matrices up to expectedMax (larger
// inputs still work; buffers grow).
func NewDecomposer(expectedMax int, opts ...Option) *Decomposer {
	return &Decomposer{
		opts:     gatherOptions(opts...),
		engines:  make(map[engineKey]*implicitqr.Engine, 4),
		work:     implicitqr.NewCompact(expectedMax),
		pristine: implicitqr.NewCompact(expectedMax),
	}
}

// SymmetricEigen is a one-shot NewDecomposer(...).SymmetricEigen(a).
func SymmetricEigen(a matrix.Matrix, opts ...Option) (*Eigen, error) {
	if err := matrix.ValidateNotNil(a); err != nil {
		return nil, decomposeErrorf(opSymmetricEigen, err)
	}

	return NewDecomposer(a.Rows(), opts...).SymmetricEigen(a)
}

// SVD is a one-shot NewDecomposer(...).SVD(a).
func SVD(a matrix.Matrix, opts ...Option) (*SVDResult, error) {
	if err := matrix.ValidateNotNil(a); err != nil {
		return nil, decomposeErrorf(opSVD, err)
	}
	n := a.Cols()
	if a.Rows() < n {
		n = a.Rows()
	}

	return NewDecomposer(n, opts...).SVD(a)
}

// engine returns the cached engine for the key, creating it on first use.
// Mode and layout are appended last so they win over forwarded options.
func (d *Decomposer) engine(key engineKey) *implicitqr.Engine {
	if e, ok := d.engines[key]; ok {
		return e
	}
	mode := implicitqr.ValuesOnly
	if key.vectors {
		mode = implicitqr.ValuesAndVectors
	}
	opts := append(append([]implicitqr.Option(nil), d.opts.engine...),
		implicitqr.WithMode(mode), implicitqr.WithLayout(key.layout))
	e := implicitqr.New(key.kind, opts...)
	d.engines[key] = e

	return e
}

// SymmetricEigen computes eigenvalues (and eigenvectors) of a symmetric matrix.
//
// Errors (wrapped): ErrNilMatrix, ErrNaNInf, ErrNonSquare, ErrAsymmetry,
// ErrNotConverged.
func (d *Decomposer) SymmetricEigen(a matrix.Matrix) (*Eigen, error) {
	red, err := reduce.Tridiagonal(a, reduce.WithTransforms(d.opts.vectors))
	if err != nil {
		return nil, decomposeErrorf(opSymmetricEigen, err)
	}
	if err = d.pristine.Load(red.Diag, red.Off); err != nil {
		return nil, decomposeErrorf(opSymmetricEigen, err)
	}

	e, sweeps, err := d.run(engineKey{kind: implicitqr.Symmetric}, red.Qt, nil)
	if err != nil {
		return nil, decomposeErrorf(opSymmetricEigen, err)
	}

	n := e.NumValues()
	order := descending(e.Values())
	out := &Eigen{Values: gather(e.Values(), order), Sweeps: sweeps}
	if d.opts.vectors {
		if out.Vectors, err = columnsFromRows(e.Ut(), order, n); err != nil {
			return nil, decomposeErrorf(opSymmetricEigen, err)
		}
	}
	d.opts.logger.Debug("symmetric eigen", slog.Int("n", n), slog.Int("sweeps", sweeps),
		slog.Bool("vectors", d.opts.vectors))

	return out, nil
}

// SVD computes singular values (and vectors) of any matrix. Wide inputs are
// decomposed through their transpose.
//
// Errors (wrapped): ErrNilMatrix, ErrNaNInf, ErrNotConverged.
func (d *Decomposer) SVD(a matrix.Matrix) (*SVDResult, error) {
	if err := matrix.ValidateNotNil(a); err != nil {
		return nil, decomposeErrorf(opSVD, err)
	}
	src := a
	wide := a.Rows() < a.Cols()
	if wide {
		t, err := matrix.Transpose(a)
		if err != nil {
			return nil, decomposeErrorf(opSVD, err)
		}
		src = t
	}

	red, err := reduce.Bidiagonal(src, reduce.WithTransforms(d.opts.vectors))
	if err != nil {
		return nil, decomposeErrorf(opSVD, err)
	}
	if err = d.pristine.Load(red.Diag, red.Off); err != nil {
		return nil, decomposeErrorf(opSVD, err)
	}

	e, sweeps, err := d.run(engineKey{kind: implicitqr.Bidiagonal}, red.Ut, red.Vt)
	if err != nil {
		return nil, decomposeErrorf(opSVD, err)
	}
	e.MakeNonNegative()

	k := e.NumValues()
	order := descending(e.Values())
	out := &SVDResult{Values: gather(e.Values(), order), Sweeps: sweeps}
	if d.opts.vectors {
		if out.U, err = columnsFromRows(e.Ut(), order, src.Rows()); err != nil {
			return nil, decomposeErrorf(opSVD, err)
		}
		if out.V, err = columnsFromRows(e.Vt(), order, src.Cols()); err != nil {
			return nil, decomposeErrorf(opSVD, err)
		}
		if wide {
			out.U, out.V = out.V, out.U
		}
	}
	d.opts.logger.Debug("svd", slog.Int("rows", a.Rows()), slog.Int("cols", a.Cols()),
		slog.Int("values", k), slog.Int("sweeps", sweeps), slog.Bool("vectors", d.opts.vectors))

	return out, nil
}

// run executes the configured strategy on d.pristine and returns the engine
// holding the result.
func (d *Decomposer) run(key engineKey, ut, vt *matrix.Dense) (*implicitqr.Engine, int, error) {
	log := d.opts.logger
	kind := key.kind

	if !d.opts.vectors {
		e := d.engine(key)
		if err := e.SetCompact(d.pristine); err != nil {
			return nil, 0, err
		}
		ok, err := e.Process()
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			log.Debug("values pass did not converge", slog.String("kind", kind.String()), slog.Int("sweeps", e.Sweeps()))
			return nil, e.Sweeps(), ErrNotConverged
		}

		return e, e.Sweeps(), nil
	}

	var (
		known  []float64
		sweeps int
	)
	if d.opts.twoPass {
		fast := d.engine(key)
		d.pristine.Snapshot(d.work)
		if err := fast.SetCompact(d.work); err != nil {
			return nil, 0, err
		}
		ok, err := fast.Process()
		if err != nil {
			return nil, 0, err
		}
		sweeps += fast.Sweeps()
		if ok {
			known = fast.Values()
		} else {
			log.Debug("values pass did not converge; vectors pass uses dynamic shifts",
				slog.String("kind", kind.String()), slog.Int("sweeps", fast.Sweeps()))
		}
	}

	key.vectors = true
	full := d.engine(key)
	if err := full.SetCompact(d.pristine); err != nil {
		return nil, sweeps, err
	}
	if err := full.SetTransforms(ut, vt); err != nil {
		return nil, sweeps, err
	}
	var (
		ok  bool
		err error
	)
	if known != nil {
		ok, err = full.ProcessWithShifts(known)
	} else {
		ok, err = full.Process()
	}
	if err != nil {
		return nil, sweeps, err
	}
	sweeps += full.Sweeps()
	if !ok {
		log.Debug("vectors pass did not converge", slog.String("kind", kind.String()), slog.Int("sweeps", full.Sweeps()))
		return nil, sweeps, ErrNotConverged
	}

	return full, sweeps, nil
}

// descending returns the permutation that sorts values in descending order.
func descending(values []float64) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return values[order[i]] > values[order[j]] })

	return order
}

func gather(values []float64, order []int) []float64 {
	out := make([]float64, len(order))
	for j, i := range order {
		out[j] = values[i]
	}

	return out
}

// columnsFromRows builds the rows×len(order) matrix whose column j is row
// order[j] of q.
func columnsFromRows(q *matrix.Dense, order []int, rows int) (*matrix.Dense, error) {
	out, err := matrix.NewDense(rows, len(order))
	if err != nil {
		return nil, err
	}
	data := out.RawData()
	k := len(order)
	for j, src := range order {
		row, err := q.RowView(src)
		if err != nil {
			return nil, err
		}
		for i := 0; i < rows; i++ {
			data[i*k+j] = row[i]
		}
	}

	return out, nil
}
