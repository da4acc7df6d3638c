// SPDX-License-Identifier: MIT

package decompose

import (
	"fmt"
	"math"

	"github.com/katalvlaran/spectra/implicitqr"
	"github.com/katalvlaran/spectra/matrix"
)

const (
	opTridiagonalEigen = "TridiagonalEigen"
	opBidiagonalSVD    = "BidiagonalSVD"
)

// TridiagonalEigen decomposes a symmetric tridiagonal matrix given in compact
// form, skipping the dense reduction. Vectors are those of T itself.
//
// Errors (wrapped): ErrNaNInf, implicitqr.ErrShape, ErrNotConverged.
func (d *Decomposer) TridiagonalEigen(diag, off []float64) (*Eigen, error) {
	if err := d.loadCompact(diag, off); err != nil {
		return nil, decomposeErrorf(opTridiagonalEigen, err)
	}
	qt, err := d.seed(len(diag))
	if err != nil {
		return nil, decomposeErrorf(opTridiagonalEigen, err)
	}

	e, sweeps, err := d.run(engineKey{kind: implicitqr.Symmetric}, qt, nil)
	if err != nil {
		return nil, decomposeErrorf(opTridiagonalEigen, err)
	}
	order := descending(e.Values())
	out := &Eigen{Values: gather(e.Values(), order), Sweeps: sweeps}
	if qt != nil {
		if out.Vectors, err = columnsFromRows(e.Ut(), order, len(diag)); err != nil {
			return nil, decomposeErrorf(opTridiagonalEigen, err)
		}
	}

	return out, nil
}

// BidiagonalSVD decomposes an upper or lower bidiagonal matrix given in
// compact form.
//
// Errors (wrapped): ErrNaNInf, implicitqr.ErrShape, ErrNotConverged.
func (d *Decomposer) BidiagonalSVD(diag, off []float64, layout implicitqr.Layout) (*SVDResult, error) {
	if err := d.loadCompact(diag, off); err != nil {
		return nil, decomposeErrorf(opBidiagonalSVD, err)
	}
	n := len(diag)
	ut, err := d.seed(n)
	if err != nil {
		return nil, decomposeErrorf(opBidiagonalSVD, err)
	}
	vt, err := d.seed(n)
	if err != nil {
		return nil, decomposeErrorf(opBidiagonalSVD, err)
	}

	e, sweeps, err := d.run(engineKey{kind: implicitqr.Bidiagonal, layout: layout}, ut, vt)
	if err != nil {
		return nil, decomposeErrorf(opBidiagonalSVD, err)
	}
	e.MakeNonNegative()

	order := descending(e.Values())
	out := &SVDResult{Values: gather(e.Values(), order), Sweeps: sweeps}
	if ut != nil {
		if out.U, err = columnsFromRows(e.Ut(), order, n); err != nil {
			return nil, decomposeErrorf(opBidiagonalSVD, err)
		}
		if out.V, err = columnsFromRows(e.Vt(), order, n); err != nil {
			return nil, decomposeErrorf(opBidiagonalSVD, err)
		}
	}

	return out, nil
}

// loadCompact validates and copies the caller's slices into d.pristine; the
// caller's data is never mutated.
func (d *Decomposer) loadCompact(diag, off []float64) error {
	if len(diag) == 0 {
		return fmt.Errorf("n=0: %w", implicitqr.ErrShape)
	}
	for _, s := range [2][]float64{diag, off} {
		for i, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("entry %d: %w", i, matrix.ErrNaNInf)
			}
		}
	}

	return d.pristine.Load(diag, off)
}

// seed returns an identity accumulator when vectors are requested, nil otherwise.
func (d *Decomposer) seed(n int) (*matrix.Dense, error) {
	if !d.opts.vectors {
		return nil, nil
	}

	return matrix.Identity(n)
}
