// SPDX-License-Identifier: MIT
// Package implicitqr_test contains shared fixtures for the engine tests.
//
// Purpose:
//   - Build deterministic compact fixtures and their dense counterparts.
//   - Reconstruct Utᵀ·diag(w)·Vt with the matrix package kernels.
//   - Wrap gonum factorizations as independent oracles.

package implicitqr_test

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spectra/implicitqr"
	"github.com/katalvlaran/spectra/matrix"
)

// zeroDiagonalValues are the singular values of diag=[1,2,0,4,5,6],
// off=[2,2,2,2,2] (the zero at position 2).
var zeroDiagonalValues = []float64{6.82550, 5.31496, 3.76347, 3.28207, 1.49265, 0}

// randomCompact returns n diagonal and n-1 off-diagonal entries in [-1, 1).
func randomCompact(rng *rand.Rand, n int) (diag, off []float64) {
	diag = make([]float64, n)
	off = make([]float64, n-1)
	for i := range diag {
		diag[i] = 2*rng.Float64() - 1
	}
	for i := range off {
		off[i] = 2*rng.Float64() - 1
	}

	return diag, off
}

// ones returns the n×n compact fixture with every stored entry equal to v.
func ones(n int, v float64) (diag, off []float64) {
	diag = make([]float64, n)
	off = make([]float64, n-1)
	for i := range diag {
		diag[i] = v
	}
	for i := range off {
		off[i] = v
	}

	return diag, off
}

// onesSingularValues are the singular values of the all-ones upper
// bidiagonal of order n, in descending order.
func onesSingularValues(n int) []float64 {
	want := make([]float64, n)
	for i := range want {
		want[i] = 2 * math.Cos(float64(i+1)*math.Pi/float64(2*n+1))
	}

	return want
}

func clone(s []float64) []float64 { return append([]float64(nil), s...) }

// sortedDesc returns a descending copy.
func sortedDesc(s []float64) []float64 {
	out := clone(s)
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))

	return out
}

// absSortedDesc returns a descending copy of |s|.
func absSortedDesc(s []float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = math.Abs(v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))

	return out
}

// tridiagonalDense expands a symmetric tridiagonal compact matrix.
func tridiagonalDense(t *testing.T, diag, off []float64) *matrix.Dense {
	t.Helper()
	n := len(diag)
	m, err := matrix.NewDense(n, n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, m.Set(i, i, diag[i]))
		if i+1 < n {
			require.NoError(t, m.Set(i, i+1, off[i]))
			require.NoError(t, m.Set(i+1, i, off[i]))
		}
	}

	return m
}

// bidiagonalDense expands an upper (lower=false) or lower bidiagonal matrix.
func bidiagonalDense(t *testing.T, diag, off []float64, lower bool) *matrix.Dense {
	t.Helper()
	n := len(diag)
	m, err := matrix.NewDense(n, n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, m.Set(i, i, diag[i]))
		if i+1 < n {
			if lower {
				require.NoError(t, m.Set(i+1, i, off[i]))
			} else {
				require.NoError(t, m.Set(i, i+1, off[i]))
			}
		}
	}

	return m
}

func identity(t *testing.T, n int) *matrix.Dense {
	t.Helper()
	m, err := matrix.Identity(n)
	require.NoError(t, err)

	return m
}

// reconstruct computes Utᵀ·diag(w)·Vt.
func reconstruct(t *testing.T, ut *matrix.Dense, w []float64, vt *matrix.Dense) *matrix.Dense {
	t.Helper()
	left, err := matrix.Transpose(ut)
	require.NoError(t, err)
	right, err := matrix.ScaleRows(w, vt)
	require.NoError(t, err)
	out, err := matrix.Mul(left, right)
	require.NoError(t, err)

	return out
}

// requireClose asserts elementwise |got-want| ≤ tol·max(1, max|want|).
func requireClose(t *testing.T, want, got *matrix.Dense, tol float64) {
	t.Helper()
	require.Equal(t, want.Rows(), got.Rows())
	require.Equal(t, want.Cols(), got.Cols())
	scale := 1.0
	for _, v := range want.RawData() {
		scale = math.Max(scale, math.Abs(v))
	}
	gd := got.RawData()
	for i, v := range want.RawData() {
		require.InDeltaf(t, v, gd[i], tol*scale, "entry %d", i)
	}
}

// requireOrthogonalRows asserts q·qᵀ ≈ I.
func requireOrthogonalRows(t *testing.T, q *matrix.Dense, tol float64) {
	t.Helper()
	qt, err := matrix.Transpose(q)
	require.NoError(t, err)
	qqt, err := matrix.Mul(q, qt)
	require.NoError(t, err)
	requireClose(t, identity(t, q.Rows()), qqt, tol)
}

// gonumEigenvalues returns the eigenvalues of the tridiagonal in descending order.
func gonumEigenvalues(t *testing.T, diag, off []float64) []float64 {
	t.Helper()
	n := len(diag)
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		sym.SetSym(i, i, diag[i])
		if i+1 < n {
			sym.SetSym(i, i+1, off[i])
		}
	}
	var es mat.EigenSym
	require.True(t, es.Factorize(sym, false))

	return sortedDesc(es.Values(nil))
}

// gonumSingularValues returns the singular values of the upper bidiagonal, descending.
func gonumSingularValues(t *testing.T, diag, off []float64) []float64 {
	t.Helper()
	n := len(diag)
	b := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		b.Set(i, i, diag[i])
		if i+1 < n {
			b.Set(i, i+1, off[i])
		}
	}
	var svd mat.SVD
	require.True(t, svd.Factorize(b, mat.SVDNone))

	return svd.Values(nil)
}

// runValues runs a ValuesOnly engine on copies and returns |values| descending
// for Bidiagonal, values descending for Symmetric.
func runValues(t *testing.T, kind implicitqr.Kind, diag, off []float64, opts ...implicitqr.Option) []float64 {
	t.Helper()
	e := implicitqr.New(kind, opts...)
	require.NoError(t, e.SetMatrix(clone(diag), clone(off)))
	ok, err := e.Process()
	require.NoError(t, err)
	require.True(t, ok, "engine did not converge")
	if kind == implicitqr.Bidiagonal {
		e.MakeNonNegative()
	}

	return sortedDesc(e.Values())
}
