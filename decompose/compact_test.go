// SPDX-License-Identifier: MIT
package decompose_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spectra/decompose"
	"github.com/katalvlaran/spectra/implicitqr"
	"github.com/katalvlaran/spectra/matrix"
)

// bidiagonalSingularValues factorizes the upper bidiagonal with gonum. The
// lower layout is its transpose and shares the values.
func bidiagonalSingularValues(t *testing.T, diag, off []float64) []float64 {
	t.Helper()
	n := len(diag)
	b := mat.NewDense(n, n, nil)
	for i := range diag {
		b.Set(i, i, diag[i])
		if i+1 < n {
			b.Set(i, i+1, off[i])
		}
	}
	var svd mat.SVD
	require.True(t, svd.Factorize(b, mat.SVDNone))

	return svd.Values(nil)
}

func TestBidiagonalSVD_ZeroDiagonal(t *testing.T) {
	t.Parallel()

	// singular values with the zero at position 2
	fixture := []float64{6.82550, 5.31496, 3.76347, 3.28207, 1.49265, 0}
	d := decompose.NewDecomposer(6)
	for pos := 0; pos < 6; pos++ {
		for _, layout := range []implicitqr.Layout{implicitqr.Upper, implicitqr.Lower} {
			diag := []float64{1, 2, 3, 4, 5, 6}
			diag[pos] = 0
			off := []float64{2, 2, 2, 2, 2}
			want := bidiagonalSingularValues(t, diag, off)
			if pos == 2 {
				require.InDeltaSlice(t, fixture, want, 1e-4)
			}

			res, err := d.BidiagonalSVD(diag, off, layout)
			require.NoError(t, err)
			require.InDeltaSlice(t, want, res.Values, 1e-12)
			requireOrthonormalColumns(t, res.U, 1e-12)
			requireOrthonormalColumns(t, res.V, 1e-12)
			require.Equal(t, 0.0, diag[pos], "input must not be mutated")

			// U·Σ·Vᵀ reproduces the bidiagonal in its layout
			vt, err := matrix.Transpose(res.V)
			require.NoError(t, err)
			sv, err := matrix.ScaleRows(res.Values, vt)
			require.NoError(t, err)
			rec, err := matrix.Mul(res.U, sv)
			require.NoError(t, err)
			for i := 0; i < 6; i++ {
				for j := 0; j < 6; j++ {
					var w float64
					switch {
					case i == j:
						w = diag[i]
					case layout == implicitqr.Upper && j == i+1:
						w = off[i]
					case layout == implicitqr.Lower && i == j+1:
						w = off[j]
					}
					got, _ := rec.At(i, j)
					require.InDelta(t, w, got, 1e-11)
				}
			}
		}
	}
}

func TestTridiagonalEigen_ClosedForm(t *testing.T) {
	t.Parallel()

	// tridiag(-1, 2, -1) of order n has eigenvalues 2 − 2cos(kπ/(n+1))
	n := 9
	diag := make([]float64, n)
	off := make([]float64, n-1)
	for i := range diag {
		diag[i] = 2
	}
	for i := range off {
		off[i] = -1
	}
	res, err := decompose.NewDecomposer(n).TridiagonalEigen(diag, off)
	require.NoError(t, err)
	for j, v := range res.Values {
		k := float64(n - j)
		require.InDelta(t, 2-2*math.Cos(k*math.Pi/float64(n+1)), v, 1e-12)
	}
	requireOrthonormalColumns(t, res.Vectors, 1e-12)
}

func TestCompactErrors(t *testing.T) {
	t.Parallel()

	d := decompose.NewDecomposer(3)
	_, err := d.TridiagonalEigen([]float64{1, 2}, []float64{1, 2})
	require.Truef(t, errors.Is(err, implicitqr.ErrShape), "got %v", err)
	_, err = d.BidiagonalSVD(nil, nil, implicitqr.Upper)
	require.Truef(t, errors.Is(err, implicitqr.ErrShape), "got %v", err)
	_, err = d.BidiagonalSVD([]float64{1, math.Inf(1)}, []float64{0}, implicitqr.Upper)
	require.Truef(t, errors.Is(err, matrix.ErrNaNInf), "got %v", err)
}
