// SPDX-License-Identifier: MIT

package reduce

import "github.com/katalvlaran/spectra/matrix"

// BidiagonalResult is A = Utᵀ·B·Vt with B upper bidiagonal (n×n) and A m×n, m ≥ n.
type BidiagonalResult struct {
	Diag []float64     // length n
	Off  []float64     // length n-1
	Ut   *matrix.Dense // n×m: leading n columns of U, transposed
	Vt   *matrix.Dense // n×n
}

// Bidiagonal reduces a tall or square matrix to upper bidiagonal form
// (Golub–Kahan), alternating a left reflector on column k with a right
// reflector on row k.
//
// Errors:
//   - ErrNilMatrix, ErrNaNInf, ErrDimensionMismatch when Rows < Cols (wrapped).
//     Wide matrices are reduced through their transpose by the caller.
//
// Complexity:
//   - Time O(m·n²) plus O(m²·n) for U, Space O(m² + mn).
func Bidiagonal(a matrix.Matrix, opts ...Option) (*BidiagonalResult, error) {
	if err := matrix.ValidateFinite(a); err != nil {
		return nil, reduceErrorf(opBidiagonal, err)
	}
	m, n := a.Rows(), a.Cols()
	if m < n {
		return nil, reduceErrorf(opBidiagonal, matrix.ErrDimensionMismatch)
	}
	o := gatherOptions(opts...)

	w := flatten(a)
	var u, vq []float64
	if o.transforms {
		u = identityData(m)
		vq = identityData(n)
	}

	res := &BidiagonalResult{Diag: make([]float64, n)}
	if n > 1 {
		res.Off = make([]float64, n-1)
	}

	var (
		k, i      int
		beta, tau float64
	)
	vbuf := make([]float64, m)
	work := make([]float64, n)
	for k = 0; k < n; k++ {
		// left: zero column k below the diagonal
		v := vbuf[:m-k]
		for i = range v {
			v[i] = w[(k+i)*n+k]
		}
		beta, tau = reflector(v)
		res.Diag[k] = beta
		applyLeft(w, n, k, k+1, n, v, tau, work)
		if u != nil {
			applyRight(u, m, 0, m, k, v, tau)
		}
		if k+1 == n {
			break
		}

		// right: zero row k beyond the superdiagonal
		r := vbuf[:n-k-1]
		for i = range r {
			r[i] = w[k*n+k+1+i]
		}
		beta, tau = reflector(r)
		res.Off[k] = beta
		applyRight(w, n, k+1, m-k-1, k+1, r, tau)
		if vq != nil {
			applyRight(vq, n, 0, n, k+1, r, tau)
		}
	}

	if u != nil {
		var err error
		if res.Ut, err = transposeInto(u, m, m, n); err != nil {
			return nil, reduceErrorf(opBidiagonal, err)
		}
		if res.Vt, err = transposeInto(vq, n, n, n); err != nil {
			return nil, reduceErrorf(opBidiagonal, err)
		}
	}

	return res, nil
}
