// SPDX-License-Identifier: MIT

package reduce

import "github.com/katalvlaran/spectra/matrix"

// TridiagonalResult is A = Qtᵀ·T·Qt with T symmetric tridiagonal.
type TridiagonalResult struct {
	Diag []float64     // length n
	Off  []float64     // length n-1
	Qt   *matrix.Dense // n×n, nil when transforms were disabled
}

// Tridiagonal reduces a symmetric matrix to tridiagonal form by Householder
// similarity transforms.
// Implementation:
//   - Stage 1: Validate (finite, square, symmetric) and copy A row-major.
//   - Stage 2: For k = 0..n-3 annihilate A[k+2:, k] with H_k applied on both sides.
//   - Stage 3: Accumulate Q = H_0·H_1·…; return Qt = Qᵀ.
//
// Errors:
//   - ErrNilMatrix, ErrNaNInf, ErrNonSquare, ErrAsymmetry (wrapped).
//
// Complexity:
//   - Time O(n³), Space O(n²).
func Tridiagonal(a matrix.Matrix, opts ...Option) (*TridiagonalResult, error) {
	if err := matrix.ValidateFinite(a); err != nil {
		return nil, reduceErrorf(opTridiagonal, err)
	}
	if err := matrix.ValidateSymmetric(a); err != nil {
		return nil, reduceErrorf(opTridiagonal, err)
	}
	o := gatherOptions(opts...)

	n := a.Rows()
	w := flatten(a)
	var q []float64
	if o.transforms {
		q = identityData(n)
	}

	res := &TridiagonalResult{Diag: make([]float64, n)}
	if n > 1 {
		res.Off = make([]float64, n-1)
	}

	var (
		k, i      int
		beta, tau float64
	)
	vbuf := make([]float64, n)
	work := make([]float64, n)
	for k = 0; k+2 < n; k++ {
		v := vbuf[:n-k-1]
		for i = range v {
			v[i] = w[(k+1+i)*n+k]
		}
		beta, tau = reflector(v)
		applyLeft(w, n, k+1, k, n, v, tau, work)
		applyRight(w, n, k, n-k, k+1, v, tau)
		res.Off[k] = beta
		if q != nil {
			applyRight(q, n, 0, n, k+1, v, tau)
		}
	}
	if n > 1 {
		res.Off[n-2] = w[(n-1)*n+n-2]
	}
	for i = 0; i < n; i++ {
		res.Diag[i] = w[i*n+i]
	}

	if q != nil {
		qt, err := transposeInto(q, n, n, n)
		if err != nil {
			return nil, reduceErrorf(opTridiagonal, err)
		}
		res.Qt = qt
	}

	return res, nil
}
