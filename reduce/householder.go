// SPDX-License-Identifier: MIT
// Package reduce brings dense matrices into the compact forms consumed by the
// implicit QR engine: symmetric → tridiagonal, general → upper bidiagonal.
//
// Both reductions are sequences of Householder reflections H = I − τ·v·vᵀ
// (v[0] = 1) applied to a row-major working copy; the input is never mutated.
// The accumulated orthogonal factors are returned transposed, in the row
// layout the engine accumulates into, so they can be handed to
// (*implicitqr.Engine).SetTransforms as-is.
package reduce

import (
	"fmt"
	"math"

	"github.com/katalvlaran/spectra/matrix"
)

// Operation tags for error wrapping.
const (
	opTridiagonal = "Tridiagonal"
	opBidiagonal  = "Bidiagonal"
)

// reduceErrorf wraps err with an operation tag, preserving it for errors.Is.
func reduceErrorf(tag string, err error) error {
	return fmt.Errorf("reduce.%s: %w", tag, err)
}

// Option configures a reduction.
type Option func(*options)

type options struct {
	transforms bool
}

// WithTransforms toggles accumulation of the orthogonal factors. Default: true.
// Value-only callers skip O(n³) work with WithTransforms(false).
func WithTransforms(on bool) Option {
	return func(o *options) { o.transforms = on }
}

func gatherOptions(opts ...Option) options {
	o := options{transforms: true}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// reflector turns x into a Householder vector in place.
// Implementation:
//   - Stage 1: xnorm = ‖x[1:]‖ without overflow.
//   - Stage 2: beta = −sign(x0)·‖x‖, tau = (beta−x0)/beta, x[1:] /= (x0−beta), x[0] = 1.
//
// Returns beta (the surviving entry H·x = beta·e1) and tau; tau == 0 means H = I
// (x[1:] already zero) and x is left with x[0] = 1.
func reflector(x []float64) (beta, tau float64) {
	x0 := x[0]
	xnorm := norm2(x[1:])
	x[0] = 1
	if xnorm == 0 {
		return x0, 0
	}

	beta = -math.Copysign(math.Hypot(x0, xnorm), x0)
	tau = (beta - x0) / beta
	den := x0 - beta
	for i := 1; i < len(x); i++ {
		x[i] /= den
	}

	return beta, tau
}

// norm2 is the Euclidean norm accumulated in scaled form (scale·√ssq).
func norm2(x []float64) float64 {
	var scale, ssq float64 = 0, 1
	for _, v := range x {
		if v == 0 {
			continue
		}
		a := math.Abs(v)
		if scale < a {
			ssq = 1 + ssq*(scale/a)*(scale/a)
			scale = a
		} else {
			ssq += (a / scale) * (a / scale)
		}
	}

	return scale * math.Sqrt(ssq)
}

// applyRight replaces every row r[i] of the rows×cols block starting at
// (r0, c0) of the row-major buffer a (stride ld) by r·H, where H acts on
// columns c0..c0+len(v)-1.
func applyRight(a []float64, ld, r0, rows, c0 int, v []float64, tau float64) {
	if tau == 0 {
		return
	}
	var (
		i, j int
		w    float64
		row  []float64
	)
	for i = r0; i < r0+rows; i++ {
		row = a[i*ld+c0 : i*ld+c0+len(v)]
		w = 0
		for j = range v {
			w += row[j] * v[j]
		}
		if w == 0 {
			continue
		}
		w *= tau
		for j = range v {
			row[j] -= w * v[j]
		}
	}
}

// applyLeft replaces the block rows r0..r0+len(v)-1, columns c0..cols-1 of
// a by H·block. work must have length ≥ cols-c0.
func applyLeft(a []float64, ld, r0, c0, cols int, v []float64, tau float64, work []float64) {
	if tau == 0 {
		return
	}
	var (
		i, j int
		vi   float64
	)
	w := work[:cols-c0]
	for j = range w {
		w[j] = 0
	}
	// w = vᵀ·block
	for i = range v {
		vi = v[i]
		if vi == 0 {
			continue
		}
		row := a[(r0+i)*ld+c0 : (r0+i)*ld+cols]
		for j = range w {
			w[j] += vi * row[j]
		}
	}
	// block −= τ·v·w
	for i = range v {
		vi = tau * v[i]
		if vi == 0 {
			continue
		}
		row := a[(r0+i)*ld+c0 : (r0+i)*ld+cols]
		for j = range w {
			row[j] -= vi * w[j]
		}
	}
}

// flatten copies m into a fresh row-major buffer.
func flatten(m matrix.Matrix) []float64 {
	rows, cols := m.Rows(), m.Cols()
	out := make([]float64, rows*cols)
	if d, ok := m.(*matrix.Dense); ok {
		copy(out, d.RawData())
		return out
	}
	var i, j int
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			out[i*cols+j], _ = m.At(i, j) // indices in range by construction
		}
	}

	return out
}

// identityData returns the row-major n×n identity.
func identityData(n int) []float64 {
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		out[i*n+i] = 1
	}

	return out
}

// transposeInto returns the rows×cols transpose of the leading cols columns
// of the row-major buffer a (stride ld, rows rows) as a cols×rows Dense.
func transposeInto(a []float64, ld, rows, cols int) (*matrix.Dense, error) {
	out := make([]float64, cols*rows)
	var i, j int
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			out[j*rows+i] = a[i*ld+j]
		}
	}

	return matrix.NewDenseFrom(cols, rows, out)
}
