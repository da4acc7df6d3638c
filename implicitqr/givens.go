// SPDX-License-Identifier: MIT

package implicitqr

import (
	"math"

	"github.com/katalvlaran/spectra/matrix"
)

// givens returns (c, s) with c² + s² = 1 and −s·a + c·b = 0, so the rotation
// [c s; −s c] maps (a, b) to (±hypot(a,b), 0). b == 0 yields the identity.
// The ratio form avoids overflow in a² + b².
func givens(a, b float64) (c, s float64) {
	if b == 0 {
		return 1, 0
	}
	if math.Abs(b) > math.Abs(a) {
		t := a / b
		s = 1 / math.Sqrt(1+t*t)
		c = t * s

		return c, s
	}
	t := b / a
	c = 1 / math.Sqrt(1+t*t)
	s = t * c

	return c, s
}

// accumulator folds plane rotations into the rows of an orthogonal matrix.
// Row i and row k are replaced by (c·ri + s·rk, −s·ri + c·rk), the row-side
// image of a rotation applied on the left of the compact matrix (Ut) or on
// its right (Vt). A zero accumulator is a no-op, which is how ValuesOnly
// engines skip vector work without branching at every call site.
type accumulator struct {
	q    *matrix.Dense
	data []float64
	cols int
}

func (a *accumulator) bind(q *matrix.Dense) {
	if q == nil {
		*a = accumulator{}
		return
	}
	a.q = q
	a.data = q.RawData()
	a.cols = q.Cols()
}

func (a *accumulator) active() bool { return a.data != nil }

func (a *accumulator) rotate(i, k int, c, s float64) {
	if a.data == nil {
		return
	}
	ri := a.data[i*a.cols : (i+1)*a.cols]
	rk := a.data[k*a.cols : (k+1)*a.cols]
	var x, y float64
	for j := range ri {
		x, y = ri[j], rk[j]
		ri[j] = c*x + s*y
		rk[j] = -s*x + c*y
	}
}

// negateRow flips the sign of row i.
func (a *accumulator) negateRow(i int) {
	if a.q == nil {
		return
	}
	row, err := a.q.RowView(i)
	if err != nil {
		return
	}
	for j := range row {
		row[j] = -row[j]
	}
}
