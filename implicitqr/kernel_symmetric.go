// SPDX-License-Identifier: MIT

package implicitqr

import "math"

// kernel is the capability object that distinguishes the two matrix kinds:
// how one sweep updates the compact representation, how a 2×2 window is
// solved in closed form, and how a negligible diagonal entry is removed.
// The driver, split detection and shift selection are shared.
type kernel interface {
	sweep(e *Engine, sh shift)
	solve2x2(e *Engine)
	eliminateZero(e *Engine) bool
}

// tridiagonal chases bulges through a symmetric tridiagonal window with
// similarity rotations G·T·Gᵀ. Only Ut is updated.
type tridiagonal struct{}

func (t tridiagonal) sweep(e *Engine, sh shift) {
	lo, hi := e.lo, e.hi
	d, o := e.diag, e.off

	var c, s float64
	switch sh.kind {
	case shiftAngle:
		c, s = math.Cos(sh.value), math.Sin(sh.value)
	case shiftValue:
		c, s = givens(d[lo]-sh.value, o[lo])
	default:
		c, s = givens(d[lo]-wilkinson(d[hi-1], o[hi-1], d[hi]), o[lo])
	}

	bulge := t.rotate(e, lo, c, s)
	for k := lo + 1; k < hi && bulge != 0; k++ {
		// bulge sits at (k-1, k+1); rotate rows/cols (k, k+1) against off[k-1]
		c, s = givens(o[k-1], bulge)
		o[k-1] = c*o[k-1] + s*bulge
		bulge = t.rotate(e, k, c, s)
	}
}

// rotate applies G·T·Gᵀ on rows/columns (k, k+1) of the window and returns
// the fill created at (k, k+2), zero when k+1 is the window's last row.
func (tridiagonal) rotate(e *Engine, k int, c, s float64) float64 {
	d, o := e.diag, e.off
	a11, a22, a12 := d[k], d[k+1], o[k]
	c2, s2, cs := c*c, s*s, c*s

	d[k] = c2*a11 + 2*cs*a12 + s2*a22
	d[k+1] = c2*a22 - 2*cs*a12 + s2*a11
	o[k] = a12*(c2-s2) + cs*(a22-a11)

	var bulge float64
	if k+1 < e.hi {
		a23 := o[k+1]
		o[k+1] = c * a23
		bulge = s * a23
	}
	e.ut.rotate(k, k+1, c, s)

	return bulge
}

func (tridiagonal) solve2x2(e *Engine) {
	lo := e.lo
	e.diag[lo], e.diag[lo+1] = symmetric2x2(e.diag[lo], e.off[lo], e.diag[lo+1])
	e.off[lo] = 0
}

// A zero diagonal entry is harmless for a symmetric sweep.
func (tridiagonal) eliminateZero(*Engine) bool { return false }
