// SPDX-License-Identifier: MIT

package implicitqr

import "math"

// bidiagonal chases bulges through an upper bidiagonal window B with
// alternating right (column) and left (row) rotations, the implicit form of
// one QR step on BᵀB. Right rotations go to Vt, left rotations to Ut.
//
// Layout of one sweep on a 4×4 window (x: nonzero, +: bulge):
//
//	right(lo,lo+1)   left(lo,lo+1)    right(lo+1,lo+2)  ...
//	x x . .          x x + .          x x . .
//	+ x x .          . x x .          . x x .
//	. . x x          . . x x          . + x x
//	. . . x          . . . x          . . . x
type bidiagonal struct{}

func (b bidiagonal) sweep(e *Engine, sh shift) {
	lo, hi := e.lo, e.hi
	d, o := e.diag, e.off

	var c, s float64
	if sh.kind == shiftAngle {
		c, s = math.Cos(sh.value), math.Sin(sh.value)
	} else {
		// Work on B/scale so the squares below cannot overflow or underflow.
		scale := math.Max(math.Abs(d[lo]), math.Abs(o[lo]))
		if scale == 0 {
			scale = 1
		}
		var lambda float64
		switch sh.kind {
		case shiftValue:
			v := sh.value / scale
			lambda = v * v
		default:
			lambda = b.wilkinson(e, scale)
		}
		b11 := d[lo] / scale
		c, s = givens(b11*b11-lambda, (o[lo]/scale)*b11)
	}

	// right rotation on columns (lo, lo+1) introduces the bulge at (lo+1, lo)
	b11, b12, b22 := d[lo], o[lo], d[lo+1]
	d[lo] = c*b11 + s*b12
	o[lo] = -s*b11 + c*b12
	d[lo+1] = c * b22
	bulge := s * b22
	e.vt.rotate(lo, lo+1, c, s)

	for k := lo; k < hi-1; k++ {
		if bulge = b.left(e, k, bulge, true); bulge == 0 {
			return
		}
		if bulge = b.right(e, k, bulge); bulge == 0 {
			return
		}
	}
	if bulge != 0 {
		b.left(e, hi-1, bulge, false)
	}
}

// wilkinson computes the shift from the trailing 2×2 block of (B/scale)ᵀ(B/scale).
func (bidiagonal) wilkinson(e *Engine, scale float64) float64 {
	lo, hi := e.lo, e.hi
	d, o := e.diag, e.off

	d1 := d[hi-1] / scale
	o2 := o[hi-1] / scale
	d2 := d[hi] / scale
	a11 := d1 * d1
	if hi-1 > lo {
		o1 := o[hi-2] / scale
		a11 += o1 * o1
	}

	return wilkinson(a11, d1*o2, d2*d2+o2*o2)
}

// left removes the bulge at (k+1, k) with a row rotation on (k, k+1). When
// more rows follow it returns the new bulge created at (k, k+2).
func (bidiagonal) left(e *Engine, k int, bulge float64, more bool) float64 {
	d, o := e.diag, e.off
	b11, b12, b22 := d[k], o[k], d[k+1]
	c, s := givens(b11, bulge)

	d[k] = c*b11 + s*bulge
	o[k] = c*b12 + s*b22
	d[k+1] = -s*b12 + c*b22

	var next float64
	if more {
		b23 := o[k+1]
		next = s * b23
		o[k+1] = c * b23
	}
	e.ut.rotate(k, k+1, c, s)

	return next
}

// right removes the bulge at (k, k+2) with a column rotation on (k+1, k+2)
// and returns the new bulge created at (k+2, k+1).
func (bidiagonal) right(e *Engine, k int, bulge float64) float64 {
	d, o := e.diag, e.off
	b12, b22, b23, b33 := o[k], d[k+1], o[k+1], d[k+2]
	c, s := givens(b12, bulge)

	o[k] = c*b12 + s*bulge
	d[k+1] = c*b22 + s*b23
	o[k+1] = -s*b22 + c*b23
	d[k+2] = c * b33
	e.vt.rotate(k+1, k+2, c, s)

	return s * b33
}

// solve2x2 stores the larger singular value first; both are non-negative.
func (bidiagonal) solve2x2(e *Engine) {
	lo := e.lo
	ssmin, ssmax := bidiagonal2x2(e.diag[lo], e.off[lo], e.diag[lo+1])
	e.diag[lo], e.diag[lo+1] = ssmax, ssmin
	e.off[lo] = 0
}

// eliminateZero is the ZeroHandler. A negligible diag[hi] has its column
// chased up to the top of the window; a negligible interior diag[k] has its
// row pushed right to the bottom. Either way an off-diagonal entry becomes
// exactly zero and the next scan deflates or splits there.
func (b bidiagonal) eliminateZero(e *Engine) bool {
	d, o := e.diag, e.off
	tol := e.tol
	hi := e.hi

	if math.Abs(d[hi]) <= tol*(math.Abs(d[hi-1])+math.Abs(o[hi-1])) {
		b.chaseUp(e)
		return true
	}
	for k := hi - 1; k >= e.lo; k-- {
		if math.Abs(d[k]) <= tol*(math.Abs(d[k+1])+math.Abs(o[k])) {
			b.pushRight(e, k)
			return true
		}
	}

	return false
}

// pushRight zeroes row m after diag[m] has been set to zero. The entry
// (m, k) is annihilated against diag[k] by a row rotation on (m, k), which
// moves the fill one column right, until the window ends.
func (bidiagonal) pushRight(e *Engine, m int) {
	d, o := e.diag, e.off
	hi := e.hi

	d[m] = 0
	bulge := o[m]
	o[m] = 0
	for k := m + 1; k <= hi && bulge != 0; k++ {
		c, s := givens(d[k], -bulge)
		d[k] = c*d[k] - s*bulge
		if k < hi {
			f := o[k]
			o[k] = c * f
			bulge = s * f
		} else {
			bulge = 0
		}
		e.ut.rotate(m, k, c, s)
	}
}

// chaseUp zeroes column hi after diag[hi] has been set to zero. The entry
// (k, hi) is annihilated against diag[k] by a column rotation on (k, hi),
// which moves the fill one row up, until the window's first row.
func (bidiagonal) chaseUp(e *Engine) {
	d, o := e.diag, e.off
	lo, hi := e.lo, e.hi

	d[hi] = 0
	bulge := o[hi-1]
	o[hi-1] = 0
	for k := hi - 1; k >= lo && bulge != 0; k-- {
		c, s := givens(d[k], bulge)
		d[k] = c*d[k] + s*bulge
		if k > lo {
			f := o[k-1]
			o[k-1] = c * f
			bulge = -s * f
		} else {
			bulge = 0
		}
		e.vt.rotate(k, hi, c, s)
	}
}
