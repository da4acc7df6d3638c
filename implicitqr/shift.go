// SPDX-License-Identifier: MIT

package implicitqr

import "math"

// exceptionalStep is the growth of the exceptional rotation angle (as a
// fraction of π) per exceptional sweep taken in the same window.
const exceptionalStep = 0.05

type shiftKind uint8

const (
	shiftWilkinson shiftKind = iota // from the trailing 2×2 of the window
	shiftValue                      // explicit value: zero or a known eigen/singular value
	shiftAngle                      // exceptional: first rotation by a fixed angle
)

// shift is what the ShiftSelector hands the kernel for one sweep. For
// shiftValue, value is an eigenvalue (Symmetric) or singular value
// (Bidiagonal) in prescaled units; for shiftAngle it is an angle in radians.
type shift struct {
	kind  shiftKind
	value float64
}

// selectShift decides the shift of the next sweep in the active window.
// Precedence: exceptional angle, known value (while patient), forced zero,
// Wilkinson.
func (e *Engine) selectShift() shift {
	if e.steps >= e.nextExceptional {
		e.numExceptional++
		e.nextExceptional = e.steps + e.cfg.exceptional
		mag := math.Min(exceptionalStep*float64(e.numExceptional), 1)

		return shift{kind: shiftAngle, value: math.Pi * (2*e.rng.Float64() - 1) * mag}
	}

	if e.scripted {
		if e.steps < e.cfg.patience {
			return shift{kind: shiftValue, value: math.Ldexp(e.known[e.hi], -e.exp)}
		}
		e.scripted = false // this window stalled; dynamic shifts from here on
	}

	switch e.cfg.policy {
	case ShiftZero:
		return shift{kind: shiftValue}
	case ShiftAuto:
		if e.zeroPhase {
			if e.steps < e.cfg.zeroSweeps {
				return shift{kind: shiftValue}
			}
			e.zeroPhase = false
		}
	}

	return shift{kind: shiftWilkinson}
}

// wilkinson returns the eigenvalue of the symmetric 2×2 [a b; b c] closer to c:
//
//	d = (a−c)/2,  μ = c − b²/(d + sign(d)·hypot(d, b))
//
// d == 0 selects sign +1, giving μ = c − |b|. b² is never formed.
func wilkinson(a, b, c float64) float64 {
	if b == 0 {
		return c
	}
	d := (a - c) / 2
	den := d + math.Copysign(math.Hypot(d, b), d)
	if den == 0 {
		return c
	}

	return c - b*(b/den)
}

// symmetric2x2 returns the eigenvalues of [a b; b c]; rt1 has the larger
// absolute value. rt2 is formed from the determinant to avoid cancellation.
func symmetric2x2(a, b, c float64) (rt1, rt2 float64) {
	sm := a + c
	adf := math.Abs(a - c)
	ab := math.Abs(b + b)
	acmx, acmn := c, a
	if math.Abs(a) > math.Abs(c) {
		acmx, acmn = a, c
	}

	var rt float64
	switch {
	case adf > ab:
		rt = adf * math.Sqrt(1+(ab/adf)*(ab/adf))
	case adf < ab:
		rt = ab * math.Sqrt(1+(adf/ab)*(adf/ab))
	default:
		rt = ab * math.Sqrt2
	}

	switch {
	case sm < 0:
		rt1 = 0.5 * (sm - rt)
		rt2 = (acmx/rt1)*acmn - (b/rt1)*b
	case sm > 0:
		rt1 = 0.5 * (sm + rt)
		rt2 = (acmx/rt1)*acmn - (b/rt1)*b
	default:
		rt1 = 0.5 * rt
		rt2 = -0.5 * rt
	}

	return rt1, rt2
}

// bidiagonal2x2 returns the singular values of the upper bidiagonal [f g; 0 h].
func bidiagonal2x2(f, g, h float64) (ssmin, ssmax float64) {
	fa, ga, ha := math.Abs(f), math.Abs(g), math.Abs(h)
	fhmn, fhmx := math.Min(fa, ha), math.Max(fa, ha)

	if fhmn == 0 {
		if fhmx == 0 {
			return 0, ga
		}
		mx, mn := math.Max(fhmx, ga), math.Min(fhmx, ga)

		return 0, mx * math.Sqrt(1+(mn/mx)*(mn/mx))
	}

	if ga < fhmx {
		as := 1 + fhmn/fhmx
		at := (fhmx - fhmn) / fhmx
		au := (ga / fhmx) * (ga / fhmx)
		c := 2 / (math.Sqrt(as*as+au) + math.Sqrt(at*at+au))

		return fhmn * c, fhmx / c
	}

	au := fhmx / ga
	if au == 0 {
		// fhmx/ga underflowed
		return (fhmn * fhmx) / ga, ga
	}
	as := 1 + fhmn/fhmx
	at := (fhmx - fhmn) / fhmx
	c := 1 / (math.Sqrt(1+(as*au)*(as*au)) + math.Sqrt(1+(at*au)*(at*au)))
	ssmin = (fhmn * c) * au

	return ssmin + ssmin, ga / (c + c)
}
