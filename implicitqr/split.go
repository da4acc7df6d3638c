// SPDX-License-Identifier: MIT

package implicitqr

import "math"

// scan is the SplitDetector. It walks the window from hi-1 down to lo looking
// for a negligible off-diagonal entry, zeroes it and either deflates diag[hi]
// (k == hi-1) or splits off the trailing block [k+1, hi], remembering k so
// the leading block [lo, k] is resumed later. Without such an entry the
// kernel gets a chance to eliminate a negligible diagonal entry.
//
// Reports whether the window changed; the driver then scans again.
func (e *Engine) scan() bool {
	d, o := e.diag, e.off
	for k := e.hi - 1; k >= e.lo; k-- {
		// written as !(x <= y) so a NaN never counts as negligible
		if !(math.Abs(o[k]) <= e.tol*(math.Abs(d[k])+math.Abs(d[k+1]))) {
			continue
		}
		o[k] = 0
		e.resetSteps()
		if k == e.hi-1 {
			e.hi--
		} else {
			e.splits = append(e.splits, k)
			e.lo = k + 1
		}

		return true
	}

	return e.kern.eliminateZero(e)
}

// nextWindow resumes the most recently split-off leading block.
// Returns false once every block is isolated.
func (e *Engine) nextWindow() bool {
	top := len(e.splits) - 1
	if top < 0 {
		return false
	}
	e.hi = e.splits[top]
	e.splits = e.splits[:top]
	if top > 0 {
		e.lo = e.splits[top-1] + 1
	} else {
		e.lo = 0
	}
	e.resetSteps()

	return true
}

// resetSteps restarts the per-window counters after any deflation or split.
func (e *Engine) resetSteps() {
	e.steps = 0
	e.numExceptional = 0
	e.nextExceptional = e.cfg.exceptional
	e.scripted = e.known != nil
}
