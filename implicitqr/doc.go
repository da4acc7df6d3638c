// SPDX-License-Identifier: MIT

// Package implicitqr drives a symmetric tridiagonal or an upper/lower
// bidiagonal matrix to diagonal form with implicitly shifted QR sweeps,
// producing eigenvalues or singular values and, optionally, the accumulated
// orthogonal transforms.
//
// The matrix is held in compact form: diag[0..n-1] and off[0..n-2]. One
// Engine owns its buffers for the duration of a run; it never allocates a
// dense n×n matrix of its own.
//
// # Driver cycle
//
//	SCANNING  → find the lowest negligible off[k] in the window [lo,hi]:
//	            k == hi-1 deflates diag[hi]; otherwise split [lo,k] | [k+1,hi]
//	            and continue on the trailing block. A negligible diagonal entry
//	            (bidiagonal only) is pushed to a window boundary first.
//	SHIFTING  → Wilkinson shift from the trailing 2×2, a zero shift, a known
//	            value (second pass), or an exceptional random rotation.
//	SWEEPING  → one bulge chase: a cascade of Givens rotations that keeps the
//	            window tridiagonal/bidiagonal.
//	CONVERGED → all windows isolated.
//	FAILED    → total sweep budget exhausted; Process reports false.
//
// # Modes
//
// ValuesOnly never touches transforms and solves trailing 2×2 windows in
// closed form. ValuesAndVectors folds every rotation into Ut (and Vt for the
// bidiagonal kind). The usual pattern is two engines and two passes:
//
//	fast := implicitqr.New(implicitqr.Bidiagonal)
//	_ = fast.SetMatrix(d1, e1)
//	ok, _ := fast.Process()
//
//	full := implicitqr.New(implicitqr.Bidiagonal, implicitqr.WithMode(implicitqr.ValuesAndVectors))
//	_ = full.SetMatrix(d2, e2) // a second copy of the same matrix
//	_ = full.SetTransforms(ut, vt)
//	ok, _ = full.ProcessWithShifts(fast.Values())
//
// # Numerics
//
// Inputs are scaled by a power of two so the largest magnitude lies in
// [0.5, 1) and outputs are scaled back, so subnormal and huge inputs behave
// like unit-scale data. Negligibility tests are relative to neighbouring
// entries, never absolute. Non-finite inputs are not screened; they surface
// as non-convergence.
//
// An Engine is not safe for concurrent use. Run independent matrices on
// independent engines.
package implicitqr
