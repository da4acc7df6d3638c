// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels/facades minimal by delegating shape/nil/symmetry checks here.
//  - Return sentinel errors tagged with the validator name so call sites can wrap uniformly.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.
//  - Symmetry check runs O(n²) on the upper triangle only.
//
// AI-Hints:
//  - Use ValidateSymmetric before the tridiagonal reducer to fail fast.
//  - Use ValidateFinite before handing data to the implicit QR engine: the
//    engine does not screen values in its hot loop.

package matrix

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil – Ensures the matrix reference is non-nil.
//
// Returns ErrNilMatrix if m == nil (including a typed-nil *Dense).
// Complexity: O(1).
// AI-Hints: Use as the first step in composite validations.
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSquare checks that m is non-nil and square (Rows == Cols).
//
// Errors: ErrNilMatrix if nil, ErrNonSquare if not square.
// Complexity: O(1).
func ValidateSquare(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateSquare", err)
	}
	if m.Rows() != m.Cols() {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateMulCompatible – Ensures a.Cols == b.Rows, inputs non-nil.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(1).
func ValidateMulCompatible(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if a.Cols() != b.Rows() {
		return validatorErrorf("ValidateMulCompatible", ErrDimensionMismatch)
	}

	return nil
}

// ValidateFinite scans every element and rejects NaN/±Inf.
//
// Errors: ErrNilMatrix, ErrNaNInf (first offending element, row-major order).
// Complexity: O(r*c).
func ValidateFinite(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateFinite", err)
	}
	var (
		i, j int
		v    float64
	)
	for i = 0; i < m.Rows(); i++ {
		for j = 0; j < m.Cols(); j++ {
			v, _ = m.At(i, j) // indices are in range by construction
			if isNonFinite(v) {
				return validatorErrorf("ValidateFinite", fmt.Errorf("(%d,%d): %w", i, j, ErrNaNInf))
			}
		}
	}

	return nil
}

// ValidateSymmetric checks A is square and symmetric within the configured eps:
// |A[i,j] - A[j,i]| ≤ eps·max(1, |A[i,j]|, |A[j,i]|) for all i<j.
//
// Inputs: Matrix m; options (WithEpsilon, WithNoValidateNaNInf).
// Errors: ErrNilMatrix, ErrNonSquare, ErrNaNInf (off-diagonal, under the
// default policy), ErrAsymmetry.
// Complexity: O(n²) time, O(1) space.
// AI-Hints: The bound is relative for large entries so rounding noise in
// assembled matrices of large magnitude does not trip the check.
func ValidateSymmetric(m Matrix, opts ...Option) error {
	if err := ValidateSquare(m); err != nil {
		return validatorErrorf("ValidateSymmetric", err)
	}
	o := gatherOptions(opts...)

	n := m.Rows()
	var (
		i, j     int
		aij, aji float64
		bound    float64
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ { // scan only upper triangle
			aij, _ = m.At(i, j)
			aji, _ = m.At(j, i)
			if o.validateNaNInf && (isNonFinite(aij) || isNonFinite(aji)) {
				return validatorErrorf("ValidateSymmetric", ErrNaNInf)
			}
			bound = math.Max(1, math.Max(math.Abs(aij), math.Abs(aji)))
			if math.Abs(aij-aji) > o.eps*bound {
				return validatorErrorf("ValidateSymmetric", ErrAsymmetry)
			}
		}
	}

	return nil
}
