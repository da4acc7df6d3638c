// SPDX-License-Identifier: MIT

// Package matrix is the dense row-major storage shared by the reducers, the
// implicit QR engine and the decomposition facades.
//
// The package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set and
//     no-copy RowView for rotation kernels.
//   - Mul, Transpose and ScaleRows, enough to rebuild Utᵀ·D·Ut and Uᵀ·Σ·V
//     when checking a decomposition.
//   - Validators (ValidateFinite, ValidateSymmetric, ...) that fail fast
//     before data reaches a numeric kernel.
//
// Errors are sentinels (ErrNaNInf, ErrAsymmetry, ...) wrapped with the
// operation tag; match them with errors.Is.
package matrix
