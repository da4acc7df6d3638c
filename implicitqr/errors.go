// SPDX-License-Identifier: MIT

package implicitqr

import "errors"

// Sentinel errors. Non-convergence is NOT an error: Process reports it through
// its boolean result. These sentinels mark caller contract violations only.
var (
	// ErrShape is returned when slice or matrix dimensions disagree with n
	// (len(off) != len(diag)-1, transforms with the wrong row count, too few known values).
	ErrShape = errors.New("implicitqr: invalid shape")

	// ErrNoMatrix is returned by Process when no matrix has been set.
	ErrNoMatrix = errors.New("implicitqr: no matrix set")

	// ErrInvalidConfig is returned when an operation contradicts the engine mode,
	// e.g. seeding transforms on a ValuesOnly engine.
	ErrInvalidConfig = errors.New("implicitqr: invalid configuration")

	// ErrMissingTransforms is returned by Process when ValuesAndVectors was
	// requested but no transform storage was provided.
	ErrMissingTransforms = errors.New("implicitqr: vector tracking requested without transforms")
)
