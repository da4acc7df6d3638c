// SPDX-License-Identifier: MIT

// Package spectra computes eigenvalues of real symmetric matrices and singular
// values of real matrices with the implicit-shift QR algorithm.
//
// What is in the box?
//
//	implicitqr/   the engine: Givens sweeps on a compact tridiagonal or
//	              bidiagonal matrix, deflation, splitting, shift strategies
//	reduce/       Householder reduction of dense input to the compact forms
//	decompose/    SymmetricEigen and SVD facades, sorted results, engine reuse
//	matrix/       row-major Dense storage, Mul/Transpose, validators
//	cmd/spectra/  CLI: decompose YAML fixtures with a TOML engine config
//
// Quick example:
//
//	a, _ := matrix.NewDenseFrom(2, 2, []float64{
//		4, 1,
//		1, 3,
//	})
//	eig, err := decompose.SymmetricEigen(a)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(eig.Values) // descending
//
// Why implicit QR?
//
//   - Relative accuracy: deflation compares each off-diagonal entry with its
//     two diagonal neighbours, so tiny values of graded matrices survive.
//   - Any scale: inputs are prescaled by a power of two, so 1e-300 and
//     1e+300 matrices converge like unit ones.
//   - Reusable: an Engine or Decomposer owns its buffers and can be fed a
//     stream of same-sized problems without allocating.
package spectra
