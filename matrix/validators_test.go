// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the matrix validators.
package matrix_test

import (
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/spectra/matrix"
	"github.com/stretchr/testify/require"
)

func dense(t *testing.T, r, c int, data ...float64) *matrix.Dense {
	t.Helper()
	if data == nil {
		data = make([]float64, r*c)
	}
	m, err := matrix.NewDenseFrom(r, c, data)
	require.NoError(t, err)

	return m
}

// TestValidateSquare covers nil inputs, square and non-square cases.
func TestValidateSquare(t *testing.T) {
	t.Parallel()

	var typedNil *matrix.Dense
	tests := []struct {
		name string
		m    matrix.Matrix
		want error
	}{
		{"nil", nil, matrix.ErrNilMatrix},
		{"typed nil", typedNil, matrix.ErrNilMatrix},
		{"1x1", dense(t, 1, 1), nil},
		{"3x3", dense(t, 3, 3), nil},
		{"2x3", dense(t, 2, 3), matrix.ErrNonSquare},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := matrix.ValidateSquare(tc.m)
			if tc.want == nil {
				require.NoError(t, err)
			} else {
				require.Truef(t, errors.Is(err, tc.want), "expected errors.Is(%v, %v)", err, tc.want)
			}
		})
	}
}

// TestValidateMulCompatible covers nil operands and inner-dimension mismatch.
func TestValidateMulCompatible(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, matrix.ValidateMulCompatible(nil, dense(t, 2, 2)), matrix.ErrNilMatrix)
	require.ErrorIs(t, matrix.ValidateMulCompatible(dense(t, 2, 2), nil), matrix.ErrNilMatrix)
	require.ErrorIs(t, matrix.ValidateMulCompatible(dense(t, 2, 3), dense(t, 2, 3)), matrix.ErrDimensionMismatch)
	require.NoError(t, matrix.ValidateMulCompatible(dense(t, 2, 3), dense(t, 3, 1)))
}

// TestValidateFinite rejects the first NaN or Inf in row-major order.
func TestValidateFinite(t *testing.T) {
	t.Parallel()

	require.NoError(t, matrix.ValidateFinite(dense(t, 2, 2, 1, -2, 3e300, -4e-320)))

	err := matrix.ValidateFinite(dense(t, 2, 2, 1, 2, math.Inf(1), 4))
	require.ErrorIs(t, err, matrix.ErrNaNInf)
	require.Contains(t, err.Error(), "(1,0)")

	require.ErrorIs(t, matrix.ValidateFinite(dense(t, 1, 1, math.NaN())), matrix.ErrNaNInf)
	require.ErrorIs(t, matrix.ValidateFinite(nil), matrix.ErrNilMatrix)
}

// TestValidateSymmetric checks the relative tolerance and the option surface.
func TestValidateSymmetric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		m    matrix.Matrix
		opts []matrix.Option
		want error
	}{
		{"symmetric", dense(t, 2, 2, 4, 1, 1, 3), nil, nil},
		{"rounding noise", dense(t, 2, 2, 4, 1, 1+1e-12, 3), nil, nil},
		{"relative bound", dense(t, 2, 2, 0, 1e12, 1e12+1, 0), nil, nil},
		{"asymmetric", dense(t, 2, 2, 1, 2, 3, 4), nil, matrix.ErrAsymmetry},
		{"tight eps", dense(t, 2, 2, 4, 1, 1+1e-12, 3), []matrix.Option{matrix.WithEpsilon(0)}, matrix.ErrAsymmetry},
		{"loose eps", dense(t, 2, 2, 1, 2, 2.5, 4), []matrix.Option{matrix.WithEpsilon(1)}, nil},
		{"non-square", dense(t, 2, 3), nil, matrix.ErrNonSquare},
		{"nan", dense(t, 2, 2, 0, math.NaN(), 0, 0), nil, matrix.ErrNaNInf},
		{"nan unchecked", dense(t, 2, 2, 0, math.NaN(), 0, 0), []matrix.Option{matrix.WithNoValidateNaNInf()}, nil},
		{"nil", nil, nil, matrix.ErrNilMatrix},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := matrix.ValidateSymmetric(tc.m, tc.opts...)
			if tc.want == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.want)
			}
		})
	}
}

// TestWithEpsilonPanics ensures invalid tolerances are programmer errors.
func TestWithEpsilonPanics(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { matrix.WithEpsilon(-1) })
	require.Panics(t, func() { matrix.WithEpsilon(math.NaN()) })
	require.Panics(t, func() { matrix.WithEpsilon(math.Inf(1)) })
	require.NotPanics(t, func() { matrix.WithEpsilon(0) })
}
