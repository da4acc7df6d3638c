// SPDX-License-Identifier: MIT
package decompose_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spectra/decompose"
	"github.com/katalvlaran/spectra/implicitqr"
	"github.com/katalvlaran/spectra/matrix"
)

// DecomposeSuite checks the facades against gonum on a fixed random corpus.
type DecomposeSuite struct {
	suite.Suite
	rng *rand.Rand
}

func (s *DecomposeSuite) SetupTest() {
	s.rng = rand.New(rand.NewSource(0x5EED))
}

func (s *DecomposeSuite) dense(rows, cols int) (*matrix.Dense, *mat.Dense) {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = 2*s.rng.Float64() - 1
	}
	ours, err := matrix.NewDenseFrom(rows, cols, append([]float64(nil), data...))
	s.Require().NoError(err)

	return ours, mat.NewDense(rows, cols, data)
}

func (s *DecomposeSuite) symmetric(n int) (*matrix.Dense, *mat.SymDense) {
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := 2*s.rng.Float64() - 1
			data[i*n+j], data[j*n+i] = v, v
		}
	}
	ours, err := matrix.NewDenseFrom(n, n, append([]float64(nil), data...))
	s.Require().NoError(err)

	return ours, mat.NewSymDense(n, data)
}

func (s *DecomposeSuite) TestSymmetricEigen() {
	for n := 1; n <= 15; n++ {
		for _, twoPass := range []bool{true, false} {
			a, oracle := s.symmetric(n)
			res, err := decompose.SymmetricEigen(a, decompose.WithTwoPass(twoPass))
			s.Require().NoError(err)

			var es mat.EigenSym
			s.Require().True(es.Factorize(oracle, false))
			want := es.Values(nil) // ascending
			for i := range want {
				s.InDelta(want[n-1-i], res.Values[i], 1e-10, "n=%d twoPass=%v", n, twoPass)
			}

			// A·v_j = λ_j·v_j
			av, err := matrix.Mul(a, res.Vectors)
			s.Require().NoError(err)
			for j := 0; j < n; j++ {
				for i := 0; i < n; i++ {
					x, _ := av.At(i, j)
					v, _ := res.Vectors.At(i, j)
					s.InDelta(res.Values[j]*v, x, 1e-10)
				}
			}
			requireOrthonormalColumns(s.T(), res.Vectors, 1e-10)
		}
	}
}

func (s *DecomposeSuite) TestSVD() {
	shapes := [][2]int{{1, 1}, {3, 3}, {8, 5}, {5, 8}, {12, 12}, {20, 2}, {1, 6}}
	for _, sh := range shapes {
		a, oracle := s.dense(sh[0], sh[1])
		res, err := decompose.SVD(a)
		s.Require().NoError(err)

		var svd mat.SVD
		s.Require().True(svd.Factorize(oracle, mat.SVDNone))
		s.InDeltaSlice(svd.Values(nil), res.Values, 1e-10, "%dx%d", sh[0], sh[1])

		k := len(res.Values)
		s.Equal(sh[0], res.U.Rows())
		s.Equal(k, res.U.Cols())
		s.Equal(sh[1], res.V.Rows())
		s.Equal(k, res.V.Cols())

		// U·Σ·Vᵀ
		vt, err := matrix.Transpose(res.V)
		s.Require().NoError(err)
		sv, err := matrix.ScaleRows(res.Values, vt)
		s.Require().NoError(err)
		rec, err := matrix.Mul(res.U, sv)
		s.Require().NoError(err)
		for i, v := range a.RawData() {
			s.InDelta(v, rec.RawData()[i], 1e-10)
		}
		requireOrthonormalColumns(s.T(), res.U, 1e-10)
		requireOrthonormalColumns(s.T(), res.V, 1e-10)
	}
}

func (s *DecomposeSuite) TestValuesOnly() {
	a, oracle := s.dense(9, 6)
	res, err := decompose.SVD(a, decompose.WithVectors(false))
	s.Require().NoError(err)
	s.Nil(res.U)
	s.Nil(res.V)

	var svd mat.SVD
	s.Require().True(svd.Factorize(oracle, mat.SVDNone))
	s.InDeltaSlice(svd.Values(nil), res.Values, 1e-12)

	sym, _ := s.symmetric(7)
	eig, err := decompose.SymmetricEigen(sym, decompose.WithVectors(false))
	s.Require().NoError(err)
	s.Nil(eig.Vectors)
	s.Len(eig.Values, 7)
}

func (s *DecomposeSuite) TestDecomposerReuse() {
	d := decompose.NewDecomposer(4)
	for _, n := range []int{4, 9, 2, 6} {
		a, oracle := s.dense(n, n)
		res, err := d.SVD(a)
		s.Require().NoError(err)
		var svd mat.SVD
		s.Require().True(svd.Factorize(oracle, mat.SVDNone))
		s.InDeltaSlice(svd.Values(nil), res.Values, 1e-10)

		sym, _ := s.symmetric(n)
		_, err = d.SymmetricEigen(sym)
		s.Require().NoError(err)
	}
}

func TestDecomposeSuite(t *testing.T) {
	suite.Run(t, new(DecomposeSuite))
}

func requireOrthonormalColumns(t *testing.T, q *matrix.Dense, tol float64) {
	t.Helper()
	qt, err := matrix.Transpose(q)
	require.NoError(t, err)
	qtq, err := matrix.Mul(qt, q)
	require.NoError(t, err)
	k := q.Cols()
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			got, _ := qtq.At(i, j)
			require.InDelta(t, want, got, tol)
		}
	}
}

// TestKnownSpectra covers inputs whose answer is known in closed form.
func TestKnownSpectra(t *testing.T) {
	t.Parallel()

	t.Run("diagonal", func(t *testing.T) {
		a, err := matrix.NewDenseFrom(3, 3, []float64{-2, 0, 0, 0, 5, 0, 0, 0, 1})
		require.NoError(t, err)
		eig, err := decompose.SymmetricEigen(a)
		require.NoError(t, err)
		require.Equal(t, []float64{5, 1, -2}, eig.Values)

		svd, err := decompose.SVD(a)
		require.NoError(t, err)
		require.Equal(t, []float64{5, 2, 1}, svd.Values)
	})

	t.Run("rank one", func(t *testing.T) {
		// u·vᵀ with ‖u‖ = 3, ‖v‖ = 5
		a, err := matrix.NewDenseFrom(3, 2, []float64{1 * 3, 1 * 4, 2 * 3, 2 * 4, 2 * 3, 2 * 4})
		require.NoError(t, err)
		svd, err := decompose.SVD(a)
		require.NoError(t, err)
		require.InDelta(t, 15, svd.Values[0], 1e-12)
		require.InDelta(t, 0, svd.Values[1], 1e-12)
	})

	t.Run("zero", func(t *testing.T) {
		a, err := matrix.NewDense(4, 3)
		require.NoError(t, err)
		svd, err := decompose.SVD(a)
		require.NoError(t, err)
		require.Equal(t, []float64{0, 0, 0}, svd.Values)
	})

	t.Run("huge and tiny", func(t *testing.T) {
		for _, k := range []float64{1e-300, 1e300} {
			a, err := matrix.NewDenseFrom(2, 2, []float64{3 * k, 0, 0, 4 * k})
			require.NoError(t, err)
			svd, err := decompose.SVD(a)
			require.NoError(t, err)
			require.InDelta(t, 4, svd.Values[0]/k, 1e-14)
			require.InDelta(t, 3, svd.Values[1]/k, 1e-14)
		}
	})
}

func TestErrors(t *testing.T) {
	t.Parallel()

	asym, err := matrix.NewDenseFrom(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	nan, err := matrix.NewDenseFrom(2, 2, []float64{1, math.NaN(), math.NaN(), 1})
	require.NoError(t, err)

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"eigen nil", func() error { _, err := decompose.SymmetricEigen(nil); return err }, matrix.ErrNilMatrix},
		{"svd nil", func() error { _, err := decompose.SVD(nil); return err }, matrix.ErrNilMatrix},
		{"eigen asymmetric", func() error { _, err := decompose.SymmetricEigen(asym); return err }, matrix.ErrAsymmetry},
		{"eigen nan", func() error { _, err := decompose.SymmetricEigen(nan); return err }, matrix.ErrNaNInf},
		{"svd nan", func() error { _, err := decompose.SVD(nan); return err }, matrix.ErrNaNInf},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			require.Error(t, err)
			require.Truef(t, errors.Is(err, tc.want), "expected errors.Is(%v, %v)", err, tc.want)
		})
	}
}

// TestNotConverged starves the engine and checks the error and the debug log.
func TestNotConverged(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	n := 10
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := rng.Float64()
			data[i*n+j], data[j*n+i] = v, v
		}
	}
	a, err := matrix.NewDenseFrom(n, n, data)
	require.NoError(t, err)

	for _, vectors := range []bool{false, true} {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		_, err = decompose.SymmetricEigen(a,
			decompose.WithVectors(vectors),
			decompose.WithLogger(logger),
			decompose.WithEngineOptions(implicitqr.WithMaxSweeps(1)))
		require.Error(t, err)
		require.Truef(t, errors.Is(err, decompose.ErrNotConverged), "vectors=%v: %v", vectors, err)
		require.Contains(t, buf.String(), "did not converge", fmt.Sprintf("vectors=%v", vectors))
	}
}
