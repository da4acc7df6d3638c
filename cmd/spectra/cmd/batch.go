// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/spectra/decompose"
	"github.com/katalvlaran/spectra/matrix"
)

type problemKind string

const (
	kindEigen problemKind = "eigen"
	kindSVD   problemKind = "svd"
)

// Result is one YAML output document.
type Result struct {
	Name    string      `yaml:"name"`
	Kind    string      `yaml:"kind"`
	Values  []float64   `yaml:"values"`
	Sweeps  int         `yaml:"sweeps"`
	Vectors [][]float64 `yaml:"vectors,omitempty"` // eigen: columns of V, as rows
	U       [][]float64 `yaml:"u,omitempty"`
	V       [][]float64 `yaml:"v,omitempty"`
}

// batch decomposes fixtures concurrently. Each goroutine owns its own
// Decomposer; results are emitted in input order.
type batch struct {
	kind    problemKind
	cfg     *Config
	vectors bool
	jobs    int
	logger  *slog.Logger
}

func (b *batch) run(ctx context.Context, paths []string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts, err := b.cfg.DecomposeOptions()
	if err != nil {
		return err
	}
	opts = append(opts, decompose.WithVectors(b.vectors), decompose.WithLogger(b.logger))

	results := make([]*Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if b.jobs > 0 {
		g.SetLimit(b.jobs)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := LoadFixture(path)
			if err != nil {
				return err
			}
			res, err := b.solve(f, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Name, err)
			}
			b.logger.Debug("decomposed", slog.String("fixture", f.Name), slog.String("kind", string(b.kind)),
				slog.Int("sweeps", res.Sweeps))
			results[i] = res

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := yaml.NewEncoder(out)
	defer enc.Close()
	for _, res := range results {
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}

	return nil
}

func (b *batch) solve(f *Fixture, opts []decompose.Option) (*Result, error) {
	n := len(f.Diag)
	if !f.Compact() {
		n = len(f.Matrix)
	}
	d := decompose.NewDecomposer(n, opts...)
	res := &Result{Name: f.Name, Kind: string(b.kind)}

	switch b.kind {
	case kindEigen:
		var (
			eig *decompose.Eigen
			err error
		)
		if f.Compact() {
			eig, err = d.TridiagonalEigen(f.Diag, f.Off)
		} else {
			a, derr := f.Dense()
			if derr != nil {
				return nil, derr
			}
			eig, err = d.SymmetricEigen(a)
		}
		if err != nil {
			return nil, err
		}
		res.Values, res.Sweeps = eig.Values, eig.Sweeps
		res.Vectors = columns(eig.Vectors)

	case kindSVD:
		var (
			svd *decompose.SVDResult
			err error
		)
		if f.Compact() {
			layout, lerr := f.layout()
			if lerr != nil {
				return nil, lerr
			}
			svd, err = d.BidiagonalSVD(f.Diag, f.Off, layout)
		} else {
			a, derr := f.Dense()
			if derr != nil {
				return nil, derr
			}
			svd, err = d.SVD(a)
		}
		if err != nil {
			return nil, err
		}
		res.Values, res.Sweeps = svd.Values, svd.Sweeps
		res.U, res.V = columns(svd.U), columns(svd.V)

	default:
		return nil, fmt.Errorf("unknown problem kind %q", b.kind)
	}

	return res, nil
}

// columns returns the columns of m as slices; nil for a nil matrix.
func columns(m *matrix.Dense) [][]float64 {
	if m == nil {
		return nil
	}
	rows, cols := m.Shape()
	data := m.RawData()
	out := make([][]float64, cols)
	for j := range out {
		col := make([]float64, rows)
		for i := range col {
			col[i] = data[i*cols+j]
		}
		out[j] = col
	}

	return out
}
