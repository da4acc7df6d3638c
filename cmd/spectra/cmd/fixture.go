// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/spectra/implicitqr"
	"github.com/katalvlaran/spectra/matrix"
)

var errFixture = errors.New("invalid fixture")

// Fixture is one YAML input document: either Matrix (dense rows) or
// Diag/Off (compact form), not both.
type Fixture struct {
	Name   string      `yaml:"name"`
	Matrix [][]float64 `yaml:"matrix,omitempty"`
	Diag   []float64   `yaml:"diag,omitempty"`
	Off    []float64   `yaml:"off,omitempty"`
	Layout string      `yaml:"layout,omitempty"`
}

// LoadFixture reads and checks a fixture file. The name defaults to the file
// name without extension.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := f.check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &f, nil
}

// Compact reports whether the fixture is given in compact form.
func (f *Fixture) Compact() bool { return f.Matrix == nil }

func (f *Fixture) check() error {
	switch {
	case f.Matrix != nil && (f.Diag != nil || f.Off != nil):
		return fmt.Errorf("%w: both matrix and diag/off given", errFixture)
	case f.Matrix == nil && f.Diag == nil:
		return fmt.Errorf("%w: neither matrix nor diag given", errFixture)
	}
	if f.Matrix != nil {
		if len(f.Matrix) == 0 {
			return fmt.Errorf("%w: empty matrix", errFixture)
		}
		cols := len(f.Matrix[0])
		for i, row := range f.Matrix {
			if len(row) != cols || cols == 0 {
				return fmt.Errorf("%w: row %d has %d columns, want %d", errFixture, i, len(row), cols)
			}
		}
		return nil
	}
	if len(f.Diag) == 0 {
		return fmt.Errorf("%w: empty diag", errFixture)
	}
	if len(f.Off) != len(f.Diag)-1 {
		return fmt.Errorf("%w: len(off)=%d, want %d", errFixture, len(f.Off), len(f.Diag)-1)
	}
	if _, err := f.layout(); err != nil {
		return err
	}

	return nil
}

func (f *Fixture) layout() (implicitqr.Layout, error) {
	switch strings.ToLower(f.Layout) {
	case "", "upper":
		return implicitqr.Upper, nil
	case "lower":
		return implicitqr.Lower, nil
	default:
		return 0, fmt.Errorf("%w: unknown layout %q", errFixture, f.Layout)
	}
}

// Dense returns the dense matrix of a non-compact fixture.
func (f *Fixture) Dense() (*matrix.Dense, error) {
	rows, cols := len(f.Matrix), len(f.Matrix[0])
	data := make([]float64, 0, rows*cols)
	for _, row := range f.Matrix {
		data = append(data, row...)
	}

	return matrix.NewDenseFrom(rows, cols, data)
}
