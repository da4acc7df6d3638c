// SPDX-License-Identifier: MIT

package implicitqr

import "fmt"

// Compact holds a tridiagonal or bidiagonal matrix as two slices: Diag of
// length n and Off of length n-1 (0 when n == 0). Buffers are reused across
// Reshape calls whenever their capacity suffices.
type Compact struct {
	Diag []float64
	Off  []float64
}

// NewCompact returns an empty Compact with capacity for matrices up to
// expectedMax. Larger sizes are still accepted; Reshape grows the buffers.
func NewCompact(expectedMax int) *Compact {
	if expectedMax < 1 {
		expectedMax = 1
	}

	return &Compact{
		Diag: make([]float64, 0, expectedMax),
		Off:  make([]float64, 0, expectedMax-1),
	}
}

// N is the matrix order.
func (c *Compact) N() int { return len(c.Diag) }

// Reshape resizes both slices for order n, reusing storage when possible.
// Contents after Reshape are unspecified.
func (c *Compact) Reshape(n int) {
	if n < 0 {
		n = 0
	}
	m := n - 1
	if m < 0 {
		m = 0
	}
	if cap(c.Diag) < n {
		c.Diag = make([]float64, n)
	}
	c.Diag = c.Diag[:n]
	if cap(c.Off) < m {
		c.Off = make([]float64, m)
	}
	c.Off = c.Off[:m]
}

// Load reshapes to len(diag) and copies both slices in.
func (c *Compact) Load(diag, off []float64) error {
	if err := checkCompact(diag, off); err != nil {
		return err
	}
	c.Reshape(len(diag))
	copy(c.Diag, diag)
	copy(c.Off, off)

	return nil
}

// Snapshot copies c into dst, reshaping dst as needed. Used to keep a
// pristine copy of the reduced matrix for a second pass.
func (c *Compact) Snapshot(dst *Compact) {
	dst.Reshape(c.N())
	copy(dst.Diag, c.Diag)
	copy(dst.Off, c.Off)
}

func checkCompact(diag, off []float64) error {
	want := len(diag) - 1
	if want < 0 {
		want = 0
	}
	if len(off) != want {
		return fmt.Errorf("compact: len(diag)=%d, len(off)=%d: %w", len(diag), len(off), ErrShape)
	}

	return nil
}
