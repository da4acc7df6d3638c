// SPDX-License-Identifier: MIT

package decompose

import (
	"io"
	"log/slog"

	"github.com/katalvlaran/spectra/implicitqr"
)

// Defaults.
const (
	DefaultVectors = true
	DefaultTwoPass = true
)

// Option configures a Decomposer or a one-shot facade call.
type Option func(*options)

type options struct {
	vectors bool
	twoPass bool
	engine  []implicitqr.Option
	logger  *slog.Logger
}

func gatherOptions(opts ...Option) options {
	o := options{
		vectors: DefaultVectors,
		twoPass: DefaultTwoPass,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithVectors toggles computation of eigenvectors / singular vectors.
func WithVectors(on bool) Option {
	return func(o *options) { o.vectors = on }
}

// WithTwoPass toggles the values-first strategy: a ValuesOnly run whose
// output seeds the shifts of the vectors run. Ignored without vectors.
func WithTwoPass(on bool) Option {
	return func(o *options) { o.twoPass = on }
}

// WithEngineOptions forwards options to every engine. WithMode is managed by
// the Decomposer and overridden.
func WithEngineOptions(opts ...implicitqr.Option) Option {
	return func(o *options) { o.engine = append(o.engine, opts...) }
}

// WithLogger sets the logger for debug diagnostics. nil restores the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		o.logger = l
	}
}
