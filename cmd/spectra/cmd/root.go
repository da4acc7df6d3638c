// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	vectors bool
	jobs    int
)

var rootCmd = &cobra.Command{
	Use:   "spectra",
	Short: "Eigen- and singular value decompositions via implicit QR",
	Long: `spectra reads matrices from YAML fixtures and decomposes them.

A fixture holds either a dense matrix:

  name: small
  matrix:
    - [4, 1]
    - [1, 3]

or a compact tridiagonal/bidiagonal one:

  name: ones
  diag: [1, 1, 1]
  off: [1, 1]
  layout: upper   # svd only: upper | lower

Results are written as YAML documents to stdout, in argument order.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "engine config file (TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&vectors, "vectors", false, "also compute eigen/singular vectors")
	rootCmd.PersistentFlags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "fixtures decomposed in parallel")
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// runKind is the shared RunE body of the eigen and svd commands.
func runKind(kind problemKind) func(*cobra.Command, []string) error {
	return func(c *cobra.Command, args []string) error {
		cfg := DefaultConfig()
		if cfgFile != "" {
			loaded, err := LoadConfig(cfgFile)
			if err != nil {
				printError("config", err)
				return err
			}
			cfg = loaded
		}

		b := &batch{
			kind:    kind,
			cfg:     cfg,
			vectors: vectors,
			jobs:    jobs,
			logger:  newLogger(os.Stderr, verbose),
		}
		if err := b.run(c.Context(), args, c.OutOrStdout()); err != nil {
			printError(string(kind), err)
			return err
		}

		return nil
	}
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
}
