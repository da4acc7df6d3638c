// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/katalvlaran/spectra/decompose"
	"github.com/katalvlaran/spectra/implicitqr"
)

// Config is the TOML engine configuration:
//
//	[engine]
//	tolerance = 1.0              # multiple of machine epsilon
//	max_sweeps_per_value = 30
//	exceptional_threshold = 15
//	known_shift_patience = 10
//	zero_shift_sweeps = 7
//	shift_policy = "auto"        # auto | wilkinson | zero
//	seed = 3434270
//
//	[decompose]
//	two_pass = true
type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Decompose DecomposeConfig `toml:"decompose"`
}

// EngineConfig mirrors the implicitqr options. Zero is a valid patience,
// zero-shift budget and seed, hence the pointers.
type EngineConfig struct {
	Tolerance            float64 `toml:"tolerance"`
	MaxSweepsPerValue    int     `toml:"max_sweeps_per_value"`
	ExceptionalThreshold int     `toml:"exceptional_threshold"`
	KnownShiftPatience   *int    `toml:"known_shift_patience"`
	ZeroShiftSweeps      *int    `toml:"zero_shift_sweeps"`
	ShiftPolicy          string  `toml:"shift_policy"`
	Seed                 *int64  `toml:"seed"`
}

// DecomposeConfig mirrors the decompose options.
type DecomposeConfig struct {
	TwoPass *bool `toml:"two_pass"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()

	return cfg
}

// LoadConfig reads a TOML file; missing keys keep their defaults.
func LoadConfig(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Engine.Tolerance == 0 {
		c.Engine.Tolerance = implicitqr.DefaultTolerance
	}
	if c.Engine.MaxSweepsPerValue == 0 {
		c.Engine.MaxSweepsPerValue = implicitqr.DefaultMaxSweepsPerValue
	}
	if c.Engine.ExceptionalThreshold == 0 {
		c.Engine.ExceptionalThreshold = implicitqr.DefaultExceptionalThreshold
	}
	if c.Engine.KnownShiftPatience == nil {
		k := implicitqr.DefaultKnownShiftPatience
		c.Engine.KnownShiftPatience = &k
	}
	if c.Engine.ZeroShiftSweeps == nil {
		k := implicitqr.DefaultZeroShiftSweeps
		c.Engine.ZeroShiftSweeps = &k
	}
	if c.Engine.ShiftPolicy == "" {
		c.Engine.ShiftPolicy = "auto"
	}
	if c.Engine.Seed == nil {
		seed := implicitqr.DefaultSeed
		c.Engine.Seed = &seed
	}
	if c.Decompose.TwoPass == nil {
		on := decompose.DefaultTwoPass
		c.Decompose.TwoPass = &on
	}
}

// validate rejects values the option constructors would panic on.
func (c *Config) validate() error {
	c.applyDefaults()
	e := c.Engine
	switch {
	case !(e.Tolerance > 0) || math.IsInf(e.Tolerance, 0):
		return fmt.Errorf("engine.tolerance must be finite and > 0, got %g", e.Tolerance)
	case e.MaxSweepsPerValue < 0:
		return fmt.Errorf("engine.max_sweeps_per_value must be > 0, got %d", e.MaxSweepsPerValue)
	case e.ExceptionalThreshold < 0:
		return fmt.Errorf("engine.exceptional_threshold must be > 0, got %d", e.ExceptionalThreshold)
	case *e.KnownShiftPatience < 0:
		return fmt.Errorf("engine.known_shift_patience must be >= 0, got %d", *e.KnownShiftPatience)
	case *e.ZeroShiftSweeps < 0:
		return fmt.Errorf("engine.zero_shift_sweeps must be >= 0, got %d", *e.ZeroShiftSweeps)
	}
	if _, err := parseShiftPolicy(e.ShiftPolicy); err != nil {
		return err
	}

	return nil
}

func parseShiftPolicy(s string) (implicitqr.ShiftPolicy, error) {
	switch s {
	case "auto":
		return implicitqr.ShiftAuto, nil
	case "wilkinson":
		return implicitqr.ShiftWilkinson, nil
	case "zero":
		return implicitqr.ShiftZero, nil
	default:
		return 0, fmt.Errorf("engine.shift_policy: unknown policy %q (auto | wilkinson | zero)", s)
	}
}

// DecomposeOptions converts the configuration into facade options.
func (c *Config) DecomposeOptions() ([]decompose.Option, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	policy, _ := parseShiftPolicy(c.Engine.ShiftPolicy)

	return []decompose.Option{
		decompose.WithTwoPass(*c.Decompose.TwoPass),
		decompose.WithEngineOptions(
			implicitqr.WithTolerance(c.Engine.Tolerance),
			implicitqr.WithMaxSweepsPerValue(c.Engine.MaxSweepsPerValue),
			implicitqr.WithExceptionalThreshold(c.Engine.ExceptionalThreshold),
			implicitqr.WithKnownShiftPatience(*c.Engine.KnownShiftPatience),
			implicitqr.WithZeroShiftSweeps(*c.Engine.ZeroShiftSweeps),
			implicitqr.WithShiftPolicy(policy),
			implicitqr.WithSeed(*c.Engine.Seed),
		),
	}, nil
}
