// Package config validates and derives the parameters governing a
// sorting-network search, mirroring config.h/config.cpp's split between
// user-configurable fields and fields computed from them.
package config

import (
	"github.com/pkg/errors"

	"github.com/irifrance/sortnet/bounds"
)

// Config holds one search's parameters, both user-supplied and derived.
type Config struct {
	// User-configurable.
	NetSize           int
	MaxBeamSize       int
	ScoringTests      int
	Elites            int
	DepthWeight       float64
	UseSymmetry       bool
	symmetrySet       bool
	Zobrist           bool
	MaxIterations     int
	DeterministicSeed bool
	Seed              uint64

	// Derived at Validate time.
	NumInputPatterns int
	LengthLowerBound int
	LengthUpperBound int
	DepthLowerBound  int
	BranchingFactor  int
}

// New returns a Config with reasonable defaults for an 8-wire search.
func New() *Config {
	return &Config{
		NetSize:       8,
		MaxBeamSize:   100,
		ScoringTests:  5,
		Elites:        1,
		DepthWeight:   0.0001,
		UseSymmetry:   true,
		Zobrist:       false,
		MaxIterations: 1,
	}
}

// SetSymmetry records an explicit -s/-S choice, overriding the
// NetSize-parity default applied by Validate.
func (c *Config) SetSymmetry(v bool) {
	c.UseSymmetry = v
	c.symmetrySet = true
}

// Error reports an out-of-range or inconsistent configuration value.
// Surfaced at parse time, before any search state is allocated.
type Error struct {
	cause error
}

func (e *Error) Error() string { return "config: " + e.cause.Error() }
func (e *Error) Unwrap() error { return e.cause }

func fail(format string, args ...interface{}) *Error {
	return &Error{cause: errors.Errorf(format, args...)}
}

// Validate checks every user-configurable field and computes the derived
// fields. It must be called once, after parsing, before the config is
// used to build lookup tables or state.
func (c *Config) Validate() error {
	if c.NetSize < 2 || c.NetSize > 32 {
		return fail("net-size must be between 2 and 32, got %d", c.NetSize)
	}

	b, ok := bounds.Get(c.NetSize)
	if !ok {
		return fail("no known bounds for net-size %d", c.NetSize)
	}

	if !c.symmetrySet {
		c.UseSymmetry = c.NetSize%2 == 0
	}

	if c.MaxBeamSize < 1 {
		return fail("beam-size must be at least 1, got %d", c.MaxBeamSize)
	}
	if c.ScoringTests < 1 {
		return fail("scoring-tests must be at least 1, got %d", c.ScoringTests)
	}
	if c.Elites < 1 {
		return fail("elites must be at least 1, got %d", c.Elites)
	}
	if c.Elites > c.ScoringTests {
		return fail("elites (%d) cannot exceed scoring-tests (%d)", c.Elites, c.ScoringTests)
	}
	if c.DepthWeight < 0.0 || c.DepthWeight > 1.0 {
		return fail("depth-weight must be between 0.0 and 1.0, got %g", c.DepthWeight)
	}
	if c.MaxIterations < 1 {
		return fail("max-iterations must be at least 1, got %d", c.MaxIterations)
	}

	c.BranchingFactor = c.NetSize * (c.NetSize - 1) / 2
	c.NumInputPatterns = 1 << uint(c.NetSize)
	c.LengthLowerBound = b.Length
	c.LengthUpperBound = c.LengthLowerBound * 2
	c.DepthLowerBound = b.Depth

	return nil
}
