package matbench

import (
	"fmt"
	"math"
)

const (
	// DefaultN is the matrix order used when none is configured.
	DefaultN = 100

	// DefaultSeed seeds the input generator when none is configured.
	DefaultSeed uint32 = 42

	// DefaultTolerance is the absolute per-element tolerance used to decide
	// whether the device and sequential results agree. The error of a float32
	// dot product grows roughly with the number of terms, so don't tighten
	// this for large N.
	DefaultTolerance = 1e-4
)

// Config parameterizes one benchmark run.
type Config struct {
	// N is the matrix order.
	N int

	// Seed drives the input generator.
	Seed uint32

	// Tolerance is the maximum absolute difference allowed per element.
	Tolerance float64

	// FailOnMismatch turns a result mismatch into an ErrResultMismatch error
	// instead of only reporting it.
	FailOnMismatch bool

	// Reference additionally measures both results against a float64 product.
	Reference bool
}

// DefaultConfig returns the configuration of the canonical run:
// N=100, seed 42, tolerance 1e-4, mismatches escalated.
func DefaultConfig() Config {
	return Config{
		N:              DefaultN,
		Seed:           DefaultSeed,
		Tolerance:      DefaultTolerance,
		FailOnMismatch: true,
	}
}

// Validate reports whether the configuration can be run.
func (c Config) Validate() error {
	if c.N <= 0 {
		return fmt.Errorf("%w: n=%d", ErrInvalidDimension, c.N)
	}

	if !(c.Tolerance > 0) || math.IsInf(c.Tolerance, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTolerance, c.Tolerance)
	}

	return nil
}
