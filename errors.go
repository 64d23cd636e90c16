package matbench

import "errors"

// Sentinel errors returned by matrix generation, multiplication and comparison.
var (
	// ErrInvalidDimension is returned when the matrix order N is not positive.
	ErrInvalidDimension = errors.New("matbench: invalid dimension")

	// ErrNilMatrix is returned when a nil matrix is passed to an operation.
	ErrNilMatrix = errors.New("matbench: nil matrix")

	// ErrLengthMismatch is returned when operand sizes don't agree, or when a
	// backing slice is not exactly N*N long.
	ErrLengthMismatch = errors.New("matbench: length mismatch")

	// ErrInvalidTolerance is returned for a comparison tolerance that is not
	// a positive finite number.
	ErrInvalidTolerance = errors.New("matbench: invalid tolerance")

	// ErrResultMismatch is returned by the benchmark runner when the device and
	// sequential results diverge and mismatch escalation is enabled.
	ErrResultMismatch = errors.New("matbench: results do not match")
)
