package matbench

import (
	"fmt"
	"math"
)

// Comparison is the verdict of comparing two result matrices.
type Comparison struct {
	// Match is true when every element pair is within Tolerance.
	Match bool

	// Index is the first offending flat index, or -1 on a match.
	Index int

	// Diff is the absolute difference at Index (0 on a match).
	Diff float64

	// Tolerance is the absolute tolerance that was applied.
	Tolerance float64
}

// Compare checks element-wise that |got[i]-want[i]| <= tol for every index.
// It stops at the first element outside the tolerance.
func Compare(got, want *Matrix, tol float64) (Comparison, error) {
	if got == nil || want == nil {
		return Comparison{}, ErrNilMatrix
	}

	if got.Len() != want.Len() {
		return Comparison{}, fmt.Errorf("%w: %d vs %d elements", ErrLengthMismatch, got.Len(), want.Len())
	}

	if !(tol > 0) || math.IsInf(tol, 0) {
		return Comparison{}, fmt.Errorf("%w: %v", ErrInvalidTolerance, tol)
	}

	for i, g := range got.data {
		diff := math.Abs(float64(g) - float64(want.data[i]))
		// NaN never compares greater, so catch it explicitly.
		if diff > tol || math.IsNaN(diff) {
			return Comparison{Index: i, Diff: diff, Tolerance: tol}, nil
		}
	}

	return Comparison{Match: true, Index: -1, Tolerance: tol}, nil
}

// String renders the verdict the way the console report prints it.
func (c Comparison) String() string {
	if c.Match {
		return fmt.Sprintf("Results match (tolerance %g)", c.Tolerance)
	}

	return fmt.Sprintf("%g\nResults do not match! (index %d)", c.Diff, c.Index)
}
