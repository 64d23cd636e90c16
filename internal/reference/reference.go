// Package reference computes float64 matrix products used to measure how far
// float32 results drift from the exact-ish answer.
package reference

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// MulFloat32 widens the row-major n×n operands to float64 and returns A×B in
// row-major order.
func MulFloat32(a, b []float32, n int) []float64 {
	var c mat.Dense
	c.Mul(widen(a, n), widen(b, n))

	return c.RawMatrix().Data
}

// MaxAbsError returns the largest |got[i]-want[i]| and the index where it
// occurs. It returns (0, -1) for empty input.
func MaxAbsError(got []float32, want []float64) (maxErr float64, index int) {
	index = -1

	for i := range min(len(got), len(want)) {
		d := math.Abs(float64(got[i]) - want[i])
		if d > maxErr || index < 0 {
			maxErr, index = d, i
		}
	}

	return maxErr, index
}

func widen(src []float32, n int) *mat.Dense {
	data := make([]float64, n*n)
	for i, v := range src[:n*n] {
		data[i] = float64(v)
	}

	return mat.NewDense(n, n, data)
}
