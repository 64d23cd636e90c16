package matbench

import "fmt"

// Matrix is an N×N grid of float32 values stored in row-major order:
// element (i, j) lives at index i*N+j of the backing slice.
//
// The backing slice is always exactly N*N long.
type Matrix struct {
	n    int
	data []float32
}

// NewMatrix allocates a zeroed N×N matrix.
func NewMatrix(n int) (*Matrix, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n=%d", ErrInvalidDimension, n)
	}

	return &Matrix{n: n, data: make([]float32, n*n)}, nil
}

// MatrixFromSlice returns an N×N matrix holding a copy of data, so later
// writes to data do not reach the matrix. len(data) must equal n*n.
func MatrixFromSlice(n int, data []float32) (*Matrix, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n=%d", ErrInvalidDimension, n)
	}

	if len(data) != n*n {
		return nil, fmt.Errorf("%w: got %d elements, want %d", ErrLengthMismatch, len(data), n*n)
	}

	return &Matrix{n: n, data: append([]float32(nil), data...)}, nil
}

// N returns the matrix order.
func (m *Matrix) N() int {
	if m == nil {
		return 0
	}

	return m.n
}

// Len returns the number of elements (N*N).
func (m *Matrix) Len() int {
	if m == nil {
		return 0
	}

	return len(m.data)
}

// At returns element (i, j). It panics if the index is out of range,
// the same way a slice index does.
func (m *Matrix) At(i, j int) float32 {
	return m.data[m.index(i, j)]
}

// Set writes element (i, j).
func (m *Matrix) Set(i, j int, v float32) {
	m.data[m.index(i, j)] = v
}

// Data returns the row-major backing slice itself, not a copy: writes
// through it modify the matrix. Generated inputs are treated as read-only
// by every consumer in this module, and callers must not resize the slice.
func (m *Matrix) Data() []float32 {
	if m == nil {
		return nil
	}

	return m.data
}

func (m *Matrix) index(i, j int) int {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		panic(fmt.Sprintf("matbench: index (%d,%d) out of range for order %d", i, j, m.n))
	}

	return i*m.n + j
}

func checkOperands(a, b *Matrix) error {
	if a == nil || b == nil {
		return ErrNilMatrix
	}

	if a.n != b.n {
		return fmt.Errorf("%w: order %d vs %d", ErrLengthMismatch, a.n, b.n)
	}

	return nil
}
