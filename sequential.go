package matbench

// MultiplySequential computes C = A×B with the naive triple loop on the
// calling goroutine.
func MultiplySequential(a, b *Matrix) (*Matrix, error) {
	if err := checkOperands(a, b); err != nil {
		return nil, err
	}

	c, err := NewMatrix(a.n)
	if err != nil {
		return nil, err
	}

	multiplySequential(c.data, a.data, b.data, a.n)

	return c, nil
}

// MultiplySequentialInto computes C = A×B into dst, overwriting every element.
func MultiplySequentialInto(dst, a, b *Matrix) error {
	if err := checkOperands(a, b); err != nil {
		return err
	}

	if err := checkOperands(dst, a); err != nil {
		return err
	}

	multiplySequential(dst.data, a.data, b.data, a.n)

	return nil
}

// multiplySequential accumulates in float32 with k ascending. The explicit
// float32 conversion of each product keeps the compiler from fusing the
// multiply-add, so results are identical on every architecture.
func multiplySequential(c, a, b []float32, n int) {
	for i := range n {
		row := a[i*n : (i+1)*n]
		for j := range n {
			var sum float32
			for k := range n {
				sum += float32(row[k] * b[k*n+j])
			}

			c[i*n+j] = sum
		}
	}
}
