package matbench

import "github.com/cwbudde/matbench/internal/rng"

// Generate returns two N×N matrices A and B filled with uniform values in
// [0, 1) drawn from an MT19937 generator seeded with seed.
//
// Draws are interleaved, A[i] then B[i] for ascending i, so the same
// (seed, n) always yields bit-identical inputs.
func Generate(seed uint32, n int) (a, b *Matrix, err error) {
	a, err = NewMatrix(n)
	if err != nil {
		return nil, nil, err
	}

	b, err = NewMatrix(n)
	if err != nil {
		return nil, nil, err
	}

	src := rng.New(seed)
	for i := range a.data {
		a.data[i] = src.Float32()
		b.data[i] = src.Float32()
	}

	return a, b, nil
}
