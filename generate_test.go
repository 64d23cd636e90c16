package matbench

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateDeterministic(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 2, 7, 32, 100} {
		a1, b1, err := Generate(42, n)
		require.NoError(t, err)

		a2, b2, err := Generate(42, n)
		require.NoError(t, err)

		require.Equal(t, n*n, a1.Len())
		require.Equal(t, n*n, b1.Len())

		for i := range a1.Data() {
			require.Equal(t, math.Float32bits(a1.Data()[i]), math.Float32bits(a2.Data()[i]), "A[%d] n=%d", i, n)
			require.Equal(t, math.Float32bits(b1.Data()[i]), math.Float32bits(b2.Data()[i]), "B[%d] n=%d", i, n)
		}
	}
}

func TestGeneratePrefixStable(t *testing.T) {
	t.Parallel()

	// Draws are interleaved A[i], B[i], so a smaller order is a prefix of a
	// larger one for the same seed.
	aSmall, bSmall, err := Generate(42, 3)
	require.NoError(t, err)

	aBig, bBig, err := Generate(42, 10)
	require.NoError(t, err)

	require.Equal(t, aSmall.Data(), aBig.Data()[:9])
	require.Equal(t, bSmall.Data(), bBig.Data()[:9])
}

func TestGenerateRange(t *testing.T) {
	t.Parallel()

	a, b, err := Generate(42, 100)
	require.NoError(t, err)

	for _, m := range []*Matrix{a, b} {
		for i, v := range m.Data() {
			require.GreaterOrEqual(t, v, float32(0), "index %d", i)
			require.Less(t, v, float32(1), "index %d", i)
		}
	}
}

func TestGenerateSeedsDiffer(t *testing.T) {
	t.Parallel()

	a1, _, err := Generate(1, 8)
	require.NoError(t, err)

	a2, _, err := Generate(2, 8)
	require.NoError(t, err)

	require.NotEqual(t, a1.Data(), a2.Data())
}

func TestGenerateInvalidDimension(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -1, -100} {
		a, b, err := Generate(42, n)
		require.ErrorIs(t, err, ErrInvalidDimension)
		require.Nil(t, a)
		require.Nil(t, b)
	}
}
