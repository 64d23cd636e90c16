package matbench

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareIdentical(t *testing.T) {
	t.Parallel()

	a, _, err := Generate(42, 10)
	require.NoError(t, err)

	res, err := Compare(a, a, DefaultTolerance)
	require.NoError(t, err)
	assert.True(t, res.Match)
	assert.Equal(t, -1, res.Index)
	assert.Zero(t, res.Diff)
}

func TestCompareFirstMismatch(t *testing.T) {
	t.Parallel()

	want, err := MatrixFromSlice(2, []float32{1, 2, 3, 4})
	require.NoError(t, err)

	got, err := MatrixFromSlice(2, []float32{1, 2, 3, 4.001})
	require.NoError(t, err)

	res, err := Compare(got, want, DefaultTolerance)
	require.NoError(t, err)
	assert.False(t, res.Match)
	assert.Equal(t, 3, res.Index)
	assert.InDelta(t, 0.001, res.Diff, 1e-6)
}

func TestCompareShortCircuits(t *testing.T) {
	t.Parallel()

	want, err := MatrixFromSlice(2, []float32{0, 0, 0, 0})
	require.NoError(t, err)

	got, err := MatrixFromSlice(2, []float32{0, 0.5, 0, 9})
	require.NoError(t, err)

	res, err := Compare(got, want, DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Index)
	assert.InDelta(t, 0.5, res.Diff, 1e-9)
}

func TestCompareWithinTolerance(t *testing.T) {
	t.Parallel()

	want, err := MatrixFromSlice(1, []float32{10})
	require.NoError(t, err)

	got, err := MatrixFromSlice(1, []float32{10.00005})
	require.NoError(t, err)

	res, err := Compare(got, want, DefaultTolerance)
	require.NoError(t, err)
	assert.True(t, res.Match)
}

func TestCompareNaN(t *testing.T) {
	t.Parallel()

	want, err := MatrixFromSlice(1, []float32{1})
	require.NoError(t, err)

	got, err := MatrixFromSlice(1, []float32{float32(math.NaN())})
	require.NoError(t, err)

	res, err := Compare(got, want, DefaultTolerance)
	require.NoError(t, err)
	assert.False(t, res.Match)
	assert.Equal(t, 0, res.Index)
}

func TestCompareErrors(t *testing.T) {
	t.Parallel()

	a, err := NewMatrix(2)
	require.NoError(t, err)

	b, err := NewMatrix(3)
	require.NoError(t, err)

	_, err = Compare(a, b, DefaultTolerance)
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Compare(a, nil, DefaultTolerance)
	require.ErrorIs(t, err, ErrNilMatrix)

	for _, tol := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err = Compare(a, a, tol)
		require.ErrorIs(t, err, ErrInvalidTolerance, "tol=%v", tol)
	}
}

func TestComparisonString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Results match (tolerance 0.0001)", Comparison{Match: true, Index: -1, Tolerance: 1e-4}.String())
	assert.Equal(t, "0.5\nResults do not match! (index 7)", Comparison{Index: 7, Diff: 0.5, Tolerance: 1e-4}.String())
}
