package gpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingCloser struct {
	id    int
	err   error
	order *[]int
}

func (c recordingCloser) Close() error {
	*c.order = append(*c.order, c.id)
	return c.err
}

func TestScopeReleasesInReverseOrder(t *testing.T) {
	t.Parallel()

	var (
		order []int
		s     scope
	)

	first, second := errors.New("first"), errors.New("second")

	s.add(recordingCloser{id: 1, order: &order})
	s.add(recordingCloser{id: 2, err: second, order: &order})
	s.add(recordingCloser{id: 3, err: first, order: &order})

	// Every closer runs; the error of the first one to fail wins.
	assert.ErrorIs(t, s.release(), first)
	assert.Equal(t, []int{3, 2, 1}, order)

	assert.NoError(t, s.release())
	assert.Len(t, order, 3)
}
