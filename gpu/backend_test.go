package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/matbench"
)

// These tests mutate the process-wide registry and therefore don't run in
// parallel.

func TestRegisterBackend(t *testing.T) {
	RegisterBackend(nil)
	t.Cleanup(func() { RegisterBackend(nil) })

	_, ok := CurrentBackendInfo()
	assert.False(t, ok)

	RegisterSoftwareBackend()

	info, ok := CurrentBackendInfo()
	require.True(t, ok)
	assert.Equal(t, SoftwareBackendName, info.Name)
}

func TestMultiplyUsesRegisteredBackend(t *testing.T) {
	RegisterSoftwareBackend()
	t.Cleanup(func() { RegisterBackend(nil) })

	a, b, err := matbench.Generate(5, 3)
	require.NoError(t, err)

	res, err := Multiply(nil, a, b, MultiplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Go Software GPU", res.Device.Name)
}

func TestMultiplyWithoutBackend(t *testing.T) {
	RegisterBackend(nil)

	a, b, err := matbench.Generate(5, 3)
	require.NoError(t, err)

	_, err = Multiply(nil, a, b, MultiplyOptions{})
	require.ErrorIs(t, err, ErrDeviceUnavailable)
	require.ErrorIs(t, err, ErrNoBackend)
}

func TestNewBackendByName(t *testing.T) {
	b, err := NewBackend(SoftwareBackendName)
	require.NoError(t, err)
	assert.Equal(t, SoftwareBackendName, b.Info().Name)

	_, err = NewBackend("quantum")
	require.ErrorIs(t, err, ErrNoBackend)

	assert.Contains(t, BackendNames(), SoftwareBackendName)
}

func TestParseDeviceClass(t *testing.T) {
	for _, c := range []DeviceClass{ClassGPU, ClassCPU, ClassAccelerator, ClassAll} {
		got, err := ParseDeviceClass(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseDeviceClass("fpga")
	require.ErrorIs(t, err, ErrInvalidArgument)

	assert.True(t, ClassCPU.Matches(ClassAll))
	assert.False(t, ClassCPU.Matches(ClassGPU))
}

func TestNDRangeSize(t *testing.T) {
	assert.Equal(t, 5, NDRange{X: 5}.Size())
	assert.Equal(t, 12, NDRange{X: 3, Y: 4}.Size())
}
