package bench

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/matbench"
	"github.com/cwbudde/matbench/gpu"
)

// corruptingBackend perturbs one element of every buffer read back from
// the device.
type corruptingBackend struct {
	*gpu.SoftwareBackend
	index int
	delta float32
}

func (b corruptingBackend) NewContext(device gpu.DeviceInfo) (gpu.Context, error) {
	ctx, err := b.SoftwareBackend.NewContext(device)
	if err != nil {
		return nil, err
	}

	return corruptingContext{Context: ctx, index: b.index, delta: b.delta}, nil
}

type corruptingContext struct {
	gpu.Context
	index int
	delta float32
}

func (c corruptingContext) NewQueue() (gpu.Queue, error) {
	q, err := c.Context.NewQueue()
	if err != nil {
		return nil, err
	}

	return corruptingQueue{Queue: q, index: c.index, delta: c.delta}, nil
}

type corruptingQueue struct {
	gpu.Queue
	index int
	delta float32
}

func (q corruptingQueue) Read(dst []float32, src gpu.Buffer) error {
	if err := q.Queue.Read(dst, src); err != nil {
		return err
	}

	dst[q.index] += q.delta

	return nil
}

func TestRunDefaultConfig(t *testing.T) {
	t.Parallel()

	backend := gpu.NewSoftwareBackend(gpu.SoftwareOptions{})

	report, err := NewRunner(matbench.DefaultConfig(), WithBackend(backend)).Run()
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.True(t, report.Comparison.Match)
	assert.Equal(t, -1, report.Comparison.Index)
	assert.Equal(t, 10000, report.SizeA)
	assert.Equal(t, 10000, report.SizeB)
	assert.Equal(t, 10000, report.SizeC)
	assert.Equal(t, "Go Software GPU", report.Device.Name)
	assert.GreaterOrEqual(t, report.DeviceDuration.Seconds(), 0.0)
	assert.GreaterOrEqual(t, report.SequentialDuration.Seconds(), 0.0)
	assert.Nil(t, report.Reference)
	assert.Zero(t, backend.OpenHandles())
}

func TestRunManySizes(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 2, 5, 31, 64} {
		cfg := matbench.DefaultConfig()
		cfg.N = n
		cfg.Seed = uint32(n)

		report, err := NewRunner(cfg, WithBackend(gpu.NewSoftwareBackend(gpu.SoftwareOptions{Workers: 3}))).Run()
		require.NoError(t, err, "n=%d", n)
		assert.True(t, report.Comparison.Match, "n=%d", n)
		assert.Equal(t, n*n, report.SizeC)
	}
}

func TestRunDeviceUnavailable(t *testing.T) {
	t.Parallel()

	backend := gpu.NewSoftwareBackend(gpu.SoftwareOptions{Class: gpu.ClassCPU})

	report, err := NewRunner(matbench.DefaultConfig(), WithBackend(backend)).Run()
	require.ErrorIs(t, err, gpu.ErrDeviceUnavailable)
	require.Nil(t, report)
}

func TestRunSelectsConfiguredClass(t *testing.T) {
	t.Parallel()

	backend := gpu.NewSoftwareBackend(gpu.SoftwareOptions{Class: gpu.ClassCPU, Name: "host"})

	cfg := matbench.DefaultConfig()
	cfg.N = 8

	report, err := NewRunner(cfg, WithBackend(backend), WithDeviceClass(gpu.ClassCPU)).Run()
	require.NoError(t, err)
	assert.Equal(t, "host", report.Device.Name)
}

func TestRunInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := matbench.DefaultConfig()
	cfg.N = -3

	report, err := NewRunner(cfg, WithBackend(gpu.NewSoftwareBackend(gpu.SoftwareOptions{}))).Run()
	require.ErrorIs(t, err, matbench.ErrInvalidDimension)
	require.Nil(t, report)
}

func TestRunMismatch(t *testing.T) {
	t.Parallel()

	newBackend := func() gpu.Backend {
		return corruptingBackend{
			SoftwareBackend: gpu.NewSoftwareBackend(gpu.SoftwareOptions{}),
			index:           3,
			delta:           0.001,
		}
	}

	cfg := matbench.DefaultConfig()
	cfg.N = 4

	report, err := NewRunner(cfg, WithBackend(newBackend())).Run()
	require.ErrorIs(t, err, matbench.ErrResultMismatch)
	require.NotNil(t, report)
	assert.False(t, report.Comparison.Match)
	assert.Equal(t, 3, report.Comparison.Index)
	assert.InDelta(t, 0.001, report.Comparison.Diff, 1e-5)

	cfg.FailOnMismatch = false

	report, err = NewRunner(cfg, WithBackend(newBackend())).Run()
	require.NoError(t, err)
	assert.False(t, report.Comparison.Match)
	assert.Equal(t, 3, report.Comparison.Index)
}

func TestRunReference(t *testing.T) {
	t.Parallel()

	cfg := matbench.DefaultConfig()
	cfg.Reference = true

	report, err := NewRunner(cfg, WithBackend(gpu.NewSoftwareBackend(gpu.SoftwareOptions{}))).Run()
	require.NoError(t, err)
	require.NotNil(t, report.Reference)

	// Sums of 100 products in [0,1) stay well below 100; float32 drift is tiny.
	assert.Less(t, report.Reference.Device, 1e-3)
	assert.Less(t, report.Reference.Sequential, 1e-3)
	assert.Equal(t, report.Reference.Device, report.Reference.Sequential)
}

func TestRunLogsDevice(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := matbench.DefaultConfig()
	cfg.N = 3

	_, err := NewRunner(cfg,
		WithBackend(gpu.NewSoftwareBackend(gpu.SoftwareOptions{Name: "Logged GPU"})),
		WithLogger(logger),
	).Run()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "device selected")
	assert.Contains(t, out, "Logged GPU")
	assert.Contains(t, out, "sequential path done")
}
