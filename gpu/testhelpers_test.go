package gpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/matbench"
)

// wrapBackend decorates every context the software backend opens.
type wrapBackend struct {
	*SoftwareBackend
	wrap func(Context) Context
}

func (w wrapBackend) NewContext(device DeviceInfo) (Context, error) {
	ctx, err := w.SoftwareBackend.NewContext(device)
	if err != nil {
		return nil, err
	}

	return w.wrap(ctx), nil
}

// extraOptionsContext appends build options to every compile.
type extraOptionsContext struct {
	Context
	extra string
}

func (c extraOptionsContext) Compile(source, options string) (Program, error) {
	return c.Context.Compile(source, options+" "+c.extra)
}

var errDeviceLost = errors.New("device lost")

// lostDeviceContext hands out queues whose Synchronize always fails.
type lostDeviceContext struct {
	Context
}

func (c lostDeviceContext) NewQueue() (Queue, error) {
	q, err := c.Context.NewQueue()
	if err != nil {
		return nil, err
	}

	return lostDeviceQueue{q}, nil
}

type lostDeviceQueue struct {
	Queue
}

func (lostDeviceQueue) Synchronize() error {
	return errDeviceLost
}

func newTestBackend(workers int) *SoftwareBackend {
	return NewSoftwareBackend(SoftwareOptions{Workers: workers})
}

func mustMatrix(t *testing.T, n int, data ...float32) *matbench.Matrix {
	t.Helper()

	m, err := matbench.MatrixFromSlice(n, data)
	require.NoError(t, err)

	return m
}

// openKernel compiles the matmul kernel on a fresh context of b.
func openKernel(t *testing.T, b *SoftwareBackend) (Context, Queue, Kernel) {
	t.Helper()

	devices, err := b.Devices(ClassAll)
	require.NoError(t, err)
	require.Len(t, devices, 1)

	ctx, err := b.NewContext(devices[0])
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctx.Close() })

	q, err := ctx.NewQueue()
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })

	prog, err := ctx.Compile(MatMulKernelSource, MatMulBuildOptions)
	require.NoError(t, err)
	t.Cleanup(func() { _ = prog.Close() })

	k, err := prog.Kernel(MatMulKernelName)
	require.NoError(t, err)
	t.Cleanup(func() { _ = k.Close() })

	return ctx, q, k
}
