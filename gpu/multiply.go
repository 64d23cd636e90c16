package gpu

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/matbench"
)

// Result is the output of a device multiplication.
type Result struct {
	// C is the product read back from the device.
	C *matbench.Matrix

	// Device is the device the kernel ran on.
	Device DeviceInfo
}

// Multiply computes C = A×B on the first device of opts.Class offered by
// backend. A nil backend selects the registered one.
//
// Every device handle acquired along the way is released before Multiply
// returns, on success and on error. Nothing is retried: the first failure
// aborts the multiplication.
func Multiply(backend Backend, a, b *matbench.Matrix, opts MultiplyOptions) (res *Result, err error) {
	if a == nil || b == nil {
		return nil, matbench.ErrNilMatrix
	}

	if a.N() != b.N() {
		return nil, fmt.Errorf("%w: order %d vs %d", matbench.ErrLengthMismatch, a.N(), b.N())
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if backend == nil {
		backend = getBackend()
	}

	device, err := selectDevice(backend, opts.Class)
	if err != nil {
		return nil, err
	}

	logger.Info("device selected", "device", device.Name, "class", device.Class, "vendor", device.Vendor)

	var s scope
	defer func() {
		if cerr := s.release(); cerr != nil && err == nil {
			res, err = nil, fmt.Errorf("%w: release: %w", ErrExecution, cerr)
		}
	}()

	ctx, err := backend.NewContext(device)
	if err != nil {
		return nil, fmt.Errorf("open context on %q: %w", device.Name, err)
	}
	s.add(ctx)

	queue, err := ctx.NewQueue()
	if err != nil {
		return nil, fmt.Errorf("%w: create queue: %w", ErrExecution, err)
	}
	s.add(queue)

	program, err := ctx.Compile(MatMulKernelSource, MatMulBuildOptions)
	if err != nil {
		return nil, err
	}
	s.add(program)

	logger.Debug("kernel compiled", "log", program.BuildLog())

	kernel, err := program.Kernel(MatMulKernelName)
	if err != nil {
		return nil, err
	}
	s.add(kernel)

	n := a.N()

	bufA, err := ctx.NewBuffer(ReadOnly, n*n)
	if err != nil {
		return nil, fmt.Errorf("%w: allocate A: %w", ErrExecution, err)
	}
	s.add(bufA)

	bufB, err := ctx.NewBuffer(ReadOnly, n*n)
	if err != nil {
		return nil, fmt.Errorf("%w: allocate B: %w", ErrExecution, err)
	}
	s.add(bufB)

	bufC, err := ctx.NewBuffer(WriteOnly, n*n)
	if err != nil {
		return nil, fmt.Errorf("%w: allocate C: %w", ErrExecution, err)
	}
	s.add(bufC)

	if err := queue.Write(bufA, a.Data()); err != nil {
		return nil, fmt.Errorf("%w: write A: %w", ErrExecution, err)
	}

	if err := queue.Write(bufB, b.Data()); err != nil {
		return nil, fmt.Errorf("%w: write B: %w", ErrExecution, err)
	}

	for i, arg := range []any{bufA, bufB, bufC, int32(n)} {
		if err := kernel.SetArg(i, arg); err != nil {
			return nil, fmt.Errorf("%w: set argument %d: %w", ErrExecution, i, err)
		}
	}

	if err := queue.Dispatch(kernel, NDRange{X: n, Y: n}); err != nil {
		return nil, fmt.Errorf("%w: dispatch: %w", ErrExecution, err)
	}

	c, err := matbench.NewMatrix(n)
	if err != nil {
		return nil, err
	}

	if err := queue.Read(c.Data(), bufC); err != nil {
		return nil, fmt.Errorf("%w: read C: %w", ErrExecution, err)
	}

	if err := queue.Synchronize(); err != nil {
		return nil, fmt.Errorf("%w: synchronize: %w", ErrExecution, err)
	}

	return &Result{C: c, Device: device}, nil
}

// selectDevice returns the first device of class. There is no fallback to
// another class.
func selectDevice(backend Backend, class DeviceClass) (DeviceInfo, error) {
	if backend == nil {
		return DeviceInfo{}, fmt.Errorf("%w: %w", ErrDeviceUnavailable, ErrNoBackend)
	}

	if !backend.Available() {
		return DeviceInfo{}, fmt.Errorf("%w: backend %q is not available on this system", ErrDeviceUnavailable, backend.Info().Name)
	}

	devices, err := backend.Devices(class)
	if err != nil {
		return DeviceInfo{}, fmt.Errorf("%w: enumerate %s devices: %w", ErrDeviceUnavailable, class, err)
	}

	if len(devices) == 0 {
		return DeviceInfo{}, fmt.Errorf("%w: backend %q has no %s device", ErrDeviceUnavailable, backend.Info().Name, class)
	}

	return devices[0], nil
}
