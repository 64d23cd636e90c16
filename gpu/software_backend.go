package gpu

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/matbench/internal/cpu"
)

// SoftwareBackendName is the registry name of the software backend.
const SoftwareBackendName = "software"

func init() {
	RegisterBackendFactory(SoftwareBackendName, func() Backend {
		return NewSoftwareBackend(SoftwareOptions{})
	})
}

// SoftwareOptions configures a SoftwareBackend.
type SoftwareOptions struct {
	// Name is the advertised device name. Default "Go Software GPU".
	Name string

	// Class is the advertised device class. The zero value is ClassGPU.
	Class DeviceClass

	// Workers bounds the goroutines executing work-items of one dispatch.
	// Zero or negative means GOMAXPROCS.
	Workers int

	// MemoryLimit caps the total bytes of live buffers. Zero means unlimited.
	MemoryLimit int64

	// Logger receives compile and dispatch messages. Nil discards them.
	Logger *slog.Logger
}

// SoftwareBackend executes kernels on the host with goroutines while
// presenting a single device of the configured class. It compiles only the
// kernels it has a built-in implementation for.
type SoftwareBackend struct {
	opts   SoftwareOptions
	device DeviceInfo
	logger *slog.Logger
	open   atomic.Int64
}

// NewSoftwareBackend returns a software backend with one device.
func NewSoftwareBackend(opts SoftwareOptions) *SoftwareBackend {
	if opts.Name == "" {
		opts.Name = "Go Software GPU"
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &SoftwareBackend{
		opts: opts,
		device: DeviceInfo{
			Name:         opts.Name,
			Vendor:       "matbench",
			Driver:       SoftwareBackendName,
			Class:        opts.Class,
			ComputeUnits: opts.Workers,
			MemoryMB:     int(opts.MemoryLimit >> 20),
			ComputeCap:   cpu.DetectFeatures().String(),
		},
		logger: logger.With("backend", SoftwareBackendName),
	}
}

// RegisterSoftwareBackend registers a default software backend as the
// active backend.
func RegisterSoftwareBackend() {
	RegisterBackend(NewSoftwareBackend(SoftwareOptions{}))
}

func (b *SoftwareBackend) Info() BackendInfo {
	return BackendInfo{
		Name:        SoftwareBackendName,
		Version:     "1.0",
		Description: "goroutine-backed software device",
	}
}

func (b *SoftwareBackend) Available() bool {
	return true
}

func (b *SoftwareBackend) Devices(class DeviceClass) ([]DeviceInfo, error) {
	if !b.device.Class.Matches(class) {
		return nil, nil
	}

	return []DeviceInfo{b.device}, nil
}

func (b *SoftwareBackend) NewContext(device DeviceInfo) (Context, error) {
	if device != b.device {
		return nil, fmt.Errorf("%w: %q is not a device of this backend", ErrDeviceUnavailable, device.Name)
	}

	b.open.Add(1)

	return &softwareContext{backend: b, logger: b.logger.With("device", device.Name)}, nil
}

// OpenHandles reports how many contexts, programs, kernels, buffers and
// queues created by this backend have not been closed yet.
func (b *SoftwareBackend) OpenHandles() int {
	return int(b.open.Load())
}

// handle is the release bookkeeping shared by every software handle.
type handle struct {
	backend *SoftwareBackend
	closed  atomic.Bool
}

// release reports whether this call performed the release.
func (h *handle) release() bool {
	if !h.closed.CompareAndSwap(false, true) {
		return false
	}

	h.backend.open.Add(-1)

	return true
}

func (h *handle) check(what string) error {
	if h.closed.Load() {
		return fmt.Errorf("%w: %s", ErrReleased, what)
	}

	return nil
}

type softwareContext struct {
	backend *SoftwareBackend
	logger  *slog.Logger

	mu        sync.Mutex
	allocated int64
	closed    bool
}

func (c *softwareContext) Device() DeviceInfo {
	return c.backend.device
}

func (c *softwareContext) Compile(source, options string) (Program, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	kernels, log, err := compileSoftware(source, options)
	if err != nil {
		c.logger.Warn("program build failed", "options", options, "log", log)
		return nil, err
	}

	c.logger.Debug("program built", "options", options, "kernels", len(kernels))

	c.backend.open.Add(1)

	return &softwareProgram{
		handle:  handle{backend: c.backend},
		ctx:     c,
		kernels: kernels,
		log:     log,
	}, nil
}

func (c *softwareContext) NewBuffer(mode AccessMode, elemCount int) (Buffer, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	if elemCount <= 0 {
		return nil, fmt.Errorf("%w: buffer size %d", ErrInvalidArgument, elemCount)
	}

	size := int64(elemCount) * 4

	c.mu.Lock()
	if limit := c.backend.opts.MemoryLimit; limit > 0 && c.allocated+size > limit {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: out of device memory: %d bytes requested, %d of %d in use",
			ErrExecution, size, c.allocated, limit)
	}
	c.allocated += size
	c.mu.Unlock()

	c.backend.open.Add(1)

	return &softwareBuffer{
		handle: handle{backend: c.backend},
		ctx:    c,
		mode:   mode,
		data:   make([]float32, elemCount),
	}, nil
}

func (c *softwareContext) NewQueue() (Queue, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	c.backend.open.Add(1)

	return &softwareQueue{
		handle:  handle{backend: c.backend},
		ctx:     c,
		workers: c.backend.opts.Workers,
	}, nil
}

func (c *softwareContext) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		c.backend.open.Add(-1)
	}

	return nil
}

func (c *softwareContext) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("%w: context", ErrReleased)
	}

	return nil
}

func (c *softwareContext) free(size int64) {
	c.mu.Lock()
	c.allocated -= size
	c.mu.Unlock()
}

type softwareBuffer struct {
	handle
	ctx  *softwareContext
	mode AccessMode
	data []float32
}

func (b *softwareBuffer) Len() int {
	return len(b.data)
}

func (b *softwareBuffer) Mode() AccessMode {
	return b.mode
}

func (b *softwareBuffer) Close() error {
	if b.release() {
		b.ctx.free(int64(len(b.data)) * 4)
	}

	return nil
}

type softwareProgram struct {
	handle
	ctx     *softwareContext
	kernels map[string]*softwareKernel
	log     string
}

func (p *softwareProgram) BuildLog() string {
	return p.log
}

func (p *softwareProgram) Kernel(name string) (Kernel, error) {
	if err := p.check("program"); err != nil {
		return nil, err
	}

	impl, ok := p.kernels[name]
	if !ok {
		return nil, fmt.Errorf("%w: no kernel named %q in program", ErrCompilation, name)
	}

	p.backend.open.Add(1)

	return &softwareKernelHandle{
		handle: handle{backend: p.backend},
		ctx:    p.ctx,
		name:   name,
		impl:   impl,
		args:   make([]any, len(impl.params)),
	}, nil
}

func (p *softwareProgram) Close() error {
	p.release()
	return nil
}

type softwareKernelHandle struct {
	handle
	ctx  *softwareContext
	name string
	impl *softwareKernel
	args []any
}

func (k *softwareKernelHandle) Name() string {
	return k.name
}

func (k *softwareKernelHandle) SetArg(index int, value any) error {
	if err := k.check("kernel " + k.name); err != nil {
		return err
	}

	if index < 0 || index >= len(k.args) {
		return fmt.Errorf("%w: kernel %s has %d arguments, got index %d", ErrInvalidArgument, k.name, len(k.args), index)
	}

	switch k.impl.params[index] {
	case argBuffer:
		buf, ok := value.(*softwareBuffer)
		if !ok || buf.ctx != k.ctx {
			return fmt.Errorf("%w: kernel %s argument %d must be a buffer of the same context, got %T",
				ErrInvalidArgument, k.name, index, value)
		}

		k.args[index] = buf
	case argInt:
		switch v := value.(type) {
		case int32:
			k.args[index] = v
		case int:
			if int(int32(v)) != v {
				return fmt.Errorf("%w: kernel %s argument %d overflows int: %d", ErrInvalidArgument, k.name, index, v)
			}

			k.args[index] = int32(v)
		default:
			return fmt.Errorf("%w: kernel %s argument %d must be an int, got %T", ErrInvalidArgument, k.name, index, value)
		}
	}

	return nil
}

func (k *softwareKernelHandle) Close() error {
	k.release()
	return nil
}

// softwareQueue is in-order and not safe for concurrent use.
type softwareQueue struct {
	handle
	ctx     *softwareContext
	workers int
	pending chan error
}

func (q *softwareQueue) Write(dst Buffer, src []float32) error {
	buf, err := q.buffer(dst)
	if err != nil {
		return err
	}

	if err := q.wait(); err != nil {
		return err
	}

	if len(src) != len(buf.data) {
		return fmt.Errorf("%w: write of %d elements into buffer of %d", ErrInvalidArgument, len(src), len(buf.data))
	}

	copy(buf.data, src)

	return nil
}

func (q *softwareQueue) Read(dst []float32, src Buffer) error {
	buf, err := q.buffer(src)
	if err != nil {
		return err
	}

	if err := q.wait(); err != nil {
		return err
	}

	if len(dst) != len(buf.data) {
		return fmt.Errorf("%w: read of buffer of %d elements into %d", ErrInvalidArgument, len(buf.data), len(dst))
	}

	copy(dst, buf.data)

	return nil
}

func (q *softwareQueue) Dispatch(kernel Kernel, global NDRange) error {
	if err := q.check("queue"); err != nil {
		return err
	}

	k, ok := kernel.(*softwareKernelHandle)
	if !ok || k.ctx != q.ctx {
		return fmt.Errorf("%w: kernel %T does not belong to this context", ErrInvalidArgument, kernel)
	}

	if err := k.check("kernel " + k.name); err != nil {
		return err
	}

	if global.X <= 0 || global.Y < 0 {
		return fmt.Errorf("%w: global range %+v", ErrInvalidArgument, global)
	}

	for i, arg := range k.args {
		if arg == nil {
			return fmt.Errorf("%w: kernel %s argument %d not set", ErrInvalidArgument, k.name, i)
		}

		buf, isBuf := arg.(*softwareBuffer)
		if !isBuf {
			continue
		}

		if err := buf.check(fmt.Sprintf("kernel %s argument %d", k.name, i)); err != nil {
			return err
		}

		if k.impl.writes[i] && buf.mode == ReadOnly {
			return fmt.Errorf("%w: kernel %s writes argument %d, a %s buffer", ErrInvalidArgument, k.name, i, buf.mode)
		}
	}

	item, err := k.impl.bind(k.args, global)
	if err != nil {
		return fmt.Errorf("kernel %s: %w", k.name, err)
	}

	if err := q.wait(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- q.run(k.name, item, global)
	}()
	q.pending = done

	q.ctx.logger.Debug("kernel enqueued", "kernel", k.name, "global", global, "workers", q.workers)

	return nil
}

func (q *softwareQueue) Synchronize() error {
	if err := q.check("queue"); err != nil {
		return err
	}

	return q.wait()
}

func (q *softwareQueue) Close() error {
	// Drain so no work-item outlives the queue.
	if err := q.wait(); err != nil {
		q.ctx.logger.Warn("queue closed with pending kernel fault", "error", err)
	}

	q.release()

	return nil
}

func (q *softwareQueue) buffer(b Buffer) (*softwareBuffer, error) {
	if err := q.check("queue"); err != nil {
		return nil, err
	}

	buf, ok := b.(*softwareBuffer)
	if !ok || buf.ctx != q.ctx {
		return nil, fmt.Errorf("%w: buffer %T does not belong to this context", ErrInvalidArgument, b)
	}

	if err := buf.check("buffer"); err != nil {
		return nil, err
	}

	return buf, nil
}

func (q *softwareQueue) wait() error {
	if q.pending == nil {
		return nil
	}

	err := <-q.pending
	q.pending = nil

	return err
}

// run executes every work-item of global, handing each worker a contiguous
// band of rows (global id 0).
func (q *softwareQueue) run(name string, item workItem, global NDRange) error {
	rows, cols := global.X, max(global.Y, 1)
	band := (rows + q.workers - 1) / q.workers

	var g errgroup.Group
	g.SetLimit(q.workers)

	for start := 0; start < rows; start += band {
		end := min(start+band, rows)

		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: kernel %s faulted in rows [%d,%d): %v", ErrExecution, name, start, end, r)
				}
			}()

			for i := start; i < end; i++ {
				for j := range cols {
					item(i, j)
				}
			}

			return nil
		})
	}

	return g.Wait()
}
