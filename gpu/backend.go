package gpu

import (
	"fmt"
	"slices"
	"sync"
)

// Backend is implemented by compute backends (software, OpenCL, CUDA, ...).
// It is responsible for device discovery and for opening device contexts.
type Backend interface {
	Info() BackendInfo
	Available() bool
	// Devices lists the devices of the given class, in the backend's
	// preference order. An empty list is not an error.
	Devices(class DeviceClass) ([]DeviceInfo, error)
	NewContext(device DeviceInfo) (Context, error)
}

// Context represents a backend-specific execution context tied to a device.
type Context interface {
	Device() DeviceInfo
	// Compile builds kernel source text with the given build options.
	// Build failures are reported as *CompileError.
	Compile(source, options string) (Program, error)
	// NewBuffer allocates a device buffer of elemCount float32 values.
	NewBuffer(mode AccessMode, elemCount int) (Buffer, error)
	// NewQueue creates an in-order command queue.
	NewQueue() (Queue, error)
	Close() error
}

// Program is a compiled kernel program.
type Program interface {
	BuildLog() string
	Kernel(name string) (Kernel, error)
	Close() error
}

// Kernel is an entry point of a Program with bound arguments.
type Kernel interface {
	Name() string
	// SetArg binds argument index to a Buffer or a scalar.
	SetArg(index int, value any) error
	Close() error
}

// Buffer is a device buffer of float32 values.
type Buffer interface {
	Len() int
	Mode() AccessMode
	Close() error
}

// Queue is an in-order command queue. Write and Read block until the
// transfer completed. Dispatch may return before the kernel finished;
// a later Read or Synchronize waits for it.
type Queue interface {
	Write(dst Buffer, src []float32) error
	Dispatch(kernel Kernel, global NDRange) error
	Read(dst []float32, src Buffer) error
	Synchronize() error
	Close() error
}

var (
	backendMu sync.RWMutex
	backend   Backend
	factories = map[string]func() Backend{}
)

// RegisterBackend registers the active backend. Passing nil clears it.
func RegisterBackend(b Backend) {
	backendMu.Lock()
	backend = b
	backendMu.Unlock()
}

// CurrentBackendInfo reports the currently registered backend, if any.
func CurrentBackendInfo() (BackendInfo, bool) {
	b := getBackend()
	if b == nil {
		return BackendInfo{}, false
	}

	return b.Info(), true
}

func getBackend() Backend {
	backendMu.RLock()
	b := backend
	backendMu.RUnlock()

	return b
}

// RegisterBackendFactory makes a backend constructible by name through
// NewBackend. Registering a name twice replaces the earlier factory.
func RegisterBackendFactory(name string, factory func() Backend) {
	backendMu.Lock()
	factories[name] = factory
	backendMu.Unlock()
}

// NewBackend constructs the backend registered under name.
func NewBackend(name string) (Backend, error) {
	backendMu.RLock()
	factory, ok := factories[name]
	backendMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: unknown backend %q (have %v)", ErrNoBackend, name, BackendNames())
	}

	return factory(), nil
}

// BackendNames lists the names accepted by NewBackend, sorted.
func BackendNames() []string {
	backendMu.RLock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	backendMu.RUnlock()

	slices.Sort(names)

	return names
}
