package gpu

import (
	"fmt"
	"log/slog"
)

// DeviceClass selects the kind of device to enumerate.
type DeviceClass uint8

const (
	ClassGPU DeviceClass = iota
	ClassCPU
	ClassAccelerator
	ClassAll
)

func (c DeviceClass) String() string {
	switch c {
	case ClassGPU:
		return "gpu"
	case ClassCPU:
		return "cpu"
	case ClassAccelerator:
		return "accelerator"
	case ClassAll:
		return "all"
	default:
		return fmt.Sprintf("DeviceClass(%d)", uint8(c))
	}
}

// ParseDeviceClass maps "gpu", "cpu", "accelerator" or "all" to a DeviceClass.
func ParseDeviceClass(s string) (DeviceClass, error) {
	for _, c := range []DeviceClass{ClassGPU, ClassCPU, ClassAccelerator, ClassAll} {
		if c.String() == s {
			return c, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown device class %q", ErrInvalidArgument, s)
}

// Matches reports whether a device of class c satisfies a request for want.
func (c DeviceClass) Matches(want DeviceClass) bool {
	return want == ClassAll || c == want
}

// AccessMode describes how kernels may access a device buffer.
type AccessMode uint8

const (
	ReadWrite AccessMode = iota
	ReadOnly
	WriteOnly
)

func (m AccessMode) String() string {
	switch m {
	case ReadWrite:
		return "read-write"
	case ReadOnly:
		return "read-only"
	case WriteOnly:
		return "write-only"
	default:
		return fmt.Sprintf("AccessMode(%d)", uint8(m))
	}
}

// DeviceInfo describes a compute device.
type DeviceInfo struct {
	Name         string
	Vendor       string
	Driver       string
	Class        DeviceClass
	ComputeUnits int
	MemoryMB     int
	ComputeCap   string
}

// BackendInfo describes a backend implementation.
type BackendInfo struct {
	Name        string
	Version     string
	Description string
}

// NDRange is a global index space of up to two dimensions. A zero Y means a
// one-dimensional range.
type NDRange struct {
	X, Y int
}

// Size returns the number of work-items in the range.
func (r NDRange) Size() int {
	if r.Y == 0 {
		return r.X
	}

	return r.X * r.Y
}

// MultiplyOptions controls device selection for Multiply.
type MultiplyOptions struct {
	// Class is the device class to run on. The zero value selects a GPU.
	// There is no fallback to another class.
	Class DeviceClass

	// Logger receives device selection and progress messages.
	// Nil discards them.
	Logger *slog.Logger
}
