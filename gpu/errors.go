package gpu

import (
	"errors"
	"strings"
)

var (
	// ErrNoBackend is returned when no backend is registered or passed in.
	ErrNoBackend = errors.New("matbench/gpu: no backend registered")

	// ErrDeviceUnavailable is returned when no device of the requested class
	// exists, or the backend is not usable on this system.
	ErrDeviceUnavailable = errors.New("matbench/gpu: device unavailable")

	// ErrCompilation is returned when kernel source fails to build.
	// The concrete error is a *CompileError carrying the build log.
	ErrCompilation = errors.New("matbench/gpu: kernel compilation failed")

	// ErrExecution is returned when a transfer, dispatch or synchronize fails.
	ErrExecution = errors.New("matbench/gpu: execution failed")

	// ErrInvalidArgument is returned for malformed calls into a backend:
	// wrong buffer sizes, unset or mistyped kernel arguments, bad ranges.
	ErrInvalidArgument = errors.New("matbench/gpu: invalid argument")

	// ErrReleased is returned when a handle is used after Close.
	ErrReleased = errors.New("matbench/gpu: handle already released")

	// ErrNotImplemented is returned by stubbed backends.
	ErrNotImplemented = errors.New("matbench/gpu: not implemented")
)

// CompileError reports a failed program build together with the backend's
// diagnostic output, verbatim.
type CompileError struct {
	Options string
	Log     string
}

func (e *CompileError) Error() string {
	var sb strings.Builder

	sb.WriteString(ErrCompilation.Error())

	if e.Options != "" {
		sb.WriteString(" (options: ")
		sb.WriteString(e.Options)
		sb.WriteString(")")
	}

	if e.Log != "" {
		sb.WriteString(":\n")
		sb.WriteString(e.Log)
	}

	return sb.String()
}

func (e *CompileError) Unwrap() error {
	return ErrCompilation
}
