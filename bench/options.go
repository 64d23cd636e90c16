package bench

import (
	"log/slog"

	"github.com/cwbudde/matbench/gpu"
)

// Option configures a Runner.
type Option func(*Runner)

// WithBackend sets the compute backend for the device path. Without it the
// backend registered with gpu.RegisterBackend is used.
func WithBackend(b gpu.Backend) Option {
	return func(r *Runner) { r.backend = b }
}

// WithDeviceClass selects the device class for the device path (default GPU).
func WithDeviceClass(c gpu.DeviceClass) Option {
	return func(r *Runner) { r.class = c }
}

// WithLogger sets the logger for progress messages. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}
