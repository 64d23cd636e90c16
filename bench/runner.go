package bench

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/matbench"
	"github.com/cwbudde/matbench/gpu"
	"github.com/cwbudde/matbench/internal/reference"
)

// Runner executes the benchmark described by a matbench.Config.
type Runner struct {
	cfg     matbench.Config
	backend gpu.Backend
	class   gpu.DeviceClass
	logger  *slog.Logger
}

// NewRunner returns a runner for cfg. The config is validated by Run.
func NewRunner(cfg matbench.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		class:  gpu.ClassGPU,
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run generates the inputs, times the device path and then the sequential
// path, and compares the two products.
//
// The device duration spans device selection, kernel compilation, transfers,
// execution and read-back: it is the one-shot cost, not steady-state
// throughput. Any fatal error aborts the run with a nil report. A mismatch
// is returned in the report and, when cfg.FailOnMismatch is set, also as an
// error wrapping matbench.ErrResultMismatch.
func (r *Runner) Run() (*Report, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	a, b, err := matbench.Generate(r.cfg.Seed, r.cfg.N)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("inputs generated", "n", r.cfg.N, "seed", r.cfg.Seed)

	start := time.Now()
	res, err := gpu.Multiply(r.backend, a, b, gpu.MultiplyOptions{Class: r.class, Logger: r.logger})
	deviceDuration := time.Since(start)

	if err != nil {
		return nil, fmt.Errorf("device path: %w", err)
	}

	r.logger.Info("device path done", "device", res.Device.Name, "duration", deviceDuration)

	start = time.Now()
	seq, err := matbench.MultiplySequential(a, b)
	sequentialDuration := time.Since(start)

	if err != nil {
		return nil, fmt.Errorf("sequential path: %w", err)
	}

	r.logger.Info("sequential path done", "duration", sequentialDuration)

	cmp, err := matbench.Compare(res.C, seq, r.cfg.Tolerance)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Config:             r.cfg,
		Device:             res.Device,
		DeviceDuration:     deviceDuration,
		SequentialDuration: sequentialDuration,
		SizeA:              a.Len(),
		SizeB:              b.Len(),
		SizeC:              res.C.Len(),
		Comparison:         cmp,
	}

	if r.cfg.Reference {
		exact := reference.MulFloat32(a.Data(), b.Data(), r.cfg.N)
		devErr, _ := reference.MaxAbsError(res.C.Data(), exact)
		seqErr, _ := reference.MaxAbsError(seq.Data(), exact)

		report.Reference = &ReferenceErrors{Device: devErr, Sequential: seqErr}
	}

	if !cmp.Match {
		r.logger.Warn("results do not match", "index", cmp.Index, "diff", cmp.Diff, "tolerance", cmp.Tolerance)

		if r.cfg.FailOnMismatch {
			return report, fmt.Errorf("%w: index %d differs by %g (tolerance %g)",
				matbench.ErrResultMismatch, cmp.Index, cmp.Diff, cmp.Tolerance)
		}
	}

	return report, nil
}
