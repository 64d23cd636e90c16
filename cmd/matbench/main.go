// Command matbench times a dense float32 matrix product on a compute device
// and with the naive sequential loop, and checks that both agree.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/cwbudde/matbench"
	"github.com/cwbudde/matbench/bench"
	"github.com/cwbudde/matbench/gpu"
)

const (
	exitOK       = 0
	exitMismatch = 1
	exitFailure  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	def := matbench.DefaultConfig()

	fs := flag.NewFlagSet("matbench", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		n         = fs.Int("n", def.N, "matrix order N")
		seed      = fs.Uint("seed", uint(def.Seed), "input generator seed")
		tolerance = fs.Float64("tolerance", def.Tolerance, "absolute per-element tolerance")
		backend   = fs.String("backend", gpu.SoftwareBackendName, "compute backend: "+strings.Join(gpu.BackendNames(), ", "))
		class     = fs.String("device-class", gpu.ClassGPU.String(), "device class: gpu, cpu, accelerator, all")
		workers   = fs.Int("workers", 0, "software backend workers (0 = GOMAXPROCS)")
		ref       = fs.Bool("reference", def.Reference, "also report the error against a float64 product")
		strict    = fs.Bool("strict", def.FailOnMismatch, "exit with status 1 when the results do not match")
		logLevel  = fs.String("log-level", "warn", "log level: debug, info, warn, error")
	)

	if err := fs.Parse(args); err != nil {
		return exitFailure
	}

	if *seed > math.MaxUint32 {
		fmt.Fprintf(stderr, "invalid -seed %d: must fit in 32 bits\n", *seed)
		return exitFailure
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(stderr, "invalid -log-level: %v\n", err)
		return exitFailure
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deviceClass, err := gpu.ParseDeviceClass(*class)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	b, err := newBackend(*backend, *workers, logger)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	cfg := matbench.Config{
		N:              *n,
		Seed:           uint32(*seed),
		Tolerance:      *tolerance,
		FailOnMismatch: *strict,
		Reference:      *ref,
	}

	report, err := bench.NewRunner(cfg,
		bench.WithBackend(b),
		bench.WithDeviceClass(deviceClass),
		bench.WithLogger(logger),
	).Run()

	if report != nil {
		if _, werr := report.WriteTo(stdout); werr != nil {
			fmt.Fprintf(stderr, "write report: %v\n", werr)
			return exitFailure
		}
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, matbench.ErrResultMismatch):
		fmt.Fprintln(stderr, err)
		return exitMismatch
	default:
		fmt.Fprintf(stderr, "matbench: %v\n", err)
		return exitFailure
	}
}

func newBackend(name string, workers int, logger *slog.Logger) (gpu.Backend, error) {
	if name == gpu.SoftwareBackendName {
		return gpu.NewSoftwareBackend(gpu.SoftwareOptions{Workers: workers, Logger: logger}), nil
	}

	return gpu.NewBackend(name)
}
