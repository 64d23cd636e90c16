package bench

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cwbudde/matbench"
	"github.com/cwbudde/matbench/gpu"
)

// Report is the outcome of one benchmark run.
type Report struct {
	Config             matbench.Config
	Device             gpu.DeviceInfo
	DeviceDuration     time.Duration
	SequentialDuration time.Duration
	SizeA, SizeB       int
	SizeC              int
	Comparison         matbench.Comparison

	// Reference is set when the run measured both results against a
	// float64 product.
	Reference *ReferenceErrors
}

// ReferenceErrors holds the maximum absolute error of each path against the
// float64 reference product.
type ReferenceErrors struct {
	Device     float64
	Sequential float64
}

// WriteTo writes the human-readable console report.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Device: %s\n", r.Device.Name)
	fmt.Fprintf(&sb, "Duration: %g seconds (device)\n", r.DeviceDuration.Seconds())
	fmt.Fprintf(&sb, "Duration: %g seconds (sequential)\n", r.SequentialDuration.Seconds())
	fmt.Fprintf(&sb, "Size of matrix A: %d\n", r.SizeA)
	fmt.Fprintf(&sb, "Size of matrix B: %d\n", r.SizeB)
	fmt.Fprintf(&sb, "Size of matrix C: %d\n", r.SizeC)
	fmt.Fprintf(&sb, "%s\n", r.Comparison)

	if r.Reference != nil {
		fmt.Fprintf(&sb, "Max error vs float64 (device): %g\n", r.Reference.Device)
		fmt.Fprintf(&sb, "Max error vs float64 (sequential): %g\n", r.Reference.Sequential)
	}

	n, err := io.WriteString(w, sb.String())

	return int64(n), err
}
