// Package cpu describes the host processor.
//
// The software compute backend uses it to label its emulated device with the
// instruction-set extensions the host actually offers.
package cpu

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// Features reports the SIMD extensions detected on the host.
type Features struct {
	HasSSE2      bool
	HasSSE41     bool
	HasAVX       bool
	HasAVX2      bool
	HasAVX512    bool
	HasFMA       bool
	HasNEON      bool
	HasSVE       bool
	Architecture string
}

// DetectFeatures reports the available CPU features for the current process.
func DetectFeatures() Features {
	return Features{
		HasSSE2:      cpu.X86.HasSSE2,
		HasSSE41:     cpu.X86.HasSSE41,
		HasAVX:       cpu.X86.HasAVX,
		HasAVX2:      cpu.X86.HasAVX2,
		HasAVX512:    cpu.X86.HasAVX512,
		HasFMA:       cpu.X86.HasFMA,
		HasNEON:      cpu.ARM64.HasASIMD,
		HasSVE:       cpu.ARM64.HasSVE,
		Architecture: runtime.GOARCH,
	}
}

// String renders the features as "arch:ext,ext,...", or just the
// architecture when no extension was detected.
func (f Features) String() string {
	exts := f.Extensions()
	if len(exts) == 0 {
		return f.Architecture
	}

	return f.Architecture + ":" + strings.Join(exts, ",")
}

// Extensions lists the detected extensions in a fixed order.
func (f Features) Extensions() []string {
	var exts []string

	for _, e := range []struct {
		ok   bool
		name string
	}{
		{f.HasSSE2, "sse2"},
		{f.HasSSE41, "sse4.1"},
		{f.HasAVX, "avx"},
		{f.HasAVX2, "avx2"},
		{f.HasAVX512, "avx512"},
		{f.HasFMA, "fma"},
		{f.HasNEON, "neon"},
		{f.HasSVE, "sve"},
	} {
		if e.ok {
			exts = append(exts, e.name)
		}
	}

	return exts
}
