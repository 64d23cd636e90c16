// Package matbench benchmarks dense square matrix multiplication.
//
// The root package holds the host-side pieces: the row-major float32 Matrix,
// the deterministic input generator, the naive sequential multiplier used as
// the reference, and the tolerance-based result comparator. Device execution
// lives in the gpu subpackage and the timed end-to-end run in bench.
package matbench
