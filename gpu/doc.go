// Package gpu runs the benchmark's matrix product on a compute device.
//
// The package defines a small compute-backend capability modeled on the
// OpenCL host API: devices are enumerated by class, a context compiles kernel
// source into programs, buffers live on the device, and an in-order queue
// moves data and dispatches kernels over an index space. Multiply drives that
// capability end to end for one product and releases every handle it
// acquired on the way out.
//
// A pure-Go software backend is always available. It executes kernels on
// goroutines while presenting itself as a GPU-class device. OpenCL and CUDA
// backends are placeholders enabled with the "opencl" and "cuda" build tags.
package gpu
