//go:build cuda

package gpu

// CUDABackendName is the registry name of the CUDA backend.
const CUDABackendName = "cuda"

func init() {
	RegisterBackendFactory(CUDABackendName, func() Backend { return &CUDABackend{} })
}

// CUDABackend is a stub backend enabled with the "cuda" build tag.
// CUDA takes PTX rather than OpenCL C, so a real implementation also needs
// its own kernel source.
type CUDABackend struct{}

func (b *CUDABackend) Info() BackendInfo {
	return BackendInfo{
		Name:        CUDABackendName,
		Version:     "stub",
		Description: "CUDA backend stub (no implementation)",
	}
}

func (b *CUDABackend) Available() bool {
	return false
}

func (b *CUDABackend) Devices(_ DeviceClass) ([]DeviceInfo, error) {
	return nil, ErrNotImplemented
}

func (b *CUDABackend) NewContext(_ DeviceInfo) (Context, error) {
	return nil, ErrNotImplemented
}

// RegisterCUDABackend registers the CUDA backend stub.
func RegisterCUDABackend() {
	RegisterBackend(&CUDABackend{})
}
