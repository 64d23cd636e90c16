//go:build opencl

package gpu

// OpenCLBackendName is the registry name of the OpenCL backend.
const OpenCLBackendName = "opencl"

func init() {
	RegisterBackendFactory(OpenCLBackendName, func() Backend { return &OpenCLBackend{} })
}

// OpenCLBackend is a stub backend enabled with the "opencl" build tag.
// It reports itself unavailable until an ICD loader binding is wired in.
type OpenCLBackend struct{}

func (b *OpenCLBackend) Info() BackendInfo {
	return BackendInfo{
		Name:        OpenCLBackendName,
		Version:     "stub",
		Description: "OpenCL backend stub (no implementation)",
	}
}

func (b *OpenCLBackend) Available() bool {
	return false
}

func (b *OpenCLBackend) Devices(_ DeviceClass) ([]DeviceInfo, error) {
	return nil, ErrNotImplemented
}

func (b *OpenCLBackend) NewContext(_ DeviceInfo) (Context, error) {
	return nil, ErrNotImplemented
}

// RegisterOpenCLBackend registers the OpenCL backend stub.
func RegisterOpenCLBackend() {
	RegisterBackend(&OpenCLBackend{})
}
