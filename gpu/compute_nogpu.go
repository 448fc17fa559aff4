//go:build nogpu

package gpu

import "github.com/gogpu/fractal/kernel"

// ComputeAccelerator is never ready in nogpu builds.
type ComputeAccelerator struct{}

var _ Accelerator = (*ComputeAccelerator)(nil)

// NewComputeAccelerator returns an accelerator that always falls back to CPU.
func NewComputeAccelerator() *ComputeAccelerator { return &ComputeAccelerator{} }

func (*ComputeAccelerator) Name() string                { return "gpu" }
func (*ComputeAccelerator) Adapter() string             { return "" }
func (*ComputeAccelerator) Init() error                 { return nil }
func (*ComputeAccelerator) Close()                      {}
func (*ComputeAccelerator) Ready() bool                 { return false }
func (*ComputeAccelerator) SetDeviceProvider(any) error { return ErrFallbackToCPU }

func (*ComputeAccelerator) Iterations([]uint32, int, int, kernel.View, int) error {
	return ErrFallbackToCPU
}
