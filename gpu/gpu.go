// Package gpu provides the alternate escape-time backend.
//
// An Accelerator computes one iteration count per pixel off the CPU. Colors
// are always mapped on the CPU through the palette package, so a frame
// rendered on the device uses the same palette as the tile kernel.
//
// The device backend (ComputeAccelerator) dispatches a WGSL compute kernel
// through wgpu/hal on Vulkan. When no adapter is available, Init leaves the
// accelerator not ready and Render returns ErrFallbackToCPU; callers then
// render with kernel.Scheduler instead. Build with the nogpu tag to leave
// the device backend out entirely.
//
// Usage:
//
//	acc := gpu.NewComputeAccelerator()
//	_ = acc.Init()
//	defer acc.Close()
//	if err := gpu.Render(acc, fb, view, 256, pal); errors.Is(err, gpu.ErrFallbackToCPU) {
//		sched.Render(fb, view, 256, pal)
//	}
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/kernel"
	"github.com/gogpu/fractal/palette"
)

// ErrFallbackToCPU indicates the accelerator cannot serve the request and
// the caller should render on the CPU.
var ErrFallbackToCPU = errors.New("gpu: falling back to CPU")

// Accelerator computes escape-time iteration counts for a whole view.
type Accelerator interface {
	// Name identifies the backend in the HUD and in logs.
	Name() string

	// Init acquires the device. A missing device is not an error;
	// the accelerator just reports not ready.
	Init() error

	// Close releases every device resource.
	Close()

	// Ready reports whether Iterations can run.
	Ready() bool

	// Iterations writes the count for pixel (x, y) of a w×h screen to
	// dst[y*w+x]. len(dst) must be at least w*h.
	Iterations(dst []uint32, w, h int, view kernel.View, maxIter int) error
}

// Render computes the counts for every pixel of fb on acc and maps them
// through pal.
func Render(acc Accelerator, fb *fractal.Framebuffer, view kernel.View, maxIter int, pal palette.Palette) error {
	if acc == nil || !acc.Ready() {
		return ErrFallbackToCPU
	}
	w, h := fb.Width(), fb.Height()
	if w == 0 || h == 0 {
		return nil
	}

	counts := make([]uint32, w*h)
	if err := acc.Iterations(counts, w, h, view, maxIter); err != nil {
		return fmt.Errorf("gpu: %s: %w", acc.Name(), err)
	}

	for y := range h {
		row := counts[y*w : (y+1)*w]
		for x, n := range row {
			fb.Set(x, y, palette.Map(pal, int(n), maxIter))
		}
	}
	return nil
}
