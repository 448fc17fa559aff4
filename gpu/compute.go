//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/kernel"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// fenceTimeout bounds the wait for one frame of dispatches.
const fenceTimeout = 5 * time.Second

// ComputeAccelerator runs the escape kernel as a wgpu/hal compute pipeline.
//
// Every frame uploads the view parameters, zeroes the orbit buffer, encodes
// Passes(maxIter) compute passes into one command buffer, waits on a fence
// and reads the orbit states back.
type ComputeAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	adapterName    string
	ready          bool
	externalDevice bool // true when using a shared device (don't destroy on Close)
}

var _ Accelerator = (*ComputeAccelerator)(nil)

// NewComputeAccelerator returns an accelerator that has not acquired a
// device yet. Call Init before use.
func NewComputeAccelerator() *ComputeAccelerator {
	return &ComputeAccelerator{}
}

// Name returns "gpu".
func (a *ComputeAccelerator) Name() string { return "gpu" }

// Adapter returns the name of the adapter in use, or "" when not ready.
func (a *ComputeAccelerator) Adapter() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.adapterName
}

// Ready reports whether a device and pipeline are available.
func (a *ComputeAccelerator) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ready
}

// Init opens the first discrete or integrated Vulkan adapter and builds the
// pipeline. When no device can be opened the accelerator stays not ready and
// Init still returns nil.
func (a *ComputeAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ready {
		return nil
	}
	if err := a.initGPU(); err != nil {
		fractal.Logger().Warn("gpu: device init failed, using CPU", "err", err)
		a.releaseLocked()
	}
	return nil
}

// Close releases the pipeline and, unless the device is shared, the device.
func (a *ComputeAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseLocked()
}

func (a *ComputeAccelerator) releaseLocked() {
	a.destroyPipeline()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	a.device = nil
	a.instance = nil
	a.queue = nil
	a.ready = false
	a.externalDevice = false
	a.adapterName = ""
}

// SetDeviceProvider switches the accelerator to a shared device from a
// provider exposing HalDevice() any and HalQueue() any.
func (a *ComputeAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return errors.New("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return errors.New("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return errors.New("gpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.releaseLocked()
	a.device = device
	a.queue = queue
	a.externalDevice = true
	a.adapterName = "shared"

	if err := a.createPipeline(); err != nil {
		a.ready = false
		return fmt.Errorf("gpu: create pipeline with shared device: %w", err)
	}
	a.ready = true
	fractal.Logger().Info("gpu: switched to shared device")
	return nil
}

// Iterations runs the escape kernel for a w×h view and writes the counts
// to dst.
func (a *ComputeAccelerator) Iterations(dst []uint32, w, h int, view kernel.View, maxIter int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.ready {
		return ErrFallbackToCPU
	}
	if w <= 0 || h <= 0 {
		return nil
	}
	if len(dst) < w*h {
		return fmt.Errorf("gpu: destination holds %d counts, need %d", len(dst), w*h)
	}
	if maxIter <= 0 {
		clear(dst[:w*h])
		return nil
	}
	return a.dispatch(dst[:w*h], w, h, view, maxIter)
}

func (a *ComputeAccelerator) dispatch(dst []uint32, w, h int, view kernel.View, maxIter int) error {
	orbitBufSize := uint64(w*h) * orbitStateSize //nolint:gosec // dimensions always fit

	paramsBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "escape_params", Size: paramsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create params buffer: %w", err)
	}
	defer a.device.DestroyBuffer(paramsBuf)

	orbitBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "escape_orbits", Size: orbitBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create orbit buffer: %w", err)
	}
	defer a.device.DestroyBuffer(orbitBuf)

	stagingBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "escape_staging", Size: orbitBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(stagingBuf)

	a.queue.WriteBuffer(paramsBuf, 0, NewEscapeParams(view, w, h, maxIter).Bytes())
	a.queue.WriteBuffer(orbitBuf, 0, make([]byte, orbitBufSize))

	bg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "escape_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: orbitBuf.NativeHandle(), Offset: 0, Size: orbitBufSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bg)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "escape_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("escape"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	// Passes share one bind group; storage writes are visible to the next pass.
	gx, gy := Workgroups(w, h)
	passes := Passes(maxIter)
	for range passes {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "escape_pass"})
		pass.SetPipeline(a.pipeline)
		pass.SetBindGroup(0, bg, nil)
		pass.Dispatch(gx, gy, 1)
		pass.End()
	}

	encoder.CopyBufferToBuffer(orbitBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: orbitBufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, orbitBufSize)
	if err := a.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpackCounts(dst, readback)

	fractal.Logger().Debug("gpu: escape dispatch", "width", w, "height", h, "passes", passes)
	return nil
}

func (a *ComputeAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return errors.New("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return errors.New("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	if err := a.createPipeline(); err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	a.adapterName = selected.Info.Name
	a.ready = true
	fractal.Logger().Info("gpu: escape accelerator initialized", "adapter", a.adapterName)
	return nil
}

func (a *ComputeAccelerator) createPipeline() error {
	spirv, err := CompileSPIRV(EscapeShaderWGSL)
	if err != nil {
		return err
	}
	shader, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "escape",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create escape shader module: %w", err)
	}
	a.shader = shader

	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "escape_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "escape_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "escape_pipeline", Layout: a.pipeLayout,
		Compute: hal.ComputeState{Module: a.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	a.pipeline = pipeline
	return nil
}

func (a *ComputeAccelerator) destroyPipeline() {
	if a.device == nil {
		return
	}
	if a.pipeline != nil {
		a.device.DestroyComputePipeline(a.pipeline)
		a.pipeline = nil
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
	if a.shader != nil {
		a.device.DestroyShaderModule(a.shader)
		a.shader = nil
	}
}
