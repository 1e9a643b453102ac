// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	// Vulkan registers itself with hal.
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/promap"
	"github.com/gogpu/promap/calibration"
	"github.com/gogpu/promap/edgeblend"
	"github.com/gogpu/promap/frame"
)

// fenceTimeout bounds one GPU round trip.
const fenceTimeout = 2 * time.Second

// PostAccelerator runs the post-process compute pass on a wgpu/hal device.
// It implements promap.PostProcessor.
type PostAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	gpuReady       bool
	externalDevice bool
}

var _ promap.PostProcessor = (*PostAccelerator)(nil)

// Name returns "wgpu-post".
func (a *PostAccelerator) Name() string { return "wgpu-post" }

// SetLogger routes accelerator diagnostics to l.
func (a *PostAccelerator) SetLogger(l *slog.Logger) { setLogger(l) }

// Init opens a device. Failure is logged and leaves the accelerator in
// CPU fallback mode; Init itself never fails.
func (a *PostAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		slogger().Warn("gpu post-process unavailable, using CPU", "err", err)
		a.releaseLocked()
	}
	return nil
}

// Ready reports whether Process runs on the GPU.
func (a *PostAccelerator) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gpuReady
}

// Close releases pipelines and, unless the device is shared, the device.
func (a *PostAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseLocked()
}

func (a *PostAccelerator) releaseLocked() {
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
	a.queue = nil
	a.instance = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetDeviceProvider switches to a device shared by the host. The provider
// must expose HalDevice() any and HalQueue() any returning hal types.
func (a *PostAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return errors.New("gpu-post: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return errors.New("gpu-post: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return errors.New("gpu-post: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseLocked()
	a.device = device
	a.queue = queue
	a.externalDevice = true
	if err := a.createPipeline(); err != nil {
		return fmt.Errorf("gpu-post: create pipeline on shared device: %w", err)
	}
	a.gpuReady = true
	slogger().Info("gpu post-process switched to shared device")
	return nil
}

// Process applies eb and cal to f on the GPU. It returns
// promap.ErrFallbackToCPU when no device is ready.
func (a *PostAccelerator) Process(f *frame.Frame, eb edgeblend.Config, cal calibration.Calibration) error {
	params := newPostParams(f.Width, f.Height, eb, cal)
	if params.Flags == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return promap.ErrFallbackToCPU
	}
	if err := a.dispatch(f, params); err != nil {
		slogger().Warn("gpu post-process failed", "err", err, "width", f.Width, "height", f.Height)
		return fmt.Errorf("%w: %w", promap.ErrFallbackToCPU, err)
	}
	return nil
}

func (a *PostAccelerator) dispatch(f *frame.Frame, params postParams) error {
	pixelBytes := unsafe.Slice((*byte)(unsafe.Pointer(&f.Pix[0])), len(f.Pix)*4) //nolint:gosec // float32 pixels viewed as bytes
	size := uint64(len(pixelBytes))

	uniform, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "post_params", Size: postParamsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	defer a.device.DestroyBuffer(uniform)

	storage, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "post_pixels", Size: size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create storage buffer: %w", err)
	}
	defer a.device.DestroyBuffer(storage)

	staging, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "post_staging", Size: size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(staging)

	a.queue.WriteBuffer(uniform, 0, params.bytes())
	a.queue.WriteBuffer(storage, 0, pixelBytes)

	bg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "post_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniform.NativeHandle(), Size: postParamsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: storage.NativeHandle(), Size: size}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bg)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "post_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("post"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "post_pass"})
	pass.SetPipeline(a.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch((params.Width+7)/8, (params.Height+7)/8, 1)
	pass.End()
	encoder.CopyBufferToBuffer(storage, staging, []hal.BufferCopy{{Size: size}})
	cmd, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmd)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmd}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := a.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !ok {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", ok, err)
	}
	if err := a.queue.ReadBuffer(staging, 0, pixelBytes); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	return nil
}

func (a *PostAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return errors.New("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return errors.New("no GPU adapters found")
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	open, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = open.Device
	a.queue = open.Queue

	if err := a.createPipeline(); err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	a.gpuReady = true
	slogger().Info("gpu post-process initialized", "adapter", selected.Info.Name)
	return nil
}

func (a *PostAccelerator) createPipeline() error {
	spirv, err := compileWGSL(postShaderWGSL)
	if err != nil {
		return err
	}
	a.shader, err = a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "post_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}

	a.bindLayout, err = a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "post_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}

	a.pipeLayout, err = a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "post_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	a.pipeline, err = a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "post_pipeline", Layout: a.pipeLayout,
		Compute: hal.ComputeState{Module: a.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	return nil
}

func (a *PostAccelerator) destroyPipeline() {
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

// compileWGSL compiles WGSL to little-endian SPIR-V words.
func compileWGSL(src string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
