package renderer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Carmen-Shannon/oxy-script/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-script/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-script/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackendImpl struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
}

// wgpuFrame is an acquired swapchain texture and its view.
type wgpuFrame struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (f *wgpuFrame) Release() {
	if f.view != nil {
		f.view.Release()
		f.view = nil
	}
	if f.texture != nil {
		f.texture.Release()
		f.texture = nil
	}
}

type wgpuCommandBuffer struct {
	buffer *wgpu.CommandBuffer
}

func (c *wgpuCommandBuffer) Release() {
	if c.buffer != nil {
		c.buffer.Release()
		c.buffer = nil
	}
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend brings up the instance, surface, adapter, device and queue for a window.
// Every object acquired before a failure is released again.
func newWGPURendererBackend(win window.Window, forceFallbackAdapter bool) (RendererBackend, error) {
	desc := win.SurfaceDescriptor()
	if desc == nil {
		return nil, &SetupError{Stage: "surface", Err: errors.New("window has no native surface")}
	}

	b := &wgpuRendererBackendImpl{
		instance: wgpu.CreateInstance(nil),
	}
	b.surface = b.instance.CreateSurface(desc)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, &SetupError{Stage: "adapter", Err: err}
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		b.Release()
		return nil, &SetupError{Stage: "device", Err: err}
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		b.Release()
		return nil, &SetupError{Stage: "surface", Err: errors.New("surface is not compatible with the adapter")}
	}
	b.surfaceFormat = capabilities.Formats[0]

	return b, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height uint32, mode PresentMode) {
	capabilities := b.surface.GetCapabilities(b.adapter)

	presentMode := wgpu.PresentModeFifo
	if mode == PresentModeUncapped {
		presentMode = wgpu.PresentModeImmediate
	}

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       width,
		Height:      height,
		PresentMode: presentMode,
		AlphaMode:   preferredAlphaMode(capabilities.AlphaModes),
	})
}

func (b *wgpuRendererBackendImpl) SurfaceFormat() wgpu.TextureFormat {
	return b.surfaceFormat
}

func (b *wgpuRendererBackendImpl) RegisterShader(s shader.Shader) error {
	module, err := b.device.CreateShaderModule(s.Descriptor())
	if err != nil {
		return err
	}
	s.SetModule(module)
	return nil
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	module := p.Shader().Module()
	if module == nil {
		return fmt.Errorf("shader %q is not registered", p.Shader().Key())
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label: p.PipelineKey() + " Layout",
	})
	if err != nil {
		return err
	}
	defer pipelineLayout.Release()

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.VertexEntry(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.FragmentEntry(),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    b.surfaceFormat,
					Blend:     p.BlendState(),
					WriteMask: p.WriteMask(),
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}
	p.SetRenderPipeline(created)
	return nil
}

func (b *wgpuRendererBackendImpl) AcquireFrame() (Frame, error) {
	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return nil, classifyAcquireError(err)
	}
	if textureIsNull(surfaceTexture) {
		return nil, fmt.Errorf("%w: surface returned no texture", ErrSurfaceOutdated)
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, err
	}
	return &wgpuFrame{texture: surfaceTexture, view: view}, nil
}

func (b *wgpuRendererBackendImpl) RecordFrame(f Frame, p pipeline.Pipeline, clear Color, vertexCount, instanceCount uint32) (CommandBuffer, error) {
	frame, ok := f.(*wgpuFrame)
	if !ok {
		return nil, fmt.Errorf("unexpected frame type %T", f)
	}
	renderPipeline := p.RenderPipeline()
	if renderPipeline == nil {
		return nil, fmt.Errorf("render pipeline %q is not registered", p.PipelineKey())
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    frame.view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: clear.R, G: clear.G, B: clear.B, A: clear.A,
				},
			},
		},
	})
	pass.SetPipeline(renderPipeline)
	pass.Draw(vertexCount, instanceCount, 0, 0)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return nil, err
	}
	return &wgpuCommandBuffer{buffer: commandBuffer}, nil
}

func (b *wgpuRendererBackendImpl) Submit(cb CommandBuffer) {
	buffer, ok := cb.(*wgpuCommandBuffer)
	if !ok || buffer.buffer == nil {
		return
	}
	b.queue.Submit(buffer.buffer)
	buffer.Release()
}

func (b *wgpuRendererBackendImpl) Present(f Frame) {
	b.surface.Present()
	f.Release()
}

func (b *wgpuRendererBackendImpl) Discard(f Frame) {
	f.Release()
}

func (b *wgpuRendererBackendImpl) Release() {
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// preferredAlphaMode returns the first supported alpha mode, or Auto when the surface reports none.
func preferredAlphaMode(modes []wgpu.CompositeAlphaMode) wgpu.CompositeAlphaMode {
	if len(modes) == 0 {
		return wgpu.CompositeAlphaModeAuto
	}
	return modes[0]
}

// textureIsNull reports whether t wraps a null WGPUTexture. The bindings drop the
// WGPUSurfaceTexture status, so a lost, outdated or timed out surface only shows up as a
// texture without a native handle.
func textureIsNull(t *wgpu.Texture) bool {
	if t == nil {
		return true
	}
	ref := reflect.ValueOf(t).Elem().FieldByName("ref")
	return ref.IsValid() && ref.Kind() == reflect.Pointer && ref.IsNil()
}

// classifyAcquireError maps validation errors raised while acquiring the surface texture onto
// the sentinels the frame protocol retries on. The Go bindings only expose the cause in the
// error text.
func classifyAcquireError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "outdated"):
		return fmt.Errorf("%w: %v", ErrSurfaceOutdated, err)
	case strings.Contains(msg, "lost"):
		return fmt.Errorf("%w: %v", ErrSurfaceLost, err)
	default:
		return err
	}
}
