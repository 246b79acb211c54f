// Package renderertest provides a recording renderer.RendererBackend for tests that must run
// without a GPU.
package renderertest

import (
	"github.com/Carmen-Shannon/oxy-script/engine/renderer"
	"github.com/Carmen-Shannon/oxy-script/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-script/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Configure is one recorded ConfigureSurface call.
type Configure struct {
	Width, Height uint32
	Mode          renderer.PresentMode
}

// Draw is one recorded RecordFrame call.
type Draw struct {
	Pipeline      string
	Clear         renderer.Color
	VertexCount   uint32
	InstanceCount uint32
}

type frame struct {
	released bool
}

func (f *frame) Release() { f.released = true }

type commandBuffer struct {
	draw Draw
}

func (c *commandBuffer) Release() {}

// Backend records every call made by a Renderer. Errors set on the struct are returned by
// the matching method; AcquireErrs is consumed front to back, one entry per AcquireFrame call.
type Backend struct {
	Format wgpu.TextureFormat

	Configures []Configure
	Shaders    []shader.Shader
	Pipelines  []pipeline.Pipeline
	Draws      []Draw
	Submitted  []Draw
	Acquired   int
	Presented  int
	Discarded  int
	Released   bool

	ShaderErr   error
	PipelineErr error
	RecordErr   error
	AcquireErrs []error
}

var _ renderer.RendererBackend = &Backend{}

// NewBackend creates a Backend reporting a BGRA8 unorm surface format.
func NewBackend() *Backend {
	return &Backend{Format: wgpu.TextureFormatBGRA8Unorm}
}

func (b *Backend) ConfigureSurface(width, height uint32, mode renderer.PresentMode) {
	b.Configures = append(b.Configures, Configure{Width: width, Height: height, Mode: mode})
}

func (b *Backend) SurfaceFormat() wgpu.TextureFormat {
	return b.Format
}

func (b *Backend) RegisterShader(s shader.Shader) error {
	if b.ShaderErr != nil {
		return b.ShaderErr
	}
	b.Shaders = append(b.Shaders, s)
	return nil
}

func (b *Backend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if b.PipelineErr != nil {
		return b.PipelineErr
	}
	b.Pipelines = append(b.Pipelines, p)
	return nil
}

func (b *Backend) AcquireFrame() (renderer.Frame, error) {
	if len(b.AcquireErrs) > 0 {
		err := b.AcquireErrs[0]
		b.AcquireErrs = b.AcquireErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	b.Acquired++
	return &frame{}, nil
}

func (b *Backend) RecordFrame(_ renderer.Frame, p pipeline.Pipeline, clear renderer.Color, vertexCount, instanceCount uint32) (renderer.CommandBuffer, error) {
	if b.RecordErr != nil {
		return nil, b.RecordErr
	}
	d := Draw{Pipeline: p.PipelineKey(), Clear: clear, VertexCount: vertexCount, InstanceCount: instanceCount}
	b.Draws = append(b.Draws, d)
	return &commandBuffer{draw: d}, nil
}

func (b *Backend) Submit(cb renderer.CommandBuffer) {
	if c, ok := cb.(*commandBuffer); ok {
		b.Submitted = append(b.Submitted, c.draw)
	}
	cb.Release()
}

func (b *Backend) Present(f renderer.Frame) {
	b.Presented++
	f.Release()
}

func (b *Backend) Discard(f renderer.Frame) {
	b.Discarded++
	f.Release()
}

func (b *Backend) Release() {
	b.Released = true
}

// LastConfigure returns the most recent ConfigureSurface call.
func (b *Backend) LastConfigure() (Configure, bool) {
	if len(b.Configures) == 0 {
		return Configure{}, false
	}
	return b.Configures[len(b.Configures)-1], true
}
