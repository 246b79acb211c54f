package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-script/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the underlying WebGPU render pipeline and the configuration used to create it.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used as the GPU object label
	pipelineKey string

	// shader holds both entry points; a single WGSL module carries the vertex and fragment stages
	shader        shader.Shader
	vertexEntry   string
	fragmentEntry string

	// renderPipeline is nil until the renderer backend registers the pipeline
	renderPipeline *wgpu.RenderPipeline

	cullMode   wgpu.CullMode
	topology   wgpu.PrimitiveTopology
	frontFace  wgpu.FrontFace
	writeMask  wgpu.ColorWriteMask
	blendState *wgpu.BlendState
}

// Pipeline defines the interface for a render pipeline built from a single shader module with
// a vertex and a fragment entry point. Pipelines have no bound resource layouts, a single color
// target and no depth or stencil attachment.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader returns the shader module providing both entry points.
	//
	// Returns:
	//   - shader.Shader: the pipeline's shader
	Shader() shader.Shader

	// VertexEntry returns the name of the vertex stage entry point.
	//
	// Returns:
	//   - string: the vertex entry point name
	VertexEntry() string

	// FragmentEntry returns the name of the fragment stage entry point.
	//
	// Returns:
	//   - string: the fragment entry point name
	FragmentEntry() string

	// Validate checks the entry point names against the shader's reflected entry points.
	// Shaders without reflection data always pass and are left to the driver.
	//
	// Returns:
	//   - error: an *EntryPointError if an entry point is missing or belongs to the wrong stage
	Validate() error

	// RenderPipeline returns the GPU render pipeline, or nil if it has not been registered yet.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the compiled render pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeBack)
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline (e.g., wgpu.PrimitiveTopologyTriangleList)
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline (e.g., wgpu.FrontFaceCCW)
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline (e.g., wgpu.ColorWriteMaskAll)
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state of the color target.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state for this pipeline
	BlendState() *wgpu.BlendState

	// SetRenderPipeline sets the render pipeline.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// BlendReplace writes the source color and alpha over the destination unchanged.
func BlendReplace() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorZero,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorZero,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// NewPipeline creates a render Pipeline with the fixed state every script pipeline uses:
// triangle-list topology, no culling, counter-clockwise front faces, replace blending and a
// full write mask.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - s: the shader module providing both entry points
//   - vertexEntry: the vertex stage entry point name
//   - fragmentEntry: the fragment stage entry point name
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, s shader.Shader, vertexEntry, fragmentEntry string) Pipeline {
	return &pipeline{
		pipelineKey:   pipelineKey,
		shader:        s,
		vertexEntry:   vertexEntry,
		fragmentEntry: fragmentEntry,
		cullMode:      wgpu.CullModeNone,
		topology:      wgpu.PrimitiveTopologyTriangleList,
		frontFace:     wgpu.FrontFaceCCW,
		writeMask:     wgpu.ColorWriteMaskAll,
		blendState:    BlendReplace(),
	}
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) VertexEntry() string {
	return p.vertexEntry
}

func (p *pipeline) FragmentEntry() string {
	return p.fragmentEntry
}

func (p *pipeline) Validate() error {
	if p.shader == nil {
		return fmt.Errorf("pipeline %q has no shader", p.pipelineKey)
	}
	if !p.shader.Reflected() {
		return nil
	}
	if err := checkEntry(p.shader, p.vertexEntry, shader.ShaderTypeVertex); err != nil {
		return err
	}
	return checkEntry(p.shader, p.fragmentEntry, shader.ShaderTypeFragment)
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

// EntryPointError reports an entry point that the shader does not declare for the expected stage.
type EntryPointError struct {
	Shader string
	Name   string
	Want   shader.ShaderType
	// Found is nil when no entry point with Name exists.
	Found *shader.ShaderType
}

func (e *EntryPointError) Error() string {
	if e.Found == nil {
		return fmt.Sprintf("shader %q has no entry point %q", e.Shader, e.Name)
	}
	return fmt.Sprintf("entry point %q of shader %q is a %s stage, expected %s", e.Name, e.Shader, *e.Found, e.Want)
}

func checkEntry(s shader.Shader, name string, want shader.ShaderType) error {
	ep, ok := s.EntryPoint(name)
	if !ok {
		return &EntryPointError{Shader: s.Key(), Name: name, Want: want}
	}
	if ep.Stage != want {
		found := ep.Stage
		return &EntryPointError{Shader: s.Key(), Name: name, Want: want, Found: &found}
	}
	return nil
}
