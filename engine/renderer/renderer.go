package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-script/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-script/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-script/engine/resource"
	"github.com/Carmen-Shannon/oxy-script/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	logger *slog.Logger

	window  window.Window
	backend RendererBackend
	config  SurfaceConfig
	status  FrameStatus

	shaders   *resource.Table[shader.Shader]
	pipelines *resource.Table[pipeline.Pipeline]

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	shaderValidation     bool
	strictValidation     bool
	backendFactory       func(win window.Window, forceFallbackAdapter bool) (RendererBackend, error)
}

// Renderer is the graphics context: the single owner of the GPU device, the presentable surface
// and the shader and pipeline tables. Scripts only ever see the integer handles it returns.
//
// A Renderer is created once the native window exists and lives until process exit.
// It is not safe for concurrent use; every method must be called from the main thread.
type Renderer interface {
	// SurfaceConfig returns the last configuration applied to the surface.
	//
	// Returns:
	//   - SurfaceConfig: the current surface configuration
	SurfaceConfig() SurfaceConfig

	// Resize reconfigures the surface for a new size. Requests with a zero width or height
	// (e.g. while the window is minimized) are ignored and leave the configuration unchanged.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height uint32)

	// CreateShader compiles WGSL source into a shader module and stores it in the shader table.
	// No handle is allocated when compilation fails.
	//
	// Parameters:
	//   - source: the WGSL source code
	//
	// Returns:
	//   - resource.Handle: the handle of the new shader
	//   - error: a *ShaderCompileError carrying the diagnostic text
	CreateShader(source string) (resource.Handle, error)

	// CreatePipeline builds a render pipeline from a registered shader and stores it in the pipeline table.
	// The pipeline has no bound resource layouts, a single color target in the surface format with
	// replace blending, triangle-list topology and no depth or stencil attachment.
	//
	// Parameters:
	//   - shaderHandle: the handle returned by CreateShader
	//   - vertexEntry: the vertex stage entry point name
	//   - fragmentEntry: the fragment stage entry point name
	//
	// Returns:
	//   - resource.Handle: the handle of the new pipeline
	//   - error: a *resource.OutOfRangeError for an unknown shader handle or a *PipelineError
	CreatePipeline(shaderHandle resource.Handle, vertexEntry, fragmentEntry string) (resource.Handle, error)

	// DrawFrame acquires the next surface image, clears it, issues a single draw with the given
	// pipeline and presents it. A lost or outdated surface is reconfigured and acquisition retried
	// once; if no image can be acquired the frame is skipped and logged, and no error is returned.
	//
	// Parameters:
	//   - pipelineHandle: the handle returned by CreatePipeline
	//   - clear: the clear color
	//   - vertexCount: the number of vertices to draw
	//   - instanceCount: the number of instances to draw
	//
	// Returns:
	//   - FrameStatus: FramePresented, or FrameSkipped when the frame was abandoned
	//   - error: a *resource.OutOfRangeError for an unknown pipeline handle
	DrawFrame(pipelineHandle resource.Handle, clear Color, vertexCount, instanceCount uint32) (FrameStatus, error)

	// FrameStatus returns the state the frame protocol ended in on the last DrawFrame call.
	//
	// Returns:
	//   - FrameStatus: the last frame status
	FrameStatus() FrameStatus

	// ShaderCount returns the number of shaders in the shader table.
	ShaderCount() int

	// PipelineCount returns the number of pipelines in the pipeline table.
	PipelineCount() int

	// Release releases the GPU device and surface.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates the graphics context for a window. It selects an adapter compatible with the
// window's surface, requests a device and queue (blocking while the driver responds) and configures
// the surface from the window's framebuffer size, clamped to at least 1x1.
//
// Parameters:
//   - win: the native window the surface is bound to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the new graphics context
//   - error: a *SetupError if no compatible adapter or device is available
func NewRenderer(win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		logger:           slog.Default(),
		shaders:          resource.NewTable[shader.Shader]("shader"),
		pipelines:        resource.NewTable[pipeline.Pipeline]("pipeline"),
		presentMode:      PresentModeVSync,
		shaderValidation: true,
		backendFactory:   newWGPURendererBackend,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	backend, err := r.backendFactory(win, r.forceFallbackAdapter)
	if err != nil {
		var setupErr *SetupError
		if !errors.As(err, &setupErr) {
			err = &SetupError{Stage: "backend", Err: err}
		}
		return nil, err
	}
	r.backend = backend
	r.window = win

	width, height := win.Size()
	r.config = SurfaceConfig{
		Width:       max(width, 1),
		Height:      max(height, 1),
		PresentMode: r.presentMode,
	}
	r.configure()

	r.logger.Debug("graphics context created",
		slog.Any("width", r.config.Width),
		slog.Any("height", r.config.Height),
		slog.String("present_mode", r.config.PresentMode.String()))
	return r, nil
}

func (r *renderer) SurfaceConfig() SurfaceConfig {
	return r.config
}

func (r *renderer) Resize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	r.configure()
}

func (r *renderer) CreateShader(source string) (resource.Handle, error) {
	key := fmt.Sprintf("shader-%d", r.shaders.Len())
	s, err := shader.NewShader(key, source,
		shader.WithValidation(r.shaderValidation),
		shader.WithStrictValidation(r.strictValidation),
	)
	if err != nil {
		return 0, err
	}

	if err := r.backend.RegisterShader(s); err != nil {
		return 0, &ShaderCompileError{Key: key, Phase: shader.PhaseDriver, Diagnostics: []string{err.Error()}}
	}
	return r.shaders.Allocate(s), nil
}

func (r *renderer) CreatePipeline(shaderHandle resource.Handle, vertexEntry, fragmentEntry string) (resource.Handle, error) {
	s, err := r.shaders.Get(shaderHandle)
	if err != nil {
		return 0, err
	}

	key := fmt.Sprintf("pipeline-%d", r.pipelines.Len())
	p := pipeline.NewPipeline(key, s, vertexEntry, fragmentEntry)
	if err := p.Validate(); err != nil {
		return 0, &PipelineError{Key: key, Err: err}
	}
	if err := r.backend.RegisterRenderPipeline(p); err != nil {
		return 0, &PipelineError{Key: key, Err: err}
	}
	return r.pipelines.Allocate(p), nil
}

func (r *renderer) DrawFrame(pipelineHandle resource.Handle, clear Color, vertexCount, instanceCount uint32) (FrameStatus, error) {
	// Resolve the handle before acquiring so a bad handle never leaves an image unpresented.
	p, err := r.pipelines.Get(pipelineHandle)
	if err != nil {
		r.status = FrameIdle
		return r.status, err
	}

	r.status = FrameAcquiring
	r.syncSurfaceSize()
	frame, err := r.acquire()
	if err != nil {
		r.logger.Warn("frame skipped", slog.Any("error", err))
		r.status = FrameSkipped
		return r.status, nil
	}

	r.status = FrameRecording
	cb, err := r.backend.RecordFrame(frame, p, clear, vertexCount, instanceCount)
	if err != nil {
		r.backend.Discard(frame)
		r.logger.Warn("frame skipped", slog.String("pipeline", p.PipelineKey()), slog.Any("error", err))
		r.status = FrameSkipped
		return r.status, nil
	}

	r.backend.Submit(cb)
	r.status = FrameSubmitted

	r.backend.Present(frame)
	r.status = FramePresented
	return r.status, nil
}

func (r *renderer) FrameStatus() FrameStatus {
	return r.status
}

func (r *renderer) ShaderCount() int {
	return r.shaders.Len()
}

func (r *renderer) PipelineCount() int {
	return r.pipelines.Len()
}

func (r *renderer) Release() {
	if r.backend != nil {
		r.backend.Release()
	}
}

// configure applies the stored surface configuration to the backend and records the chosen format.
func (r *renderer) configure() {
	r.backend.ConfigureSurface(r.config.Width, r.config.Height, r.config.PresentMode)
	r.config.Format = r.backend.SurfaceFormat()
}

// syncSurfaceSize reconfigures the surface when the window's framebuffer size no longer matches
// the last configuration, e.g. after a resize that has not been delivered as an event yet.
// A zero size (minimized window) keeps the current configuration.
func (r *renderer) syncSurfaceSize() {
	width, height := r.window.Size()
	if width == 0 || height == 0 || (width == r.config.Width && height == r.config.Height) {
		return
	}
	r.logger.Debug("surface size drifted from window",
		slog.Any("width", width),
		slog.Any("height", height))
	r.Resize(width, height)
}

// acquire acquires the next surface image. A lost or outdated surface is reconfigured with the
// last known configuration and acquisition is retried exactly once.
func (r *renderer) acquire() (Frame, error) {
	frame, err := r.backend.AcquireFrame()
	if err == nil {
		return frame, nil
	}
	if !recoverable(err) {
		return nil, &SurfaceError{Err: err}
	}

	r.logger.Debug("reconfiguring surface", slog.Any("error", err))
	r.configure()

	frame, err = r.backend.AcquireFrame()
	if err != nil {
		return nil, &SurfaceError{Reconfigured: true, Err: err}
	}
	return frame, nil
}
