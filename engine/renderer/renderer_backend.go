package renderer

import (
	"github.com/Carmen-Shannon/oxy-script/common"
	"github.com/Carmen-Shannon/oxy-script/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-script/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode = common.PresentMode

const (
	PresentModeVSync    = common.PresentModeVSync
	PresentModeUncapped = common.PresentModeUncapped
)

// SurfaceConfig is the last configuration applied to the presentable surface.
type SurfaceConfig struct {
	Width       uint32
	Height      uint32
	Format      wgpu.TextureFormat
	PresentMode PresentMode
}

// Color is a linear RGBA clear color.
type Color struct {
	R, G, B, A float64
}

// FrameStatus is the state of the frame protocol. Each DrawFrame call walks
// Idle → Acquiring → Recording → Submitted → Presented, or ends in Skipped.
type FrameStatus int

const (
	FrameIdle FrameStatus = iota
	FrameAcquiring
	FrameRecording
	FrameSubmitted
	FramePresented
	FrameSkipped
)

func (s FrameStatus) String() string {
	switch s {
	case FrameIdle:
		return "idle"
	case FrameAcquiring:
		return "acquiring"
	case FrameRecording:
		return "recording"
	case FrameSubmitted:
		return "submitted"
	case FramePresented:
		return "presented"
	case FrameSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Frame is an acquired presentable surface image. It must be either presented or discarded.
type Frame interface {
	Release()
}

// CommandBuffer is a finished, not yet submitted, recording of one frame.
type CommandBuffer interface {
	Release()
}

// RendererBackend is the GPU API implementation driven by the Renderer.
// All methods are called from the main thread.
type RendererBackend interface {
	// ConfigureSurface (re)configures the presentable surface. Callers guarantee width and height are non-zero.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	//   - mode: the PresentMode to configure
	ConfigureSurface(width, height uint32, mode PresentMode)

	// SurfaceFormat returns the pixel format chosen for the surface.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format used for color targets
	SurfaceFormat() wgpu.TextureFormat

	// RegisterShader compiles the shader's WGSL into a GPU shader module and stores it on the shader.
	//
	// Parameters:
	//   - s: the shader to compile
	//
	// Returns:
	//   - error: the driver diagnostic if compilation failed
	RegisterShader(s shader.Shader) error

	// RegisterRenderPipeline creates the GPU render pipeline described by p and stores it on p.
	//
	// Parameters:
	//   - p: the pipeline description, whose shader must already be registered
	//
	// Returns:
	//   - error: an error if the pipeline could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// AcquireFrame acquires the next presentable surface image.
	//
	// Returns:
	//   - Frame: the acquired image
	//   - error: ErrSurfaceLost or ErrSurfaceOutdated (wrapped) when the surface must be reconfigured, any other error otherwise
	AcquireFrame() (Frame, error)

	// RecordFrame records a render pass that clears the frame to clear, binds the pipeline and
	// issues one non-indexed draw starting at vertex 0 and instance 0.
	//
	// Parameters:
	//   - f: the acquired frame to render into
	//   - p: the registered render pipeline
	//   - clear: the clear color
	//   - vertexCount: the number of vertices to draw
	//   - instanceCount: the number of instances to draw
	//
	// Returns:
	//   - CommandBuffer: the finished command buffer
	//   - error: an error if recording failed
	RecordFrame(f Frame, p pipeline.Pipeline, clear Color, vertexCount, instanceCount uint32) (CommandBuffer, error)

	// Submit submits the command buffer to the queue without waiting for completion.
	//
	// Parameters:
	//   - cb: the command buffer to submit, released afterwards
	Submit(cb CommandBuffer)

	// Present presents the frame to the display and releases it.
	//
	// Parameters:
	//   - f: the frame to present
	Present(f Frame)

	// Discard releases an acquired frame without presenting it.
	//
	// Parameters:
	//   - f: the frame to release
	Discard(f Frame)

	// Release releases every GPU object owned by the backend.
	Release()
}
