// Package bridge implements the fixed set of graphics operations a script may call. Every
// operation except SetWindowConfig borrows the graphics context from the shared Slot and fails
// with a PreconditionError while the Slot is still empty.
package bridge

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-script/engine/renderer"
	"github.com/Carmen-Shannon/oxy-script/engine/resource"
)

// Op identifies one of the bridge operations. The set is closed.
type Op int

const (
	OpCreateWindow Op = iota
	OpCreateShaderModule
	OpCreateRenderPipeline
	OpDrawFrame
)

// Ops lists every operation in dispatch order.
var Ops = []Op{OpCreateWindow, OpCreateShaderModule, OpCreateRenderPipeline, OpDrawFrame}

// String returns the script facing name of the operation.
func (o Op) String() string {
	switch o {
	case OpCreateWindow:
		return "createWindow"
	case OpCreateShaderModule:
		return "createShaderModule"
	case OpCreateRenderPipeline:
		return "createRenderPipeline"
	case OpDrawFrame:
		return "drawFrame"
	default:
		return "unknown"
	}
}

// Bridge binds the session state and the graphics context Slot to the script callable operations.
// The Bridge never creates or destroys the graphics context; it only borrows what the application
// controller published.
type Bridge struct {
	logger  *slog.Logger
	session *Session
	slot    *renderer.Slot
}

// NewBridge creates a Bridge over the given session and slot.
//
// Parameters:
//   - session: the process wide session state
//   - slot: the slot the application controller publishes the graphics context into
//   - options: variadic list of BridgeBuilderOption functions
//
// Returns:
//   - *Bridge: the new Bridge
func NewBridge(session *Session, slot *renderer.Slot, options ...BridgeBuilderOption) *Bridge {
	b := &Bridge{
		logger:  slog.Default(),
		session: session,
		slot:    slot,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// Session returns the session state.
func (b *Bridge) Session() *Session {
	return b.session
}

// Slot returns the graphics context slot.
func (b *Bridge) Slot() *renderer.Slot {
	return b.slot
}

// SetWindowConfig stores the window request. Once the window exists the call is logged and
// ignored without validating its arguments.
//
// Parameters:
//   - title: the window title
//   - width: the window width in pixels, at least 1
//   - height: the window height in pixels, at least 1
//
// Returns:
//   - error: ErrInvalidWindowSize for a zero width or height before the window exists
func (b *Bridge) SetWindowConfig(title string, width, height uint32) error {
	if b.session.WindowCreated() {
		b.logger.Warn("createWindow ignored, window already exists",
			slog.String("title", title),
			slog.Any("width", width),
			slog.Any("height", height))
		return nil
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidWindowSize, width, height)
	}
	b.session.config = WindowConfig{Title: title, Width: width, Height: height}
	return nil
}

// CreateShaderModule compiles WGSL source in the graphics context.
//
// Parameters:
//   - source: the WGSL source code
//
// Returns:
//   - resource.Handle: the shader handle
//   - error: a *PreconditionError, or the error from Renderer.CreateShader
func (b *Bridge) CreateShaderModule(source string) (resource.Handle, error) {
	var h resource.Handle
	err := b.borrow(OpCreateShaderModule, func(r renderer.Renderer) error {
		var err error
		h, err = r.CreateShader(source)
		return err
	})
	return h, err
}

// CreateRenderPipeline builds a render pipeline in the graphics context.
//
// Parameters:
//   - shader: a handle returned by CreateShaderModule
//   - vertexEntry: the vertex stage entry point
//   - fragmentEntry: the fragment stage entry point
//
// Returns:
//   - resource.Handle: the pipeline handle
//   - error: a *PreconditionError, or the error from Renderer.CreatePipeline
func (b *Bridge) CreateRenderPipeline(shader resource.Handle, vertexEntry, fragmentEntry string) (resource.Handle, error) {
	var h resource.Handle
	err := b.borrow(OpCreateRenderPipeline, func(r renderer.Renderer) error {
		var err error
		h, err = r.CreatePipeline(shader, vertexEntry, fragmentEntry)
		return err
	})
	return h, err
}

// DrawFrame draws one frame with a single pipeline.
//
// Parameters:
//   - pipeline: a handle returned by CreateRenderPipeline
//   - r, g, b, a: the clear color
//   - vertexCount: the number of vertices
//   - instanceCount: the number of instances
//
// Returns:
//   - renderer.FrameStatus: how the frame ended
//   - error: a *PreconditionError, or the error from Renderer.DrawFrame
func (b *Bridge) DrawFrame(pipeline resource.Handle, red, green, blue, alpha float64, vertexCount, instanceCount uint32) (renderer.FrameStatus, error) {
	status := renderer.FrameIdle
	err := b.borrow(OpDrawFrame, func(r renderer.Renderer) error {
		var err error
		status, err = r.DrawFrame(pipeline, renderer.Color{R: red, G: green, B: blue, A: alpha}, vertexCount, instanceCount)
		return err
	})
	return status, err
}

func (b *Bridge) borrow(op Op, fn func(renderer.Renderer) error) error {
	err := b.slot.Borrow(fn)
	if errors.Is(err, renderer.ErrContextAbsent) {
		return &PreconditionError{Op: op, Err: err}
	}
	return err
}
