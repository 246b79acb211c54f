package window

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Window is a native window created by an event loop. Input and resize notifications are not
// delivered through the Window itself but as Events to the loop's Handler.
type Window interface {
	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Size returns the current framebuffer size in pixels. On high-DPI displays this differs
	// from the window size in screen coordinates.
	//
	// Returns:
	//   - uint32: width in pixels
	//   - uint32: height in pixels
	Size() (width, height uint32)

	// Title returns the window title displayed in the title bar.
	//
	// Returns:
	//   - string: the window title
	Title() string

	// RequestRedraw asks the event loop to deliver a RedrawRequested event for this window
	// on its next iteration. Multiple requests before that iteration coalesce into one event.
	RequestRedraw()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was already closed
	Close() error
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state and the per-iteration event queue.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// maxWidth is the maximum allowed window width during resize, 0 for no limit.
	maxWidth int

	// maxHeight is the maximum allowed window height during resize, 0 for no limit.
	maxHeight int

	// minWidth is the minimum allowed window width during resize, 0 for no limit.
	minWidth int

	// minHeight is the minimum allowed window height during resize, 0 for no limit.
	minHeight int

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// redrawRequested is set by RequestRedraw and cleared when RedrawRequested is dispatched.
	redrawRequested bool

	// pending holds events collected from platform callbacks during the last poll.
	pending []Event
}

var _ Window = &engineWindow{}

// newWindow applies default values first, then each option in order.
func newWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:  "Custom JS Runtime",
		width:  800,
		height: 600,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) Size() (uint32, uint32) {
	return uint32(max(w.width, 0)), uint32(max(w.height, 0))
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) RequestRedraw() {
	w.redrawRequested = true
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

// push queues an event for dispatch after the current poll.
func (w *engineWindow) push(ev Event) {
	w.pending = append(w.pending, ev)
}

// drain returns and clears the queued events.
func (w *engineWindow) drain() []Event {
	events := w.pending
	w.pending = nil
	return events
}
