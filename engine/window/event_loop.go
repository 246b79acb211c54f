package window

// Event is a window event delivered to a Handler.
type Event interface {
	isEvent()
}

// CloseRequested is delivered when the user asks to close the window. The window stays open
// until the handler exits the loop or closes it.
type CloseRequested struct{}

// Resized is delivered when the framebuffer size changes. Either dimension may be zero while
// the window is minimized.
type Resized struct {
	Width  uint32
	Height uint32
}

// RedrawRequested is delivered once per loop iteration for a window that called RequestRedraw.
type RedrawRequested struct{}

func (CloseRequested) isEvent()  {}
func (Resized) isEvent()         {}
func (RedrawRequested) isEvent() {}

// Handler receives the lifecycle and window events of an EventLoop.
type Handler interface {
	// Resumed is called when the application becomes active and windows may be created.
	// It is called at least once, before any WindowEvent.
	//
	// Parameters:
	//   - loop: the running event loop
	Resumed(loop ActiveEventLoop)

	// WindowEvent is called for every event of a window created through the loop.
	//
	// Parameters:
	//   - loop: the running event loop
	//   - w: the window the event belongs to
	//   - ev: the event
	WindowEvent(loop ActiveEventLoop, w Window, ev Event)
}

// ActiveEventLoop is the view of a running event loop available to a Handler.
type ActiveEventLoop interface {
	// CreateWindow creates a native window owned by the loop.
	//
	// Parameters:
	//   - options: functional options to configure the window
	//
	// Returns:
	//   - Window: the created window
	//   - error: error if the platform window could not be created
	CreateWindow(options ...WindowBuilderOption) (Window, error)

	// Exit ends the loop after the current event has been handled.
	Exit()
}

// EventLoop drives a Handler from native window events.
type EventLoop interface {
	// Run blocks on the calling thread until Exit is called. Must be called from the main thread.
	//
	// Parameters:
	//   - h: the handler receiving events
	//
	// Returns:
	//   - error: error if the platform could not be initialized
	Run(h Handler) error
}

// NewEventLoop creates the platform event loop. The loop polls continuously and never blocks
// waiting for events, so a handler that requests a redraw on every RedrawRequested repaints
// on every iteration.
//
// Returns:
//   - EventLoop: the platform event loop
func NewEventLoop() EventLoop {
	return &glfwEventLoop{}
}
