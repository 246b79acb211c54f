// Package windowtest provides in-memory Window and ActiveEventLoop implementations for tests
// that must run without a display.
package windowtest

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-script/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window is a fake window.Window. Title and size are taken from the options passed to
// Loop.CreateWindow, using the same defaults as the GLFW window.
type Window struct {
	TitleText      string
	Width, Height  uint32
	RedrawRequests int
	Closed         bool
}

var _ window.Window = &Window{}

func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return nil
}

func (w *Window) Size() (uint32, uint32) {
	return w.Width, w.Height
}

func (w *Window) Title() string {
	return w.TitleText
}

func (w *Window) RequestRedraw() {
	w.RedrawRequests++
}

func (w *Window) Close() error {
	if w.Closed {
		return errors.New("window is not open")
	}
	w.Closed = true
	return nil
}

// Loop is a fake window.ActiveEventLoop that records created windows and exit requests.
type Loop struct {
	Windows   []*Window
	Exited    bool
	CreateErr error
}

var _ window.ActiveEventLoop = &Loop{}

// CreateWindow builds a Window from the options. It fails with CreateErr when set.
func (l *Loop) CreateWindow(options ...window.WindowBuilderOption) (window.Window, error) {
	if l.CreateErr != nil {
		return nil, l.CreateErr
	}
	title, width, height := window.Resolve(options...)
	w := &Window{TitleText: title, Width: width, Height: height}
	l.Windows = append(l.Windows, w)
	return w, nil
}

func (l *Loop) Exit() {
	l.Exited = true
}

// Resize simulates a framebuffer resize on w and delivers the event to h.
func (l *Loop) Resize(h window.Handler, w *Window, width, height uint32) {
	w.Width, w.Height = width, height
	h.WindowEvent(l, w, window.Resized{Width: width, Height: height})
}

// Redraw delivers one RedrawRequested event if w has an outstanding redraw request.
// It reports whether an event was delivered.
func (l *Loop) Redraw(h window.Handler, w *Window) bool {
	if w.RedrawRequests == 0 {
		return false
	}
	w.RedrawRequests = 0
	h.WindowEvent(l, w, window.RedrawRequested{})
	return true
}

// Close delivers CloseRequested to h.
func (l *Loop) Close(h window.Handler, w *Window) {
	h.WindowEvent(l, w, window.CloseRequested{})
}
