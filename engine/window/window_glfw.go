package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool
}

// glfwEventLoop implements EventLoop and ActiveEventLoop on top of GLFW polling.
type glfwEventLoop struct {
	windows []*engineWindow
	exit    bool
}

var (
	_ EventLoop       = &glfwEventLoop{}
	_ ActiveEventLoop = &glfwEventLoop{}
)

// Run initializes GLFW, resumes the handler once and then polls until Exit is called.
//
// GLFW reference: https://www.glfw.org/docs/latest/input_guide.html#events
func (l *glfwEventLoop) Run(h Handler) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfw.Terminate()

	h.Resumed(l)

	for !l.exit {
		glfw.PollEvents()

		for _, w := range l.windows {
			gw, ok := w.internalWindow.(*glfwWindow)
			if !ok || !gw.running {
				continue
			}
			// The close flag is cleared so the handler alone decides whether to exit.
			if gw.window.ShouldClose() {
				gw.window.SetShouldClose(false)
				w.push(CloseRequested{})
			}
		}

		for _, w := range l.windows {
			for _, ev := range w.drain() {
				h.WindowEvent(l, w, ev)
				if l.exit {
					break
				}
			}
			if l.exit {
				break
			}
			if w.redrawRequested {
				w.redrawRequested = false
				h.WindowEvent(l, w, RedrawRequested{})
			}
			if l.exit {
				break
			}
		}
	}

	for _, w := range l.windows {
		_ = w.Close()
	}
	l.windows = nil
	return nil
}

func (l *glfwEventLoop) CreateWindow(options ...WindowBuilderOption) (Window, error) {
	w := newWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	l.windows = append(l.windows, w)
	return w, nil
}

func (l *glfwEventLoop) Exit() {
	l.exit = true
}

// newPlatformWindow creates the GLFW window with its resize callback and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}

	if w.minWidth > 0 || w.minHeight > 0 || w.maxWidth > 0 || w.maxHeight > 0 {
		win.SetSizeLimits(sizeLimit(w.minWidth), sizeLimit(w.minHeight), sizeLimit(w.maxWidth), sizeLimit(w.maxHeight))
	}

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
	}
	w.internalWindow = gw

	// Use framebuffer size callback for pixel-accurate resize events.
	// On high-DPI displays (e.g., macOS Retina), framebuffer size differs from window size.
	// The renderer requires pixel dimensions for correct surface configuration.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetFramebufferSizeCallback
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		w.push(Resized{Width: uint32(max(width, 0)), Height: uint32(max(height, 0))})
	})

	// Update stored dimensions to reflect actual framebuffer size (may differ from requested on high-DPI).
	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width = fbWidth
	w.height = fbHeight

	return nil
}

func sizeLimit(v int) int {
	if v <= 0 {
		return glfw.DontCare
	}
	return v
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
// Uses the wgpuglfw bridge package which has per-platform implementations (Windows, X11, Wayland, macOS).
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok || !gw.running {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// platformCloseWindow destroys the GLFW window.
// Returns an error if the internal window has not been initialized or is already closed.
func platformCloseWindow(w *engineWindow) error {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok || !gw.running {
		return errors.New("window is not open")
	}
	gw.running = false
	gw.window.Destroy()
	return nil
}
