package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-script/engine/bridge"
	"github.com/Carmen-Shannon/oxy-script/engine/profiler"
	"github.com/Carmen-Shannon/oxy-script/engine/renderer"
	"github.com/Carmen-Shannon/oxy-script/engine/script"
	"github.com/Carmen-Shannon/oxy-script/engine/window"
	"github.com/robbyt/go-fsm"
)

// Application lifecycle states.
const (
	StateUninitialized = "uninitialized"
	StateWindowCreated = "window_created"
	StateRunning       = "running"
	StateExited        = "exited"
)

// lifecycleTransitions allows the happy path plus an early exit from every live state.
var lifecycleTransitions = map[string][]string{
	StateUninitialized: {StateWindowCreated, StateExited},
	StateWindowCreated: {StateRunning, StateExited},
	StateRunning:       {StateExited},
	StateExited:        {},
}

// ScriptHost is the part of the script host the application drives.
type ScriptHost interface {
	// Invoke calls a registered callback. Missing callbacks are a no-op.
	Invoke(name string, args ...any) error
}

var _ ScriptHost = &script.Host{}

// RendererFactory creates the graphics context for a freshly created window.
type RendererFactory func(win window.Window) (renderer.Renderer, error)

// app implements the App interface.
type app struct {
	logger *slog.Logger
	ctx    context.Context

	host    ScriptHost
	session *bridge.Session
	slot    *renderer.Slot

	loop            window.EventLoop
	rendererFactory RendererFactory
	rendererOptions []renderer.RendererBuilderOption
	windowOptions   []window.WindowBuilderOption

	profiler         *profiler.Profiler
	profilingEnabled bool

	machine *fsm.Machine
	window  window.Window
	err     error
}

// App is the application controller. It is the native event loop handler: it creates the window
// and the graphics context on the first activation, publishes the context for the bridge
// operations and dispatches lifecycle events to the script callbacks.
//
// The lifecycle is uninitialized -> window_created -> running -> exited. A failure while
// creating the window or graphics context, or a failing setup or draw callback, moves the app
// straight to exited and is returned from Run. A failing resize callback is only logged.
type App interface {
	window.Handler

	// Run drives the event loop until the application exits.
	//
	// Parameters:
	//   - ctx: cancelling ctx exits the loop at the next event
	//
	// Returns:
	//   - error: the first fatal error, or the event loop's own error
	Run(ctx context.Context) error

	// State returns the current lifecycle state.
	//
	// Returns:
	//   - string: one of the State* constants
	State() string

	// Window returns the native window once it has been created.
	//
	// Returns:
	//   - window.Window: the window, or nil before activation
	Window() window.Window

	// Err returns the first fatal error recorded by the handler.
	//
	// Returns:
	//   - error: the fatal error, or nil
	Err() error
}

var _ App = &app{}

// NewApp creates the application controller for a bridge and the host that runs its script.
//
// Parameters:
//   - host: the script host whose callbacks are invoked
//   - b: the bridge; its Slot receives the graphics context and its Session supplies the window config
//   - options: functional options for the app
//
// Returns:
//   - App: the new application controller
//   - error: an error if the lifecycle machine could not be created
func NewApp(host ScriptHost, b *bridge.Bridge, options ...AppBuilderOption) (App, error) {
	a := &app{
		logger:  slog.Default(),
		ctx:     context.Background(),
		host:    host,
		session: b.Session(),
		slot:    b.Slot(),
	}

	for _, opt := range options {
		opt(a)
	}

	if a.loop == nil {
		a.loop = window.NewEventLoop()
	}
	if a.rendererFactory == nil {
		a.rendererFactory = func(win window.Window) (renderer.Renderer, error) {
			return renderer.NewRenderer(win, append([]renderer.RendererBuilderOption{renderer.WithLogger(a.logger)}, a.rendererOptions...)...)
		}
	}
	if a.profilingEnabled && a.profiler == nil {
		a.profiler = profiler.NewProfiler(profiler.WithLogger(a.logger))
	}

	machine, err := fsm.New(a.logger.Handler(), StateUninitialized, lifecycleTransitions)
	if err != nil {
		return nil, fmt.Errorf("failed to create lifecycle machine: %w", err)
	}
	a.machine = machine

	return a, nil
}

func (a *app) Run(ctx context.Context) error {
	a.ctx = ctx
	if err := a.loop.Run(a); err != nil {
		return errors.Join(err, a.err)
	}
	return a.err
}

func (a *app) State() string {
	return a.machine.GetState()
}

func (a *app) Window() window.Window {
	return a.window
}

func (a *app) Err() error {
	return a.err
}

// Resumed creates the window and graphics context, runs the setup callback and requests the
// first redraw. Only the first activation does anything.
func (a *app) Resumed(loop window.ActiveEventLoop) {
	if a.State() != StateUninitialized {
		return
	}
	if a.cancelled(loop) {
		return
	}

	cfg := a.session.WindowConfig()
	options := append([]window.WindowBuilderOption{
		window.WithTitle(cfg.Title),
		window.WithSize(cfg.Width, cfg.Height),
	}, a.windowOptions...)

	win, err := loop.CreateWindow(options...)
	if err != nil {
		a.fail(loop, fmt.Errorf("failed to create window: %w", err))
		return
	}
	a.window = win
	a.session.MarkWindowCreated()
	a.transition(StateWindowCreated)

	r, err := a.rendererFactory(win)
	if err != nil {
		a.fail(loop, err)
		return
	}
	if err := a.slot.Set(r); err != nil {
		a.fail(loop, err)
		return
	}

	if err := a.host.Invoke(script.CallbackSetup); err != nil {
		a.fail(loop, err)
		return
	}

	a.transition(StateRunning)
	a.logger.Info("application running", slog.String("title", cfg.Title), slog.Any("width", cfg.Width), slog.Any("height", cfg.Height))
	win.RequestRedraw()
}

// WindowEvent dispatches a native window event.
func (a *app) WindowEvent(loop window.ActiveEventLoop, w window.Window, ev window.Event) {
	if a.State() == StateExited || a.cancelled(loop) {
		return
	}

	switch ev := ev.(type) {
	case window.CloseRequested:
		a.logger.Debug("close requested")
		a.exit(loop)

	case window.Resized:
		err := a.slot.Borrow(func(r renderer.Renderer) error {
			r.Resize(ev.Width, ev.Height)
			return nil
		})
		if err != nil && !errors.Is(err, renderer.ErrContextAbsent) {
			a.logger.Warn("surface resize skipped", slog.Any("error", err))
		}
		if err := a.host.Invoke(script.CallbackResize, ev.Width, ev.Height); err != nil {
			a.logger.Error("resize callback failed", slog.Any("error", err))
		}

	case window.RedrawRequested:
		if a.State() != StateRunning {
			return
		}
		if err := a.host.Invoke(script.CallbackDraw); err != nil {
			a.fail(loop, err)
			return
		}
		if a.profilingEnabled && a.profiler != nil {
			a.profiler.Tick()
		}
		w.RequestRedraw()
	}
}

// cancelled exits the loop once the run context is done.
func (a *app) cancelled(loop window.ActiveEventLoop) bool {
	if err := a.ctx.Err(); err != nil {
		a.logger.Debug("run context done", slog.Any("error", err))
		a.exit(loop)
		return true
	}
	return false
}

// fail records the first fatal error and exits the loop.
func (a *app) fail(loop window.ActiveEventLoop, err error) {
	a.logger.Error("fatal error", slog.String("state", a.State()), slog.Any("error", err))
	if a.err == nil {
		a.err = err
	}
	a.exit(loop)
}

// exit releases the graphics context while the native window still exists and stops the loop.
func (a *app) exit(loop window.ActiveEventLoop) {
	if a.State() != StateExited {
		a.transition(StateExited)
	}
	if err := a.slot.Release(); err != nil {
		a.logger.Warn("failed to release graphics context", slog.Any("error", err))
	}
	loop.Exit()
}

func (a *app) transition(state string) {
	if err := a.machine.Transition(state); err != nil {
		a.logger.Warn("invalid lifecycle transition", slog.String("to", state), slog.Any("error", err))
	}
}
