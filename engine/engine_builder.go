package engine

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-script/engine/profiler"
	"github.com/Carmen-Shannon/oxy-script/engine/renderer"
	"github.com/Carmen-Shannon/oxy-script/engine/window"
)

// AppBuilderOption is a functional option for configuring an App.
// Use the With* functions to create options that are applied directly to the app instance.
type AppBuilderOption func(*app)

// WithProfiling enables or disables the per frame profiler.
//
// Parameters:
//   - enabled: if true, frame statistics are logged once per second
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithProfiling(enabled bool) AppBuilderOption {
	return func(a *app) {
		a.profilingEnabled = enabled
	}
}

// WithProfiler sets the profiler ticked after every drawn frame and enables profiling.
//
// Parameters:
//   - p: the profiler to use
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) AppBuilderOption {
	return func(a *app) {
		a.profiler = p
		a.profilingEnabled = p != nil
	}
}

// WithEventLoop sets the native event loop. Defaults to the GLFW event loop.
//
// Parameters:
//   - loop: the event loop to run
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithEventLoop(loop window.EventLoop) AppBuilderOption {
	return func(a *app) {
		a.loop = loop
	}
}

// WithRendererFactory replaces the function that creates the graphics context. When set,
// options passed with WithRendererOptions are ignored.
//
// Parameters:
//   - f: the factory to use
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithRendererFactory(f RendererFactory) AppBuilderOption {
	return func(a *app) {
		a.rendererFactory = f
	}
}

// WithRendererOptions sets the options passed to renderer.NewRenderer by the default factory.
//
// Parameters:
//   - options: renderer options such as the present mode
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithRendererOptions(options ...renderer.RendererBuilderOption) AppBuilderOption {
	return func(a *app) {
		a.rendererOptions = append(a.rendererOptions, options...)
	}
}

// WithWindowOptions adds window options applied after the script's window configuration,
// such as size limits.
//
// Parameters:
//   - options: window options
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithWindowOptions(options ...window.WindowBuilderOption) AppBuilderOption {
	return func(a *app) {
		a.windowOptions = append(a.windowOptions, options...)
	}
}

// WithLogger sets the logger for lifecycle diagnostics.
//
// Parameters:
//   - logger: the logger to use; nil keeps slog.Default()
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) AppBuilderOption {
	return func(a *app) {
		if logger != nil {
			a.logger = logger
		}
	}
}
