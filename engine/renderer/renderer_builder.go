package renderer

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-script/engine/window"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithShaderValidation toggles host-side WGSL parsing and entry point reflection before the
// source is handed to the driver. Strict mode additionally rejects IR validation findings.
//
// Parameters:
//   - enabled: true to validate on the host (default)
//   - strict: true to treat IR validation findings as compile errors
//
// Returns:
//   - RendererBuilderOption: a function that applies the validation option to a renderer
func WithShaderValidation(enabled, strict bool) RendererBuilderOption {
	return func(r *renderer) {
		r.shaderValidation = enabled
		r.strictValidation = strict
	}
}

// WithLogger sets the structured logger used for frame and surface diagnostics.
//
// Parameters:
//   - logger: the logger to use; nil keeps slog.Default()
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithBackend replaces the WGPU backend with the given implementation. The window is then
// only used for its size.
//
// Parameters:
//   - backend: the backend to drive
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(backend RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backendFactory = func(window.Window, bool) (RendererBackend, error) {
			return backend, nil
		}
	}
}
