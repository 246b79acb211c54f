package script

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-script/engine/script/loader"
)

// HostBuilderOption is a functional option applied to a Host during construction via NewHost.
type HostBuilderOption func(*Host)

// WithLoader sets the module loader used by require. By default a loader with default settings is created.
//
// Parameters:
//   - l: the module loader
//
// Returns:
//   - HostBuilderOption: a function that applies the loader option to a Host
func WithLoader(l loader.Loader) HostBuilderOption {
	return func(h *Host) {
		h.loader = l
	}
}

// WithEvalTimeout bounds the evaluation of the entry module. Zero disables the timeout.
// Callbacks are never interrupted.
//
// Parameters:
//   - d: the maximum evaluation time
//
// Returns:
//   - HostBuilderOption: a function that applies the timeout option to a Host
func WithEvalTimeout(d time.Duration) HostBuilderOption {
	return func(h *Host) {
		h.evalTimeout = d
	}
}

// WithLogger sets the logger for host diagnostics and script console output.
//
// Parameters:
//   - logger: the logger to use; nil keeps slog.Default()
//
// Returns:
//   - HostBuilderOption: a function that applies the logger option to a Host
func WithLogger(logger *slog.Logger) HostBuilderOption {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}
