package bridge

import "log/slog"

// BridgeBuilderOption is a functional option applied to a Bridge during construction via NewBridge.
type BridgeBuilderOption func(*Bridge)

// WithLogger sets the logger used for ignored operations.
//
// Parameters:
//   - logger: the logger to use; nil keeps slog.Default()
//
// Returns:
//   - BridgeBuilderOption: a function that applies the logger option to a Bridge
func WithLogger(logger *slog.Logger) BridgeBuilderOption {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}
