package loader

import "log/slog"

// LoaderBuilderOption is a functional option applied to a Loader during construction via NewLoader.
type LoaderBuilderOption func(*loaderImpl)

// WithCacheSize sets the number of transpiled modules kept in memory.
//
// Parameters:
//   - size: the maximum number of cached modules; values below 1 are raised to 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cache size option to a Loader
func WithCacheSize(size int) LoaderBuilderOption {
	return func(l *loaderImpl) {
		l.cacheSize = size
	}
}

// WithPrefetchWorkers sets the number of workers used by Prefetch.
//
// Parameters:
//   - workers: the maximum number of concurrent loads; values below 1 are raised to 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count option to a Loader
func WithPrefetchWorkers(workers int) LoaderBuilderOption {
	return func(l *loaderImpl) {
		l.workers = workers
	}
}

// WithLogger sets the logger used for load diagnostics.
//
// Parameters:
//   - logger: the logger to use; nil keeps slog.Default()
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a Loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loaderImpl) {
		if logger != nil {
			l.logger = logger
		}
	}
}
