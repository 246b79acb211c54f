// Package loader resolves, reads and transpiles script modules for the require registry.
// TypeScript and JSX sources are compiled to CommonJS with esbuild; results are kept in an
// LRU cache keyed by path and invalidated when the file's size or modification time changes.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/dop251/goja_nodejs/require"
	"github.com/evanw/esbuild/pkg/api"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Default loader settings.
const (
	DefaultCacheSize       = 128
	DefaultPrefetchWorkers = 4
)

// Loader turns module paths into executable CommonJS source.
type Loader interface {
	// Load reads the module at path and returns source ready for the require registry.
	// A path without an extension that does not exist is retried with the TypeScript and JSX
	// extensions before giving up.
	//
	// Parameters:
	//   - path: the resolved module path, slash separated
	//
	// Returns:
	//   - []byte: CommonJS source, or raw JSON for data modules
	//   - error: require.ModuleFileDoesNotExistError for a missing file, an *UnsupportedMediaTypeError
	//     for an unknown extension or a *TranspileError for a source that does not compile
	Load(path string) ([]byte, error)

	// Prefetch walks the relative import graph reachable from entry and loads every module it
	// finds into the cache using the worker pool. Each level of the graph is loaded in parallel.
	// Failures are returned joined; they are reported again when the module is actually required.
	//
	// Parameters:
	//   - entry: the entry module path
	//
	// Returns:
	//   - int: the number of modules loaded
	//   - error: the joined load failures, if any
	Prefetch(entry string) (int, error)

	// CacheLen returns the number of cached modules.
	CacheLen() int

	// Close stops the prefetch worker pool. Load keeps working; Prefetch returns ErrClosed.
	Close()
}

// requirePattern matches the string literal argument of require calls in CommonJS output.
var requirePattern = regexp.MustCompile(`\brequire\(\s*["']([^"']+)["']\s*\)`)

type cacheEntry struct {
	modTime time.Time
	size    int64
	code    []byte
}

// loaderImpl is the implementation of the Loader interface.
type loaderImpl struct {
	logger *slog.Logger

	cacheSize int
	workers   int
	cache     *lru.Cache[string, cacheEntry]

	poolMu sync.Mutex
	pool   worker.DynamicWorkerPool
	closed bool
}

var _ Loader = &loaderImpl{}

// NewLoader creates a Loader.
//
// Parameters:
//   - options: variadic list of LoaderBuilderOption functions
//
// Returns:
//   - Loader: the new Loader
//   - error: an error if the cache could not be created
func NewLoader(options ...LoaderBuilderOption) (Loader, error) {
	l := &loaderImpl{
		logger:    slog.Default(),
		cacheSize: DefaultCacheSize,
		workers:   DefaultPrefetchWorkers,
	}
	for _, opt := range options {
		opt(l)
	}

	cache, err := lru.New[string, cacheEntry](max(l.cacheSize, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to create module cache: %w", err)
	}
	l.cache = cache
	return l, nil
}

func (l *loaderImpl) Load(path string) ([]byte, error) {
	fp := filepath.FromSlash(path)

	info, err := os.Stat(fp)
	if errors.Is(err, fs.ErrNotExist) && filepath.Ext(fp) == "" {
		for _, ext := range fallbackExtensions {
			if info, err = os.Stat(fp + ext); err == nil {
				fp += ext
				break
			}
		}
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, require.ModuleFileDoesNotExistError
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, require.ModuleFileDoesNotExistError
	}

	mt := MediaTypeOf(fp)
	if mt == MediaTypeUnknown {
		return nil, &UnsupportedMediaTypeError{Path: path, Ext: filepath.Ext(fp)}
	}

	if e, ok := l.cache.Get(fp); ok && e.size == info.Size() && e.modTime.Equal(info.ModTime()) {
		return e.code, nil
	}

	src, err := os.ReadFile(fp)
	if err != nil {
		return nil, err
	}

	code := src
	if mt.Transpiled() {
		code, err = transpile(fp, src, mt)
		if err != nil {
			return nil, err
		}
	}

	l.cache.Add(fp, cacheEntry{modTime: info.ModTime(), size: info.Size(), code: code})
	l.logger.Debug("module loaded", slog.String("path", fp), slog.String("media_type", mt.String()))
	return code, nil
}

func (l *loaderImpl) CacheLen() int {
	return l.cache.Len()
}

func (l *loaderImpl) Close() {
	l.poolMu.Lock()
	defer l.poolMu.Unlock()
	if l.pool != nil {
		l.pool.Stop()
		l.pool = nil
	}
	l.closed = true
}

// workerPool returns the prefetch pool, creating it on first use.
func (l *loaderImpl) workerPool() (worker.DynamicWorkerPool, error) {
	l.poolMu.Lock()
	defer l.poolMu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}
	if l.pool == nil {
		l.pool = worker.NewDynamicWorkerPool(max(l.workers, 1), 256, 1*time.Second)
	}
	return l.pool, nil
}

func (l *loaderImpl) Prefetch(entry string) (int, error) {
	pool, err := l.workerPool()
	if err != nil {
		return 0, err
	}

	var (
		mu     sync.Mutex
		errs   []error
		loaded int
	)
	seen := map[string]bool{entry: true}
	level := []string{entry}
	taskID := 0

	for len(level) > 0 {
		var (
			wg   sync.WaitGroup
			next []string
		)
		for _, p := range level {
			wg.Add(1)
			path := p // capture for closure
			id := taskID
			taskID++
			pool.SubmitTask(worker.Task{
				ID: id,
				Do: func() (any, error) {
					defer wg.Done()

					code, err := l.Load(path)
					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						// Extensionless .js and .json imports are resolved by require itself.
						if errors.Is(err, require.ModuleFileDoesNotExistError) && filepath.Ext(path) == "" {
							return nil, nil
						}
						errs = append(errs, fmt.Errorf("%s: %w", path, err))
						return nil, err
					}
					loaded++
					if MediaTypeOf(path) != MediaTypeJSON {
						next = append(next, relativeImports(path, code)...)
					}
					return nil, nil
				},
			})
		}
		wg.Wait()

		level = level[:0]
		for _, p := range next {
			if !seen[p] {
				seen[p] = true
				level = append(level, p)
			}
		}
	}

	l.logger.Debug("prefetch finished", slog.String("entry", entry), slog.Int("modules", loaded), slog.Int("failed", len(errs)))
	return loaded, errors.Join(errs...)
}

func transpile(path string, src []byte, mt MediaType) ([]byte, error) {
	result := api.Transform(string(src), api.TransformOptions{
		Loader:     mt.esbuildLoader(),
		Format:     api.FormatCommonJS,
		Target:     api.ES2017,
		Sourcefile: path,
	})
	if len(result.Errors) > 0 {
		return nil, newTranspileError(path, result.Errors)
	}
	return result.Code, nil
}

// relativeImports returns the relative require targets in transpiled code, resolved against the
// directory of the importing module. Bare specifiers (native modules, packages) are skipped.
func relativeImports(from string, code []byte) []string {
	dir := filepath.Dir(from)

	var out []string
	for _, m := range requirePattern.FindAllSubmatch(code, -1) {
		target := string(m[1])
		if !strings.HasPrefix(target, "./") && !strings.HasPrefix(target, "../") {
			continue
		}
		out = append(out, filepath.Join(dir, filepath.FromSlash(target)))
	}
	return out
}
