// Package script hosts the JavaScript engine. It registers the bridge operations with the
// runtime, evaluates the entry module through the require registry and invokes the callbacks
// the script registered in globalThis.__gpuCallbacks.
package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-script/engine/bridge"
	"github.com/Carmen-Shannon/oxy-script/engine/script/loader"
	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
)

// Callback names looked up in the callback registry.
const (
	CallbackSetup  = "setup"
	CallbackResize = "resize"
	CallbackDraw   = "draw"
)

// CallbackNames lists the callbacks the host invokes, in lifecycle order.
var CallbackNames = []string{CallbackSetup, CallbackResize, CallbackDraw}

const (
	callbacksGlobal = "__gpuCallbacks"
	gpuModuleName   = "gpu"
)

// Host owns the JavaScript runtime. It is not safe for concurrent use; evaluation and callback
// invocation must happen on the main thread.
type Host struct {
	logger      *slog.Logger
	bridge      *bridge.Bridge
	loader      loader.Loader
	evalTimeout time.Duration

	vm  *goja.Runtime
	req *require.RequireModule
	gpu *goja.Object
}

// NewHost creates a runtime with the bridge operations installed as globals, as members of the
// global gpu object and as the native module "gpu". Console output is logged with source=script.
//
// Parameters:
//   - b: the bridge the operations call into
//   - options: variadic list of HostBuilderOption functions
//
// Returns:
//   - *Host: the new Host
//   - error: an error if the runtime could not be set up
func NewHost(b *bridge.Bridge, options ...HostBuilderOption) (*Host, error) {
	h := &Host{
		logger: slog.Default(),
		bridge: b,
		vm:     goja.New(),
	}
	for _, opt := range options {
		opt(h)
	}

	if h.loader == nil {
		l, err := loader.NewLoader(loader.WithLogger(h.logger))
		if err != nil {
			return nil, err
		}
		h.loader = l
	}

	if err := h.installOps(); err != nil {
		return nil, err
	}

	registry := require.NewRegistry(require.WithLoader(h.loader.Load))
	registry.RegisterNativeModule(gpuModuleName, func(_ *goja.Runtime, module *goja.Object) {
		_ = module.Set("exports", h.gpu)
	})
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(consolePrinter{
		logger: h.logger.With(slog.String("source", "script")),
	}))
	h.req = registry.Enable(h.vm)
	console.Enable(h.vm)

	return h, nil
}

// installOps registers the dispatch table and the callback registry.
func (h *Host) installOps() error {
	h.gpu = h.vm.NewObject()

	for _, op := range bridge.Ops {
		fn := h.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return dispatch[op](h, call)
		})
		if err := h.vm.Set(op.String(), fn); err != nil {
			return fmt.Errorf("failed to register %s: %w", op, err)
		}
		if err := h.gpu.Set(op.String(), fn); err != nil {
			return fmt.Errorf("failed to register gpu.%s: %w", op, err)
		}
	}

	if err := h.vm.Set(callbacksGlobal, h.vm.NewObject()); err != nil {
		return fmt.Errorf("failed to create callback registry: %w", err)
	}

	getter := h.vm.ToValue(func(goja.FunctionCall) goja.Value {
		return h.vm.Get(callbacksGlobal)
	})
	setter := h.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if err := h.vm.Set(callbacksGlobal, call.Argument(0)); err != nil {
			panic(h.vm.NewGoError(err))
		}
		return goja.Undefined()
	})
	if err := h.gpu.DefineAccessorProperty("callbacks", getter, setter, goja.FLAG_FALSE, goja.FLAG_TRUE); err != nil {
		return fmt.Errorf("failed to define gpu.callbacks: %w", err)
	}

	return h.vm.Set(gpuModuleName, h.gpu)
}

// Evaluate loads the entry module and runs it to completion. The entry may be a file path or a
// file:// URL. Its relative imports are prefetched first. The runtime is interrupted when ctx
// ends or the evaluation timeout elapses.
//
// Parameters:
//   - ctx: bounds the evaluation
//   - entry: the entry module path or URL
//
// Returns:
//   - error: an *EvalError describing the failure
func (h *Host) Evaluate(ctx context.Context, entry string) error {
	path, err := resolveEntry(entry)
	if err != nil {
		return &EvalError{Path: entry, Err: err}
	}
	if loader.MediaTypeOf(path) == loader.MediaTypeUnknown {
		return &EvalError{Path: path, Err: &loader.UnsupportedMediaTypeError{Path: path, Ext: filepath.Ext(path)}}
	}

	if n, err := h.loader.Prefetch(path); err != nil {
		h.logger.Debug("prefetch incomplete", slog.Int("modules", n), slog.Any("error", err))
	}

	if h.evalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.evalTimeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return &EvalError{Path: path, Err: err}
	}

	stop := context.AfterFunc(ctx, func() {
		h.vm.Interrupt(context.Cause(ctx))
	})
	defer func() {
		stop()
		h.vm.ClearInterrupt()
	}()

	if _, err := h.req.Require(filepath.ToSlash(path)); err != nil {
		evalErr := &EvalError{Path: path, Err: err}
		var exc *goja.Exception
		if errors.As(err, &exc) {
			evalErr.Stack = exc.String()
		}
		return evalErr
	}

	h.logger.Debug("entry module evaluated", slog.String("path", path), slog.Any("callbacks", h.Callbacks()))
	return nil
}

// Invoke calls the named callback synchronously. A missing or non-function entry is a no-op.
//
// Parameters:
//   - name: the callback name
//   - args: the arguments, converted to script values
//
// Returns:
//   - error: a *CallbackError if the callback threw
func (h *Host) Invoke(name string, args ...any) error {
	registry, fn, ok := h.lookup(name)
	if !ok {
		return nil
	}

	values := make([]goja.Value, len(args))
	for i, a := range args {
		values[i] = h.vm.ToValue(a)
	}
	if _, err := fn(registry, values...); err != nil {
		return &CallbackError{Name: name, Err: err}
	}
	return nil
}

// HasCallback reports whether the script registered a function under name.
func (h *Host) HasCallback(name string) bool {
	_, _, ok := h.lookup(name)
	return ok
}

// Callbacks returns the registered callback names in lifecycle order.
func (h *Host) Callbacks() []string {
	var names []string
	for _, name := range CallbackNames {
		if h.HasCallback(name) {
			names = append(names, name)
		}
	}
	return names
}

// Bridge returns the bridge the operations call into.
func (h *Host) Bridge() *bridge.Bridge {
	return h.bridge
}

// Close stops the loader's background workers. The runtime stays usable, but later
// evaluations skip prefetching.
func (h *Host) Close() {
	h.loader.Close()
}

func (h *Host) lookup(name string) (*goja.Object, goja.Callable, bool) {
	registry, ok := h.vm.Get(callbacksGlobal).(*goja.Object)
	if !ok {
		return nil, nil, false
	}
	fn, ok := goja.AssertFunction(registry.Get(name))
	if !ok {
		return nil, nil, false
	}
	return registry, fn, true
}

// resolveEntry turns a path or file:// URL into an absolute file path.
func resolveEntry(entry string) (string, error) {
	if strings.HasPrefix(entry, "file://") {
		u, err := url.Parse(entry)
		if err != nil {
			return "", fmt.Errorf("invalid entry URL: %w", err)
		}
		entry = filepath.FromSlash(u.Path)
	} else if strings.Contains(entry, "://") {
		return "", fmt.Errorf("unsupported entry URL scheme: %s", entry)
	}
	return filepath.Abs(entry)
}
