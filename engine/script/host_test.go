package script

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-script/engine/bridge"
	"github.com/Carmen-Shannon/oxy-script/engine/renderer"
	"github.com/Carmen-Shannon/oxy-script/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-script/engine/script/loader"
	"github.com/Carmen-Shannon/oxy-script/engine/window/windowtest"
	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleWGSL = "@vertex\\nfn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> { return vec4<f32>(0.0, 0.0, 0.0, 1.0); }\\n@fragment\\nfn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0, 0.0, 0.0, 1.0); }\\n"

type fixture struct {
	host    *Host
	session *bridge.Session
	slot    *renderer.Slot
	backend *renderertest.Backend
	dir     string
}

func newFixture(t *testing.T, options ...HostBuilderOption) *fixture {
	t.Helper()
	f := &fixture{
		session: bridge.NewSession(bridge.WindowConfig{}),
		slot:    renderer.NewSlot(),
		backend: renderertest.NewBackend(),
		dir:     t.TempDir(),
	}
	h, err := NewHost(bridge.NewBridge(f.session, f.slot), options...)
	require.NoError(t, err)
	f.host = h
	return f
}

// publish creates the graphics context the way the application controller does on resume.
func (f *fixture) publish(t *testing.T) {
	t.Helper()
	r, err := renderer.NewRenderer(&windowtest.Window{Width: 640, Height: 480}, renderer.WithBackend(f.backend))
	require.NoError(t, err)
	require.NoError(t, f.slot.Set(r))
}

func (f *fixture) write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(f.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func (f *fixture) global(name string) goja.Value {
	return f.host.vm.Get(name)
}

func TestNewHostRegistersOperations(t *testing.T) {
	f := newFixture(t)

	for _, op := range bridge.Ops {
		_, ok := goja.AssertFunction(f.global(op.String()))
		assert.True(t, ok, "global %s", op)

		gpu := f.global("gpu").(*goja.Object)
		_, ok = goja.AssertFunction(gpu.Get(op.String()))
		assert.True(t, ok, "gpu.%s", op)
	}
	assert.Empty(t, f.host.Callbacks())
}

func TestEvaluateTypeScriptEntry(t *testing.T) {
	f := newFixture(t)
	entry := f.write(t, "main.ts", `
import { createWindow } from "gpu";
import settings from "./settings.json";

createWindow(settings.title, settings.width as number, 480);

function setup(): void {}
function draw(): void {}

globalThis.__gpuCallbacks = { setup, draw };
`)
	f.write(t, "settings.json", `{"title": "Demo", "width": 640}`)

	require.NoError(t, f.host.Evaluate(context.Background(), entry))
	assert.Equal(t, bridge.WindowConfig{Title: "Demo", Width: 640, Height: 480}, f.session.WindowConfig())
	assert.Equal(t, []string{"setup", "draw"}, f.host.Callbacks())
	assert.True(t, f.host.HasCallback(CallbackDraw))
	assert.False(t, f.host.HasCallback(CallbackResize))
}

func TestEvaluateFileURL(t *testing.T) {
	f := newFixture(t)
	entry := f.write(t, "main.js", `gpu.callbacks.resize = function (w, h) {};`)

	require.NoError(t, f.host.Evaluate(context.Background(), "file://"+filepath.ToSlash(entry)))
	assert.Equal(t, []string{"resize"}, f.host.Callbacks())
}

func TestEvaluateFailures(t *testing.T) {
	t.Run("unknown extension", func(t *testing.T) {
		f := newFixture(t)
		entry := f.write(t, "main.wgsl", "")

		err := f.host.Evaluate(context.Background(), entry)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEval)
		assert.ErrorIs(t, err, loader.ErrUnsupportedMediaType)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		f := newFixture(t)
		err := f.host.Evaluate(context.Background(), "https://example.com/main.ts")
		assert.ErrorIs(t, err, ErrEval)
	})

	t.Run("missing entry", func(t *testing.T) {
		f := newFixture(t)
		err := f.host.Evaluate(context.Background(), filepath.Join(f.dir, "missing.ts"))
		assert.ErrorIs(t, err, ErrEval)
	})

	t.Run("transpile error", func(t *testing.T) {
		f := newFixture(t)
		entry := f.write(t, "main.ts", "const = ;")

		err := f.host.Evaluate(context.Background(), entry)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEval)
	})

	t.Run("uncaught exception", func(t *testing.T) {
		f := newFixture(t)
		entry := f.write(t, "main.js", `function boom() { throw new Error("kaboom"); }
boom();`)

		err := f.host.Evaluate(context.Background(), entry)
		require.Error(t, err)
		var evalErr *EvalError
		require.True(t, errors.As(err, &evalErr))
		assert.Contains(t, evalErr.Error(), "kaboom")
		assert.Contains(t, evalErr.Stack, "boom")
	})

	t.Run("cancelled context", func(t *testing.T) {
		f := newFixture(t)
		entry := f.write(t, "main.js", `createWindow("never", 1, 1);`)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := f.host.Evaluate(ctx, entry)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, bridge.DefaultWindowConfig(), f.session.WindowConfig())
	})
}

func TestEvaluateTimeout(t *testing.T) {
	f := newFixture(t, WithEvalTimeout(50*time.Millisecond))
	entry := f.write(t, "main.js", `for (;;) {}`)

	err := f.host.Evaluate(context.Background(), entry)
	require.Error(t, err)
	var interrupted *goja.InterruptedError
	assert.True(t, errors.As(err, &interrupted))

	// The runtime stays usable after an interrupt.
	next := f.write(t, "next.js", `createWindow("after", 2, 2);`)
	require.NoError(t, f.host.Evaluate(context.Background(), next))
	assert.Equal(t, "after", f.session.WindowConfig().Title)
}

func TestPreconditionIsCatchable(t *testing.T) {
	f := newFixture(t)
	entry := f.write(t, "main.js", `
const caught = (globalThis.caught = []);
function attempt(fn) {
  try { fn(); caught.push("none"); } catch (e) { caught.push(e.name + ":" + (e instanceof Error)); }
}
attempt(function () { createShaderModule("x"); });
attempt(function () { createRenderPipeline(0, "vs_main", "fs_main"); });
attempt(function () { drawFrame(0, 0, 0, 0, 1, 3, 1); });
`)

	require.NoError(t, f.host.Evaluate(context.Background(), entry))
	caught := f.global("caught")
	require.NotNil(t, caught)
	got := caught.Export()
	assert.Equal(t, []any{"PreconditionError:true", "PreconditionError:true", "PreconditionError:true"}, got)
	assert.Empty(t, f.backend.Shaders)
}

func TestPreconditionUncaughtFailsEvaluation(t *testing.T) {
	f := newFixture(t)
	entry := f.write(t, "main.js", `createShaderModule("x");`)

	err := f.host.Evaluate(context.Background(), entry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PreconditionError")
}

func TestArgumentCoercion(t *testing.T) {
	f := newFixture(t)
	f.publish(t)
	entry := f.write(t, "main.js", `
const results = (globalThis.results = {});
function attempt(key, fn) {
  try { fn(); results[key] = "ok"; } catch (e) { results[key] = e.name; }
}
attempt("string handle", function () { drawFrame("0", 0, 0, 0, 1, 3, 1); });
attempt("negative handle", function () { drawFrame(-1, 0, 0, 0, 1, 3, 1); });
attempt("fractional count", function () { drawFrame(0, 0, 0, 0, 1, 1.5, 1); });
attempt("huge count", function () { drawFrame(0, 0, 0, 0, 1, 4294967296, 1); });
attempt("NaN count", function () { drawFrame(0, 0, 0, 0, 1, NaN, 1); });
attempt("color string", function () { drawFrame(0, "red", 0, 0, 1, 3, 1); });
attempt("missing source", function () { createShaderModule(); });
attempt("zero window", function () { createWindow("x", 0, 10); });
attempt("bad pipeline", function () { drawFrame(9, 0, 0, 0, 1, 3, 1); });
attempt("bad shader", function () { createRenderPipeline(9, "vs_main", "fs_main"); });
attempt("bad wgsl", function () { createShaderModule("fn ( {"); });
`)

	require.NoError(t, f.host.Evaluate(context.Background(), entry))
	results := f.global("results")
	require.NotNil(t, results)
	got := results.Export()
	assert.Equal(t, map[string]any{
		"string handle":    "TypeError",
		"negative handle":  "RangeError",
		"fractional count": "RangeError",
		"huge count":       "RangeError",
		"NaN count":        "RangeError",
		"color string":     "TypeError",
		"missing source":   "TypeError",
		"zero window":      "RangeError",
		"bad pipeline":     "RangeError",
		"bad shader":       "RangeError",
		"bad wgsl":         "Error",
	}, got)
	assert.Empty(t, f.backend.Submitted)
}

func TestInvokeCallbacks(t *testing.T) {
	f := newFixture(t)
	entry := f.write(t, "main.ts", `
const shader = "` + triangleWGSL + `";
let pipeline = -1;
const handles: number[] = [];
const sizes: string[] = [];

globalThis.__gpuCallbacks = {
  setup() {
    for (let i = 0; i < 3; i++) handles.push(createShaderModule(shader));
    pipeline = createRenderPipeline(0, "vs_main", "fs_main");
  },
  resize(w: number, h: number) { sizes.push(w + "x" + h); },
  draw() { drawFrame(pipeline, 0, 0, 0, 1, 3, 1); },
};
globalThis.snapshot = () => ({ handles, pipeline, sizes });
`)
	require.NoError(t, f.host.Evaluate(context.Background(), entry))

	f.publish(t)
	require.NoError(t, f.host.Invoke(CallbackSetup))
	require.NoError(t, f.host.Invoke(CallbackResize, uint32(320), uint32(240)))
	require.NoError(t, f.host.Invoke(CallbackDraw))
	require.NoError(t, f.host.Invoke(CallbackDraw))

	snapshot, ok := goja.AssertFunction(f.global("snapshot"))
	require.True(t, ok)
	v, err := snapshot(goja.Undefined())
	require.NoError(t, err)
	state := v.Export().(map[string]any)
	assert.Equal(t, []any{int64(0), int64(1), int64(2)}, state["handles"])
	assert.Equal(t, int64(0), state["pipeline"])
	assert.Equal(t, []any{"320x240"}, state["sizes"])

	require.Len(t, f.backend.Submitted, 2)
	assert.Equal(t, renderertest.Draw{
		Pipeline:      "pipeline-0",
		Clear:         renderer.Color{A: 1},
		VertexCount:   3,
		InstanceCount: 1,
	}, f.backend.Submitted[0])
}

func TestInvokeMissingCallback(t *testing.T) {
	f := newFixture(t)
	entry := f.write(t, "main.js", `globalThis.__gpuCallbacks = { draw: 42 };`)
	require.NoError(t, f.host.Evaluate(context.Background(), entry))

	assert.NoError(t, f.host.Invoke(CallbackSetup))
	assert.NoError(t, f.host.Invoke(CallbackDraw))
	assert.False(t, f.host.HasCallback(CallbackDraw))
}

func TestInvokeNonObjectRegistry(t *testing.T) {
	f := newFixture(t)
	entry := f.write(t, "main.js", `globalThis.__gpuCallbacks = null;`)
	require.NoError(t, f.host.Evaluate(context.Background(), entry))

	assert.NoError(t, f.host.Invoke(CallbackSetup))
	assert.Empty(t, f.host.Callbacks())
}

func TestInvokeCallbackError(t *testing.T) {
	f := newFixture(t)
	entry := f.write(t, "main.js", `
console.log("registering");
gpu.callbacks = { draw: function () { throw new TypeError("bad draw"); } };
`)
	require.NoError(t, f.host.Evaluate(context.Background(), entry))

	err := f.host.Invoke(CallbackDraw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCallback)

	var cbErr *CallbackError
	require.True(t, errors.As(err, &cbErr))
	assert.Equal(t, "draw", cbErr.Name)
	assert.Contains(t, cbErr.Error(), "bad draw")
}

func TestResolveEntry(t *testing.T) {
	abs, err := resolveEntry("file:///tmp/demo/main.ts")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/tmp/demo/main.ts"), abs)

	rel, err := resolveEntry("main.ts")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(rel))

	_, err = resolveEntry("ftp://host/main.ts")
	assert.Error(t, err)
}

func TestBundledExamples(t *testing.T) {
	tests := []struct {
		entry     string
		want      bridge.WindowConfig
		callbacks []string
	}{
		{
			entry:     "../../examples/triangle/main.ts",
			want:      bridge.WindowConfig{Title: "Triangle", Width: 800, Height: 600},
			callbacks: []string{CallbackSetup, CallbackResize, CallbackDraw},
		},
		{
			entry:     "../../examples/triangle.js",
			want:      bridge.WindowConfig{Title: "Triangle", Width: 640, Height: 480},
			callbacks: []string{CallbackSetup, CallbackDraw},
		},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.entry), func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.host.Evaluate(context.Background(), tt.entry))
			assert.Equal(t, tt.want, f.session.WindowConfig())
			assert.Equal(t, tt.callbacks, f.host.Callbacks())

			f.publish(t)
			require.NoError(t, f.host.Invoke(CallbackSetup))
			require.NoError(t, f.host.Invoke(CallbackDraw))

			require.Len(t, f.backend.Submitted, 1)
			assert.Equal(t, "pipeline-0", f.backend.Submitted[0].Pipeline)
			assert.Equal(t, uint32(3), f.backend.Submitted[0].VertexCount)
		})
	}
}

func TestCloseKeepsRuntimeUsable(t *testing.T) {
	f := newFixture(t)
	f.host.Close()
	f.host.Close()

	entry := f.write(t, "main.ts", `gpu.callbacks = { setup() {} };`)
	require.NoError(t, f.host.Evaluate(context.Background(), entry))
	assert.True(t, f.host.HasCallback(CallbackSetup))
}
