package script

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-script/engine/bridge"
	"github.com/Carmen-Shannon/oxy-script/engine/resource"
	"github.com/dop251/goja"
)

type nativeOp func(h *Host, call goja.FunctionCall) goja.Value

// dispatch maps every bridge operation to its script binding.
var dispatch = [...]nativeOp{
	bridge.OpCreateWindow:         (*Host).createWindow,
	bridge.OpCreateShaderModule:   (*Host).createShaderModule,
	bridge.OpCreateRenderPipeline: (*Host).createRenderPipeline,
	bridge.OpDrawFrame:            (*Host).drawFrame,
}

// createWindow(title: string, width: uint32, height: uint32): void
func (h *Host) createWindow(call goja.FunctionCall) goja.Value {
	title := h.stringArg(call, 0, "title")
	width := h.uint32Arg(call, 1, "width")
	height := h.uint32Arg(call, 2, "height")

	if err := h.bridge.SetWindowConfig(title, width, height); err != nil {
		h.throw(err)
	}
	return goja.Undefined()
}

// createShaderModule(sourceCode: string): uint32
func (h *Host) createShaderModule(call goja.FunctionCall) goja.Value {
	source := h.stringArg(call, 0, "sourceCode")

	handle, err := h.bridge.CreateShaderModule(source)
	if err != nil {
		h.throw(err)
	}
	return h.vm.ToValue(uint32(handle))
}

// createRenderPipeline(shaderHandle: uint32, vertexEntry: string, fragmentEntry: string): uint32
func (h *Host) createRenderPipeline(call goja.FunctionCall) goja.Value {
	shader := h.uint32Arg(call, 0, "shaderHandle")
	vertexEntry := h.stringArg(call, 1, "vertexEntry")
	fragmentEntry := h.stringArg(call, 2, "fragmentEntry")

	handle, err := h.bridge.CreateRenderPipeline(resource.Handle(shader), vertexEntry, fragmentEntry)
	if err != nil {
		h.throw(err)
	}
	return h.vm.ToValue(uint32(handle))
}

// drawFrame(pipelineHandle: uint32, r, g, b, a: number, vertexCount: uint32, instanceCount: uint32): void
func (h *Host) drawFrame(call goja.FunctionCall) goja.Value {
	pipeline := h.uint32Arg(call, 0, "pipelineHandle")
	r := h.floatArg(call, 1, "r")
	g := h.floatArg(call, 2, "g")
	b := h.floatArg(call, 3, "b")
	a := h.floatArg(call, 4, "a")
	vertexCount := h.uint32Arg(call, 5, "vertexCount")
	instanceCount := h.uint32Arg(call, 6, "instanceCount")

	if _, err := h.bridge.DrawFrame(resource.Handle(pipeline), r, g, b, a, vertexCount, instanceCount); err != nil {
		h.throw(err)
	}
	return goja.Undefined()
}

func (h *Host) stringArg(call goja.FunctionCall, i int, name string) string {
	v := call.Argument(i)
	s, ok := v.Export().(string)
	if !ok {
		panic(h.vm.NewTypeError("%s must be a string, got %s", name, v.String()))
	}
	return s
}

func (h *Host) floatArg(call goja.FunctionCall, i int, name string) float64 {
	v := call.Argument(i)
	f, ok := numberOf(v)
	if !ok {
		panic(h.vm.NewTypeError("%s must be a number, got %s", name, v.String()))
	}
	return f
}

func (h *Host) uint32Arg(call goja.FunctionCall, i int, name string) uint32 {
	v := call.Argument(i)
	f, ok := numberOf(v)
	if !ok {
		panic(h.vm.NewTypeError("%s must be a number, got %s", name, v.String()))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 || f > math.MaxUint32 {
		panic(h.newError("RangeError", "", fmt.Sprintf("%s must be an integer in [0, 4294967295], got %s", name, v.String())))
	}
	return uint32(f)
}

func numberOf(v goja.Value) (float64, bool) {
	switch n := v.Export().(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// throw raises err as a script exception. It never returns.
func (h *Host) throw(err error) {
	switch {
	case errors.Is(err, bridge.ErrPrecondition):
		panic(h.newError("Error", "PreconditionError", err.Error()))
	case errors.Is(err, resource.ErrOutOfRange), errors.Is(err, bridge.ErrInvalidWindowSize):
		panic(h.newError("RangeError", "", err.Error()))
	default:
		panic(h.newError("Error", "", err.Error()))
	}
}

// newError constructs an instance of the named global error constructor.
func (h *Host) newError(ctor, name, msg string) *goja.Object {
	obj, err := h.vm.New(h.vm.Get(ctor), h.vm.ToValue(msg))
	if err != nil {
		return h.vm.NewGoError(errors.New(msg))
	}
	if name != "" {
		_ = obj.Set("name", name)
	}
	return obj
}
