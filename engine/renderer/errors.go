package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-script/engine/renderer/shader"
)

var (
	// ErrSetupFailure is wrapped by SetupError when no compatible adapter or device is available.
	ErrSetupFailure = errors.New("graphics setup failed")

	// ErrShaderCompile is wrapped by every ShaderCompileError.
	ErrShaderCompile = shader.ErrCompile

	// ErrPipelineCreate is wrapped by every PipelineError.
	ErrPipelineCreate = errors.New("render pipeline creation failed")

	// ErrSurfaceLost and ErrSurfaceOutdated are returned by backends when the surface must be
	// reconfigured before another image can be acquired.
	ErrSurfaceLost     = errors.New("surface lost")
	ErrSurfaceOutdated = errors.New("surface outdated")

	// ErrSurfaceUnavailable is wrapped by SurfaceError when a frame had to be skipped.
	ErrSurfaceUnavailable = errors.New("surface unavailable")

	// ErrContextAbsent is returned when borrowing a Slot before a Renderer was published.
	ErrContextAbsent = errors.New("graphics context not created")

	// ErrContextPresent is returned when publishing a second Renderer into a Slot.
	ErrContextPresent = errors.New("graphics context already created")

	// ErrReentrantBorrow is returned when a Slot is borrowed while already borrowed.
	ErrReentrantBorrow = errors.New("graphics context already borrowed")
)

// ShaderCompileError carries the diagnostic text of a rejected shader module.
type ShaderCompileError = shader.CompileError

// SetupError reports a failed adapter, device or surface acquisition. It is never retried.
type SetupError struct {
	Stage string
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("graphics setup failed at %s: %v", e.Stage, e.Err)
}

func (e *SetupError) Unwrap() []error {
	return []error{ErrSetupFailure, e.Err}
}

// PipelineError reports a render pipeline that could not be created.
type PipelineError struct {
	Key string
	Err error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("render pipeline %q: %v", e.Key, e.Err)
}

func (e *PipelineError) Unwrap() []error {
	return []error{ErrPipelineCreate, e.Err}
}

// SurfaceError reports a frame skipped because no surface image could be acquired.
// Reconfigured is true when the surface was reconfigured and acquisition retried.
type SurfaceError struct {
	Reconfigured bool
	Err          error
}

func (e *SurfaceError) Error() string {
	if e.Reconfigured {
		return fmt.Sprintf("surface unavailable after reconfigure: %v", e.Err)
	}
	return fmt.Sprintf("surface unavailable: %v", e.Err)
}

func (e *SurfaceError) Unwrap() []error {
	return []error{ErrSurfaceUnavailable, e.Err}
}

// recoverable reports whether an acquisition error can be cleared by reconfiguring the surface.
func recoverable(err error) bool {
	return errors.Is(err, ErrSurfaceLost) || errors.Is(err, ErrSurfaceOutdated)
}
