package shader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCompile is the sentinel wrapped by every CompileError.
var ErrCompile = errors.New("shader compilation failed")

// Phase names the compilation step that produced a CompileError.
type Phase string

const (
	PhaseParse    Phase = "parse"
	PhaseLower    Phase = "lower"
	PhaseValidate Phase = "validate"
	PhaseDriver   Phase = "driver"
)

// CompileError carries the diagnostic text of a rejected WGSL module.
type CompileError struct {
	Key         string
	Phase       Phase
	Diagnostics []string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader %q: %s: %s", e.Key, e.Phase, strings.Join(e.Diagnostics, "; "))
}

func (e *CompileError) Unwrap() error {
	return ErrCompile
}
