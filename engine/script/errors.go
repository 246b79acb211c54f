package script

import (
	"errors"
	"fmt"
)

var (
	// ErrCallback is wrapped by every CallbackError.
	ErrCallback = errors.New("script callback failed")

	// ErrEval is wrapped by every EvalError.
	ErrEval = errors.New("script evaluation failed")
)

// CallbackError reports a script exception raised while the host invoked a registered callback.
type CallbackError struct {
	Name string
	Err  error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("callback %q failed: %v", e.Name, e.Err)
}

func (e *CallbackError) Unwrap() []error {
	return []error{ErrCallback, e.Err}
}

// EvalError reports a failure to load or evaluate the entry module. Stack holds the script
// stack trace when the failure was a script exception.
type EvalError struct {
	Path  string
	Stack string
	Err   error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("failed to evaluate %s: %v", e.Path, e.Err)
}

func (e *EvalError) Unwrap() []error {
	return []error{ErrEval, e.Err}
}
