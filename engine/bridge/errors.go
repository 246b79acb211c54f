package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition is wrapped by every PreconditionError.
	ErrPrecondition = errors.New("precondition violation")

	// ErrInvalidWindowSize is returned by SetWindowConfig for a zero width or height.
	ErrInvalidWindowSize = errors.New("window size must be at least 1x1")
)

// PreconditionError reports a graphics operation called before the graphics context exists,
// i.e. outside of the setup, resize or draw callbacks.
type PreconditionError struct {
	Op  Op
	Err error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s called before the graphics context was created: %v", e.Op, e.Err)
}

func (e *PreconditionError) Unwrap() []error {
	return []error{ErrPrecondition, e.Err}
}
