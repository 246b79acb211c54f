package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

var (
	// ErrUnsupportedMediaType is wrapped by every UnsupportedMediaTypeError.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrTranspile is wrapped by every TranspileError.
	ErrTranspile = errors.New("transpile failed")

	// ErrClosed is returned by Prefetch after Close.
	ErrClosed = errors.New("loader is closed")
)

// UnsupportedMediaTypeError reports a module whose extension is not a known source kind.
type UnsupportedMediaTypeError struct {
	Path string
	Ext  string
}

func (e *UnsupportedMediaTypeError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("%s: unknown extension (none)", e.Path)
	}
	return fmt.Sprintf("%s: unknown extension %q", e.Path, e.Ext)
}

func (e *UnsupportedMediaTypeError) Unwrap() error {
	return ErrUnsupportedMediaType
}

// TranspileError carries the esbuild diagnostics for a module that could not be transpiled.
type TranspileError struct {
	Path     string
	Messages []string
}

func (e *TranspileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, strings.Join(e.Messages, "; "))
}

func (e *TranspileError) Unwrap() error {
	return ErrTranspile
}

func newTranspileError(path string, msgs []api.Message) *TranspileError {
	e := &TranspileError{Path: path}
	for _, m := range msgs {
		if m.Location != nil {
			e.Messages = append(e.Messages, fmt.Sprintf("%d:%d: %s", m.Location.Line, m.Location.Column, m.Text))
			continue
		}
		e.Messages = append(e.Messages, m.Text)
	}
	return e
}
