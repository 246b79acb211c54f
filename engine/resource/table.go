package resource

import (
	"errors"
	"fmt"
)

// Handle is an opaque index into a Table. Handles are assigned by table length at insertion
// time and are never reused or invalidated for the lifetime of the table.
type Handle uint32

// ErrOutOfRange is the sentinel wrapped by every OutOfRangeError.
var ErrOutOfRange = errors.New("handle out of range")

// OutOfRangeError reports a handle that does not index an entry of the named table.
type OutOfRangeError struct {
	Table  string
	Handle Handle
	Len    int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s handle %d out of range (table length %d)", e.Table, e.Handle, e.Len)
}

func (e *OutOfRangeError) Unwrap() error {
	return ErrOutOfRange
}

// Table is an append-only sequence of host-owned objects addressed by Handle.
// There is no removal operation; entries live as long as the table does.
//
// Table is not safe for concurrent use. All graphics calls run on the main thread.
type Table[T any] struct {
	name    string
	entries []T
}

// NewTable creates an empty Table. The name is only used in error messages.
//
// Parameters:
//   - name: a short human readable name for the table (e.g. "shader")
//
// Returns:
//   - *Table[T]: the empty table
func NewTable[T any](name string) *Table[T] {
	return &Table[T]{name: name}
}

// Allocate appends v and returns its handle, which is the table length before insertion.
//
// Parameters:
//   - v: the object to store
//
// Returns:
//   - Handle: the handle addressing v
func (t *Table[T]) Allocate(v T) Handle {
	h := Handle(len(t.entries))
	t.entries = append(t.entries, v)
	return h
}

// Get returns the object addressed by h.
//
// Parameters:
//   - h: the handle to resolve
//
// Returns:
//   - T: the stored object, or the zero value on failure
//   - error: an *OutOfRangeError if h is not less than the table length
func (t *Table[T]) Get(h Handle) (T, error) {
	if int(h) >= len(t.entries) {
		var zero T
		return zero, &OutOfRangeError{Table: t.name, Handle: h, Len: len(t.entries)}
	}
	return t.entries[h], nil
}

// Len returns the number of allocated entries.
func (t *Table[T]) Len() int {
	return len(t.entries)
}

// Name returns the table name used in error messages.
func (t *Table[T]) Name() string {
	return t.name
}
