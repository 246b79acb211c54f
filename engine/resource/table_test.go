package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAllocateIsMonotonic(t *testing.T) {
	tbl := NewTable[string]("shader")

	for i := range 5 {
		h := tbl.Allocate("entry")
		assert.Equal(t, Handle(i), h)
	}
	assert.Equal(t, 5, tbl.Len())
}

func TestTableGet(t *testing.T) {
	tbl := NewTable[string]("pipeline")
	a := tbl.Allocate("a")
	b := tbl.Allocate("b")

	got, err := tbl.Get(a)
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	got, err = tbl.Get(b)
	require.NoError(t, err)
	assert.Equal(t, "b", got)
}

func TestTableGetOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		fill   int
		handle Handle
	}{
		{name: "empty table", fill: 0, handle: 0},
		{name: "equal to length", fill: 2, handle: 2},
		{name: "far past length", fill: 1, handle: 4096},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := NewTable[int]("shader")
			for i := range tt.fill {
				tbl.Allocate(i)
			}

			got, err := tbl.Get(tt.handle)
			require.Error(t, err)
			assert.Zero(t, got)
			assert.True(t, errors.Is(err, ErrOutOfRange))

			var oor *OutOfRangeError
			require.ErrorAs(t, err, &oor)
			assert.Equal(t, "shader", oor.Table)
			assert.Equal(t, tt.handle, oor.Handle)
			assert.Equal(t, tt.fill, oor.Len)
			assert.Equal(t, tt.fill, tbl.Len())
		})
	}
}
