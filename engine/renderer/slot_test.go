package renderer_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-script/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotAbsent(t *testing.T) {
	s := renderer.NewSlot()

	assert.False(t, s.Present())
	assert.NoError(t, s.Release())

	called := false
	err := s.Borrow(func(renderer.Renderer) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, renderer.ErrContextAbsent)
	assert.False(t, called)
}

func TestSlotSetOnce(t *testing.T) {
	s := renderer.NewSlot()
	first, _ := newTestRenderer(t, 640, 480)
	second, _ := newTestRenderer(t, 320, 240)

	require.NoError(t, s.Set(first))
	assert.ErrorIs(t, s.Set(second), renderer.ErrContextPresent)

	assert.NoError(t, s.Borrow(func(got renderer.Renderer) error {
		assert.Same(t, first, got)
		return nil
	}))
}

func TestSlotBorrow(t *testing.T) {
	s := renderer.NewSlot()
	r, _ := newTestRenderer(t, 640, 480)
	require.NoError(t, s.Set(r))

	var inner error
	err := s.Borrow(func(got renderer.Renderer) error {
		assert.Same(t, r, got)
		inner = s.Borrow(func(renderer.Renderer) error { return nil })
		return nil
	})
	require.NoError(t, err)
	assert.ErrorIs(t, inner, renderer.ErrReentrantBorrow)

	// The borrow ends with the callback, so the slot can be borrowed again.
	assert.NoError(t, s.Borrow(func(renderer.Renderer) error { return nil }))
}

func TestSlotRelease(t *testing.T) {
	s := renderer.NewSlot()
	r, backend := newTestRenderer(t, 640, 480)
	require.NoError(t, s.Set(r))

	var inner error
	require.NoError(t, s.Borrow(func(renderer.Renderer) error {
		inner = s.Release()
		return nil
	}))
	assert.ErrorIs(t, inner, renderer.ErrReentrantBorrow)
	assert.False(t, backend.Released)

	require.NoError(t, s.Release())
	assert.True(t, backend.Released)
	assert.False(t, s.Present())
	assert.ErrorIs(t, s.Borrow(func(renderer.Renderer) error { return nil }), renderer.ErrContextAbsent)
}
