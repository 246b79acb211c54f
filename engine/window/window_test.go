package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWindowDefaults(t *testing.T) {
	w := newWindow()

	assert.Equal(t, "Custom JS Runtime", w.Title())
	width, height := w.Size()
	assert.Equal(t, uint32(800), width)
	assert.Equal(t, uint32(600), height)
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
}

func TestWindowBuilderOptions(t *testing.T) {
	w := newWindow(
		WithTitle("Demo"),
		WithSize(640, 480),
		WithMinSize(320, 0),
		WithMaxSize(1920, 1080),
	)

	assert.Equal(t, "Demo", w.Title())
	width, height := w.Size()
	assert.Equal(t, uint32(640), width)
	assert.Equal(t, uint32(480), height)
	assert.Equal(t, 320, w.minWidth)
	assert.Equal(t, 0, w.minHeight)
	assert.Equal(t, 1920, w.maxWidth)
	assert.Equal(t, 1080, w.maxHeight)
}

func TestWithSizeIgnoresZero(t *testing.T) {
	w := newWindow(WithSize(0, 300))

	width, height := w.Size()
	assert.Equal(t, uint32(800), width)
	assert.Equal(t, uint32(300), height)
}

func TestWindowEventQueue(t *testing.T) {
	w := newWindow()

	w.push(Resized{Width: 320, Height: 240})
	w.push(CloseRequested{})

	assert.Equal(t, []Event{Resized{Width: 320, Height: 240}, CloseRequested{}}, w.drain())
	assert.Empty(t, w.drain())
}

func TestRequestRedrawCoalesces(t *testing.T) {
	w := newWindow()

	w.RequestRedraw()
	w.RequestRedraw()
	assert.True(t, w.redrawRequested)
}

func TestSizeLimit(t *testing.T) {
	assert.Equal(t, 640, sizeLimit(640))
	assert.Equal(t, sizeLimit(-5), sizeLimit(0))
}
