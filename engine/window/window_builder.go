package window

// WindowBuilderOption is a functional option for configuring a window before it is created.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// Resolve applies options to the default window configuration and returns the resulting
// title and size without creating a platform window.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - string: the window title
//   - uint32: the width in pixels
//   - uint32: the height in pixels
func Resolve(options ...WindowBuilderOption) (string, uint32, uint32) {
	w := newWindow(options...)
	width, height := w.Size()
	return w.title, width, height
}

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial window size. Zero dimensions keep the default.
//
// Parameters:
//   - width: initial width in pixels
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height uint32) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.width = int(width)
		}
		if height > 0 {
			w.height = int(height)
		}
	}
}

// WithMinSize sets the minimum allowed window size during resize. Zero leaves a dimension unconstrained.
//
// Parameters:
//   - width: minimum width in pixels
//   - height: minimum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height uint32) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = int(width)
		w.minHeight = int(height)
	}
}

// WithMaxSize sets the maximum allowed window size during resize. Zero leaves a dimension unconstrained.
//
// Parameters:
//   - width: maximum width in pixels
//   - height: maximum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxSize(width, height uint32) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxWidth = int(width)
		w.maxHeight = int(height)
	}
}
