package common

// Default window settings used when neither the config file nor the script provides any.
const (
	DefaultWindowTitle  = "Custom JS Runtime"
	DefaultWindowWidth  = 800
	DefaultWindowHeight = 600
)

// WindowConfig is the window request a script makes before the event loop starts.
// Width and Height are always at least 1 once it reaches the session.
type WindowConfig struct {
	Title  string
	Width  uint32
	Height uint32
}

// DefaultWindowConfig returns the built in window configuration.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Title:  DefaultWindowTitle,
		Width:  DefaultWindowWidth,
		Height: DefaultWindowHeight,
	}
}

// WithDefaults fills zero fields from DefaultWindowConfig.
func (c WindowConfig) WithDefaults() WindowConfig {
	return WindowConfig{
		Title:  Coalesce(c.Title, DefaultWindowTitle),
		Width:  Coalesce(c.Width, DefaultWindowWidth),
		Height: Coalesce(c.Height, DefaultWindowHeight),
	}
}
