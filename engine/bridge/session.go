package bridge

import "github.com/Carmen-Shannon/oxy-script/common"

// Default window settings used when neither the config file nor the script provides any.
const (
	DefaultWindowTitle  = common.DefaultWindowTitle
	DefaultWindowWidth  = common.DefaultWindowWidth
	DefaultWindowHeight = common.DefaultWindowHeight
)

// WindowConfig is the window request a script makes before the event loop starts.
type WindowConfig = common.WindowConfig

// DefaultWindowConfig returns the built in window configuration.
func DefaultWindowConfig() WindowConfig {
	return common.DefaultWindowConfig()
}

// Session is the process wide state shared by the bridge operations and the application
// controller. It owns the WindowConfig until the controller consumes it at window creation,
// after which the config is frozen.
type Session struct {
	config        WindowConfig
	windowCreated bool
}

// NewSession creates a Session holding the given defaults. Zero fields fall back to
// DefaultWindowConfig.
//
// Parameters:
//   - defaults: the window configuration used when the script never calls createWindow
//
// Returns:
//   - *Session: the new session
func NewSession(defaults WindowConfig) *Session {
	return &Session{config: defaults.WithDefaults()}
}

// WindowConfig returns the current window configuration.
func (s *Session) WindowConfig() WindowConfig {
	return s.config
}

// WindowCreated reports whether the controller has already consumed the window configuration.
func (s *Session) WindowCreated() bool {
	return s.windowCreated
}

// MarkWindowCreated freezes the window configuration. Later SetWindowConfig calls are ignored.
func (s *Session) MarkWindowCreated() {
	s.windowCreated = true
}
