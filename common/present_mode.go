package common

import (
	"fmt"
	"strings"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing. This is the default.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeVSync:
		return "vsync"
	case PresentModeUncapped:
		return "uncapped"
	default:
		return "unknown"
	}
}

// ParsePresentMode parses a present mode name as returned by PresentMode.String.
//
// Parameters:
//   - s: "vsync" or "uncapped", case insensitive
//
// Returns:
//   - PresentMode: the parsed mode
//   - error: an error for any other value
func ParsePresentMode(s string) (PresentMode, error) {
	switch strings.ToLower(s) {
	case "vsync":
		return PresentModeVSync, nil
	case "uncapped":
		return PresentModeUncapped, nil
	default:
		return PresentModeVSync, fmt.Errorf("unknown present mode %q", s)
	}
}
