// Package config loads the optional TOML settings file. Keys missing from the file keep
// their defaults; command line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Carmen-Shannon/oxy-script/common"
	"github.com/Carmen-Shannon/oxy-script/engine/logging"
	"github.com/Carmen-Shannon/oxy-script/engine/script/loader"
	"github.com/pelletier/go-toml/v2"
)

// Config is the full application configuration.
type Config struct {
	LogLevel  string   `toml:"log_level"`
	LogFormat string   `toml:"log_format"`
	Window    Window   `toml:"window"`
	Renderer  Renderer `toml:"renderer"`
	Script    Script   `toml:"script"`
	Profiler  Profiler `toml:"profiler"`
}

// Window holds the default window settings used when the script never calls createWindow.
type Window struct {
	Title  string `toml:"title"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

// Renderer holds graphics context settings.
type Renderer struct {
	PresentMode          string `toml:"present_mode"`
	ForceFallbackAdapter bool   `toml:"force_fallback_adapter"`
	ShaderValidation     *bool  `toml:"shader_validation"`
	StrictValidation     bool   `toml:"strict_validation"`
}

// Script holds module loading and evaluation settings.
type Script struct {
	EvalTimeout     string `toml:"eval_timeout"`
	PrefetchWorkers int    `toml:"prefetch_workers"`
	CacheSize       int    `toml:"cache_size"`
}

// Profiler holds frame profiler settings.
type Profiler struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the built in configuration.
func Default() *Config {
	validation := true
	return &Config{
		LogLevel:  "info",
		LogFormat: logging.FormatText,
		Window: Window{
			Title:  common.DefaultWindowTitle,
			Width:  common.DefaultWindowWidth,
			Height: common.DefaultWindowHeight,
		},
		Renderer: Renderer{
			PresentMode:      common.PresentModeVSync.String(),
			ShaderValidation: &validation,
		},
		Script: Script{
			EvalTimeout:     "0s",
			PrefetchWorkers: loader.DefaultPrefetchWorkers,
			CacheSize:       loader.DefaultCacheSize,
		},
	}
}

// Load reads a TOML config file and fills in defaults for missing keys. An empty path
// returns the defaults.
//
// Parameters:
//   - path: the .toml file to read, or ""
//
// Returns:
//   - *Config: the merged configuration
//   - error: an error wrapping ErrFailedToLoadConfig or ErrFailedToValidateConfig
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if ext := filepath.Ext(path); ext != ".toml" {
		return nil, fmt.Errorf("%w: unsupported config format %q, only .toml is supported", ErrFailedToLoadConfig, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}

	return FromBytes(data)
}

// FromBytes parses TOML data and fills in defaults for missing keys.
//
// Parameters:
//   - data: TOML encoded configuration
//
// Returns:
//   - *Config: the merged configuration
//   - error: an error wrapping ErrFailedToLoadConfig or ErrFailedToValidateConfig
func FromBytes(data []byte) (*Config, error) {
	var file Config
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}

	cfg := file.merge(Default())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge fills zero fields of c from defaults.
func (c *Config) merge(d *Config) *Config {
	return &Config{
		LogLevel:  common.Coalesce(c.LogLevel, d.LogLevel),
		LogFormat: common.Coalesce(c.LogFormat, d.LogFormat),
		Window: Window{
			Title:  common.Coalesce(c.Window.Title, d.Window.Title),
			Width:  common.Coalesce(c.Window.Width, d.Window.Width),
			Height: common.Coalesce(c.Window.Height, d.Window.Height),
		},
		Renderer: Renderer{
			PresentMode:          common.Coalesce(c.Renderer.PresentMode, d.Renderer.PresentMode),
			ForceFallbackAdapter: c.Renderer.ForceFallbackAdapter,
			ShaderValidation:     common.Coalesce(c.Renderer.ShaderValidation, d.Renderer.ShaderValidation),
			StrictValidation:     c.Renderer.StrictValidation,
		},
		Script: Script{
			EvalTimeout:     common.Coalesce(c.Script.EvalTimeout, d.Script.EvalTimeout),
			PrefetchWorkers: common.Coalesce(c.Script.PrefetchWorkers, d.Script.PrefetchWorkers),
			CacheSize:       common.Coalesce(c.Script.CacheSize, d.Script.CacheSize),
		},
		Profiler: c.Profiler,
	}
}

// Validate checks every field and returns all findings joined.
//
// Returns:
//   - error: an error wrapping ErrFailedToValidateConfig, or nil
func (c *Config) Validate() error {
	var errs []error

	if !logging.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	if c.LogFormat != logging.FormatText && c.LogFormat != logging.FormatJSON {
		errs = append(errs, fmt.Errorf("log_format: unknown format %q", c.LogFormat))
	}
	if c.Window.Width == 0 || c.Window.Height == 0 {
		errs = append(errs, fmt.Errorf("window: size must be at least 1x1, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if _, err := common.ParsePresentMode(c.Renderer.PresentMode); err != nil {
		errs = append(errs, fmt.Errorf("renderer.present_mode: %w", err))
	}
	if d, err := time.ParseDuration(c.Script.EvalTimeout); err != nil {
		errs = append(errs, fmt.Errorf("script.eval_timeout: %w", err))
	} else if d < 0 {
		errs = append(errs, fmt.Errorf("script.eval_timeout: must not be negative, got %s", d))
	}
	if c.Script.PrefetchWorkers < 0 {
		errs = append(errs, fmt.Errorf("script.prefetch_workers: must not be negative, got %d", c.Script.PrefetchWorkers))
	}
	if c.Script.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("script.cache_size: must not be negative, got %d", c.Script.CacheSize))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrFailedToValidateConfig, errors.Join(errs...))
	}
	return nil
}

// WindowConfig returns the window defaults for the bridge session.
func (c *Config) WindowConfig() common.WindowConfig {
	return common.WindowConfig{Title: c.Window.Title, Width: c.Window.Width, Height: c.Window.Height}
}

// PresentMode returns the parsed present mode. Call Validate first; invalid values map to vsync.
func (c *Config) PresentMode() common.PresentMode {
	mode, _ := common.ParsePresentMode(c.Renderer.PresentMode)
	return mode
}

// EvalTimeout returns the parsed evaluation timeout. Call Validate first; invalid values map to 0.
func (c *Config) EvalTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Script.EvalTimeout)
	return d
}

// ShaderValidation reports whether host side shader validation is enabled.
func (c *Config) ShaderValidation() bool {
	return common.ValueOr(c.Renderer.ShaderValidation, true)
}
