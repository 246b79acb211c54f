// Package logging builds the process logger. Text output goes through charmbracelet/log,
// JSON output through the standard slog JSON handler.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofrs/uuid/v5"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Levels lists the accepted log level names.
var Levels = []string{"trace", "debug", "info", "warn", "warning", "error"}

// ValidLevel reports whether level is one of Levels, ignoring case.
func ValidLevel(level string) bool {
	l := strings.ToLower(level)
	for _, v := range Levels {
		if l == v {
			return true
		}
	}
	return false
}

// SetupHandlerText configures a text slog handler with the provided writer and log level
func SetupHandlerText(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	reportCaller := false
	reportTimestamp := false
	lvl := log.InfoLevel
	switch strings.ToLower(logLevel) {
	case "trace":
		reportCaller = true
		reportTimestamp = true
		lvl = log.DebugLevel
	case "debug":
		reportTimestamp = true
		lvl = log.DebugLevel
	case "warn", "warning":
		lvl = log.WarnLevel
	case "error":
		lvl = log.ErrorLevel
	}

	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: reportTimestamp,
		ReportCaller:    reportCaller,
		Level:           lvl,
	})
}

// SetupHandlerJSON configures a JSON slog handler with the provided writer and log level
func SetupHandlerJSON(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	reportCaller := false
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "trace":
		reportCaller = true
		level = slog.LevelDebug
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     level,
		AddSource: reportCaller,
	})
}

// SetupLogger builds a logger for the given level and format, tags it with a per process
// session id and installs it as the slog default.
//
// Parameters:
//   - logLevel: one of Levels
//   - format: FormatText or FormatJSON
//   - writer: the output; nil means stderr
//
// Returns:
//   - *slog.Logger: the installed logger
//   - error: an error for an unknown level or format
func SetupLogger(logLevel, format string, writer io.Writer) (*slog.Logger, error) {
	if !ValidLevel(logLevel) {
		return nil, fmt.Errorf("unknown log level %q", logLevel)
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case FormatText, "":
		handler = SetupHandlerText(logLevel, writer)
	case FormatJSON:
		handler = SetupHandlerJSON(logLevel, writer)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	session, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	logger := slog.New(handler).With(slog.String("session", session.String()))
	slog.SetDefault(logger)
	return logger, nil
}
