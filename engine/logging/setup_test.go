package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupHandlerText(t *testing.T) {
	tests := []struct {
		name          string
		logLevel      string
		expectedLevel log.Level
	}{
		{name: "trace level", logLevel: "trace", expectedLevel: log.DebugLevel},
		{name: "debug level", logLevel: "debug", expectedLevel: log.DebugLevel},
		{name: "info level", logLevel: "info", expectedLevel: log.InfoLevel},
		{name: "warning level", logLevel: "warning", expectedLevel: log.WarnLevel},
		{name: "error level", logLevel: "error", expectedLevel: log.ErrorLevel},
		{name: "uppercase level", logLevel: "DEBUG", expectedLevel: log.DebugLevel},
		{name: "unknown level", logLevel: "loud", expectedLevel: log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := SetupHandlerText(tt.logLevel, &bytes.Buffer{})
			logger, ok := handler.(*log.Logger)
			require.True(t, ok, "handler should be a charmbracelet logger")
			assert.Equal(t, tt.expectedLevel, logger.GetLevel())
		})
	}
}

func TestSetupHandlerJSON(t *testing.T) {
	tests := []struct {
		logLevel string
		enabled  slog.Level
		disabled slog.Level
	}{
		{logLevel: "trace", enabled: slog.LevelDebug, disabled: slog.LevelDebug - 1},
		{logLevel: "debug", enabled: slog.LevelDebug, disabled: slog.LevelDebug - 1},
		{logLevel: "info", enabled: slog.LevelInfo, disabled: slog.LevelDebug},
		{logLevel: "warn", enabled: slog.LevelWarn, disabled: slog.LevelInfo},
		{logLevel: "error", enabled: slog.LevelError, disabled: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			handler := SetupHandlerJSON(tt.logLevel, &bytes.Buffer{})
			assert.True(t, handler.Enabled(context.Background(), tt.enabled))
			assert.False(t, handler.Enabled(context.Background(), tt.disabled))
		})
	}
}

func TestSetupLoggerJSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger, err := SetupLogger("info", FormatJSON, &buf)
	require.NoError(t, err)
	assert.Same(t, logger, slog.Default())

	logger.Info("hello", slog.String("source", "script"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "script", record["source"])

	session, ok := record["session"].(string)
	require.True(t, ok)
	_, err = uuid.FromString(session)
	assert.NoError(t, err)
}

func TestSetupLoggerText(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger, err := SetupLogger("warn", FormatText, &buf)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept")
	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
	assert.True(t, strings.Contains(out, "session="))
}

func TestSetupLoggerRejectsUnknownValues(t *testing.T) {
	_, err := SetupLogger("loud", FormatText, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = SetupLogger("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel("TRACE"))
	assert.True(t, ValidLevel("warning"))
	assert.False(t, ValidLevel(""))
	assert.False(t, ValidLevel("verbose"))
}
