package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("create logger with console output", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(Config{
			Level:   "info",
			Console: true,
			Output:  &buf,
		})
		require.NoError(t, err)
		defer logger.Close()

		zl := logger.GetZerolog()
		zl.Info().Str("recipient", "Ana").Msg("Birthday message sent")
		assert.Contains(t, buf.String(), `"recipient":"Ana"`)
		assert.Contains(t, buf.String(), `"level":"info"`)
	})

	t.Run("create logger with file output", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")

		logger, err := New(Config{
			Level:   "debug",
			File:    logFile,
			Console: false,
		})
		require.NoError(t, err)

		zl := logger.GetZerolog()
		zl.Info().Msg("test message")
		require.NoError(t, logger.Close())

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), "test message")
	})

	t.Run("file output rotates when max size is set", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")

		logger, err := New(Config{
			Level:   "info",
			File:    logFile,
			MaxSize: 1,
		})
		require.NoError(t, err)
		defer logger.Close()

		_, ok := logger.file.(*RotatingWriter)
		assert.True(t, ok)
	})

	t.Run("create logger with redaction", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(Config{
			Level:     "info",
			Console:   true,
			Redaction: true,
			Output:    &buf,
		})
		require.NoError(t, err)
		defer logger.Close()
		assert.NotNil(t, logger.redactor)

		zl := logger.GetZerolog()
		zl.Info().Str("url", "https://web.whatsapp.com/accept?code=Hx7Qk2LmPz").Msg("Opening conversation")
		assert.NotContains(t, buf.String(), "Hx7Qk2LmPz")
		assert.Contains(t, buf.String(), "accept?code=[REDACTED]")
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		logger, err := New(Config{Level: "loud", Output: &bytes.Buffer{}})
		require.NoError(t, err)
		assert.Equal(t, zerolog.InfoLevel, logger.GetZerolog().GetLevel())
	})
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{
		Level:   "debug",
		Console: true,
		Output:  &buf,
	})
	require.NoError(t, err)
	defer logger.Close()

	zl := logger.GetZerolog()
	zl.Debug().Msg("debug message")
	zl.Info().Msg("info message")
	zl.Warn().Msg("warn message")
	zl.Error().Msg("error message")

	for _, msg := range []string{"debug message", "info message", "warn message", "error message"} {
		assert.Contains(t, buf.String(), msg)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.True(t, cfg.Console)
	assert.True(t, cfg.Pretty)
	assert.True(t, cfg.Redaction)
	assert.Equal(t, 100, cfg.MaxSize)
	assert.Equal(t, 7, cfg.MaxAge)
	assert.True(t, cfg.Compress)
}

func TestLoggerComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Console: true, Output: &buf})
	require.NoError(t, err)
	defer logger.Close()

	child := logger.Component("orchestrator")
	child.Info().Msg("Run started")

	assert.Contains(t, buf.String(), `"component":"orchestrator"`)
}

func TestGetZerolog(t *testing.T) {
	logger, err := New(Config{Level: "warn", Output: &bytes.Buffer{}})
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, zerolog.WarnLevel, logger.GetZerolog().GetLevel())
}
