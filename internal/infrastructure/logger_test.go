package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratelens/internal/config"
)

func lastEntry(t *testing.T, content []byte) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func fileConfig(path, level string) config.LoggingConfig {
	return config.LoggingConfig{
		Level:      level,
		Format:     "json",
		Output:     "file",
		FilePath:   path,
		MaxSizeMB:  1,
		MaxBackups: 1,
	}
}

func TestNewLogger_File(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "nested", "test.log")

	logger, closer, err := NewLogger(fileConfig(logFile, "info"), nil)
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("test message", "key", "value")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	entry := lastEntry(t, content)
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestTraceIDInjection(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")
	logger, closer, err := NewLogger(fileConfig(logFile, "debug"), nil)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "test-trace-123")
	WithComponent(logger, "loader").InfoContext(ctx, "test with trace")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	entry := lastEntry(t, content)
	assert.Equal(t, "test-trace-123", entry["trace_id"])
	assert.Equal(t, "loader", entry["component"])
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level   string
		debugOn bool
		warnOn  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warning", false, true},
		{"error", false, false},
		{"bogus", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := config.LoggingConfig{Level: tt.level, Format: "json", Output: "console"}
			logger, closer, err := NewLogger(cfg, &buf)
			require.NoError(t, err)
			defer closer.Close()

			ctx := context.Background()
			assert.Equal(t, tt.debugOn, logger.Enabled(ctx, parseLogLevel("debug")))
			assert.Equal(t, tt.warnOn, logger.Enabled(ctx, parseLogLevel("warn")))
		})
	}
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.LoggingConfig{Level: "info", Format: "text", Output: "console"}
	logger, _, err := NewLogger(cfg, &buf)
	require.NoError(t, err)

	logger.InfoContext(WithTraceID(context.Background(), "abc"), "hello")
	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "trace_id=abc")
}

func TestNewLogger_BothOutputs(t *testing.T) {
	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "both.log")
	cfg := fileConfig(logFile, "info")
	cfg.Output = "both"

	logger, closer, err := NewLogger(cfg, &buf)
	require.NoError(t, err)

	logger.Info("twice")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Equal(t, "twice", lastEntry(t, content)["msg"])
	assert.Equal(t, "twice", lastEntry(t, buf.Bytes())["msg"])
}

func TestContextHelpers(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	traceID := GetTraceID(ctx)
	assert.Len(t, traceID, 36)

	assert.Equal(t, traceID, GetTraceID(EnsureTraceID(ctx)), "existing trace ID must be kept")
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestWithComponent_NoTraceWithoutContext(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := NewLogger(config.LoggingConfig{Level: "info", Output: "console"}, &buf)
	require.NoError(t, err)

	WithComponent(logger, "loader").Info("loaded")
	entry := lastEntry(t, buf.Bytes())
	assert.Equal(t, "loader", entry["component"])
	assert.NotContains(t, entry, "trace_id")
}
