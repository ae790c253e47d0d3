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

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/config"
)

func readLastLogEntry(t *testing.T, path string) map[string]any {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	logger.Info("dataset uploaded", "rows", 5)
	require.NoError(t, CloseLogFile())

	entry := readLastLogEntry(t, logFile)
	assert.Equal(t, "dataset uploaded", entry["msg"])
	assert.Equal(t, float64(5), entry["rows"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Contains(t, entry, "source")
}

func TestTraceIDInjection(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "test.log")
	logger, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "file", FilePath: logFile})
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "trace-123")
	logger.DebugContext(ctx, "building dashboard")
	require.NoError(t, CloseLogFile())

	entry := readLastLogEntry(t, logFile)
	assert.Equal(t, "trace-123", entry["trace_id"])
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		logged   []string
		filtered []string
	}{
		{level: "debug", logged: []string{"debug", "info", "warn", "error"}},
		{level: "info", logged: []string{"info", "warn", "error"}, filtered: []string{"debug"}},
		{level: "warning", logged: []string{"warn", "error"}, filtered: []string{"debug", "info"}},
		{level: "error", logged: []string{"error"}, filtered: []string{"debug", "info", "warn"}},
		{level: "bogus", logged: []string{"info"}, filtered: []string{"debug"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.level)

			logger.Debug("msg-debug")
			logger.Info("msg-info")
			logger.Warn("msg-warn")
			logger.Error("msg-error")

			out := buf.String()
			for _, l := range tt.logged {
				assert.Contains(t, out, "msg-"+l)
			}
			for _, l := range tt.filtered {
				assert.NotContains(t, out, "msg-"+l)
			}
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	traceID := GetTraceID(ctx)
	require.NotEmpty(t, traceID)

	assert.Equal(t, traceID, GetTraceID(EnsureTraceID(ctx)), "existing trace id must be kept")
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	decode := func() map[string]any {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		buf.Reset()
		return entry
	}

	WithComponent(logger, "datasets").Info("stored")
	assert.Equal(t, "datasets", decode()["component"])

	WithDataset(logger, "ds-1").Info("stored")
	assert.Equal(t, "ds-1", decode()["dataset_id"])

	WithError(logger, os.ErrNotExist).Info("failed")
	assert.Contains(t, decode()["error"], "file does not exist")

	assert.Same(t, logger, WithError(logger, nil))

	ctx := WithTraceID(context.Background(), "abc")
	LoggerWithContext(ctx, logger).Info("scoped")
	assert.Equal(t, "abc", decode()["trace_id"])
}
