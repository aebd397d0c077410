package loggy

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{Level: slog.LevelInfo, Format: "json", AddSource: true})

	logger.With("project", "demo").Info("Pull finished", "files", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Pull finished", record["msg"])
	assert.Equal(t, "demo", record["project"])
	assert.Equal(t, float64(3), record["files"])
	assert.Contains(t, record["source"], "loggy_test.go")
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{Level: slog.LevelWarn, Format: "text"})

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.False(t, logger.Enabled(slog.LevelDebug))
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Info("nothing")
		logger.With("a", 1).WithError(assert.AnError).Error("still nothing")
	})
}

func TestSyncIDContext(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf, Config{Level: slog.LevelInfo, Format: "text"})
	ctx := WithLogger(context.Background(), base)

	id := NewSyncID()
	assert.True(t, strings.HasPrefix(id, "sync-"))

	ctx = WithSyncID(ctx, id)
	assert.Equal(t, id, GetSyncID(ctx))

	FromContext(ctx).Info("phase")
	assert.Contains(t, buf.String(), "sync_id="+id)

	assert.Empty(t, GetSyncID(context.Background()))
}
