package logger

import (
	"KolBD/internal/api/config"
	"bytes"
	"context"
	log "log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&config.Config{AppName: "kol-test", Server: config.ServerConfig{LogLevel: "debug"}}, &buf)
	defer log.SetDefault(log.New(log.NewTextHandler(&bytes.Buffer{}, nil)))

	ctx := WithUserID(WithTraceID(context.Background(), "trace-1"), 42)
	log.DebugContext(ctx, "hello", "k", "v")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "kol-test", entry["app"])
	assert.Equal(t, "trace-1", entry[TraceIDKey])
	assert.Equal(t, float64(42), entry["user_id"])

	buf.Reset()
	log.Info("plain")
	entry = map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, TraceIDKey)
	assert.NotContains(t, entry, "user_id")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, log.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, log.LevelError, ParseLevel(" error "))
	assert.Equal(t, log.LevelInfo, ParseLevel("whatever"))
}

func TestUserIDMissing(t *testing.T) {
	_, ok := UserID(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "", TraceID(context.Background()))
}
