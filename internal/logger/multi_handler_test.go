package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)
	log := slog.New(h)

	log.Info("hello")

	assert.Contains(t, a.String(), "hello")
	assert.Contains(t, b.String(), "hello")
}

func TestMultiHandler_SkipsNilHandlers(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(nil, slog.NewJSONHandler(&buf, nil), nil)

	slog.New(h).Info("only one target")

	assert.Equal(t, 1, strings.Count(buf.String(), "only one target"))
}

func TestMultiHandler_RespectsLevels(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)

	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))

	slog.New(h).Debug("fine detail")

	assert.Contains(t, debugBuf.String(), "fine detail")
	assert.Zero(t, warnBuf.Len())
}

func TestMultiHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(slog.NewJSONHandler(&buf, nil))

	slog.New(h.WithAttrs([]slog.Attr{slog.String("module", "mcp")})).Info("attached")

	assert.Contains(t, buf.String(), `"module":"mcp"`)
}
