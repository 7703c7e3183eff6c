package logutil

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsSilent(t *testing.T) {
	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}

func TestFor_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTextLogger(&buf, "debug"))
	t.Cleanup(func() { SetLogger(nil) })

	For("gallery").Info("loaded batch", "count", 8)
	out := buf.String()
	assert.Contains(t, out, "component=gallery")
	assert.Contains(t, out, `msg="loaded batch"`)
	assert.Contains(t, out, "count=8")
}

func TestNewTextLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf, "warn")
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
