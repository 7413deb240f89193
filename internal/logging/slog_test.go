package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")
	ctx := context.Background()

	log.Debug(ctx, "dbg")
	log.Info(ctx, "inf")
	log.Warn(ctx, "wrn", "status", 401)
	log.Error(ctx, "err")

	out := buf.String()
	assert.NotContains(t, out, "msg=dbg")
	assert.NotContains(t, out, "msg=inf")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status=401")
	assert.Contains(t, out, "level=ERROR")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug").With("component", "session", "epoch", 3)
	log.Info(context.Background(), "stale login discarded", "email", "a@b.com")

	out := buf.String()
	for _, s := range []string{"level=INFO", "component=session", "epoch=3", "email=a@b.com"} {
		require.True(t, strings.Contains(out, s), "expected %q in output, got:\n%s", s, out)
	}
}

func TestDiscard_DoesNotPanic(t *testing.T) {
	log := Discard()
	ctx := context.TODO()
	log.Debug(ctx, "x")
	log.Info(ctx, "x")
	log.Warn(ctx, "x")
	log.Error(ctx, "x")
	_ = log.With("k", "v")
}
