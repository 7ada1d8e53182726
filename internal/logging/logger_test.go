package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn, true)

	logger.Info("hidden")
	logger.Warn("shown", "video_id", "abc123")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "video_id=abc123")
}

func TestNew_NoColorHasNoEscapes(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo, true).Info("plain")

	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestInit_SetsDefault(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })

	var buf bytes.Buffer
	logger := Init(&buf, slog.LevelInfo, true)
	slog.Info("via default")

	assert.Same(t, logger, slog.Default())
	assert.Contains(t, buf.String(), "via default")
}
