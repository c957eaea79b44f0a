package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CustomWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	log.Info("board created", "board_id", "board-1")

	assert.Contains(t, buf.String(), `"msg":"board created"`)
	assert.Contains(t, buf.String(), `"board_id":"board-1"`)
	assert.Contains(t, buf.String(), `"level":"INFO"`)
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		env      string
		wantJSON bool
	}{
		{"production", true},
		{"development", false},
		{"staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Environment: tt.env, Writer: &buf})
			log.Info("hello")

			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"hello"`)
			} else {
				assert.Contains(t, buf.String(), "INF")
				assert.NotContains(t, buf.String(), `"msg"`)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil)

	r := slog.NewRecord(time.Now(), slog.LevelError, "persist failed", 0)
	r.AddAttrs(slog.String("key", "boards"))
	require.NoError(t, h.Handle(context.Background(), r))

	out := buf.String()
	assert.Contains(t, out, "ERR")
	assert.Contains(t, out, "persist failed")
	assert.Contains(t, out, "key=boards")
}

func TestPrettyHandler_WithGroupQualifiesKeys(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil)).WithGroup("storage").With("backend", "badger")

	log.Info("opened", "path", "/tmp/db")

	out := buf.String()
	assert.Contains(t, out, "storage.backend=badger")
	assert.Contains(t, out, "storage.path=/tmp/db")
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "json", Writer: &buf})

	log.WithError(errors.New("disk full")).Error("save failed")

	assert.Contains(t, buf.String(), `"error":"disk full"`)
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "json", Writer: &buf})

	log.WithComponent("autosave").Info("tick")

	assert.Contains(t, buf.String(), `"component":"autosave"`)
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))

	l := slog.Default()
	assert.Same(t, l, OrDiscard(l))
}
