package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/genpack/internal/adapters/logger"
)

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		name   string
		level  slog.Level
		msg    string
		golden string
	}{
		{"info", slog.LevelInfo, "syncing genpack-overlay", "handler_info"},
		{"warn", slog.LevelWarn, "mixin unreachable, using cached copy", "handler_warn"},
		{"error", slog.LevelError, "emerge failed", "handler_error"},
		{"command", slog.LevelInfo, "$ mksquashfs work/x86_64/root out.squashfs", "handler_command"},
		{"debug filtered", slog.LevelDebug, "hidden", "handler_debug_filtered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")
			buf := &bytes.Buffer{}
			lg := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}, true))

			lg.Log(t.Context(), tt.level, tt.msg)

			goldie.New(t).Assert(t, tt.golden, buf.Bytes())
		})
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	buf := &bytes.Buffer{}
	var h slog.Handler = logger.NewPrettyHandler(buf, nil, true)
	h = h.WithAttrs([]slog.Attr{slog.String("arch", "x86_64")}).WithGroup("stage")
	lg := slog.New(h)

	lg.Info("done", "name", "lower", slog.Group("timing", slog.Int("seconds", 3)))

	assert.Equal(t, "done stage.arch=x86_64 stage.name=lower stage.timing.seconds=3\n", buf.String())
}

func TestPrettyHandler_ColorDisabled(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil, false))

	lg.Warn("careful")

	assert.Equal(t, "! careful\n", buf.String())
}
