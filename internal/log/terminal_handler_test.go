package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func stripANSI(s string) string {
	for _, code := range []string{ansiReset, ansiDim, ansiBold, ansiRed, ansiGreen, ansiYellow, ansiCyan} {
		s = strings.ReplaceAll(s, code, "")
	}
	return s
}

func TestTerminalHandler_BasicOutput(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(h)

	logger.Info("speaker enrolled", "name", "alice")

	out := stripANSI(buf.String())
	if !strings.Contains(out, "INF") {
		t.Errorf("output should contain level label INF: %q", out)
	}
	if !strings.Contains(out, "speaker enrolled") {
		t.Errorf("output should contain message: %q", out)
	}
	if !strings.Contains(out, "name=alice") {
		t.Errorf("output should contain attribute: %q", out)
	}
}

func TestTerminalHandler_LevelLabels(t *testing.T) {
	tests := []struct {
		level slog.Level
		label string
	}{
		{slog.LevelDebug, "DBG"},
		{slog.LevelInfo, "INF"},
		{slog.LevelWarn, "WRN"},
		{slog.LevelError, "ERR"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			var buf bytes.Buffer
			h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			logger := slog.New(h)

			logger.Log(context.Background(), tt.level, "msg")

			if !strings.Contains(stripANSI(buf.String()), tt.label) {
				t.Errorf("output should contain %q: %q", tt.label, buf.String())
			}
		})
	}
}

func TestTerminalHandler_Enabled(t *testing.T) {
	h := newTerminalHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("INFO should be disabled at WARN level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("ERROR should be enabled at WARN level")
	}
}

func TestTerminalHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, nil)
	logger := slog.New(h).With("backend", "ecapa")

	logger.Info("embedding computed")

	if !strings.Contains(stripANSI(buf.String()), "backend=ecapa") {
		t.Errorf("output should contain pre-set attribute: %q", buf.String())
	}
}

func TestTerminalHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, nil)
	logger := slog.New(h).WithGroup("store")

	logger.Info("rebuilt", "speakers", 3)

	if !strings.Contains(stripANSI(buf.String()), "store.speakers=3") {
		t.Errorf("output should contain grouped attribute: %q", buf.String())
	}
}

func TestTerminalHandler_QuotesStringsWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, nil)
	logger := slog.New(h)

	logger.Info("msg", "reason", "no clips found")

	if !strings.Contains(stripANSI(buf.String()), `reason="no clips found"`) {
		t.Errorf("string with spaces should be quoted: %q", buf.String())
	}
}
