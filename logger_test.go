package procedure

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFmtLoggerFormatsFieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFmtLogger(&buf).WithFields(map[string]any{
		"zeta":  1,
		"alpha": "x",
	})

	logger.Warn("something %s", "happened")

	line := buf.String()
	if !strings.Contains(line, "WARN") {
		t.Fatalf("expected level in output: %s", line)
	}
	if !strings.Contains(line, "something happened") {
		t.Fatalf("expected formatted message: %s", line)
	}
	if strings.Index(line, "alpha=x") > strings.Index(line, "zeta=1") {
		t.Fatalf("expected sorted fields: %s", line)
	}
}

func TestNormalizeLoggerFallsBack(t *testing.T) {
	if normalizeLogger(nil) == nil {
		t.Fatal("expected a fallback logger")
	}
}

func TestSlogLoggerAdaptsHandler(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger := NewSlogLogger(base).WithContext(context.Background())
	withLoggerFields(logger, map[string]any{"hook": "onComplete"}).Warn("swallowed: %v", "sink down")

	out := buf.String()
	if !strings.Contains(out, "swallowed: sink down") {
		t.Fatalf("expected formatted message, got %s", out)
	}
	if !strings.Contains(out, "hook=onComplete") {
		t.Fatalf("expected structured field, got %s", out)
	}
}
