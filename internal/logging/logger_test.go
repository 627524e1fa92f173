package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyHandlerPromotesComponent(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))

	logger.Info("export started", String(FieldComponent, "scheduler"), Int(FieldFrame, 3))

	line := buf.String()
	if !strings.Contains(line, "INFO scheduler: export started") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "frame=3") {
		t.Fatalf("expected frame attr in %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be promoted out of attrs: %q", line)
	}
}

func TestPrettyHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))

	logger.Warn("segment rotated", String("reason", "planned boundary"))

	if !strings.Contains(buf.String(), `reason="planned boundary"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))

	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
	logger.Error("kept")
	if !strings.Contains(buf.String(), "ERROR kept") {
		t.Fatalf("expected error line, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNoopHandlerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("noop logger should report disabled")
	}
}

func TestProgressSampler(t *testing.T) {
	s := NewProgressSampler(5)
	if !s.ShouldLog(0, "recording") {
		t.Fatal("first event should log")
	}
	if s.ShouldLog(2, "recording") {
		t.Fatal("same bucket should be suppressed")
	}
	if !s.ShouldLog(6, "recording") {
		t.Fatal("new bucket should log")
	}
	if !s.ShouldLog(6, "finishing") {
		t.Fatal("phase change should log")
	}
}
