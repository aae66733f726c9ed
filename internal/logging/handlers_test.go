package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestTeeHandlerNilHandlers(t *testing.T) {
	if _, ok := TeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler for all nil handlers")
	}
}

func TestTeeHandlerSingleHandler(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := TeeHandler(nil, inner); h != inner {
		t.Fatal("expected single non-nil handler to be returned unwrapped")
	}
}

func TestTeeHandlerRespectsLevels(t *testing.T) {
	var infoBuf, warnBuf bytes.Buffer
	h := TeeHandler(
		slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug should not be enabled")
	}
	logger := slog.New(h).With("key", "value")
	logger.Info("info message")

	if !strings.Contains(infoBuf.String(), `"key":"value"`) {
		t.Fatalf("expected attrs in info output, got %q", infoBuf.String())
	}
	if warnBuf.Len() != 0 {
		t.Fatalf("expected no output at warn level, got %q", warnBuf.String())
	}

	logger.Warn("warn message")
	if !strings.Contains(warnBuf.String(), `"key":"value"`) || strings.Count(infoBuf.String(), "\n") != 2 {
		t.Fatalf("expected warn in both sinks: info=%q warn=%q", infoBuf.String(), warnBuf.String())
	}
}

func TestRunIDHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newRunIDHandler(slog.NewJSONHandler(&buf, nil), "run-123")).With("extra", "value")
	logger.Info("test message")

	out := buf.String()
	if !strings.Contains(out, `"run_id":"run-123"`) {
		t.Fatalf("expected run_id in output, got %s", out)
	}
	if !strings.Contains(out, `"extra":"value"`) {
		t.Fatalf("expected extra attr in output, got %s", out)
	}
}

func TestRunIDHandlerPrefersContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newRunIDHandler(slog.NewJSONHandler(&buf, nil), "fallback"))
	logger.InfoContext(WithRunID(context.Background(), "from-ctx"), "msg")

	if !strings.Contains(buf.String(), `"run_id":"from-ctx"`) {
		t.Fatalf("expected context run id, got %s", buf.String())
	}
}

func TestRunIDHandlerNilBase(t *testing.T) {
	if _, ok := newRunIDHandler(nil, "x").(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when base is nil")
	}
}

func TestPrettyHandlerLine(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))
	logger = NewComponentLogger(logger, "matcher")
	logger.Info("match found",
		String("title", "Pompes inclinées"),
		Float64("score", 0.92),
		slog.Group("query", String("region", "dos")),
		Error(errors.New("boom")),
	)
	logger.Debug("hidden")

	out := buf.String()
	for _, want := range []string{
		"INFO  matcher: match found",
		`title="Pompes inclinées"`,
		"score=0.92",
		"query.region=dos",
		"error=boom",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	if strings.Contains(out, "component=") || strings.Contains(out, "hidden") {
		t.Fatalf("unexpected content in %q", out)
	}
}

func TestFormatValueQuoting(t *testing.T) {
	tests := []struct {
		value slog.Value
		want  string
	}{
		{slog.StringValue("plain"), "plain"},
		{slog.StringValue(""), `""`},
		{slog.StringValue("a=b"), `"a=b"`},
		{slog.IntValue(3), "3"},
		{slog.BoolValue(true), "true"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.value); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
