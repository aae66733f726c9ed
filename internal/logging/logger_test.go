package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"exomatch/internal/config"
	"exomatch/internal/logging"
)

func TestNewJSONToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "out.log")
	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{logPath},
		RunID:       "run-1",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello", logging.String(logging.FieldVideoID, "v1"))
	logger.Debug("dropped")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), content)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record["msg"] != "hello" || record["level"] != "info" || record["run_id"] != "run-1" {
		t.Fatalf("unexpected record: %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key: %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFromConfigWritesDailyFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Format = "json"

	logger, path, err := logging.NewFromConfig(&cfg, "run-7")
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if path != logging.LogFilePath(cfg.Paths.LogDir, time.Now()) {
		t.Fatalf("log path = %q", path)
	}
	logger.Warn("careful")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(content), `"run_id":"run-7"`) {
		t.Fatalf("expected run id in %q", content)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WarnWithContext(logger, "document skipped", "document_skipped",
		logging.String(logging.FieldErrorHint, "convert the file to docx"))

	out := buf.String()
	for _, want := range []string{
		`"event_type":"document_skipped"`,
		`"error_hint":"convert the file to docx"`,
		`"impact":"operation completed with warnings"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
	logging.WarnWithContext(nil, "ignored", "x")
}

func TestWithContextAddsRunID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := logging.WithRunID(t.Context(), "abc")
	logging.WithContext(ctx, base).Info("msg")
	if !strings.Contains(buf.String(), `"run_id":"abc"`) {
		t.Fatalf("expected run id, got %s", buf.String())
	}
	if _, ok := logging.RunIDFromContext(t.Context()); ok {
		t.Fatal("expected no run id on bare context")
	}
}

func TestPruneLogs(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = dir
	cfg.Logging.RetentionDays = 7

	old := filepath.Join(dir, "exomatch-20200101.log")
	current := filepath.Join(dir, "exomatch-20200102.log")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, current, other} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		past := time.Now().AddDate(0, 0, -30)
		if err := os.Chtimes(p, past, past); err != nil {
			t.Fatal(err)
		}
	}

	if n := logging.PruneLogs(logging.NewNop(), &cfg, current); n != 1 {
		t.Fatalf("removed %d files, want 1", n)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected %s removed", old)
	}
	for _, p := range []string{current, other} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s kept: %v", p, err)
		}
	}

	cfg.Logging.RetentionDays = 0
	if n := logging.PruneLogs(nil, &cfg, ""); n != 0 {
		t.Fatalf("retention disabled removed %d", n)
	}
}
