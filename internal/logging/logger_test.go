package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cleanfolder/internal/config"
	"cleanfolder/internal/logging"
)

func newBufferLogger(t *testing.T, format, level string) (*bytes.Buffer, *logging.Options) {
	t.Helper()
	var buf bytes.Buffer
	return &buf, &logging.Options{Format: format, Level: level, Console: &buf}
}

func TestNewFromConfigWritesJSONLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Dir = t.TempDir()

	var console bytes.Buffer
	logger, err := logging.NewFromConfig(&cfg, &console)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from config", logging.String("root", "/tmp/in"))

	content, err := os.ReadFile(filepath.Join(cfg.Logging.Dir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &line); err != nil {
		t.Fatalf("log file line is not JSON: %v (%q)", err, content)
	}
	if line["msg"] != "hello from config" || line["root"] != "/tmp/in" {
		t.Fatalf("unexpected file record %v", line)
	}
	if !strings.Contains(console.String(), "INFO  hello from config") {
		t.Fatalf("expected console line, got %q", console.String())
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	buf, opts := newBufferLogger(t, "console", "info")
	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", buf.String())
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	buf, opts := newBufferLogger(t, "console", "debug")
	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")

	if !strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestConsoleLoggerRendersStageAndComponent(t *testing.T) {
	buf, opts := newBufferLogger(t, "console", "info")
	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithStage(logging.WithRunID(context.Background(), "run-1"), "relocate")
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "organizer"))
	logger.Info("moved file",
		logging.String("dest", "images/Foto.jpg"),
		logging.String(logging.FieldCategory, "images"),
	)

	content := buf.String()
	if !strings.Contains(content, "INFO  [relocate] organizer: moved file category=images dest=images/Foto.jpg") {
		t.Fatalf("unexpected console line %q", content)
	}
	if strings.Contains(content, "run-1") {
		t.Fatalf("console output should leave run id to JSON, got %q", content)
	}
}

func TestConsoleLoggerQuotesAndGroups(t *testing.T) {
	buf, opts := newBufferLogger(t, "console", "info")
	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("walk", logging.Group("stats", logging.Int("files", 3)), logging.String("path", "my file.txt"))

	content := buf.String()
	for _, want := range []string{"stats.files=3", `path="my file.txt"`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %s in %q", want, content)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	buf, opts := newBufferLogger(t, "console", "invalid")
	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	if content := buf.String(); strings.Contains(content, "hidden") || !strings.Contains(content, "shown") {
		t.Fatalf("expected info level filtering, got %q", content)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	buf, opts := newBufferLogger(t, "json", "info")
	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithRunID(context.Background(), "run-xyz")
	ctx = logging.WithStage(ctx, "relocate")
	logging.WithContext(ctx, logger).Info("contextual log")

	for _, want := range []string{`"run_id":"run-xyz"`, `"stage":"relocate"`, `"level":"info"`} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %s in %q", want, buf.String())
		}
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	buf, opts := newBufferLogger(t, "json", "info")
	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "archive skipped", "archive_extract_failed",
		logging.Error(errors.New("corrupt")),
		logging.String(logging.FieldImpact, "archive left in place"),
	)

	for _, want := range []string{`"event_type":"archive_extract_failed"`, `"error_hint":"check logs for details"`, `"impact":"archive left in place"`} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %s in %q", want, buf.String())
		}
	}
}

func TestNopLoggerIsSilent(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger must not be enabled")
	}
	logging.WarnWithContext(nil, "ignored", "noop")
}
