package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"viidemo/internal/config"
	"viidemo/internal/logging"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Dir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("gallery built", logging.Int("groups", 2))

	content, err := os.ReadFile(filepath.Join(cfg.Logging.Dir, "viidemo.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "gallery built") || !strings.Contains(string(content), "groups=2") {
		t.Fatalf("unexpected log content: %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "builder").Info("message without caller", logging.String("card_id", "0-ill-0"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
	if !strings.Contains(line, "INFO builder: message without caller") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("expected component attr to be folded into prefix, got %q", line)
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("prompt missing",
		logging.String("url", "data/p.txt"),
		logging.PageID("p-1"),
		logging.Aspect(16.0/9.0),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record["level"] != "warn" {
		t.Fatalf("expected lower-case level, got %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
	if record["url"] != "data/p.txt" {
		t.Fatalf("expected url attr, got %v", record["url"])
	}
	if record["page_id"] != "p-1" {
		t.Fatalf("expected page_id attr, got %v", record["page_id"])
	}
	if record["aspect"] != 1.778 {
		t.Fatalf("expected rounded aspect, got %v", record["aspect"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestTracerDisabledWritesNothing(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "trace.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	off := logging.NewTracer(logger, false)
	if off.Enabled() {
		t.Fatal("expected disabled tracer")
	}
	off.Log("hidden")

	on := logging.NewTracer(logger, true).With(logging.CardID("c1"))
	on.Log("prompt applied")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), "hidden") {
		t.Fatalf("disabled tracer wrote output: %q", content)
	}
	if !strings.Contains(string(content), "prompt applied") || !strings.Contains(string(content), "trace=true") || !strings.Contains(string(content), "card_id=c1") {
		t.Fatalf("unexpected trace output: %q", content)
	}
}

func TestWithContextAddsCorrelationID(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ctx.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithRequestID(context.Background(), "req-42")
	logging.WithContext(ctx, logger).Info("served page")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "correlation_id=req-42") {
		t.Fatalf("expected correlation id, got %q", content)
	}
}
