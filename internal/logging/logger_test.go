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

	"assetpipe/internal/config"
	"assetpipe/internal/logging"
)

func TestNewJSONLoggerWritesStructuredLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("scan finished", logging.Int("images", 3), logging.String(logging.FieldComponent, "scrub"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("decode line %q: %v", data, err)
	}
	if entry["msg"] != "scan finished" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["level"] != "info" {
		t.Fatalf("unexpected level: %v", entry["level"])
	}
	if entry["images"] != float64(3) {
		t.Fatalf("unexpected images: %v", entry["images"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatal("expected ts key")
	}
}

func TestConsoleLoggerHoistsComponent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logging.NewComponentLogger(logger, "strip").Info("cleaned", logging.String(logging.FieldPath, "a b.png"))
	logger.Debug("hidden")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, " INFO strip: cleaned") {
		t.Fatalf("component not hoisted: %q", line)
	}
	if !strings.Contains(line, `path="a b.png"`) {
		t.Fatalf("expected quoted path, got %q", line)
	}
	if strings.Contains(line, "hidden") {
		t.Fatalf("debug line should be filtered: %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFromConfigCreatesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Warn("disk almost full")

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "assetpipe.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "disk almost full") {
		t.Fatalf("log file missing entry: %q", data)
	}
}

func TestWithContextAddsCorrelationID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctx.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id := logging.NewRunID()
	ctx := logging.WithRunID(context.Background(), id)
	if got, ok := logging.RunIDFromContext(ctx); !ok || got != id {
		t.Fatalf("RunIDFromContext = %q, %v", got, ok)
	}
	logging.WithContext(ctx, logger).Error("failed", logging.Error(errors.New("boom")))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry[logging.FieldCorrelationID] != id {
		t.Fatalf("missing correlation id: %v", entry)
	}
	if entry["error"] != "boom" {
		t.Fatalf("unexpected error attr: %v", entry["error"])
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should not be enabled")
	}
	logger.Info("nothing")
}
