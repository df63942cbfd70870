package logging

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lyu-dev/lyu/internal/config"
	"github.com/lyu-dev/lyu/internal/errors"
)

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "info", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer logger.Close()

	logger.Debug("hidden")
	logger.Info("effect stopped", "effect", 7)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record should be filtered at info level")
	}
	if !strings.Contains(out, "msg=\"effect stopped\"") || !strings.Contains(out, "effect=7") {
		t.Errorf("unexpected text output: %q", out)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "debug", Format: "JSON"}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("trigger", "key", "price")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "trigger" || rec["key"] != "price" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestFileFanout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lyu.log")

	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "info", File: path}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Error("effect failed", "effect", 3)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close() should be a no-op, got %v", err)
	}

	if !strings.Contains(buf.String(), "effect failed") {
		t.Error("stderr handler did not receive the record")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("file output is not JSON: %v", err)
	}
	if rec["msg"] != "effect failed" {
		t.Errorf("unexpected file record: %v", rec)
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "error"}, &buf)
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("before")
	logger.SetLevel(slog.LevelDebug)
	logger.Debug("after")

	if logger.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v", logger.Level())
	}
	out := buf.String()
	if strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LogConfig
		code string
	}{
		{"bad level", config.LogConfig{Level: "loud"}, "L003"},
		{"unwritable file", config.LogConfig{File: filepath.Join(t.TempDir(), "missing", "lyu.log")}, "L021"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, &bytes.Buffer{})
			var le *errors.LyuError
			if !stderrors.As(err, &le) || le.Code != tt.code {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}
