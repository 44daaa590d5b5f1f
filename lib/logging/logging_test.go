// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONToNonTerminal(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	logger, closer, err := New(Options{Level: "info", Stderr: &stderr})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closer.Close()

	Component(logger, "provision").Info("step complete", "step", 3)
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), stderr.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("stderr line is not JSON: %v", err)
	}
	if record["msg"] != "step complete" || record["component"] != "provision" || record["step"] != float64(3) {
		t.Errorf("record = %v", record)
	}
}

func TestNewWritesRotatingFile(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "ws-init.log")
	logger, closer, err := New(Options{Level: "debug", File: path, Stderr: &stderr})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.With("run_id", "r-1").Debug("checking marker")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("log file line is not JSON: %v (%q)", err, data)
	}
	if record["msg"] != "checking marker" || record["run_id"] != "r-1" {
		t.Errorf("file record = %v", record)
	}
	if !strings.Contains(stderr.String(), "checking marker") {
		t.Error("console did not receive the record")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, test := range tests {
		got, err := ParseLevel(test.name)
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", test.name, got, test.want)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("ParseLevel(verbose): expected error")
	}
	if _, _, err := New(Options{Level: "verbose"}); err == nil {
		t.Error("New with unknown level: expected error")
	}
}
