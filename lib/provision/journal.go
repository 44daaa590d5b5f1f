// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gage-technologies/gigo-ws/lib/clock"
)

// Step outcomes recorded in the journal.
const (
	outcomeOK      = "ok"
	outcomeSkipped = "skipped"
	outcomeFailed  = "failed"
)

// Journal appends one JSON object per line describing a provisioning
// run. Lines are synced as they are written, so a workspace that is
// killed mid-run still shows every step that finished. Each run appends
// to the same file; lines carry the run id to tell runs apart.
//
// A nil *Journal is valid and discards everything. Write failures are
// logged and never fail the run.
type Journal struct {
	runID   string
	clock   clock.Clock
	logger  *slog.Logger
	file    *os.File
	encoder *json.Encoder
}

// OpenJournal opens (creating if needed) the journal at path for
// appending.
func OpenJournal(path, runID string, clk clock.Clock, logger *slog.Logger) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Journal{
		runID:   runID,
		clock:   clk,
		logger:  logger,
		file:    file,
		encoder: json.NewEncoder(file),
	}, nil
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.file.Close()
}

func (j *Journal) start(coderID string, initialized bool) {
	if j == nil {
		return
	}
	j.write(journalStartEntry{
		Type:        "start",
		RunID:       j.runID,
		Workspace:   coderID,
		Initialized: initialized,
		Timestamp:   j.timestamp(),
	})
}

func (j *Journal) step(step Step, label, outcome string, duration time.Duration, failure *Failure) {
	if j == nil {
		return
	}
	entry := journalStepEntry{
		Type:       "step",
		RunID:      j.runID,
		Step:       int(step),
		Label:      label,
		Outcome:    outcome,
		DurationMS: duration.Milliseconds(),
	}
	if failure != nil {
		entry.Kind = string(failure.Kind)
		entry.Status = failure.Status
		entry.Error = failure.Error()
	}
	j.write(entry)
}

func (j *Journal) complete(duration time.Duration) {
	if j == nil {
		return
	}
	j.write(journalEndEntry{
		Type:       "complete",
		RunID:      j.runID,
		DurationMS: duration.Milliseconds(),
		Timestamp:  j.timestamp(),
	})
}

func (j *Journal) failed(step Step, err error, duration time.Duration) {
	if j == nil {
		return
	}
	j.write(journalEndEntry{
		Type:       "failed",
		RunID:      j.runID,
		FailedStep: int(step),
		Error:      err.Error(),
		DurationMS: duration.Milliseconds(),
		Timestamp:  j.timestamp(),
	})
}

func (j *Journal) timestamp() string {
	return j.clock.Now().UTC().Format(time.RFC3339)
}

func (j *Journal) write(entry any) {
	if err := j.encoder.Encode(entry); err != nil {
		j.logger.Warn("failed to write journal entry", "error", err)
		return
	}
	if err := j.file.Sync(); err != nil {
		j.logger.Warn("failed to sync journal", "error", err)
	}
}

// journalStartEntry opens a run.
type journalStartEntry struct {
	Type        string `json:"type"`
	RunID       string `json:"run_id"`
	Workspace   string `json:"workspace"`
	Initialized bool   `json:"initialized"`
	Timestamp   string `json:"timestamp"`
}

// journalStepEntry records one attempted or skipped step.
type journalStepEntry struct {
	Type       string `json:"type"`
	RunID      string `json:"run_id"`
	Step       int    `json:"step"`
	Label      string `json:"label"`
	Outcome    string `json:"outcome"`
	DurationMS int64  `json:"duration_ms"`
	Kind       string `json:"kind,omitempty"`
	Status     int    `json:"status,omitempty"`
	Error      string `json:"error,omitempty"`
}

// journalEndEntry closes a run, successfully ("complete") or not
// ("failed").
type journalEndEntry struct {
	Type       string `json:"type"`
	RunID      string `json:"run_id"`
	FailedStep int    `json:"failed_step,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Timestamp  string `json:"timestamp"`
}
