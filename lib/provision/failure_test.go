// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestTraceListsErrorChain(t *testing.T) {
	root := fs.ErrPermission
	wrapped := fmt.Errorf("writing git config: %w", fmt.Errorf("opening file: %w", root))

	text := trace(wrapped)
	lines := strings.Split(text, "\n")
	if len(lines) < 4 {
		t.Fatalf("trace too short: %q", text)
	}
	for index, want := range []string{"writing git config", "opening file", "permission denied"} {
		if !strings.Contains(lines[index], want) {
			t.Errorf("trace line %d = %q, want it to contain %q", index, lines[index], want)
		}
	}
	if !strings.Contains(text, "goroutine") {
		t.Error("trace lacks the goroutine stack")
	}
}

func TestErrorFailure(t *testing.T) {
	cause := errors.New("boom")
	failure := errorFailure(KindIO, "write git config", cause)
	if failure.Status != -1 {
		t.Errorf("Status = %d, want -1", failure.Status)
	}
	if !errors.Is(failure, cause) {
		t.Error("failure does not unwrap to its cause")
	}
	if failure.Error() != "write git config: boom" {
		t.Errorf("Error() = %q", failure.Error())
	}
}

func TestStepErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	stepError := &StepError{Step: StepWorkspaceConfig, Failure: errorFailure(KindIO, "write workspace config", cause)}
	if !errors.Is(stepError, cause) {
		t.Error("StepError does not unwrap to the root cause")
	}
	if !strings.Contains(stepError.Error(), "step 3") {
		t.Errorf("Error() = %q", stepError.Error())
	}

	stepError.RelayErr = errors.New("HTTP 500")
	if !strings.Contains(stepError.Error(), "failure report also failed") {
		t.Errorf("Error() with relay failure = %q", stepError.Error())
	}
}
