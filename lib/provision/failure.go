// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/gage-technologies/gigo-ws/lib/shell"
)

// Kind classifies a step failure.
type Kind string

const (
	// KindCommand is a shell command that exited non-zero.
	KindCommand Kind = "command"

	// KindTransport is a failed control-plane call.
	KindTransport Kind = "transport"

	// KindIO is a local filesystem or process-launch failure.
	KindIO Kind = "io"

	// KindData is malformed input: an unusable initialization
	// response, an invalid command list, or an invalid container
	// definition.
	KindData Kind = "data"
)

// Failure describes why a step failed. For KindCommand, Status, Stdout,
// and Stderr come from the command; for every other kind Status is -1
// and Trace holds the error chain and stack.
type Failure struct {
	Kind   Kind
	Label  string
	Status int
	Stdout string
	Stderr string
	Trace  string
	Err    error
}

func (f *Failure) Error() string {
	if f.Kind == KindCommand {
		return fmt.Sprintf("%s: exit status %d", f.Label, f.Status)
	}
	return fmt.Sprintf("%s: %v", f.Label, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// commandFailure builds a failure from a command result.
func commandFailure(label string, result shell.Result) *Failure {
	return &Failure{
		Kind:   KindCommand,
		Label:  label,
		Status: result.Status,
		Stdout: result.Stdout,
		Stderr: result.Stderr,
	}
}

// errorFailure builds a non-command failure from err, capturing the
// current goroutine's stack.
func errorFailure(kind Kind, label string, err error) *Failure {
	return &Failure{
		Kind:   kind,
		Label:  label,
		Status: -1,
		Trace:  trace(err),
		Err:    err,
	}
}

// trace renders err's chain, one wrapping level per line, followed by
// the stack of the calling goroutine.
func trace(err error) string {
	var builder strings.Builder
	for current := err; current != nil; current = errors.Unwrap(current) {
		fmt.Fprintf(&builder, "%T: %v\n", current, current)
	}
	builder.WriteString("\n")
	builder.Write(debug.Stack())
	return builder.String()
}

// StepError is returned by Run when a step failed after a secret was
// known. The failure was reported to the control plane unless
// RelayErr is set.
type StepError struct {
	Step    Step
	Failure *Failure

	// RelayErr is the error from the failure report, if it failed.
	RelayErr error
}

func (e *StepError) Error() string {
	message := fmt.Sprintf("step %d failed: %v", e.Step, e.Failure)
	if e.RelayErr != nil {
		message += fmt.Sprintf(" (failure report also failed: %v)", e.RelayErr)
	}
	return message
}

func (e *StepError) Unwrap() error { return e.Failure }

// ExitCode implements the exit-code convention used by lib/process.
func (e *StepError) ExitCode() int { return 1 }

// UnrelayableError is returned by Run when a step failed before the
// control-plane secret was known, so nothing could be reported.
type UnrelayableError struct {
	Step Step
	Err  error
}

func (e *UnrelayableError) Error() string {
	return fmt.Sprintf("step %d failed before the control plane could be told: %v", e.Step, e.Err)
}

func (e *UnrelayableError) Unwrap() error { return e.Err }

// ExitCode implements the exit-code convention used by lib/process.
func (e *UnrelayableError) ExitCode() int { return 1 }
