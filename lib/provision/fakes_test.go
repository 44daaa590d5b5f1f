// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gage-technologies/gigo-ws/lib/controlplane"
	"github.com/gage-technologies/gigo-ws/lib/shell"
	"github.com/gage-technologies/gigo-ws/lib/workspace"
)

// recorder is the shared, ordered log of every side effect the fakes
// observe. Interleaving executor and control-plane events in one list
// lets tests assert that a step was reported before the next began.
type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

// fakeExecutor succeeds for every command unless told otherwise.
type fakeExecutor struct {
	recorder *recorder
	results  map[string]shell.Result
	errors   map[string]error
}

func (f *fakeExecutor) Execute(_ context.Context, command, _ string) (shell.Result, error) {
	f.recorder.add("exec %s", command)
	if err, ok := f.errors[command]; ok {
		return shell.Result{Status: -1}, err
	}
	if result, ok := f.results[command]; ok {
		return result, nil
	}
	return shell.Result{}, nil
}

// fakeControlPlane records calls and fails the ones configured to fail.
type fakeControlPlane struct {
	recorder *recorder

	initResponse string
	initErr      error
	advanceErrs  map[int]error
	relayErr     error
	fetchErr     error

	reports []controlplane.FailureReport
}

func (f *fakeControlPlane) Initialize(_ context.Context, coderID string) (map[string]json.RawMessage, error) {
	f.recorder.add("init %s", coderID)
	if f.initErr != nil {
		return nil, f.initErr
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(f.initResponse), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (f *fakeControlPlane) AdvanceStep(_ context.Context, coderID, secret string, step int) error {
	f.recorder.add("advance %d", step)
	if secret == "" {
		return controlplane.ErrNoSecret
	}
	return f.advanceErrs[step]
}

func (f *fakeControlPlane) RelayFailure(_ context.Context, report controlplane.FailureReport) error {
	f.recorder.add("relay %d %s", report.Step, report.Command)
	f.reports = append(f.reports, report)
	return f.relayErr
}

func (f *fakeControlPlane) FetchExtension(_ context.Context, workspaceID, secret, destination string) error {
	f.recorder.add("fetch %s %s", workspaceID, destination)
	if secret == "" {
		return controlplane.ErrNoSecret
	}
	return f.fetchErr
}

// fakeState keeps the workspace config in memory.
type fakeState struct {
	recorder *recorder

	initialized    bool
	initializedErr error
	config         *workspace.Config
	loadErr        error
	saveErr        error
}

func (f *fakeState) Initialized() (bool, error) {
	return f.initialized, f.initializedErr
}

func (f *fakeState) Load() (*workspace.Config, error) {
	f.recorder.add("load")
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.config == nil {
		return nil, errors.New("no config")
	}
	return f.config, nil
}

func (f *fakeState) Save(config *workspace.Config) error {
	f.recorder.add("save")
	if f.saveErr != nil {
		return f.saveErr
	}
	f.config = config
	return nil
}

// withPrefix filters recorded events.
func (r *recorder) withPrefix(prefix string) []string {
	var matched []string
	for _, event := range r.events {
		if strings.HasPrefix(event, prefix) {
			matched = append(matched, event)
		}
	}
	return matched
}
