// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"context"
	"encoding/json"

	"github.com/gage-technologies/gigo-ws/lib/controlplane"
	"github.com/gage-technologies/gigo-ws/lib/shell"
	"github.com/gage-technologies/gigo-ws/lib/workspace"
)

// Executor runs shell commands. Implemented by *shell.Executor.
type Executor interface {
	Execute(ctx context.Context, command, logPath string) (shell.Result, error)
}

// ControlPlane is the subset of the control-plane API the pipeline
// calls. Implemented by *controlplane.Client.
type ControlPlane interface {
	Initialize(ctx context.Context, coderID string) (map[string]json.RawMessage, error)
	AdvanceStep(ctx context.Context, coderID, secret string, step int) error
	RelayFailure(ctx context.Context, report controlplane.FailureReport) error
	FetchExtension(ctx context.Context, workspaceID, secret, destination string) error
}

// StateStore persists the workspace config. Implemented by
// *wsstate.Store.
type StateStore interface {
	Initialized() (bool, error)
	Load() (*workspace.Config, error)
	Save(config *workspace.Config) error
}
