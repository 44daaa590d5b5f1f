// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package controlplane

// initRequest is the body of POST /api/internal/ws/init.
type initRequest struct {
	CoderID string `json:"coder_id"`
}

// stepRequest is the body of POST /api/internal/ws/init-step.
type stepRequest struct {
	CoderID string `json:"coder_id"`
	Secret  string `json:"secret"`
	Step    int    `json:"step"`
}

// FailureReport is the body of POST /api/internal/ws/init-failure.
type FailureReport struct {
	CoderID string `json:"coder_id"`
	Secret  string `json:"secret"`
	Step    int    `json:"step"`

	// Command is the failed command's text or the step label.
	Command string `json:"command"`

	// Status is the command's exit code, or -1 when no command ran.
	Status int `json:"status"`

	Stdout string `json:"stdout"`

	// Stderr carries the command's stderr, or the error trace when no
	// command ran.
	Stderr string `json:"stderr"`
}

// extensionRequest is the body of POST /api/internal/ws/ext.
type extensionRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Secret      string `json:"secret"`
}
