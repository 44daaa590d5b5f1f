// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

// Workspace provisioner. Runs inside a freshly started remote
// development workspace and brings it to a usable state: registers the
// workspace with the control plane, writes git credentials, clones and
// checks out the repository, starts the workspace's containers, runs
// the user's setup commands, and finally installs and runs the browser
// editor in the foreground.
//
// Usage:
//
//	gigo-ws-init --workspace-id <id>
//
// The per-workspace plan is read from $GIGO_WS_PLAN (default
// /home/gigo/.gigo/ws-plan.yaml). The first successful run leaves
// /home/gigo/.gigo/ws-config.json behind; later runs reuse it and skip
// the one-time steps.
//
// Exit status is 0 when provisioning completed (with the editor
// enabled, when the editor exited cleanly) and 1 otherwise. Step
// failures are reported to the control plane before exiting; failures
// that happen before the control plane has issued a secret are printed
// to stderr only.
package main
