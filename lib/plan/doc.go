// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

// Package plan loads the provisioning plan for a workspace.
//
// The plan is a YAML file stamped with per-workspace values (working
// directory, container definition, user commands, editor settings) by
// the platform's templating step before the provisioner starts. It is
// loaded from:
//   - the GIGO_WS_PLAN environment variable, or
//   - /home/gigo/.gigo/ws-plan.yaml
//
// [Default] supplies every field the templating step does not own; the
// file overlays it. The plan is immutable once loaded.
//
// The user command list is carried as JSONC text and parsed only when
// the provisioner reaches the command step, so a malformed list is
// reported against that step rather than preventing startup.
package plan
