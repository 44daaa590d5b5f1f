// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

// Package provision runs the workspace provisioning sequence.
//
// Provisioning is a fixed list of numbered steps executed strictly in
// order. A fresh workspace runs the one-time steps 1 through 5 (remote
// initialization, git credentials, config persistence, clone, checkout);
// a workspace whose config file already exists runs step 14 (reload)
// instead. Steps 6 onward (containers, user commands, editor) run on
// every launch, subject to the plan.
//
// Each step either succeeds, after which its number is reported to the
// control plane, or fails, after which exactly one failure report is
// sent and [Pipeline.Run] returns. Nothing is retried and nothing is
// rolled back: a failed workspace is re-provisioned by launching the
// provisioner again.
//
// Failures before the control-plane secret is known cannot be reported
// and surface as [*UnrelayableError]; every other failure surfaces as
// [*StepError] after the report attempt.
//
// Each run appends progress lines to a JSONL journal (see [Journal]) for
// operators; the pipeline never reads it back.
package provision
