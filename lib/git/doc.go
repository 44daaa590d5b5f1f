// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

// Package git prepares source control for a workspace: it writes the
// credential file that lets plain "git clone" authenticate against the
// internal git host, and builds the clone and checkout command lines the
// provisioner runs through the shell executor.
//
// Command lines are built as text rather than argument vectors because
// the same text is shown to users as the step label when the command
// fails.
package git
