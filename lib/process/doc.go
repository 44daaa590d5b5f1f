// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers. It centralizes the
// raw stderr writes that happen before the structured logger exists (or
// after it can no longer be trusted) and the mapping from a terminal
// error to a process exit code.
package process
