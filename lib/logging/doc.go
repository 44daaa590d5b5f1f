// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the provisioner's structured logger.
//
// Records go to stderr, formatted as text when stderr is a terminal and
// as JSON otherwise, so that the workspace's log collector can parse
// them. An optional log file receives the same records as JSON and is
// rotated by size.
package logging
