// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

// Package shell runs provisioning commands through sh and captures the
// tail of their output.
//
// Each command's stdout and stderr stream to a pair of files on disk
// rather than into memory, so commands that print hundreds of megabytes
// (package managers, docker pulls) cost nothing beyond the disk they
// write to. After the command exits, only the last [TailSize] bytes of
// each file are read back into the [Result]. The files are left in
// place for operators to inspect.
package shell
