// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

// Package workspace defines the workspace configuration returned by the
// control plane's initialization call and the source-control identity
// derived from it.
//
// The control plane owns the schema of the initialization response and
// may add fields at any time. [Config] names only the fields the
// provisioner reads and carries every other key through unchanged, so
// the persisted config file is always the response as received, minus
// the git credentials that [SplitInit] removes.
package workspace
