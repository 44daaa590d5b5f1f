// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

// Package wsstate persists the workspace configuration between runs of
// the provisioner.
//
// The config file doubles as the initialization marker: its presence
// means the one-time steps (remote initialization, credentials, clone,
// checkout) completed. [Store.Save] writes through a temporary file and
// a rename, so the marker never exists in a partially written state.
package wsstate
