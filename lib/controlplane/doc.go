// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

// Package controlplane is a typed HTTP client for the platform's
// internal workspace API. The provisioner uses it to register a
// workspace, report step progress, report failures, and download the
// vendor editor extension.
//
// Every call is a JSON POST. Calls are made exactly once: there are no
// retries, and a non-2xx response is returned to the caller as an
// [*HTTPError].
package controlplane
