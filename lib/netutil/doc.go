// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O helpers for the control-plane client.
//
// Response helpers ([ReadResponse], [DecodeResponse], [ErrorBody]) bound
// every JSON body read so that a misbehaving server cannot exhaust
// memory. Binary downloads are never read through them; they are
// streamed with io.Copy, optionally through [DecodeContent] when the
// server compressed the payload.
package netutil
