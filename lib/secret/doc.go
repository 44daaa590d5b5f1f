// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

// Package secret holds credential material (the git access token handed
// out by the control plane) outside the Go heap.
//
// A [Buffer] is backed by an anonymous mmap region that is locked into
// RAM (mlock) where the memory-lock limit allows, excluded from core
// dumps (MADV_DONTDUMP), and zeroed and unmapped on Close. The garbage collector never sees the region, so a
// closed buffer leaves no copy of the token behind in process memory.
package secret
