// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the current time so that step durations and
// journal timestamps are deterministic under test. Production code
// injects [Real]; tests inject [Fake] and move time forward with
// [FakeClock.Advance].
package clock
