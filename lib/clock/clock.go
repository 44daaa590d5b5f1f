// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock supplies the pipeline's notion of now. Step durations and
// journal timestamps read it instead of the time package.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// Real returns the wall clock.
func Real() Clock { return wall{} }

type wall struct{}

func (wall) Now() time.Time                  { return time.Now() }
func (wall) Since(t time.Time) time.Duration { return time.Since(t) }
