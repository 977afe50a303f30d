// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"time"

	"github.com/cockroachdb/crlib/crtime"
)

// DeterministicDurationForTesting makes every Stopwatch report d instead of
// the measured wall time. The return value is a function that must be called
// before the test exits.
func DeterministicDurationForTesting(d time.Duration) func() {
	prev := deterministicDurationForTesting
	deterministicDurationForTesting = d
	return func() {
		deterministicDurationForTesting = prev
	}
}

var deterministicDurationForTesting time.Duration

// Stopwatch measures elapsed time on the monotonic clock.
type Stopwatch struct {
	startTime crtime.Mono
}

// MakeStopwatch returns a Stopwatch started at the current instant.
func MakeStopwatch() Stopwatch {
	return Stopwatch{startTime: crtime.NowMono()}
}

// Stop returns the time elapsed since the stopwatch was started.
func (w Stopwatch) Stop() time.Duration {
	dur := w.startTime.Elapsed()
	if deterministicDurationForTesting != 0 {
		dur = deterministicDurationForTesting
	}
	return dur
}
