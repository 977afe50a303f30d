// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package bench

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/nabench/internal/dataset"
	"github.com/cockroachdb/nabench/internal/randvar"
)

// Config holds the parameters of one benchmark run.
type Config struct {
	// Seed seeds both the value stream and the missing-value stream.
	Seed uint64
	// N is the number of elements.
	N int
	// P is the probability that an element is missing.
	P float64
	// NThreads is the number of workers used by the parallel algorithms.
	NThreads int
	// Repetitions is the number of timed runs of each algorithm.
	Repetitions int
	// Values is the randvar spec of the value distribution.
	Values string
	// Verify checks, before timing, that every algorithm that honors
	// validity computes the reference sum.
	Verify bool
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Seed:        1,
		N:           1_000_000,
		P:           0.1,
		NThreads:    8,
		Repetitions: 100,
		Values:      dataset.DefaultValues,
		Verify:      true,
	}
}

// Validate returns an error if the configuration cannot be run.
func (c Config) Validate() error {
	if c.N < 0 {
		return errors.Newf("bench: n must be non-negative, got %d", c.N)
	}
	if math.IsNaN(c.P) || c.P < 0 || c.P > 1 {
		return errors.Newf("bench: p must be in [0, 1], got %v", c.P)
	}
	if c.NThreads < 1 {
		return errors.Newf("bench: nthreads must be positive, got %d", c.NThreads)
	}
	if c.Repetitions < 1 {
		return errors.Newf("bench: repetitions must be positive, got %d", c.Repetitions)
	}
	if _, err := randvar.ParseSpec(c.values()); err != nil {
		return errors.Wrap(err, "bench")
	}
	return nil
}

func (c Config) values() string {
	if c.Values == "" {
		return dataset.DefaultValues
	}
	return c.Values
}
