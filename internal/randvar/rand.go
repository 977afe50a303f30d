// Copyright 2019 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package randvar provides seeded random streams and the value distributions
// used to synthesize benchmark inputs.
package randvar

import "golang.org/x/exp/rand"

// Static models a random variable that pulls from a distribution with static
// bounds.
type Static interface {
	Uint64() uint64
}

// NewRand creates a new PCG random number generator seeded with seed. Two
// generators created from the same seed produce identical streams.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func ensureRand(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return NewRand(1)
}
