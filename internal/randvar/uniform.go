// Copyright 2018 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License. See the AUTHORS file
// for names of contributors.

package randvar

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/rand"
)

// Uniform is a random number generator that generates draws from a discrete
// uniform distribution over [min, max]. It is not safe for concurrent use;
// dataset generation owns one stream per generator.
type Uniform struct {
	rng      *rand.Rand
	min, max uint64
}

var _ Static = (*Uniform)(nil)

// NewUniform constructs a new Uniform generator with the given parameters.
// Returns an error if min > max.
func NewUniform(rng *rand.Rand, min, max uint64) (*Uniform, error) {
	if min > max {
		return nil, errors.Newf("min %d > max %d", min, max)
	}
	return &Uniform{rng: ensureRand(rng), min: min, max: max}, nil
}

// Uint64 returns a random Uint64 between min and max, drawn from a uniform
// distribution.
func (g *Uniform) Uint64() uint64 {
	return g.rng.Uint64n(g.max-g.min+1) + g.min
}
