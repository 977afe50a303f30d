// Copyright 2019 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package randvar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/rand"
)

// Distribution names a family of value distributions.
type Distribution string

const (
	// DistUniform is the discrete uniform distribution.
	DistUniform Distribution = "uniform"
	// DistZipf is the zipf distribution with DefaultTheta skew.
	DistZipf Distribution = "zipf"
)

var randVarRE = regexp.MustCompile(`^(?:(uniform|zipf):)?(\d+)(?:-(\d+))?$`)

// Spec describes a random variable: [<type>:]<min>[-<max>]. If <type> is
// omitted a uniform distribution is used; if <max> is omitted it equals
// <min>, giving a constant.
type Spec struct {
	Dist     Distribution
	Min, Max uint64
}

// ParseSpec parses a random variable spec such as "uniform:0-100" or
// "zipf:1-1000".
func ParseSpec(s string) (Spec, error) {
	m := randVarRE.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return Spec{}, errors.Newf("invalid random var spec: %q", s)
	}
	spec := Spec{Dist: DistUniform}
	if m[1] != "" {
		spec.Dist = Distribution(m[1])
	}
	var err error
	if spec.Min, err = strconv.ParseUint(m[2], 10, 64); err != nil {
		return Spec{}, errors.Wrapf(err, "invalid random var spec: %q", s)
	}
	spec.Max = spec.Min
	if m[3] != "" {
		if spec.Max, err = strconv.ParseUint(m[3], 10, 64); err != nil {
			return Spec{}, errors.Wrapf(err, "invalid random var spec: %q", s)
		}
	}
	if spec.Min > spec.Max {
		return Spec{}, errors.Newf("invalid random var spec: %q: min %d > max %d", s, spec.Min, spec.Max)
	}
	return spec, nil
}

// New instantiates the random variable, drawing from rng.
func (s Spec) New(rng *rand.Rand) (Static, error) {
	switch s.Dist {
	case DistUniform, "":
		return NewUniform(rng, s.Min, s.Max)
	case DistZipf:
		return NewZipf(rng, s.Min, s.Max, DefaultTheta)
	default:
		return nil, errors.Newf("unknown distribution: %s", s.Dist)
	}
}

// String returns the canonical form of the spec.
func (s Spec) String() string {
	return fmt.Sprintf("%s:%d-%d", s.Dist, s.Min, s.Max)
}
