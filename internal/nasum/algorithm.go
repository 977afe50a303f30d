// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package nasum implements a family of kernels that sum the valid elements of
// a dataset.Data. The kernels differ in where they read validity from
// (sentinel values or the bitmask), in how they avoid branches, in loop
// unrolling and in parallelism, so that their running times can be compared
// on identical input.
package nasum

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/nabench/internal/dataset"
	"github.com/cockroachdb/nabench/internal/parallel"
	"github.com/cockroachdb/redact"
)

// Algorithm identifies one summation kernel. The set is closed; the values
// are ordered the way the harness reports them.
type Algorithm uint8

const (
	IgnoreNulls Algorithm = iota
	IgnoreNullsBatched
	SentinelIf
	SentinelMul
	SentinelBatched
	BitmaskPlain
	BitmaskBatched
	BitmaskShortcut
	SentinelParallelManual
	SentinelParallelReduce
	BitmaskParallelReduce
	NumAlgorithms
)

// Encoding is the source an algorithm reads validity from.
type Encoding uint8

const (
	// EncodingNone ignores validity and sums every element.
	EncodingNone Encoding = iota
	// EncodingSentinel treats elements equal to dataset.Sentinel as missing.
	EncodingSentinel
	// EncodingBitmask reads validity from the bitmap.
	EncodingBitmask
)

func (e Encoding) String() string {
	switch e {
	case EncodingNone:
		return "none"
	case EncodingSentinel:
		return "sentinel"
	case EncodingBitmask:
		return "bitmask"
	default:
		return "unknown"
	}
}

type kernel func(d *dataset.Data, pool *parallel.Pool) (int64, error)

func sequential(f func(d *dataset.Data) int64) kernel {
	return func(d *dataset.Data, _ *parallel.Pool) (int64, error) {
		return f(d), nil
	}
}

var algorithms = [NumAlgorithms]struct {
	name     string
	encoding Encoding
	unroll   int
	parallel bool
	run      kernel
}{
	IgnoreNulls:            {"ignore_nulls", EncodingNone, 1, false, sequential(sumIgnoreNulls)},
	IgnoreNullsBatched:     {"ignore_nulls_batched", EncodingNone, 8, false, sequential(sumIgnoreNullsBatched)},
	SentinelIf:             {"sentinel_if", EncodingSentinel, 1, false, sequential(sumSentinelIf)},
	SentinelMul:            {"sentinel_mul", EncodingSentinel, 1, false, sequential(sumSentinelMul)},
	SentinelBatched:        {"sentinel_batched", EncodingSentinel, 8, false, sequential(sumSentinelBatched)},
	BitmaskPlain:           {"bitmask_plain", EncodingBitmask, 1, false, sequential(sumBitmaskPlain)},
	BitmaskBatched:         {"bitmask_batched", EncodingBitmask, 8, false, sequential(sumBitmaskBatched)},
	BitmaskShortcut:        {"bitmask_shortcut", EncodingBitmask, 8, false, sequential(sumBitmaskShortcut)},
	SentinelParallelManual: {"sentinel_parallel_manual", EncodingSentinel, 1, true, sumSentinelParallelManual},
	SentinelParallelReduce: {"sentinel_parallel_reduce", EncodingSentinel, 1, true, sumSentinelParallelReduce},
	BitmaskParallelReduce:  {"bitmask_parallel_reduce", EncodingBitmask, 8, true, sumBitmaskParallelReduce},
}

// All returns every algorithm in report order.
func All() []Algorithm {
	all := make([]Algorithm, NumAlgorithms)
	for i := range all {
		all[i] = Algorithm(i)
	}
	return all
}

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	return redact.StringWithoutMarkers(a)
}

// SafeFormat implements redact.SafeFormatter. Algorithm names are never
// redacted from errors or logs.
func (a Algorithm) SafeFormat(w redact.SafePrinter, _ rune) {
	if a >= NumAlgorithms {
		w.Printf("unknown")
		return
	}
	w.Print(redact.SafeString(algorithms[a].name))
}

// Encoding returns where the algorithm reads validity from.
func (a Algorithm) Encoding() Encoding {
	return algorithms[a].encoding
}

// Unroll returns the number of elements the algorithm's main loop processes
// per iteration.
func (a Algorithm) Unroll() int {
	return algorithms[a].unroll
}

// Parallel reports whether the algorithm spreads its work over a worker pool.
func (a Algorithm) Parallel() bool {
	return algorithms[a].parallel
}

// CorrectnessBearing reports whether the algorithm honors validity, and so
// must produce the sum of the valid elements. The ignore_nulls variants only
// provide a timing floor.
func (a Algorithm) CorrectnessBearing() bool {
	return algorithms[a].encoding != EncodingNone
}

// Sum returns the sum computed by the algorithm over d. Every call computes
// a fresh sum; d is never modified. Parallel algorithms run on pool and
// return an error if any worker fails; sequential algorithms ignore pool and
// never fail.
func (a Algorithm) Sum(d *dataset.Data, pool *parallel.Pool) (int64, error) {
	if a >= NumAlgorithms {
		return 0, errors.AssertionFailedf("nasum: unknown algorithm %d", a)
	}
	if algorithms[a].parallel && pool == nil {
		return 0, errors.AssertionFailedf("nasum: %s requires a worker pool", a)
	}
	return algorithms[a].run(d, pool)
}

// Parse returns the algorithm with the given name.
func Parse(name string) (Algorithm, error) {
	name = strings.TrimSpace(name)
	for a := range NumAlgorithms {
		if algorithms[a].name == name {
			return a, nil
		}
	}
	return 0, errors.Newf("nasum: unknown algorithm %q", name)
}

// ParseList parses a comma-separated list of algorithm names. The empty
// string and "all" select every algorithm. The result is in report order
// regardless of the order of the names.
func ParseList(s string) ([]Algorithm, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return All(), nil
	}
	var selected [NumAlgorithms]bool
	for _, name := range strings.Split(s, ",") {
		a, err := Parse(name)
		if err != nil {
			return nil, err
		}
		selected[a] = true
	}
	var list []Algorithm
	for a := range NumAlgorithms {
		if selected[a] {
			list = append(list, a)
		}
	}
	return list, nil
}

// Reference computes the sum of the valid elements of d one element at a
// time, consulting the bitmap through dataset.Data.Valid. It is the oracle the
// correctness-bearing algorithms are checked against.
func Reference(d *dataset.Data) int64 {
	var total int64
	for i, v := range d.Values() {
		if d.Valid(i) {
			total += int64(v)
		}
	}
	return total
}
