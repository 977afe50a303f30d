// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package parallel

import (
	"fmt"

	"github.com/cockroachdb/nabench/internal/invariants"
	"golang.org/x/sync/errgroup"
)

// Range is the half-open index interval [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Len returns the number of indexes in the range.
func (r Range) Len() int {
	return r.Hi - r.Lo
}

// Partition splits [0, n) into at most parts contiguous, non-overlapping
// ranges whose lengths differ by at most one. It returns no ranges when n is
// zero.
func Partition(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	parts = min(max(parts, 1), n)
	ranges := make([]Range, parts)
	size, extra := n/parts, n%parts
	lo := 0
	for i := range ranges {
		hi := lo + size
		if i < extra {
			hi++
		}
		ranges[i] = Range{Lo: lo, Hi: hi}
		lo = hi
	}
	if invariants.Enabled {
		checkPartition(n, ranges)
	}
	return ranges
}

func checkPartition(n int, ranges []Range) {
	next := 0
	for _, r := range ranges {
		if r.Lo != next || r.Hi <= r.Lo {
			panic(fmt.Sprintf("partition of [0, %d) is not contiguous: %v", n, ranges))
		}
		next = r.Hi
	}
	if next != n {
		panic(fmt.Sprintf("partition of [0, %d) ends at %d", n, next))
	}
}

// Reduce evaluates fn over a partition of [0, n) into one chunk per worker,
// running at most workers chunks concurrently on an errgroup, and combines
// the partial results with merge in chunk order. merge must be associative;
// for integer addition the result is independent of the worker count.
//
// Reduce blocks until every chunk has completed. If fn panics in any chunk,
// the panic is converted into the returned error and the partial results are
// discarded. For n == 0 the zero value of T is returned.
func Reduce[T any](workers, n int, fn func(lo, hi int) T, merge func(a, b T) T) (T, error) {
	var zero T
	chunks := Partition(n, workers)
	if len(chunks) == 0 {
		return zero, nil
	}

	partials := make([]T, len(chunks))
	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i, c := range chunks {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = panicError(i, r)
				}
			}()
			partials[i] = fn(c.Lo, c.Hi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return zero, err
	}

	result := partials[0]
	for _, p := range partials[1:] {
		result = merge(result, p)
	}
	return result, nil
}
