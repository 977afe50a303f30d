// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package nasum

import (
	"sync/atomic"

	"github.com/cockroachdb/nabench/internal/dataset"
	"github.com/cockroachdb/nabench/internal/parallel"
)

func add(a, b int64) int64 { return a + b }

// sumSentinelParallelManual has every pool worker sum an interleaved stride
// of the values (worker w takes w, w+workers, ...) into a private subtotal,
// then publishes it with a single atomic add.
func sumSentinelParallelManual(d *dataset.Data, pool *parallel.Pool) (int64, error) {
	x := d.Values()
	var total atomic.Int64
	err := pool.Run(func(worker, workers int) {
		var sub int64
		for i := worker; i < len(x); i += workers {
			sub += int64(x[i]) * notSentinel(x[i])
		}
		total.Add(sub)
	})
	if err != nil {
		return 0, err
	}
	return total.Load(), nil
}

func sumSentinelParallelReduce(d *dataset.Data, pool *parallel.Pool) (int64, error) {
	x := d.Values()
	return parallel.Reduce(pool.Workers(), len(x), func(lo, hi int) int64 {
		return sumSentinelValues(x[lo:hi])
	}, add)
}

// sumBitmaskParallelReduce reduces over whole groups of eight in parallel and
// sums the trailing partial group on the calling goroutine.
func sumBitmaskParallelReduce(d *dataset.Data, pool *parallel.Pool) (int64, error) {
	x, mask := d.Values(), d.Mask()
	groups := len(x) / 8
	total, err := parallel.Reduce(pool.Workers(), groups, func(lo, hi int) int64 {
		return sumMaskedBatches(x, mask, lo, hi)
	}, add)
	if err != nil {
		return 0, err
	}
	return total + sumMaskedTail(x, mask, groups*8), nil
}

// warmUpSize is the number of indexes reduced by WarmUp.
const warmUpSize = 10000

// WarmUp runs a throwaway parallel reduction on pool so that starting its
// worker goroutines is not charged to the first parallel algorithm timed.
func WarmUp(pool *parallel.Pool) error {
	var z atomic.Int64
	if err := pool.Run(func(worker, workers int) {
		var sub int64
		for i := worker; i < warmUpSize; i += workers {
			sub += int64(i)
		}
		z.Add(sub)
	}); err != nil {
		return err
	}
	_, err := parallel.Reduce(pool.Workers(), warmUpSize, func(lo, hi int) int64 {
		return int64(hi - lo)
	}, add)
	return err
}
