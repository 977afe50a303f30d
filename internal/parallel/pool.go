// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package parallel provides the two fork-join strategies used by the parallel
// summation kernels: a Pool of long-lived workers that each run a caller
// supplied function once per call (manual partitioning), and Reduce, which
// splits a range into chunks and combines the partial results.
package parallel

import (
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/nabench/internal/invariants"
)

// A Pool is a fixed set of worker goroutines. The goroutines are started
// lazily, on the first call to Run; callers that want to keep that setup cost
// out of a measurement should call Run once beforehand.
//
// Run calls are serialized: the pool executes one fork-join at a time.
type Pool struct {
	workers int
	start   sync.Once
	started atomic.Bool

	mu struct {
		sync.Mutex
		queues []chan job
		closed invariants.CloseChecker
		done   bool
	}
}

type job struct {
	fn   func(worker, workers int)
	wg   *sync.WaitGroup
	errs []error
}

// NewPool returns a pool of the given number of workers. A non-positive count
// is treated as 1.
func NewPool(workers int) *Pool {
	return &Pool{workers: max(workers, 1)}
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// Started reports whether the worker goroutines have been started.
func (p *Pool) Started() bool {
	return p.started.Load()
}

func (p *Pool) startWorkers() {
	p.mu.queues = make([]chan job, p.workers)
	for w := range p.mu.queues {
		q := make(chan job)
		p.mu.queues[w] = q
		go func() {
			for j := range q {
				runJob(j, w, p.workers)
			}
		}()
	}
	p.started.Store(true)
}

func runJob(j job, worker, workers int) {
	defer j.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			j.errs[worker] = panicError(worker, r)
		}
	}()
	j.fn(worker, workers)
}

// Run calls fn(worker, workers) once on every worker and blocks until all of
// them have returned. If any worker panics, Run returns an error describing
// every failed worker; the panics do not escape the pool.
func (p *Pool) Run(fn func(worker, workers int)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mu.closed.AssertNotClosed()
	if p.mu.done {
		return errors.AssertionFailedf("parallel: Run on closed pool")
	}
	p.start.Do(p.startWorkers)

	var wg sync.WaitGroup
	j := job{fn: fn, wg: &wg, errs: make([]error, p.workers)}
	wg.Add(p.workers)
	for _, q := range p.mu.queues {
		q <- j
	}
	wg.Wait()

	var err error
	for _, e := range j.errs {
		err = errors.CombineErrors(err, e)
	}
	return err
}

// Close stops the worker goroutines. The pool must not be used afterwards;
// Run on a closed pool panics in invariant builds and errors otherwise.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mu.closed.Close()
	p.mu.done = true
	for _, q := range p.mu.queues {
		close(q)
	}
	p.mu.queues = nil
}

func panicError(worker int, r interface{}) error {
	if err, ok := r.(error); ok {
		return errors.Wrapf(err, "parallel: worker %d panicked", worker)
	}
	return errors.Newf("parallel: worker %d panicked: %v", worker, r)
}
