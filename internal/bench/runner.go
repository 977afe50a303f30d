// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package bench times the nasum algorithms against one generated dataset and
// reports per-algorithm timing statistics.
package bench

import (
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/nabench/internal/base"
	"github.com/cockroachdb/nabench/internal/dataset"
	"github.com/cockroachdb/nabench/internal/metricsutil"
	"github.com/cockroachdb/nabench/internal/nasum"
	"github.com/cockroachdb/nabench/internal/parallel"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	minLatency = time.Nanosecond
	maxLatency = 100 * time.Second
)

func clampLatency(d, min, max time.Duration) time.Duration {
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minLatency.Nanoseconds(), maxLatency.Nanoseconds(), 2)
}

// Phase is a step of a benchmark run. A Runner moves through the phases in
// declaration order, alternating between PhaseTiming and PhaseReporting once
// per algorithm. PhaseVerifying is skipped when verification is disabled.
type Phase int8

const (
	PhaseNotStarted Phase = iota
	PhaseGeneratingData
	PhaseWarmingUp
	PhaseVerifying
	PhaseTiming
	PhaseReporting
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseGeneratingData:
		return "generating-data"
	case PhaseWarmingUp:
		return "warming-up"
	case PhaseVerifying:
		return "verifying"
	case PhaseTiming:
		return "timing"
	case PhaseReporting:
		return "reporting"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int8(p))
	}
}

// Options configures a Runner beyond the benchmark parameters.
type Options struct {
	// Logger receives progress messages. Defaults to base.NoopLogger.
	Logger base.Logger
	// Reporter receives the configuration, the dataset and each result as the
	// run progresses. May be nil.
	Reporter Reporter
	// Algorithms selects the algorithms to time, in order. Defaults to
	// nasum.All().
	Algorithms []nasum.Algorithm
	// Latency, if set, observes every timed repetition in seconds, labelled
	// by algorithm name. It must have exactly one label.
	Latency *prometheus.HistogramVec
	// OnPhase, if set, is called on every phase transition.
	OnPhase func(Phase)
}

func (o *Options) ensureDefaults() {
	if o.Logger == nil {
		o.Logger = base.NoopLogger{}
	}
	if o.Algorithms == nil {
		o.Algorithms = nasum.All()
	}
}

// Result holds the timing statistics of one algorithm.
type Result struct {
	Algorithm nasum.Algorithm
	// Sum is the value computed by the algorithm (identical across
	// repetitions).
	Sum int64
	// Times holds the elapsed time of every repetition, in order.
	Times []time.Duration
	// Mean and StdDev are in seconds. StdDev is the Bessel-corrected sample
	// standard deviation and is zero for a single repetition.
	Mean, StdDev float64
	// Hist is the distribution of repetition times in nanoseconds.
	Hist *hdrhistogram.Histogram
}

// Name returns the algorithm's name.
func (r *Result) Name() string {
	return r.Algorithm.String()
}

// Quantile returns the q-th percentile (0-100) of the repetition times.
func (r *Result) Quantile(q float64) time.Duration {
	return time.Duration(r.Hist.ValueAtQuantile(q))
}

type sumFunc func(a nasum.Algorithm, d *dataset.Data, pool *parallel.Pool) (int64, error)

// A Runner performs one benchmark run. It is not reusable.
type Runner struct {
	cfg   Config
	opts  Options
	phase Phase
	data  *dataset.Data
	// sum is nasum.Algorithm.Sum outside of tests.
	sum sumFunc
}

// NewRunner returns a Runner for cfg.
func NewRunner(cfg Config, opts Options) *Runner {
	opts.ensureDefaults()
	return &Runner{cfg: cfg, opts: opts, sum: nasum.Algorithm.Sum}
}

// Phase returns the phase the runner is in.
func (r *Runner) Phase() Phase {
	return r.phase
}

// Data returns the generated dataset, or nil before generation.
func (r *Runner) Data() *dataset.Data {
	return r.data
}

func (r *Runner) setPhase(p Phase) {
	r.phase = p
	if r.opts.OnPhase != nil {
		r.opts.OnPhase(p)
	}
}

// Run generates the dataset, warms up the worker pool, optionally verifies
// the algorithms and then times each algorithm in turn. Algorithms are never
// timed concurrently with each other. Any error aborts the run; results
// already handed to the reporter are not retracted.
func (r *Runner) Run() ([]Result, error) {
	if r.phase != PhaseNotStarted {
		return nil, errors.AssertionFailedf("bench: runner already used (phase %s)", r.phase)
	}
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	cfg, log, rep := r.cfg, r.opts.Logger, r.opts.Reporter
	if rep == nil {
		rep = nopReporter{}
	}
	rep.Start(cfg)

	r.setPhase(PhaseGeneratingData)
	sw := base.MakeStopwatch()
	data, err := dataset.New(cfg.N, cfg.P, cfg.Seed, cfg.values())
	if err != nil {
		return nil, err
	}
	r.data = data
	log.Infof("generated %d values (%d missing, %s) in %s", data.N(), data.MissingCount(),
		crhumanize.Bytes(data.Size(), crhumanize.Compact, crhumanize.OmitI), sw.Stop())
	rep.DataReady(data)

	r.setPhase(PhaseWarmingUp)
	pool := parallel.NewPool(cfg.NThreads)
	defer pool.Close()
	sw = base.MakeStopwatch()
	if err := nasum.WarmUp(pool); err != nil {
		return nil, errors.Wrap(err, "bench: warm-up")
	}
	log.Infof("warmed up %d workers in %s", pool.Workers(), sw.Stop())

	if cfg.Verify {
		r.setPhase(PhaseVerifying)
		if err := verify(r.sum, data, pool, r.opts.Algorithms); err != nil {
			return nil, err
		}
		log.Infof("verified %d algorithms", len(r.opts.Algorithms))
	}

	results := make([]Result, 0, len(r.opts.Algorithms))
	for _, a := range r.opts.Algorithms {
		r.setPhase(PhaseTiming)
		res, err := r.time(a, data, pool)
		if err != nil {
			return results, err
		}
		r.setPhase(PhaseReporting)
		rep.Result(&res)
		results = append(results, res)
	}
	if err := rep.Finish(); err != nil {
		return results, errors.Wrap(err, "bench: report")
	}
	r.setPhase(PhaseDone)
	return results, nil
}

// verify runs every algorithm once and checks the ones that honor validity
// against nasum.Reference.
func verify(sum sumFunc, data *dataset.Data, pool *parallel.Pool, algs []nasum.Algorithm) error {
	want := nasum.Reference(data)
	for _, a := range algs {
		got, err := sum(a, data, pool)
		if err != nil {
			return errors.Wrapf(err, "bench: verifying %s", a)
		}
		if a.CorrectnessBearing() && got != want {
			return errors.AssertionFailedf("bench: %s computed %d, expected %d", a, got, want)
		}
	}
	return nil
}

func (r *Runner) time(a nasum.Algorithm, data *dataset.Data, pool *parallel.Pool) (Result, error) {
	res := Result{
		Algorithm: a,
		Times:     make([]time.Duration, 0, r.cfg.Repetitions),
		Hist:      newHistogram(),
	}
	var observer prometheus.Observer
	if r.opts.Latency != nil {
		observer = r.opts.Latency.WithLabelValues(a.String())
	}

	var w metricsutil.Welford
	for i := 0; i < r.cfg.Repetitions; i++ {
		sw := base.MakeStopwatch()
		sum, err := r.sum(a, data, pool)
		elapsed := sw.Stop()
		if err != nil {
			return res, errors.Wrapf(err, "bench: %s", a)
		}
		if i > 0 && sum != res.Sum {
			return res, errors.AssertionFailedf("bench: %s returned %d after %d", a, sum, res.Sum)
		}
		res.Sum = sum

		res.Times = append(res.Times, elapsed)
		w.Add(elapsed.Seconds())
		if err := res.Hist.RecordValue(clampLatency(elapsed, minLatency, maxLatency).Nanoseconds()); err != nil {
			// Values are clamped to the histogram's range, so this should
			// never happen.
			panic(fmt.Sprintf(`%s: recording value: %s`, a, err))
		}
		if observer != nil {
			observer.Observe(elapsed.Seconds())
		}
	}
	res.Mean, res.StdDev = w.Mean(), w.StdDev()
	return res, nil
}
