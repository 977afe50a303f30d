// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// nabench times the sum of the non-missing elements of an int32 array under
// sentinel and bitmask encodings of missing values.
package main

import (
	"log"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/cockroachdb/nabench/internal/base"
	"github.com/cockroachdb/nabench/internal/bench"
	"github.com/cockroachdb/nabench/internal/nasum"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cfg := bench.DefaultConfig()
	opts := defaultCLIOptions()
	cmd := &cobra.Command{
		Use:          "nabench (flags)",
		Short:        "NA encoding benchmark",
		Long:         `Compares summing an array with missing values encoded as a sentinel value or in a validity bitmap.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfg, opts)
		},
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	}
	registerFlags(cmd.Flags(), &cfg, &opts)
	return cmd
}

func run(cmd *cobra.Command, cfg bench.Config, opts cliOptions) error {
	var logger base.Logger = base.NoopLogger{}
	var latency *prometheus.HistogramVec
	if opts.verbose {
		logger = base.DefaultLogger{}
		var reg *prometheus.Registry
		latency, reg = newLatency()
		defer func() {
			if err := logLatency(logger, reg); err != nil {
				logger.Infof("gathering latency: %v", err)
			}
		}()
	}
	algs, err := nasum.ParseList(opts.algorithms)
	if err != nil {
		algs = nasum.All()
	}
	reporter, err := bench.NewReporter(bench.Format(opts.format), cmd.OutOrStdout(), opts.plot)
	if err != nil {
		return err
	}
	if opts.cpuProfile != "" {
		defer startCPUProfile(logger, opts.cpuProfile)()
	}
	_, err = bench.NewRunner(cfg, bench.Options{
		Logger:     logger,
		Reporter:   reporter,
		Algorithms: algs,
		Latency:    latency,
		OnPhase: func(p bench.Phase) {
			logger.Infof("phase: %s", p)
		},
	}).Run()
	return err
}

func newLatency() (*prometheus.HistogramVec, *prometheus.Registry) {
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nabench",
		Name:      "repetition_seconds",
		Help:      "Elapsed time of one timed repetition of an algorithm.",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
	}, []string{"algorithm"})
	reg := prometheus.NewRegistry()
	reg.MustRegister(latency)
	return latency, reg
}

// logLatency logs the sample count and total of every latency histogram
// gathered from g.
func logLatency(logger base.Logger, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var alg string
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "algorithm" {
					alg = lp.GetValue()
				}
			}
			h := m.GetHistogram()
			logger.Infof("%s{algorithm=%q}: count=%d sum=%ss",
				mf.GetName(), alg, h.GetSampleCount(),
				strconv.FormatFloat(h.GetSampleSum(), 'g', 6, 64))
		}
	}
	return nil
}

func startCPUProfile(logger base.Logger, path string) func() {
	f, err := os.Create(path)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		logger.Fatalf("%v", err)
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}
}

func main() {
	log.SetFlags(0)

	if err := newRootCmd().Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}
