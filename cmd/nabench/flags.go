// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"math"
	"strconv"

	"github.com/cockroachdb/nabench/internal/bench"
	"github.com/cockroachdb/nabench/internal/nasum"
	"github.com/cockroachdb/nabench/internal/randvar"
	"github.com/spf13/pflag"
)

// The flag values below never fail to parse. A malformed or out-of-range
// argument leaves the flag at its current value.

type uintValue struct{ p *uint64 }

func (v uintValue) String() string { return strconv.FormatUint(*v.p, 10) }
func (v uintValue) Type() string   { return "uint" }

func (v uintValue) Set(s string) error {
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		*v.p = u
	}
	return nil
}

type intValue struct {
	p   *int
	min int
}

func (v intValue) String() string { return strconv.Itoa(*v.p) }
func (v intValue) Type() string   { return "int" }

func (v intValue) Set(s string) error {
	if i, err := strconv.ParseInt(s, 10, strconv.IntSize); err == nil && int(i) >= v.min {
		*v.p = int(i)
	}
	return nil
}

type probValue struct{ p *float64 }

func (v probValue) String() string { return strconv.FormatFloat(*v.p, 'g', -1, 64) }
func (v probValue) Type() string   { return "float" }

func (v probValue) Set(s string) error {
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && f >= 0 && f <= 1 {
		*v.p = f
	}
	return nil
}

type boolValue struct{ p *bool }

func (v boolValue) String() string { return strconv.FormatBool(*v.p) }
func (v boolValue) Type() string   { return "bool" }

func (v boolValue) Set(s string) error {
	if b, err := strconv.ParseBool(s); err == nil {
		*v.p = b
	}
	return nil
}

// checkedValue accepts a string only if check does not reject it.
type checkedValue struct {
	p     *string
	check func(string) error
}

func (v checkedValue) String() string { return *v.p }
func (v checkedValue) Type() string   { return "string" }

func (v checkedValue) Set(s string) error {
	if v.check(s) == nil {
		*v.p = s
	}
	return nil
}

// cliOptions holds the flags that do not belong to bench.Config.
type cliOptions struct {
	algorithms string
	format     string
	plot       bool
	cpuProfile string
	verbose    bool
}

func defaultCLIOptions() cliOptions {
	return cliOptions{algorithms: "all", format: string(bench.FormatText)}
}

func registerFlags(fs *pflag.FlagSet, cfg *bench.Config, opts *cliOptions) {
	fs.Var(uintValue{&cfg.Seed}, "seed", "seed of the value and missing-value streams")
	fs.Var(intValue{&cfg.N, 0}, "n", "number of elements")
	fs.Var(probValue{&cfg.P}, "p", "probability that an element is missing")
	fs.Var(intValue{&cfg.NThreads, 1}, "nthreads", "number of workers used by the parallel algorithms")
	fs.Var(intValue{&cfg.Repetitions, 1}, "repetitions", "number of timed runs of each algorithm")
	fs.Var(checkedValue{&cfg.Values, func(s string) error {
		_, err := randvar.ParseSpec(s)
		return err
	}}, "values", "distribution of the element values, e.g. uniform:0-100 or zipf:1-1000")
	fs.Var(boolValue{&cfg.Verify}, "verify", "check every algorithm against the reference sum before timing")
	fs.Lookup("verify").NoOptDefVal = "true"

	fs.Var(checkedValue{&opts.algorithms, func(s string) error {
		_, err := nasum.ParseList(s)
		return err
	}}, "algorithms", "comma-separated algorithms to time, or \"all\"")
	fs.Var(checkedValue{&opts.format, func(s string) error {
		_, err := bench.NewReporter(bench.Format(s), nil, false)
		return err
	}}, "format", "report format: text, table or benchfmt")
	fs.BoolVar(&opts.plot, "plot", false, "plot the repetition times of each algorithm (text format)")
	fs.StringVar(&opts.cpuProfile, "cpuprofile", "", "write a CPU profile of the timed runs to this file")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress")
}
