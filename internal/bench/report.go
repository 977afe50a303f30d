// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package bench

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/nabench/internal/dataset"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/perf/benchfmt"
)

// A Reporter presents the progress and results of a run.
type Reporter interface {
	// Start is called with the resolved configuration before any work.
	Start(cfg Config)
	// DataReady is called once the dataset has been generated.
	DataReady(d *dataset.Data)
	// Result is called after each algorithm has been timed.
	Result(res *Result)
	// Finish is called after the last algorithm.
	Finish() error
}

type nopReporter struct{}

func (nopReporter) Start(Config)            {}
func (nopReporter) DataReady(*dataset.Data) {}
func (nopReporter) Result(*Result)          {}
func (nopReporter) Finish() error           { return nil }

// Format selects a Reporter implementation.
type Format string

const (
	FormatText     Format = "text"
	FormatTable    Format = "table"
	FormatBenchfmt Format = "benchfmt"
)

// NewReporter returns the reporter for format, writing to w. plot adds a
// per-repetition chart of each algorithm's times to the text format.
func NewReporter(format Format, w io.Writer, plot bool) (Reporter, error) {
	switch format {
	case FormatText, "":
		return &TextReporter{W: w, Plot: plot}, nil
	case FormatTable:
		return &TableReporter{W: w}, nil
	case FormatBenchfmt:
		return &BenchfmtReporter{W: w}, nil
	default:
		return nil, errors.Newf("bench: unknown report format %q", format)
	}
}

// formatSeconds formats a duration in seconds with six significant digits.
func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'g', 6, 64)
}

func writeParameters(w io.Writer, cfg Config) {
	fmt.Fprintf(w, "\nInput parameters:\n")
	for _, p := range []struct{ name, value string }{
		{"seed", strconv.FormatUint(cfg.Seed, 10)},
		{"n", strconv.Itoa(cfg.N)},
		{"p", strconv.FormatFloat(cfg.P, 'f', 6, 64)},
		{"nthreads", strconv.Itoa(cfg.NThreads)},
		{"repetitions", strconv.Itoa(cfg.Repetitions)},
		{"values", cfg.values()},
	} {
		fmt.Fprintf(w, "  %-11s = %s\n", p.name, p.value)
	}
	fmt.Fprintf(w, "\nGenerating data...\n")
}

// TextReporter writes one line per algorithm:
//
//	<name>:<padding> <mean> s,  +/- <stdev> s
//
// The standard deviation is omitted for a single repetition.
type TextReporter struct {
	W io.Writer
	// Plot adds a chart of the repetition times after each line.
	Plot bool
}

var _ Reporter = (*TextReporter)(nil)

// Start implements Reporter.
func (r *TextReporter) Start(cfg Config) {
	writeParameters(r.W, cfg)
}

// DataReady implements Reporter.
func (r *TextReporter) DataReady(*dataset.Data) {
	fmt.Fprintf(r.W, "  done.\n\n")
}

// Result implements Reporter.
func (r *TextReporter) Result(res *Result) {
	label := res.Name() + ": "
	if len(res.Times) < 2 {
		fmt.Fprintf(r.W, "%-32s%s s\n", label, formatSeconds(res.Mean))
	} else {
		fmt.Fprintf(r.W, "%-32s%s s,  +/- %s s\n", label, formatSeconds(res.Mean), formatSeconds(res.StdDev))
	}
	if r.Plot && len(res.Times) > 1 {
		series := make([]float64, len(res.Times))
		for i, t := range res.Times {
			series[i] = float64(t) / float64(time.Microsecond)
		}
		fmt.Fprintln(r.W, asciigraph.Plot(series,
			asciigraph.Height(8),
			asciigraph.Offset(4),
			asciigraph.Caption(res.Name()+" (µs per repetition)")))
		fmt.Fprintln(r.W)
	}
}

// Finish implements Reporter.
func (r *TextReporter) Finish() error {
	_, err := fmt.Fprintln(r.W)
	return err
}

// TableReporter collects the results and renders them as a table once the
// run finishes.
type TableReporter struct {
	W       io.Writer
	results []*Result
}

var _ Reporter = (*TableReporter)(nil)

// Start implements Reporter.
func (r *TableReporter) Start(cfg Config) {
	writeParameters(r.W, cfg)
}

// DataReady implements Reporter.
func (r *TableReporter) DataReady(d *dataset.Data) {
	fmt.Fprintf(r.W, "  done (%s missing, %s).\n\n",
		crhumanize.Count(int64(d.MissingCount()), crhumanize.Compact),
		crhumanize.Bytes(d.Size(), crhumanize.Compact, crhumanize.OmitI))
}

// Result implements Reporter.
func (r *TableReporter) Result(res *Result) {
	r.results = append(r.results, res)
}

// Finish implements Reporter.
func (r *TableReporter) Finish() error {
	table := tablewriter.NewWriter(r.W)
	table.SetHeader([]string{"algorithm", "encoding", "unroll", "mean (s)", "stdev (s)", "p50", "p99", "sum"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, res := range r.results {
		table.Append([]string{
			res.Name(),
			res.Algorithm.Encoding().String(),
			strconv.Itoa(res.Algorithm.Unroll()),
			formatSeconds(res.Mean),
			formatSeconds(res.StdDev),
			res.Quantile(50).String(),
			res.Quantile(99).String(),
			strconv.FormatInt(res.Sum, 10),
		})
	}
	table.Render()
	return nil
}

// BenchfmtReporter writes every repetition as a line of the Go benchmark
// format, so that runs can be compared with benchstat.
type BenchfmtReporter struct {
	W      io.Writer
	w      *benchfmt.Writer
	config []benchfmt.Config
	err    error
}

var _ Reporter = (*BenchfmtReporter)(nil)

// Start implements Reporter.
func (r *BenchfmtReporter) Start(cfg Config) {
	r.w = benchfmt.NewWriter(r.W)
	for _, kv := range [][2]string{
		{"seed", strconv.FormatUint(cfg.Seed, 10)},
		{"n", strconv.Itoa(cfg.N)},
		{"p", strconv.FormatFloat(cfg.P, 'g', -1, 64)},
		{"nthreads", strconv.Itoa(cfg.NThreads)},
		{"values", cfg.values()},
	} {
		r.config = append(r.config, benchfmt.Config{Key: kv[0], Value: []byte(kv[1]), File: true})
	}
}

// DataReady implements Reporter.
func (r *BenchfmtReporter) DataReady(*dataset.Data) {}

// Result implements Reporter.
func (r *BenchfmtReporter) Result(res *Result) {
	if r.err != nil {
		return
	}
	name := benchfmt.Name("NASum/" + res.Name())
	for _, t := range res.Times {
		rec := &benchfmt.Result{
			Config: r.config,
			Name:   name,
			Iters:  1,
			Values: []benchfmt.Value{{Value: float64(t.Nanoseconds()), Unit: "ns/op"}},
		}
		if err := r.w.Write(rec); err != nil {
			r.err = err
			return
		}
	}
}

// Finish implements Reporter.
func (r *BenchfmtReporter) Finish() error {
	return r.err
}
