// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/nabench/internal/bench"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (bench.Config, cliOptions) {
	cfg := bench.DefaultConfig()
	opts := defaultCLIOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	registerFlags(fs, &cfg, &opts)
	require.NoError(t, fs.Parse(args))
	return cfg, opts
}

func TestFlagDefaults(t *testing.T) {
	cfg, opts := parse(t)
	require.Equal(t, bench.DefaultConfig(), cfg)
	require.Equal(t, defaultCLIOptions(), opts)
}

func TestFlags(t *testing.T) {
	cfg, opts := parse(t,
		"--seed", "42", "--n=1000", "--p", "0.25", "--nthreads", "3",
		"--repetitions=7", "--values", "zipf:1-500", "--verify=false",
		"--algorithms", "sentinel_if,bitmask_plain", "--format", "table",
		"--plot", "--cpuprofile", "cpu.prof", "-v")
	require.Equal(t, bench.Config{
		Seed:        42,
		N:           1000,
		P:           0.25,
		NThreads:    3,
		Repetitions: 7,
		Values:      "zipf:1-500",
		Verify:      false,
	}, cfg)
	require.Equal(t, cliOptions{
		algorithms: "sentinel_if,bitmask_plain",
		format:     "table",
		plot:       true,
		cpuProfile: "cpu.prof",
		verbose:    true,
	}, opts)
}

func TestMalformedFlagsKeepDefaults(t *testing.T) {
	cfg, opts := parse(t,
		"--seed", "-3", "--n", "many", "--p", "1.5", "--nthreads", "0",
		"--repetitions", "x", "--values", "gauss:0-1", "--verify=maybe",
		"--algorithms", "fastest", "--format", "xml", "--bogus", "7")
	require.Equal(t, bench.DefaultConfig(), cfg)
	require.Equal(t, defaultCLIOptions(), opts)

	cfg, _ = parse(t, "--p", "NaN", "--n", "-1")
	require.Equal(t, 0.1, cfg.P)
	require.Equal(t, 1000000, cfg.N)
}

func TestIntegerFlagsAreDecimal(t *testing.T) {
	cfg, _ := parse(t, "--seed", "011", "--n", "010", "--nthreads", "08", "--repetitions", "0x10")
	require.Equal(t, uint64(11), cfg.Seed)
	require.Equal(t, 10, cfg.N)
	require.Equal(t, 8, cfg.NThreads)
	require.Equal(t, 100, cfg.Repetitions)
}

func TestVerifyFlagWithoutValue(t *testing.T) {
	cfg, _ := parse(t, "--verify=false", "--verify")
	require.True(t, cfg.Verify)
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Infof(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Fatalf(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}

func TestLogLatency(t *testing.T) {
	latency, reg := newLatency()
	latency.WithLabelValues("sentinel_if").Observe(0.25)
	latency.WithLabelValues("sentinel_if").Observe(0.5)
	latency.WithLabelValues("bitmask_plain").Observe(1)

	var logger recordingLogger
	require.NoError(t, logLatency(&logger, reg))
	require.Equal(t, []string{
		`nabench_repetition_seconds{algorithm="bitmask_plain"}: count=1 sum=1s`,
		`nabench_repetition_seconds{algorithm="sentinel_if"}: count=2 sum=0.75s`,
	}, logger.lines)
}

func TestRootCmdVerbose(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--n", "32", "--repetitions", "2", "--algorithms", "sentinel_if", "-v"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "sentinel_if:")
}

func TestRootCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"--n", "100", "--p", "0.2", "--nthreads", "2", "--repetitions", "2",
		"--algorithms", "ignore_nulls,bitmask_shortcut", "--unknown-flag",
	})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(out.String(), "\n")
	require.Contains(t, lines, "  n           = 100")
	require.Contains(t, lines, "  nthreads    = 2")
	var reported []string
	for _, l := range lines {
		if strings.Contains(l, " s,  +/- ") {
			reported = append(reported, strings.Fields(l)[0])
		}
	}
	require.Equal(t, []string{"ignore_nulls:", "bitmask_shortcut:"}, reported)
}

func TestRootCmdCPUProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.prof")
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"--n", "64", "--repetitions", "1", "--format", "benchfmt",
		"--cpuprofile", path,
	})
	require.NoError(t, cmd.Execute())
	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, fi.Size(), int64(0))
}
