// Copyright 2019 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package randvar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSpec(t *testing.T) {
	testCases := []struct {
		in      string
		want    Spec
		wantErr bool
	}{
		{in: "100", want: Spec{Dist: DistUniform, Min: 100, Max: 100}},
		{in: "0-100", want: Spec{Dist: DistUniform, Min: 0, Max: 100}},
		{in: "uniform:0-100", want: Spec{Dist: DistUniform, Min: 0, Max: 100}},
		{in: "zipf:1-1000", want: Spec{Dist: DistZipf, Min: 1, Max: 1000}},
		{in: "ZIPF:5", want: Spec{Dist: DistZipf, Min: 5, Max: 5}},
		{in: "normal:1-2", wantErr: true},
		{in: "10-1", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseSpec(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestSpecString(t *testing.T) {
	s, err := ParseSpec("7")
	require.NoError(t, err)
	require.Equal(t, "uniform:7-7", s.String())
}

func TestUniformDeterministic(t *testing.T) {
	draw := func(seed uint64) []uint64 {
		u, err := NewUniform(NewRand(seed), 0, 100)
		require.NoError(t, err)
		out := make([]uint64, 64)
		for i := range out {
			out[i] = u.Uint64()
		}
		return out
	}
	a, b := draw(1), draw(1)
	require.Equal(t, a, b)
	for _, v := range a {
		require.LessOrEqual(t, v, uint64(100))
	}
	require.NotEqual(t, a, draw(2))
}

func TestUniformBounds(t *testing.T) {
	_, err := NewUniform(nil, 5, 4)
	require.Error(t, err)

	u, err := NewUniform(NewRand(3), 42, 42)
	require.NoError(t, err)
	for range 10 {
		require.Equal(t, uint64(42), u.Uint64())
	}
}

func TestZipf(t *testing.T) {
	_, err := NewZipf(nil, 10, 1, DefaultTheta)
	require.Error(t, err)
	_, err = NewZipf(nil, 1, 10, 1.0)
	require.Error(t, err)

	z, err := NewZipf(NewRand(1), 1, 1000, DefaultTheta)
	require.NoError(t, err)
	var low int
	const draws = 10000
	for range draws {
		v := z.Uint64()
		require.GreaterOrEqual(t, v, uint64(1))
		require.LessOrEqual(t, v, uint64(1000))
		if v <= 10 {
			low++
		}
	}
	// The head of a zipf distribution carries far more than its uniform share
	// (1%) of the mass.
	require.Greater(t, low, draws/10)
}

func TestSpecNew(t *testing.T) {
	for _, s := range []string{"uniform:0-100", "zipf:0-100"} {
		spec, err := ParseSpec(s)
		require.NoError(t, err)
		v, err := spec.New(NewRand(1))
		require.NoError(t, err)
		require.LessOrEqual(t, v.Uint64(), uint64(100))
	}
	_, err := Spec{Dist: "normal"}.New(nil)
	require.Error(t, err)
}
