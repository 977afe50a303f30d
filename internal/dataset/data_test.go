// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package dataset

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskRoundTrip(t *testing.T) {
	values := make([]int32, 16)
	for i := range values {
		values[i] = int32(i + 1)
	}
	d, err := FromValues(values, 0, 5, 15)
	require.NoError(t, err)
	require.Equal(t, []byte{0b1101_1110, 0b0111_1111}, d.Mask())

	var invalid []int
	for i := 0; i < d.N(); i++ {
		if !d.Valid(i) {
			invalid = append(invalid, i)
			require.Equal(t, Sentinel, d.Values()[i])
		} else {
			require.Equal(t, int32(i+1), d.Values()[i])
		}
	}
	require.Equal(t, []int{0, 5, 15}, invalid)
	require.Equal(t, []uint32{0, 5, 15}, d.MissingBitmap().ToArray())
	require.Equal(t, 3, d.MissingCount())
	require.Equal(t, int64(16*4+2), d.Size())
}

func TestFromValuesOutOfRange(t *testing.T) {
	_, err := FromValues([]int32{1, 2}, 2)
	require.Error(t, err)
	_, err = FromValues([]int32{1, 2}, -1)
	require.Error(t, err)
}

func TestFromValuesCopies(t *testing.T) {
	values := []int32{1, 2, 3}
	d, err := FromValues(values, 1)
	require.NoError(t, err)
	require.Equal(t, []int32{1, 2, 3}, values)
	require.Equal(t, []int32{1, Sentinel, 3}, d.Values())
}

func TestGenerateInvariants(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, 13, 1000} {
		for _, p := range []float64{0, 0.1, 0.5, 1} {
			t.Run(fmt.Sprintf("n=%d/p=%v", n, p), func(t *testing.T) {
				d, err := New(n, p, 42, DefaultValues)
				require.NoError(t, err)
				require.Equal(t, n, d.N())
				require.Len(t, d.Values(), n)
				require.Len(t, d.Mask(), MaskLen(n))
				for i, v := range d.Values() {
					if d.Valid(i) {
						require.GreaterOrEqual(t, v, int32(0))
						require.LessOrEqual(t, v, int32(100))
					} else {
						require.Equal(t, Sentinel, v)
					}
				}
				switch p {
				case 0:
					require.Zero(t, d.MissingCount())
				case 1:
					require.Equal(t, n, d.MissingCount())
				}
			})
		}
	}
}

func TestGenerateReproducible(t *testing.T) {
	a, err := New(1000, 0.3, 7, DefaultValues)
	require.NoError(t, err)
	b, err := New(1000, 0.3, 7, DefaultValues)
	require.NoError(t, err)
	require.Equal(t, a.Values(), b.Values())
	require.Equal(t, a.Mask(), b.Mask())

	c, err := New(1000, 0.3, 8, DefaultValues)
	require.NoError(t, err)
	require.NotEqual(t, a.Values(), c.Values())
}

func TestMissingFraction(t *testing.T) {
	const n = 100000
	d, err := New(n, 0.25, 1, DefaultValues)
	require.NoError(t, err)
	// Binomial(n, 0.25) has a standard deviation of ~137; allow a wide margin.
	require.InDelta(t, n/4, d.MissingCount(), 1500)
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate(-1, 1, DefaultValues)
	require.Error(t, err)
	_, err = Generate(10, 1, "bogus")
	require.Error(t, err)
	_, err = Generate(10, 1, "0-4294967295")
	require.Error(t, err)

	d, err := Generate(10, 1, "")
	require.NoError(t, err)
	for _, p := range []float64{-0.1, 1.5} {
		require.Error(t, d.FillMissing(p, 1))
	}
}

func TestPaddingBitsValid(t *testing.T) {
	d, err := New(13, 1, 1, DefaultValues)
	require.NoError(t, err)
	// Elements 8..12 are missing; bits 5..7 of the second byte are padding.
	require.Equal(t, []byte{0x00, 0b1110_0000}, d.Mask())
}
