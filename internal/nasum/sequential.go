// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package nasum

import "github.com/cockroachdb/nabench/internal/dataset"

// All kernels widen each element to int64 before combining it, so that a
// group of eight sentinels cannot overflow.

// notSentinel returns 1 if v is a valid value under sentinel encoding and 0
// if it is dataset.Sentinel. d is zero for the sentinel and positive for any
// other value, so the sign bit of d|-d is the answer.
func notSentinel(v int32) int64 {
	d := int64(v) - int64(dataset.Sentinel)
	return int64(uint64(d|-d) >> 63)
}

func sumIgnoreNulls(d *dataset.Data) int64 {
	var total int64
	for _, v := range d.Values() {
		total += int64(v)
	}
	return total
}

func sumIgnoreNullsBatched(d *dataset.Data) int64 {
	x := d.Values()
	tail := len(x) - len(x)%8
	var total int64
	for i := 0; i < tail; i += 8 {
		b := x[i : i+8 : i+8]
		total += int64(b[0]) + int64(b[1]) + int64(b[2]) + int64(b[3]) +
			int64(b[4]) + int64(b[5]) + int64(b[6]) + int64(b[7])
	}
	for _, v := range x[tail:] {
		total += int64(v)
	}
	return total
}

func sumSentinelIf(d *dataset.Data) int64 {
	var total int64
	for _, v := range d.Values() {
		if v != dataset.Sentinel {
			total += int64(v)
		}
	}
	return total
}

// sumSentinelValues is the branchless sentinel reduction over x.
func sumSentinelValues(x []int32) int64 {
	var total int64
	for _, v := range x {
		total += int64(v) * notSentinel(v)
	}
	return total
}

func sumSentinelMul(d *dataset.Data) int64 {
	return sumSentinelValues(d.Values())
}

func sumSentinelBatched(d *dataset.Data) int64 {
	x := d.Values()
	tail := len(x) - len(x)%8
	var total int64
	for i := 0; i < tail; i += 8 {
		b := x[i : i+8 : i+8]
		total += int64(b[0])*notSentinel(b[0]) +
			int64(b[1])*notSentinel(b[1]) +
			int64(b[2])*notSentinel(b[2]) +
			int64(b[3])*notSentinel(b[3]) +
			int64(b[4])*notSentinel(b[4]) +
			int64(b[5])*notSentinel(b[5]) +
			int64(b[6])*notSentinel(b[6]) +
			int64(b[7])*notSentinel(b[7])
	}
	return total + sumSentinelValues(x[tail:])
}

func sumBitmaskPlain(d *dataset.Data) int64 {
	mask := d.Mask()
	var total int64
	for i, v := range d.Values() {
		total += int64(v) * (int64(mask[i/8]>>(i%8)) & 1)
	}
	return total
}

// sumMaskedGroup sums the eight values in b whose bits are set in m.
func sumMaskedGroup(b []int32, m byte) int64 {
	b = b[:8:8]
	v := int64(m)
	return int64(b[0])*(v&1) +
		int64(b[1])*(v>>1&1) +
		int64(b[2])*(v>>2&1) +
		int64(b[3])*(v>>3&1) +
		int64(b[4])*(v>>4&1) +
		int64(b[5])*(v>>5&1) +
		int64(b[6])*(v>>6&1) +
		int64(b[7])*(v>>7&1)
}

// sumMaskedBatches sums the valid elements of the groups of eight numbered
// [lo, hi), reading each group's mask byte once.
func sumMaskedBatches(x []int32, mask []byte, lo, hi int) int64 {
	var total int64
	for g := lo; g < hi; g++ {
		total += sumMaskedGroup(x[g*8:], mask[g])
	}
	return total
}

// sumMaskedTail sums the valid elements at indexes [from, len(x)) one bit at
// a time.
func sumMaskedTail(x []int32, mask []byte, from int) int64 {
	var total int64
	for i := from; i < len(x); i++ {
		total += int64(x[i]) * dataset.ValidBit(mask, i)
	}
	return total
}

func sumBitmaskBatched(d *dataset.Data) int64 {
	x, mask := d.Values(), d.Mask()
	groups := len(x) / 8
	return sumMaskedBatches(x, mask, 0, groups) + sumMaskedTail(x, mask, groups*8)
}

func sumBitmaskShortcut(d *dataset.Data) int64 {
	x, mask := d.Values(), d.Mask()
	groups := len(x) / 8
	var total int64
	for g := 0; g < groups; g++ {
		b := x[g*8 : g*8+8 : g*8+8]
		if m := mask[g]; m == dataset.AllValid {
			total += int64(b[0]) + int64(b[1]) + int64(b[2]) + int64(b[3]) +
				int64(b[4]) + int64(b[5]) + int64(b[6]) + int64(b[7])
		} else {
			total += sumMaskedGroup(b, m)
		}
	}
	return total + sumMaskedTail(x, mask, groups*8)
}
