// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package dataset synthesizes the int32 arrays the summation kernels run on,
// carrying two encodings of missing values side by side:
//
//   - sentinel encoding: a missing element holds Sentinel;
//   - bitmask encoding: bit i%8 of Mask()[i/8] is 1 iff element i is valid.
//
// Both encodings are filled in the same pass so that they always agree on
// which elements are missing.
package dataset

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/nabench/internal/randvar"
)

// Sentinel is the reserved value marking a missing element under sentinel
// encoding: the smallest representable int32.
const Sentinel int32 = math.MinInt32

// AllValid is the mask byte of a group of 8 elements that are all valid.
const AllValid byte = 0xFF

// DefaultValues is the value distribution used when none is configured.
const DefaultValues = "uniform:0-100"

// Data is an immutable array of int32 values plus its validity bitmap. It is
// safe for concurrent readers.
type Data struct {
	n      int
	values []int32
	mask   []byte
}

// MaskLen returns the number of bitmap bytes needed for n elements.
func MaskLen(n int) int {
	return (n + 7) / 8
}

// New generates n values from dist using seed and then marks each element
// missing with probability p. The value stream and the missing-value stream
// are independent generators seeded with the same seed, drawn in that order.
func New(n int, p float64, seed uint64, dist string) (*Data, error) {
	d, err := Generate(n, seed, dist)
	if err != nil {
		return nil, err
	}
	if err := d.FillMissing(p, seed); err != nil {
		return nil, err
	}
	return d, nil
}

// Generate draws n values from the distribution described by dist (a
// randvar spec, e.g. "uniform:0-100"). All elements start out valid.
func Generate(n int, seed uint64, dist string) (*Data, error) {
	if n < 0 {
		return nil, errors.Newf("dataset: negative element count %d", n)
	}
	if dist == "" {
		dist = DefaultValues
	}
	spec, err := randvar.ParseSpec(dist)
	if err != nil {
		return nil, errors.Wrap(err, "dataset")
	}
	// The sentinel itself must stay out of the value domain.
	if spec.Max > math.MaxInt32 {
		return nil, errors.Newf("dataset: values %s exceed the int32 range", spec)
	}
	v, err := spec.New(randvar.NewRand(seed))
	if err != nil {
		return nil, errors.Wrap(err, "dataset")
	}

	d := &Data{
		n:      n,
		values: make([]int32, n),
		mask:   make([]byte, MaskLen(n)),
	}
	for i := range d.values {
		d.values[i] = int32(v.Uint64())
	}
	for i := range d.mask {
		d.mask[i] = AllValid
	}
	return d, nil
}

// FillMissing draws one uniform [0,1) variate per element from a generator
// seeded with seed, and marks the element missing when the variate is < p:
// its value becomes Sentinel and its validity bit is cleared. It must be
// called once, before the data is shared.
func (d *Data) FillMissing(p float64, seed uint64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return errors.Newf("dataset: missing probability %v outside [0, 1]", p)
	}
	rng := randvar.NewRand(seed)
	for i := range d.values {
		if rng.Float64() < p {
			d.setMissing(i)
		}
	}
	return nil
}

// FromValues builds a Data from explicit values, marking the given indexes
// missing. Intended for hand-constructed inputs.
func FromValues(values []int32, missing ...int) (*Data, error) {
	d := &Data{
		n:      len(values),
		values: append([]int32(nil), values...),
		mask:   make([]byte, MaskLen(len(values))),
	}
	for i := range d.mask {
		d.mask[i] = AllValid
	}
	for _, i := range missing {
		if i < 0 || i >= d.n {
			return nil, errors.Newf("dataset: missing index %d out of range [0, %d)", i, d.n)
		}
		d.setMissing(i)
	}
	return d, nil
}

func (d *Data) setMissing(i int) {
	d.values[i] = Sentinel
	d.mask[i/8] &^= 1 << (i % 8)
}

// N returns the number of elements.
func (d *Data) N() int {
	return d.n
}

// Values returns the element values. Missing elements hold Sentinel. The
// slice must not be modified.
func (d *Data) Values() []int32 {
	return d.values
}

// Mask returns the validity bitmap. The slice must not be modified.
func (d *Data) Mask() []byte {
	return d.mask
}

// Valid reports whether element i is valid according to the bitmap.
func (d *Data) Valid(i int) bool {
	return ValidBit(d.mask, i) == 1
}

// ValidBit extracts the validity bit of element i from mask: 1 if valid, 0
// if missing.
func ValidBit(mask []byte, i int) int64 {
	return int64(mask[i/8]>>(i%8)) & 1
}

// MissingBitmap returns the indexes of the missing elements.
func (d *Data) MissingBitmap() *roaring.Bitmap {
	bm := roaring.New()
	for i := 0; i < d.n; i++ {
		if !d.Valid(i) {
			bm.Add(uint32(i))
		}
	}
	bm.RunOptimize()
	return bm
}

// MissingCount returns the number of missing elements.
func (d *Data) MissingCount() int {
	return int(d.MissingBitmap().GetCardinality())
}

// Size returns the number of bytes held by the values and the bitmap.
func (d *Data) Size() int64 {
	return int64(len(d.values))*4 + int64(len(d.mask))
}
