// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package metricsutil

import "math"

// Welford maintains a running mean and sample variance of a stream of
// observations using Welford's online algorithm, which stays numerically
// stable when the observations are close to each other (as repeated timings
// of the same operation are).
//
// The zero value is ready to use.
type Welford struct {
	count int64
	mean  float64
	m2    float64
}

// Add records a new observation.
func (w *Welford) Add(x float64) {
	w.count++
	delta := x - w.mean
	w.mean += delta / float64(w.count)
	w.m2 += delta * (x - w.mean)
}

// Count returns the number of observations.
func (w *Welford) Count() int64 {
	return w.count
}

// Mean returns the arithmetic mean of the observations, or 0 if there are
// none.
func (w *Welford) Mean() float64 {
	return w.mean
}

// Variance returns the Bessel-corrected sample variance, M2/(n-1). It is 0
// when fewer than two observations were added.
func (w *Welford) Variance() float64 {
	if w.count < 2 {
		return 0
	}
	return w.m2 / float64(w.count-1)
}

// StdDev returns the sample standard deviation.
func (w *Welford) StdDev() float64 {
	return math.Sqrt(w.Variance())
}
