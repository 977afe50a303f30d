// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package invariants contains assertions that are only compiled in when
// building with the "invariants" or "race" tags. Kernel and worker-pool code
// uses it to cross-check partitioning and lifecycle without paying for the
// checks in benchmark builds.
package invariants
