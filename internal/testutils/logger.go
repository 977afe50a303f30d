// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package testutils

import (
	"testing"

	"github.com/cockroachdb/nabench/internal/base"
)

// Logger is a base.Logger that writes to a testing.TB.
type Logger struct {
	T testing.TB
}

var _ base.Logger = Logger{}

// Infof implements base.Logger.
func (l Logger) Infof(format string, args ...interface{}) {
	l.T.Logf(format, args...)
}

// Fatalf implements base.Logger by failing the test.
func (l Logger) Fatalf(format string, args ...interface{}) {
	l.T.Helper()
	l.T.Fatalf(format, args...)
}
