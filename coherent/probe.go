// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coherent

import "log/slog"

// The probes read the persistent host views directly: no unmap or
// remap is required by the coherency contract, only a resolved
// fence. Each probe logs the first mismatching index with its
// observed value and reports failure; the caller continues with the
// remaining checks.

// probeRange checks the view of one buffer after a mutation stage
// writing value over the absolute element range [start, end):
// every in-view element not matching the stride predicate must still
// hold FillB, and every matching element within the range must hold
// value. The view index i corresponds to absolute index i+Offset/4.
func probeRange(lg *slog.Logger, data []uint32, c Case, start, end, value uint32) bool {
	off := c.Offset / 4
	for i, v := range data {
		abs := uint32(i) + off
		if abs%c.Stride != 0 && v != FillB {
			lg.Info("probe mismatch in range probe", "index", i, "value", v)
			return false
		}
	}
	lo := max(start, off)
	if end <= lo {
		return true
	}
	for i := lo - off; i < end-off; i++ {
		abs := i + off
		if abs%c.Stride == 0 && data[i] != value {
			lg.Info("probe mismatch in range probe", "index", i, "value", data[i])
			return false
		}
	}
	return true
}

// probeInitial checks that every element of the view still holds the
// initial FillB pattern.
func probeInitial(lg *slog.Logger, data []uint32) bool {
	for i, v := range data {
		if v != FillB {
			lg.Info("probe mismatch in initial-state probe", "index", i, "value", v)
			return false
		}
	}
	return true
}

// probeBelow checks that the elements below the mapped view offset
// still hold the FillA pattern: no GPU write may ever land there.
func probeBelow(lg *slog.Logger, data []uint32) bool {
	for i, v := range data {
		if v != FillA {
			lg.Info("probe mismatch below view offset", "index", i, "value", v)
			return false
		}
	}
	return true
}
