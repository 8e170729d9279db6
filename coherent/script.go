// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coherent

import (
	"log/slog"

	"cogentcore.org/core/base/errors"
)

// DefaultElements is the standard buffer length in 32-bit elements.
const DefaultElements = 45000

// Script drives the verification procedure for one or more cases.
//
// Per case, three independently-viewed buffers go through three
// overlapping mutation stages, checking after each fence that the
// targeted ranges match the stride predicate exactly, that
// untargeted buffers are unaffected, and finally that the region
// below each view offset was never written:
//
//	 buff_a    buff_b    buff_c
//	+------+  +------+  +------+
//	|AAAAAA|  |AAAAAA|  |AAAAAA|
//	|BBBBBB|  |BBBBBB|  |BBBBBB|
//	|BBBBBB|  |BBBBBB|  |BBBBBB|
//	|BBBBBB|  |BBBBBB|  |BBBBBB|
//	+------+  +------+  +------+
//	    v        v         v
//	+------+  +------+  +------+
//	|AAAAAA|  |AAAAAA|  |AAAAAA|
//	|BBBBBB|  |XXXXXX|  |BBBBBB|
//	|BBBBBB|  |BBBBBB|  |BBBBBB|
//	|BBBBBB|  |BBBBBB|  |BBBBBB|
//	+------+  +------+  +------+
//	    v        v         v
//	+------+  +------+  +------+
//	|AAAAAA|  |AAAAAA|  |AAAAAA|
//	|XXXXXX|  |XXXXXX|  |BBBBBB|
//	|XXXXXX|  |XXXXXX|  |BBBBBB|
//	|XXXXXX|  |BBBBBB|  |BBBBBB|
//	+------+  +------+  +------+
//	    v        v         v
//	+------+  +------+  +------+
//	|AAAAAA|  |AAAAAA|  |AAAAAA|
//	|XXXXXX|  |XXXXXX|  |BBBBBB|
//	|XXXXXX|  |YYYYYY|  |XXXXXX|
//	|XXXXXX|  |BBBBBB|  |BBBBBB|
//	+------+  +------+  +------+
//
// where A/B are the fill patterns and X/Y the modified and
// re-modified values.
type Script struct {
	// Driver runs the buffer allocation, mutation, and fencing.
	Driver Driver

	// Elements is the buffer length in 32-bit elements;
	// DefaultElements if zero.
	Elements int

	// Log receives mismatch diagnostics; slog.Default() if nil.
	Log *slog.Logger
}

// CaseResult records the outcome of one case.
type CaseResult struct {
	Case Case
	Pass bool
}

func (ts *Script) elements() int {
	if ts.Elements <= 0 {
		return DefaultElements
	}
	return ts.Elements
}

func (ts *Script) log() *slog.Logger {
	if ts.Log == nil {
		return slog.Default()
	}
	return ts.Log
}

// RunCase runs the full three-stage procedure for one case,
// returning whether all probes passed. An error means the driver
// itself failed (allocation or dispatch), not a content mismatch:
// mismatches are logged and the run continues.
func (ts *Script) RunCase(c Case) (bool, error) {
	dr := ts.Driver
	lg := ts.log()
	n := ts.elements()
	oneThird := uint32(n) / 3
	twoThird := 2 * oneThird

	buffA, err := dr.NewBuffer(n, c.Offset)
	if err != nil {
		return false, err
	}
	defer buffA.Release()
	buffB, err := dr.NewBuffer(n, c.Offset)
	if err != nil {
		return false, err
	}
	defer buffB.Release()
	buffC, err := dr.NewBuffer(n, c.Offset)
	if err != nil {
		return false, err
	}
	defer buffC.Release()

	pass := probeInitial(lg, buffA.View())
	pass = probeInitial(lg, buffB.View()) && pass
	pass = probeInitial(lg, buffC.View()) && pass

	// Stage 1: first third of b only.
	err = errors.Join(
		dr.Dispatch(buffB, c, 0, oneThird, Modified),
		dr.Fence(),
	)
	if err != nil {
		return false, err
	}
	pass = probeRange(lg, buffB.View(), c, 0, oneThird, Modified) && pass
	pass = probeInitial(lg, buffA.View()) && pass
	pass = probeInitial(lg, buffC.View()) && pass

	// Stage 2: all of a, middle third of b; c must stay untouched.
	err = errors.Join(
		dr.Dispatch(buffA, c, 0, uint32(n), Modified),
		dr.Dispatch(buffB, c, oneThird, twoThird, Modified),
		dr.Fence(),
	)
	if err != nil {
		return false, err
	}
	pass = probeRange(lg, buffA.View(), c, 0, uint32(n), Modified) && pass
	pass = probeRange(lg, buffB.View(), c, 0, twoThird, Modified) && pass
	pass = probeInitial(lg, buffC.View()) && pass

	// Stage 3: re-write a, re-modify the middle third of b with a
	// distinct value, and touch c for the first time.
	err = errors.Join(
		dr.Dispatch(buffA, c, 0, uint32(n), Modified),
		dr.Dispatch(buffB, c, oneThird, twoThird, Remodified),
		dr.Dispatch(buffC, c, oneThird, twoThird, Modified),
		dr.Fence(),
	)
	if err != nil {
		return false, err
	}
	pass = probeRange(lg, buffA.View(), c, 0, uint32(n), Modified) && pass
	pass = probeRange(lg, buffB.View(), c, 0, oneThird, Modified) && pass
	pass = probeRange(lg, buffB.View(), c, oneThird, twoThird, Remodified) && pass
	pass = probeRange(lg, buffC.View(), c, oneThird, twoThird, Modified) && pass

	// The region below the view offset must never have been written.
	if c.Offset != 0 {
		pass = probeBelow(lg, buffA.Below()) && pass
		pass = probeBelow(lg, buffB.Below()) && pass
		pass = probeBelow(lg, buffC.Below()) && pass
	}

	return pass, nil
}

// Run runs all given cases, returning per-case results. Driver
// errors abort the run; probe failures do not.
func (ts *Script) Run(cases []Case) ([]CaseResult, error) {
	res := make([]CaseResult, 0, len(cases))
	for _, c := range cases {
		pass, err := ts.RunCase(c)
		if err != nil {
			return res, err
		}
		res = append(res, CaseResult{Case: c, Pass: pass})
	}
	return res, nil
}
