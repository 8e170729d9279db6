// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coherent

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fill builds a view of n elements holding FillB, with value written
// at every absolute index in [start, end) matching stride, as a
// correct mutation pass would leave it. off is in elements.
func fill(n int, c Case, start, end, value uint32) []uint32 {
	off := c.Offset / 4
	data := make([]uint32, n)
	for i := range data {
		data[i] = FillB
	}
	for i := range data {
		abs := uint32(i) + off
		if abs >= max(start, off) && abs < end && abs%c.Stride == 0 {
			data[i] = value
		}
	}
	return data
}

func TestProbeRange(t *testing.T) {
	lg := slog.Default()
	c := Case{Stride: 2, Offset: 0}
	data := fill(100, c, 0, 50, Modified)
	assert.True(t, probeRange(lg, data, c, 0, 50, Modified))

	// A matching element missing the value fails.
	data[4] = FillB
	assert.False(t, probeRange(lg, data, c, 0, 50, Modified))

	// A non-matching element not holding FillB fails.
	data = fill(100, c, 0, 50, Modified)
	data[3] = Modified
	assert.False(t, probeRange(lg, data, c, 0, 50, Modified))
}

func TestProbeRangeOffset(t *testing.T) {
	lg := slog.Default()
	c := Case{Stride: 1024, Offset: 4096}
	// The view starts at element 1024; absolute elements 1024, 2048,
	// ... within range match the stride.
	data := fill(4000, c, 0, 4000, Modified)
	assert.True(t, probeRange(lg, data, c, 0, 4000, Modified))

	// View index 1024 is absolute 2048, a match; clearing it fails.
	data[1024] = FillB
	assert.False(t, probeRange(lg, data, c, 0, 4000, Modified))
}

func TestProbeRangeEmpty(t *testing.T) {
	lg := slog.Default()
	// Range entirely below the view offset: nothing to check beyond
	// the untouched sweep.
	c := Case{Stride: 1024, Offset: 8192}
	data := fill(4000, c, 0, 1000, Modified)
	assert.True(t, probeRange(lg, data, c, 0, 1000, Modified))
}

func TestProbeInitial(t *testing.T) {
	lg := slog.Default()
	data := fill(100, Case{Stride: 2}, 0, 0, 0)
	assert.True(t, probeInitial(lg, data))
	data[99] = Modified
	assert.False(t, probeInitial(lg, data))
}

func TestProbeBelow(t *testing.T) {
	lg := slog.Default()
	data := make([]uint32, 16)
	for i := range data {
		data[i] = FillA
	}
	assert.True(t, probeBelow(lg, data))
	data[0] = Modified
	assert.False(t, probeBelow(lg, data))
}
