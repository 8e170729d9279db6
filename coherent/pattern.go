// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coherent

// The fill patterns are recognizable bit markers, not meaningful
// data. FillA and FillB replicate a single byte so that byte-wise
// and element-wise fills agree.
const (
	// FillA marks bytes below the mapped view offset; it must
	// survive the entire run untouched.
	FillA uint32 = 0b01010101010101010101010101010101

	// FillB is the initial content of the mapped view.
	FillB uint32 = 0b11010111110101111101011111010111

	// Modified is the value written by the main mutation stages.
	Modified uint32 = 0b0101010101010101010101010101010

	// Remodified is the value written by the stage-3 re-write of the
	// middle third.
	Remodified uint32 = 0b1100110010001010111010010101010
)
