// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coherent

import (
	"fmt"
	"os"
)

// Case specifies one stride / offset combination to verify.
// The mutation passes touch every element whose absolute index is a
// multiple of Stride, and the host view of each buffer begins at
// byte Offset, so the view element at index i corresponds to
// absolute element index i + Offset/4.
type Case struct {
	// Stride is the element stride of the mutation predicate:
	// absolute indices with index % Stride == 0 are written.
	Stride uint32

	// Offset is the byte offset at which the mapped view begins.
	// Always a multiple of 4.
	Offset uint32
}

func (c Case) String() string {
	return fmt.Sprintf("stride: %d offset: %d", c.Stride, c.Offset)
}

// PageSize returns the system memory page size in bytes.
func PageSize() uint32 {
	return uint32(os.Getpagesize())
}

// Cases returns the standard set of 7 cases for the given page size:
// a dense small-stride case, then page-stride cases with view
// offsets at page boundaries and straddling them by one element on
// either side, for the first and second page.
func Cases(pageSize uint32) []Case {
	return []Case{
		{Stride: 2, Offset: 0},
		{Stride: pageSize, Offset: pageSize},
		{Stride: pageSize, Offset: pageSize - 4},
		{Stride: pageSize, Offset: pageSize + 4},
		{Stride: pageSize, Offset: pageSize * 2},
		{Stride: pageSize, Offset: pageSize*2 + 4},
		{Stride: pageSize, Offset: pageSize*2 - 4},
	}
}
