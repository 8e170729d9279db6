// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coherent

// Buffer is one coherently-viewed GPU buffer. Its view and
// below-view slices are established once at creation and remain
// valid for the buffer's lifetime: the same slices always reflect
// the most recently fenced GPU writes, without any remapping.
type Buffer interface {
	// View returns the persistently mapped view, beginning at the
	// case byte offset the buffer was created with.
	View() []uint32

	// Below returns the elements below the view offset. Empty when
	// the offset is zero.
	Below() []uint32

	// Release frees the buffer's device resources.
	Release()
}

// Driver abstracts the device driving the verification procedure.
// Implementations must guarantee that after Fence returns, the view
// slices of every live buffer reflect all writes dispatched before
// the fence, and nothing else.
type Driver interface {
	// NewBuffer allocates an n-element buffer whose view begins at
	// the given byte offset (a multiple of 4). All elements below
	// the offset are filled with FillA and the view is filled with
	// FillB, through host writes.
	NewBuffer(n int, offset uint32) (Buffer, error)

	// Dispatch issues one GPU mutation pass on b: value is written
	// at every absolute element index i with i % c.Stride == 0 in
	// [max(start, c.Offset/4), end). The write is only guaranteed
	// visible in the views after the next Fence.
	Dispatch(b Buffer, c Case, start, end, value uint32) error

	// Fence blocks until all dispatched GPU work has completed and
	// the views of all live buffers are current.
	Fence() error

	// Close releases all driver resources, including any buffers
	// not yet released.
	Close()
}
