// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coherent

// MemDriver is an in-memory reference implementation of [Driver],
// used to validate the verification procedure itself independent of
// any GPU. Its views are genuine sub-slices of the backing array, so
// they are coherent by construction. Dispatched mutations are held
// pending and only applied when Fence is called, mirroring the
// visibility contract of the real driver.
type MemDriver struct {
	pending []memMutation
}

type memMutation struct {
	buf        *memBuffer
	c          Case
	start, end uint32
	value      uint32
}

type memBuffer struct {
	data []uint32
	off  uint32 // view offset in elements
}

// NewMemDriver returns a new in-memory reference driver.
func NewMemDriver() *MemDriver {
	return &MemDriver{}
}

func (dr *MemDriver) NewBuffer(n int, offset uint32) (Buffer, error) {
	b := &memBuffer{data: make([]uint32, n), off: offset / 4}
	for i := range b.data[:b.off] {
		b.data[i] = FillA
	}
	for i := range b.data[b.off:] {
		b.data[b.off+uint32(i)] = FillB
	}
	return b, nil
}

func (b *memBuffer) View() []uint32  { return b.data[b.off:] }
func (b *memBuffer) Below() []uint32 { return b.data[:b.off] }
func (b *memBuffer) Release()        {}

func (dr *MemDriver) Dispatch(b Buffer, c Case, start, end, value uint32) error {
	dr.pending = append(dr.pending, memMutation{
		buf: b.(*memBuffer), c: c, start: start, end: end, value: value,
	})
	return nil
}

func (dr *MemDriver) Fence() error {
	for _, m := range dr.pending {
		lo := max(m.start, m.c.Offset/4)
		hi := min(m.end, uint32(len(m.buf.data)))
		for i := lo; i < hi; i++ {
			if i%m.c.Stride == 0 {
				m.buf.data[i] = m.value
			}
		}
	}
	dr.pending = nil
	return nil
}

func (dr *MemDriver) Close() {
	dr.pending = nil
}
