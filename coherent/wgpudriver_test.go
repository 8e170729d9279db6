// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coherent

import (
	"testing"

	"cogentcore.org/coherent/gpu"
	"github.com/stretchr/testify/assert"
)

func TestStorageDriver(t *testing.T) {
	t.Skip("Need software GPU on CI")
	gp, err := gpu.NewGPU(nil)
	assert.NoError(t, err)
	defer gp.Release()

	dr, err := NewStorageDriver(gp)
	assert.NoError(t, err)
	defer dr.Close()

	ts := &Script{Driver: dr}
	res, err := ts.Run(Cases(PageSize()))
	assert.NoError(t, err)
	for _, r := range res {
		assert.True(t, r.Pass, r.Case.String())
	}
}

func TestStorageDriverViews(t *testing.T) {
	t.Skip("Need software GPU on CI")
	gp, err := gpu.NewGPU(nil)
	assert.NoError(t, err)
	defer gp.Release()

	dr, err := NewStorageDriver(gp)
	assert.NoError(t, err)
	defer dr.Close()

	b, err := dr.NewBuffer(1024, 64)
	assert.NoError(t, err)
	defer b.Release()
	assert.Equal(t, 1024-16, len(b.View()))
	assert.Equal(t, 16, len(b.Below()))
	for _, v := range b.View() {
		assert.Equal(t, FillB, v)
	}
	for _, v := range b.Below() {
		assert.Equal(t, FillA, v)
	}

	// The same view slice stays valid and current across a
	// dispatch and fence.
	view := b.View()
	c := Case{Stride: 4, Offset: 64}
	assert.NoError(t, dr.Dispatch(b, c, 0, 1024, Modified))
	assert.NoError(t, dr.Fence())
	assert.Equal(t, Modified, view[0]) // absolute element 16, a multiple of 4
	assert.Equal(t, FillB, view[1])
}
