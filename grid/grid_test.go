// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounts(t *testing.T) {
	assert.Equal(t, 33*33, VertexCount(256, 256, 8))
	assert.Equal(t, 32*(2*33+2), IndexCount(256, 256, 8))
	assert.Equal(t, VertexCount(256, 256, 8)*3, len(Vertices(256, 256, 8)))
	assert.Equal(t, IndexCount(256, 256, 8), len(Indices(256, 256, 8)))
	assert.Equal(t, 256*256*4, len(Colors(256, 256)))

	assert.Equal(t, 3*3, VertexCount(16, 16, 8))
	assert.Equal(t, 2*(2*3+2), IndexCount(16, 16, 8))
}

func TestVertices(t *testing.T) {
	// 16x16 with step 8 is a 3x3 grid of vertices spanning the full
	// NDC square, top row first.
	verts := Vertices(16, 16, 8)
	want := []float32{
		-1, 1, 0, 0, 1, 0, 1, 1, 0,
		-1, 0, 0, 0, 0, 0, 1, 0, 0,
		-1, -1, 0, 0, -1, 0, 1, -1, 0,
	}
	assert.Equal(t, want, verts)
}

func TestIndices(t *testing.T) {
	// Two row strips of the 3x3 vertex grid, each led by a repeated
	// first index and trailed by a repeat from the next row.
	idx := Indices(16, 16, 8)
	want := []uint32{
		0, 0, 3, 1, 4, 2, 5, 4,
		3, 3, 6, 4, 7, 5, 8, 7,
	}
	assert.Equal(t, want, idx)
}

func TestIndicesInRange(t *testing.T) {
	idx := Indices(256, 256, 8)
	nv := uint32(VertexCount(256, 256, 8))
	for i, v := range idx {
		if v >= nv {
			t.Fatalf("index %d out of range at position %d: %d vertices", v, i, nv)
		}
	}
}

func TestColors(t *testing.T) {
	colors := Colors(4, 4)
	// pixel (1, 2): r = 1/4, g = 2/4, b = (1 + 2*4)/16, a = 1
	i := (1 + 2*4) * 4
	assert.Equal(t, float32(0.25), colors[i])
	assert.Equal(t, float32(0.5), colors[i+1])
	assert.Equal(t, float32(9)/16, colors[i+2])
	assert.Equal(t, float32(1), colors[i+3])
}

func TestDeterministic(t *testing.T) {
	assert.Equal(t, Colors(32, 32), Colors(32, 32))
	assert.Equal(t, Vertices(64, 64, 8), Vertices(64, 64, 8))
	assert.Equal(t, Indices(64, 64, 8), Indices(64, 64, 8))
}
