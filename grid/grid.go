// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid generates the procedural per-pixel colors, vertex
// positions, and triangle-strip index lists used by the mapdraw
// diagnostic. Generation is deterministic: identical inputs always
// produce identical output.
package grid

// Colors returns one RGBA float32 color per pixel of a width x
// height target, row-major: (x/w, y/h, (x + y*w)/(w*h), 1).
func Colors(width, height int) []float32 {
	colors := make([]float32, 0, width*height*4)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			colors = append(colors,
				float32(x)/float32(width),
				float32(y)/float32(height),
				float32(x+y*width)/float32(width*height),
				1,
			)
		}
	}
	return colors
}

// VertexCount returns the number of grid vertices for the given
// dimensions and step: ((height/step)+1) * ((width/step)+1).
func VertexCount(width, height, step int) int {
	return (height/step + 1) * (width/step + 1)
}

// Vertices returns the grid vertex positions as packed xyz float32
// triples in normalized device coordinates, rows from top (+1) to
// bottom (-1), columns from left (-1) to right (+1), z = 0.
func Vertices(width, height, step int) []float32 {
	verts := make([]float32, 0, VertexCount(width, height, step)*3)
	for y := height / 2; y >= -(height / 2); y -= step {
		for x := -(width / 2); x <= width/2; x += step {
			verts = append(verts,
				float32(x)/float32(width/2),
				float32(y)/float32(height/2),
				0,
			)
		}
	}
	return verts
}

// IndexCount returns the triangle-strip index list length for the
// given dimensions and step: rows * (2*(cols+1) + 2), with
// rows = height/step and cols = width/step.
func IndexCount(width, height, step int) int {
	rows := height / step
	cols := width / step
	return rows * (2*(cols+1) + 2)
}

// Indices returns the triangle-strip index list covering the grid:
// each row strip is led by a repeat of its first index and trailed
// by a repeat from the next row, stitching the rows together with
// degenerate triangles.
func Indices(width, height, step int) []uint32 {
	rows := height / step
	cols := width / step
	idx := make([]uint32, 0, IndexCount(width, height, step))
	for y := 0; y < rows; y++ {
		idx = append(idx, uint32(y*(cols+1)))
		for x := 0; x <= cols; x++ {
			idx = append(idx, uint32(y*(cols+1)+x), uint32((y+1)*(cols+1)+x))
		}
		idx = append(idx, uint32((y+1)*(cols+1)+(cols-1)))
	}
	return idx
}
