// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coherent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCases(t *testing.T) {
	cases := Cases(4096)
	want := []Case{
		{Stride: 2, Offset: 0},
		{Stride: 4096, Offset: 4096},
		{Stride: 4096, Offset: 4092},
		{Stride: 4096, Offset: 4100},
		{Stride: 4096, Offset: 8192},
		{Stride: 4096, Offset: 8196},
		{Stride: 4096, Offset: 8188},
	}
	assert.Equal(t, want, cases)
	for _, c := range cases {
		assert.Zero(t, c.Offset%4, c.String())
	}
}

func TestCaseString(t *testing.T) {
	assert.Equal(t, "stride: 4096 offset: 4092", Case{Stride: 4096, Offset: 4092}.String())
}

func TestPageSize(t *testing.T) {
	ps := PageSize()
	assert.NotZero(t, ps)
	assert.Zero(t, ps%4)
}
