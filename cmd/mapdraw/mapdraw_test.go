// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	good := &Config{Width: 256, Height: 256, Step: 8}
	assert.NoError(t, good.validate())

	// A zero step would divide by zero in the grid generation.
	assert.Error(t, (&Config{Width: 256, Height: 256, Step: 0}).validate())
	assert.Error(t, (&Config{Width: 0, Height: 256, Step: 8}).validate())
	assert.Error(t, (&Config{Width: 256, Height: -1, Step: 8}).validate())
}
