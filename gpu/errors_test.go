// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnsupported(t *testing.T) {
	assert.False(t, Unsupported(nil))
	assert.False(t, Unsupported(errors.New("validation error")))

	assert.True(t, Unsupported(ErrUnsupported))
	assert.True(t, Unsupported(&unsupportedError{msg: "no suitable GPU adapter"}))
	assert.True(t, Unsupported(fmt.Errorf("request device: %w", ErrUnsupported)))

	assert.True(t, Unsupported(errors.New("Device::create_buffer error: Out of Memory")))
	assert.True(t, Unsupported(errors.New("VK_ERROR_OUT_OF_DEVICE_MEMORY: OutOfMemory")))
	assert.True(t, Unsupported(errors.New("not enough memory left")))
}

func TestUnsupportedErrorMessage(t *testing.T) {
	e := &unsupportedError{msg: "window creation failed", err: errors.New("no display")}
	assert.Equal(t, "gpu: window creation failed: no display", e.Error())
	assert.ErrorIs(t, e, ErrUnsupported)

	e = &unsupportedError{msg: "no suitable GPU adapter"}
	assert.Equal(t, "gpu: no suitable GPU adapter", e.Error())
}

func TestWarps(t *testing.T) {
	assert.Equal(t, 1, Warps(1, 256))
	assert.Equal(t, 1, Warps(256, 256))
	assert.Equal(t, 2, Warps(257, 256))
	assert.Equal(t, 176, Warps(45000, 256))
}
