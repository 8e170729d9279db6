// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// note: this file contains the glfw dependencies. The diagnostics
// are desktop programs, so glfw is always used.

// Init initializes glfw for window-surface use.
// IMPORTANT: must be called on the main initial thread!
func Init() error {
	return errors.Log(glfw.Init())
}

// Terminate shuts glfw down; call as the last thing before quitting.
// IMPORTANT: must be called on the main initial thread!
func Terminate() {
	glfw.Terminate()
}

// GLFWCreateWindow makes a new visible window with glfw and a WebGPU
// surface on it, returning the surface, a terminate function that
// destroys the window, and a pollEvents function that processes
// window events and reports whether the window is still open.
func GLFWCreateWindow(size image.Point, title string) (surface *wgpu.Surface, terminate func(), pollEvents func() bool, err error) {
	if err = Init(); err != nil {
		return
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(size.X, size.Y, title, nil, nil)
	if err != nil {
		err = &unsupportedError{"window creation failed", err}
		return
	}
	surface = Instance().CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))
	terminate = func() {
		window.Destroy()
		Terminate()
	}
	pollEvents = func() bool {
		if window.ShouldClose() {
			return false
		}
		glfw.PollEvents()
		return true
	}
	return
}
