// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu provides the minimal WebGPU device layer used by the
// coherent-buffer diagnostics: device setup, a completion fence,
// a glfw window surface, and a compute pipeline helper.
package gpu

import (
	"log/slog"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Debug enables extra diagnostic printouts from this package.
var Debug = false

var theInstance *wgpu.Instance

// Instance returns the shared WebGPU instance, creating it on
// first use.
func Instance() *wgpu.Instance {
	if theInstance == nil {
		theInstance = wgpu.CreateInstance(nil)
	}
	return theInstance
}

// GPU represents the physical and logical GPU device and its queue.
// One GPU drives everything in a diagnostic program.
type GPU struct {
	// Adapter is the physical GPU selected for the surface.
	Adapter *wgpu.Adapter

	// Device is the logical device, which we own.
	Device *wgpu.Device

	// Queue is the command queue for Device.
	Queue *wgpu.Queue
}

// NewGPU opens the GPU: it requests an adapter compatible with the
// given surface (which may be nil for no-display use), creates a
// logical device on it with default limits, and grabs its queue.
// Errors at this stage mean the environment cannot run the
// diagnostic at all; classify them with [Unsupported].
func NewGPU(sf *wgpu.Surface) (*GPU, error) {
	gp := &GPU{}
	adapter, err := Instance().RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: sf,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, errors.Log(&unsupportedError{"no suitable GPU adapter", err})
	}
	gp.Adapter = adapter

	info := adapter.GetInfo()
	slog.Info("gpu: adapter", "name", info.Name, "backend", info.BackendType.String())

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "coherent-device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, errors.Log(&unsupportedError{"device creation failed", err})
	}
	gp.Device = device
	gp.Queue = device.GetQueue()
	return gp, nil
}

// WaitDone blocks until the device has finished all submitted work.
// This is the completion fence: after it returns, every GPU write
// issued before it is complete.
func (gp *GPU) WaitDone() {
	gp.Device.Poll(true, nil)
}

// Release frees the device resources, in reverse order of creation.
func (gp *GPU) Release() {
	if gp.Device != nil {
		gp.WaitDone()
		gp.Device.Release()
		gp.Device = nil
	}
	if gp.Adapter != nil {
		gp.Adapter.Release()
		gp.Adapter = nil
	}
	gp.Queue = nil
}
