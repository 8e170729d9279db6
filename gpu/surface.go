// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Surface is a configured window render target.
type Surface struct {
	// Format is the texture format the surface presents in.
	Format wgpu.TextureFormat

	// Size is the current surface size in pixels.
	Size image.Point

	gp      *GPU
	surface *wgpu.Surface
}

// NewSurface configures the given window surface for rendering on
// the GPU at the given size, using the first supported format and
// vsync presentation.
func NewSurface(gp *GPU, sp *wgpu.Surface, size image.Point) *Surface {
	sf := &Surface{gp: gp, surface: sp}
	sf.configure(size)
	return sf
}

func (sf *Surface) configure(size image.Point) {
	caps := sf.surface.GetCapabilities(sf.gp.Adapter)
	sf.Format = caps.Formats[0]
	sf.Size = size
	sf.surface.Configure(sf.gp.Adapter, sf.gp.Device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      sf.Format,
		Width:       uint32(size.X),
		Height:      uint32(size.Y),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	})
}

// SetSize reconfigures the surface when the window is resized.
// WebGPU has no internal mechanism for tracking this, so it must be
// driven from window events.
func (sf *Surface) SetSize(size image.Point) {
	if size == sf.Size || size.X == 0 || size.Y == 0 {
		return
	}
	sf.configure(size)
}

// AcquireNextTexture gets the texture view to render the next frame
// into. Call [Surface.Present] after the frame's commands have been
// submitted.
func (sf *Surface) AcquireNextTexture() (*wgpu.TextureView, error) {
	tex, err := sf.surface.GetCurrentTexture()
	if errors.Log(err) != nil {
		return nil, err
	}
	view, err := tex.CreateView(nil)
	return view, errors.Log(err)
}

// Present presents the most recently acquired texture to the window.
func (sf *Surface) Present() {
	sf.surface.Present()
}

// Release frees the surface resources.
func (sf *Surface) Release() {
	if sf.surface != nil {
		sf.surface.Release()
		sf.surface = nil
	}
}
