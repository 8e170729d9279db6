// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command mapdraw verifies coherent host views on the rasterization
// path: a procedural grid of colors is written through the host view
// of a storage buffer and drawn as an indexed triangle strip every
// frame, fenced only by completion of the previous frame.
package main

import (
	_ "embed"
	"fmt"
	"image"
	"log/slog"
	"os"
	"runtime"

	"cogentcore.org/coherent/coherent"
	"cogentcore.org/coherent/gpu"
	"cogentcore.org/coherent/grid"
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/cli"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed shaders/grid.wgsl
var gridShader string

//go:embed shaders/blit.wgsl
var blitShader string

func init() {
	// glfw event handling must run on the main OS thread.
	runtime.LockOSThread()
}

// Config is the configuration information for the mapdraw diagnostic.
type Config struct {

	// Width is the render target width in pixels.
	Width int `default:"256"`

	// Height is the render target height in pixels.
	Height int `default:"256"`

	// Step is the grid cell size in pixels.
	Step int `default:"8"`

	// Frames is the number of frames to render.
	// 0 means render until the window is closed.
	Frames int

	// Probe reads the render target back after each frame and checks
	// every pixel against the expected grid colors. Off by default:
	// interpolation across the strip diagonals makes exact per-pixel
	// expectations unreliable on some drivers.
	Probe bool

	// Debug turns on extra GPU diagnostics.
	Debug bool
}

func main() {
	opts := cli.DefaultOptions("mapdraw", "Mapdraw verifies coherent host views of GPU buffers on the rasterization path.")
	cli.Run(opts, &Config{}, Run)
}

// validate rejects config values the grid generation cannot
// handle before any GPU work starts.
func (c *Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("mapdraw: width and height must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Step <= 0 {
		return fmt.Errorf("mapdraw: step must be positive, got %d", c.Step)
	}
	return nil
}

// Run opens the window, builds the grid pipelines, and renders.
// A missing window, adapter, or device exits with the skip status.
func Run(c *Config) error { //cli:cmd -root
	if err := c.validate(); err != nil {
		return err
	}
	gpu.Debug = c.Debug
	winSize := image.Pt(1024, 1024)
	sp, terminate, pollEvents, err := gpu.GLFWCreateWindow(winSize, "Map coherent")
	if err != nil {
		slog.Error("cannot create window", "err", err)
		os.Exit(gpu.ExitSkip)
	}
	defer terminate()

	gp, err := gpu.NewGPU(sp)
	if err != nil {
		if gpu.Unsupported(err) {
			os.Exit(gpu.ExitSkip)
		}
		return err
	}
	defer gp.Release()
	sf := gpu.NewSurface(gp, sp, winSize)
	defer sf.Release()

	fmt.Printf("Page size: %d\n", coherent.PageSize())

	dw, err := newDrawer(gp, sf, c)
	if err != nil {
		if gpu.Unsupported(err) {
			os.Exit(gpu.ExitSkip)
		}
		return err
	}
	defer dw.release()

	for frame := 0; pollEvents(); frame++ {
		if c.Frames > 0 && frame >= c.Frames {
			break
		}
		// Completion fence for the previous frame: after this, the
		// host write below cannot race any in-flight read.
		gp.WaitDone()
		if err := dw.renderFrame(); err != nil {
			return err
		}
		if c.Probe {
			if !dw.probeFrame() {
				fmt.Printf("Probe failed at frame: %d\n", frame)
			}
		}
		sf.Present()
	}
	// Historically this diagnostic always exits 0; failures are
	// reported on stdout only.
	return nil
}

// drawer holds the grid geometry, color view, and the two pipelines:
// grid rendering into the offscreen target and blitting the target to
// the window surface.
type drawer struct {
	gp *gpu.GPU
	sf *gpu.Surface

	colors   []float32 // persistent host view of colorBuf
	numIndex int
	width    int
	height   int

	colorBuf *wgpu.Buffer
	gridBuf  *wgpu.Buffer
	vtxBuf   *wgpu.Buffer
	idxBuf   *wgpu.Buffer

	target     *wgpu.Texture
	targetView *wgpu.TextureView
	sampler    *wgpu.Sampler

	gridPipe *wgpu.RenderPipeline
	gridBind *wgpu.BindGroup
	blitPipe *wgpu.RenderPipeline
	blitBind *wgpu.BindGroup
}

func newDrawer(gp *gpu.GPU, sf *gpu.Surface, c *Config) (*drawer, error) {
	dw := &drawer{gp: gp, sf: sf, width: c.Width, height: c.Height}

	dw.colors = grid.Colors(c.Width, c.Height)
	verts := grid.Vertices(c.Width, c.Height, c.Step)
	idxs := grid.Indices(c.Width, c.Height, c.Step)
	dw.numIndex = len(idxs)
	fmt.Printf("Vertexes count: %d\n", len(verts)/3)
	fmt.Printf("Indexes count: %d\n", len(idxs))
	fmt.Printf("Colors count: %d\n", len(dw.colors)/4)

	dev := gp.Device
	var err error
	dw.colorBuf, err = dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "grid-colors",
		Size:  uint64(len(dw.colors)) * 4,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	dw.gridBuf, err = dev.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "grid-params",
		Contents: wgpu.ToBytes([]uint32{uint32(c.Width), 0, 0, 0}),
		Usage:    wgpu.BufferUsageUniform,
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	dw.vtxBuf, err = dev.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "grid-vertices",
		Contents: wgpu.ToBytes(verts),
		Usage:    wgpu.BufferUsageVertex,
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	dw.idxBuf, err = dev.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "grid-indices",
		Contents: wgpu.ToBytes(idxs),
		Usage:    wgpu.BufferUsageIndex,
	})
	if errors.Log(err) != nil {
		return nil, err
	}

	dw.target, err = dev.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "grid-target",
		Size:          wgpu.Extent3D{Width: uint32(c.Width), Height: uint32(c.Height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc,
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	dw.targetView, err = dw.target.CreateView(nil)
	if errors.Log(err) != nil {
		return nil, err
	}
	dw.sampler, err = dev.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        "grid-blit",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	})
	if errors.Log(err) != nil {
		return nil, err
	}

	if err := dw.makePipelines(); err != nil {
		return nil, err
	}
	return dw, nil
}

func (dw *drawer) makePipelines() error {
	dev := dw.gp.Device
	gridMod, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "grid",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: gridShader},
	})
	if errors.Log(err) != nil {
		return err
	}
	defer gridMod.Release()

	dw.gridPipe, err = dev.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "grid",
		Vertex: wgpu.VertexState{
			Module:     gridMod,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: 3 * 4,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{{
					Format:         wgpu.VertexFormatFloat32x3,
					Offset:         0,
					ShaderLocation: 0,
				}},
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:         wgpu.PrimitiveTopologyTriangleStrip,
			StripIndexFormat: wgpu.IndexFormatUint32,
			FrontFace:        wgpu.FrontFaceCCW,
			CullMode:         wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &wgpu.FragmentState{
			Module:     gridMod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    wgpu.TextureFormatRGBA8Unorm,
				Blend:     &wgpu.BlendStateReplace,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
	})
	if errors.Log(err) != nil {
		return err
	}
	dw.gridBind, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "grid",
		Layout: dw.gridPipe.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: dw.colorBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: dw.gridBuf, Size: wgpu.WholeSize},
		},
	})
	if errors.Log(err) != nil {
		return err
	}

	blitMod, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "blit",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: blitShader},
	})
	if errors.Log(err) != nil {
		return err
	}
	defer blitMod.Release()

	dw.blitPipe, err = dev.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "blit",
		Vertex: wgpu.VertexState{
			Module:     blitMod,
			EntryPoint: "vs_main",
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &wgpu.FragmentState{
			Module:     blitMod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    dw.sf.Format,
				Blend:     &wgpu.BlendStateReplace,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
	})
	if errors.Log(err) != nil {
		return err
	}
	dw.blitBind, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "blit",
		Layout: dw.blitPipe.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: dw.targetView},
			{Binding: 1, Sampler: dw.sampler},
		},
	})
	return errors.Log(err)
}

// renderFrame publishes the host color view, draws the grid into the
// offscreen target over a red clear, and blits the target to the
// window surface.
func (dw *drawer) renderFrame() error {
	// The host-to-device direction of the coherency contract: the
	// host view contents become visible to the draw without any
	// explicit flush beyond the fence already taken.
	if err := dw.gp.Queue.WriteBuffer(dw.colorBuf, 0, wgpu.ToBytes(dw.colors)); errors.Log(err) != nil {
		return err
	}

	view, err := dw.sf.AcquireNextTexture()
	if err != nil {
		return err
	}
	defer view.Release()

	enc, err := dw.gp.Device.CreateCommandEncoder(nil)
	if errors.Log(err) != nil {
		return err
	}
	defer enc.Release()

	rp := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       dw.targetView,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 1, G: 0, B: 0, A: 1},
		}},
	})
	rp.SetPipeline(dw.gridPipe)
	rp.SetBindGroup(0, dw.gridBind, nil)
	rp.SetVertexBuffer(0, dw.vtxBuf, 0, wgpu.WholeSize)
	rp.SetIndexBuffer(dw.idxBuf, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	rp.DrawIndexed(uint32(dw.numIndex), 1, 0, 0, 0)
	rp.End()
	rp.Release()

	bp := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	bp.SetPipeline(dw.blitPipe)
	bp.SetBindGroup(0, dw.blitBind, nil)
	bp.Draw(3, 1, 0, 0)
	bp.End()
	bp.Release()

	cmd, err := enc.Finish(nil)
	if errors.Log(err) != nil {
		return err
	}
	dw.gp.Queue.Submit(cmd)
	cmd.Release()
	return nil
}

// probeTolerance is the per-channel tolerance for the readback probe,
// covering the 8-bit quantization of the render target.
const probeTolerance = 0.01

// probeFrame copies the offscreen target back to the host and checks
// every pixel against the expected grid colors, reporting the first
// mismatching pixel.
func (dw *drawer) probeFrame() bool {
	dev := dw.gp.Device
	bytesPerRow := uint32(dw.width*4+255) &^ 255
	read, err := dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "grid-probe",
		Size:  uint64(bytesPerRow) * uint64(dw.height),
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if errors.Log(err) != nil {
		return false
	}
	defer read.Release()

	enc, err := dev.CreateCommandEncoder(nil)
	if errors.Log(err) != nil {
		return false
	}
	defer enc.Release()
	enc.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Aspect:   wgpu.TextureAspectAll,
			Texture:  dw.target,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
		},
		&wgpu.ImageCopyBuffer{
			Buffer: read,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  bytesPerRow,
				RowsPerImage: uint32(dw.height),
			},
		},
		&wgpu.Extent3D{Width: uint32(dw.width), Height: uint32(dw.height), DepthOrArrayLayers: 1},
	)
	cmd, err := enc.Finish(nil)
	if errors.Log(err) != nil {
		return false
	}
	dw.gp.Queue.Submit(cmd)
	cmd.Release()

	var status wgpu.BufferMapAsyncStatus
	err = read.MapAsync(wgpu.MapModeRead, 0, read.GetSize(), func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if errors.Log(err) != nil {
		return false
	}
	dw.gp.WaitDone()
	if status != wgpu.BufferMapAsyncStatusSuccess {
		errors.Log(errors.New("mapdraw: probe MapAsync was not successful: " + status.String()))
		return false
	}
	defer read.Unmap()
	data := read.GetMappedRange(0, uint(read.GetSize()))

	for y := 0; y < dw.height; y++ {
		row := data[uint32(y)*bytesPerRow:]
		for x := 0; x < dw.width; x++ {
			ci := (x + y*dw.width) * 4
			for ch := 0; ch < 4; ch++ {
				got := float32(row[x*4+ch]) / 255
				want := dw.colors[ci+ch]
				if got-want > probeTolerance || want-got > probeTolerance {
					fmt.Printf("Probe mismatch at pixel: %d,%d channel: %d expected: %g observed: %g\n",
						x, y, ch, want, got)
					return false
				}
			}
		}
	}
	return true
}

func (dw *drawer) release() {
	for _, r := range []interface{ Release() }{
		dw.blitBind, dw.blitPipe, dw.gridBind, dw.gridPipe,
		dw.sampler, dw.targetView, dw.target,
		dw.idxBuf, dw.vtxBuf, dw.gridBuf, dw.colorBuf,
	} {
		if r != nil {
			r.Release()
		}
	}
}
