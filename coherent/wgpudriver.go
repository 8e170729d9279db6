// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coherent

import (
	_ "embed"
	"slices"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/coherent/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed shaders/fill.wgsl
var fillShader string

// fillThreads is the workgroup size of the fill shader.
const fillThreads = 256

// StorageDriver implements [Driver] on WebGPU storage buffers.
//
// WebGPU has no persistent host-coherent mapping, so the coherency
// contract is realized as: each buffer keeps one host image slice
// for its whole lifetime, host fills are flushed to the device
// through queue writes at creation, and Fence republishes the device
// contents of every live buffer into its host image through a
// mappable read buffer. The view slices handed out by View and Below
// alias the host image and thus stay valid and current, exactly as a
// coherent mapping would.
type StorageDriver struct {
	gp   *gpu.GPU
	pl   *gpu.ComputePipeline
	bufs []*storageBuffer

	// params buffers must outlive execution of the passes that bind
	// them; they are released after the next fence.
	spent []*wgpu.Buffer
}

// NewStorageDriver builds the fill compute pipeline on the given
// device and returns the driver.
func NewStorageDriver(gp *gpu.GPU) (*StorageDriver, error) {
	pl, err := gpu.NewComputePipeline(gp, "coherent-fill", fillShader, "main")
	if err != nil {
		return nil, err
	}
	return &StorageDriver{gp: gp, pl: pl}, nil
}

type storageBuffer struct {
	dr      *StorageDriver
	storage *wgpu.Buffer
	read    *wgpu.Buffer
	host    []uint32
	off     uint32 // view offset in elements
}

func (dr *StorageDriver) NewBuffer(n int, offset uint32) (Buffer, error) {
	size := uint64(n) * 4
	storage, err := dr.gp.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "coherent-storage",
		Size:  size,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	read, err := dr.gp.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "coherent-read",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if errors.Log(err) != nil {
		storage.Release()
		return nil, err
	}
	b := &storageBuffer{dr: dr, storage: storage, read: read, host: make([]uint32, n), off: offset / 4}
	for i := range b.host[:b.off] {
		b.host[i] = FillA
	}
	for i := range b.host[b.off:] {
		b.host[b.off+uint32(i)] = FillB
	}
	// Host fill through the coherent path: publish to the device.
	if err := dr.gp.Queue.WriteBuffer(storage, 0, wgpu.ToBytes(b.host)); errors.Log(err) != nil {
		storage.Release()
		read.Release()
		return nil, err
	}
	dr.bufs = append(dr.bufs, b)
	return b, nil
}

func (b *storageBuffer) View() []uint32  { return b.host[b.off:] }
func (b *storageBuffer) Below() []uint32 { return b.host[:b.off] }

func (b *storageBuffer) Release() {
	dr := b.dr
	i := slices.Index(dr.bufs, b)
	if i < 0 {
		return
	}
	dr.bufs = slices.Delete(dr.bufs, i, i+1)
	b.storage.Release()
	b.read.Release()
}

// Dispatch encodes and submits one fill pass over b's storage
// buffer. The lower bound is clamped at the view offset so the
// region below the view is never addressed.
func (dr *StorageDriver) Dispatch(bi Buffer, c Case, start, end, value uint32) error {
	b := bi.(*storageBuffer)
	params, err := dr.gp.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "coherent-fill-params",
		Contents: wgpu.ToBytes([]uint32{c.Stride, max(start, b.off), end, value}),
		Usage:    wgpu.BufferUsageUniform,
	})
	if errors.Log(err) != nil {
		return err
	}
	bg, err := dr.gp.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "coherent-fill-bind",
		Layout: dr.pl.BindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: b.storage, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: params, Size: wgpu.WholeSize},
		},
	})
	if errors.Log(err) != nil {
		params.Release()
		return err
	}
	defer bg.Release()

	enc, err := dr.gp.Device.CreateCommandEncoder(nil)
	if errors.Log(err) != nil {
		params.Release()
		return err
	}
	defer enc.Release()
	cp := enc.BeginComputePass(nil)
	cp.SetPipeline(dr.pl.Pipeline)
	cp.SetBindGroup(0, bg, nil)
	cp.DispatchWorkgroups(uint32(gpu.Warps(len(b.host), fillThreads)), 1, 1)
	cp.End()
	cp.Release()
	cmd, err := enc.Finish(nil)
	if errors.Log(err) != nil {
		params.Release()
		return err
	}
	dr.gp.Queue.Submit(cmd)
	cmd.Release()
	dr.spent = append(dr.spent, params)
	return nil
}

// Fence blocks until all submitted work completes, then republishes
// the device contents of every live buffer into its host image.
func (dr *StorageDriver) Fence() error {
	if len(dr.bufs) > 0 {
		enc, err := dr.gp.Device.CreateCommandEncoder(nil)
		if errors.Log(err) != nil {
			return err
		}
		defer enc.Release()
		for _, b := range dr.bufs {
			enc.CopyBufferToBuffer(b.storage, 0, b.read, 0, uint64(len(b.host))*4)
		}
		cmd, err := enc.Finish(nil)
		if errors.Log(err) != nil {
			return err
		}
		dr.gp.Queue.Submit(cmd)
		cmd.Release()
	}
	dr.gp.WaitDone()
	for _, p := range dr.spent {
		p.Release()
	}
	dr.spent = nil

	var errs []error
	for _, b := range dr.bufs {
		errs = append(errs, b.refresh())
	}
	return errors.Join(errs...)
}

// refresh maps the read buffer and copies it into the host image,
// keeping the view slices current.
func (b *storageBuffer) refresh() error {
	size := uint64(len(b.host)) * 4
	var status wgpu.BufferMapAsyncStatus
	err := b.read.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if errors.Log(err) != nil {
		return err
	}
	b.dr.gp.WaitDone()
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return errors.Log(errors.New("coherent: buffer MapAsync was not successful: " + status.String()))
	}
	bm := b.read.GetMappedRange(0, uint(size))
	copy(wgpu.ToBytes(b.host), bm)
	b.read.Unmap()
	return nil
}

// Close releases all remaining buffers and the pipeline.
func (dr *StorageDriver) Close() {
	for _, b := range slices.Clone(dr.bufs) {
		b.Release()
	}
	for _, p := range dr.spent {
		p.Release()
	}
	dr.spent = nil
	if dr.pl != nil {
		dr.pl.Release()
		dr.pl = nil
	}
}
