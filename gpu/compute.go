// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"math"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// ComputePipeline is a compiled compute shader with its pipeline,
// using an automatically derived bind group layout.
type ComputePipeline struct {
	// Name is used as the label for the shader module and pipeline.
	Name string

	// Module is the compiled WGSL shader module.
	Module *wgpu.ShaderModule

	// Pipeline is the configured compute pipeline.
	Pipeline *wgpu.ComputePipeline

	gp *GPU
}

// NewComputePipeline compiles the given WGSL source and builds a
// compute pipeline on its entry point. A compile or pipeline error
// here is an unexpected driver error: the sources are fixed, so
// there is no point continuing without a pipeline.
func NewComputePipeline(gp *GPU, name, src, entry string) (*ComputePipeline, error) {
	module, err := gp.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: src},
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	pl, err := gp.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: name,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: entry,
		},
	})
	if errors.Log(err) != nil {
		module.Release()
		return nil, err
	}
	return &ComputePipeline{Name: name, Module: module, Pipeline: pl, gp: gp}, nil
}

// BindGroupLayout returns the automatically derived layout for the
// given group index.
func (cp *ComputePipeline) BindGroupLayout(group int) *wgpu.BindGroupLayout {
	return cp.Pipeline.GetBindGroupLayout(uint32(group))
}

// Release frees the pipeline and shader module.
func (cp *ComputePipeline) Release() {
	if cp.Pipeline != nil {
		cp.Pipeline.Release()
		cp.Pipeline = nil
	}
	if cp.Module != nil {
		cp.Module.Release()
		cp.Module = nil
	}
}

// Warps returns the number of work groups of compute threads that is
// sufficient to compute n elements, given the specified number of
// threads per this dimension. It just rounds up: Ceil(n / threads).
func Warps(n, threads int) int {
	return int(math.Ceil(float64(n) / float64(threads)))
}
