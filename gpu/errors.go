// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"errors"
	"strings"
)

// The diagnostics distinguish three error tiers:
//   - environment-unsupported: no adapter, missing feature, or the
//     device is out of memory. The process exits with [ExitSkip].
//   - unexpected driver error: anything else the GPU reports.
//     The process exits with a hard failure status.
//   - content mismatch: not an error at all; logged by the probes,
//     and the run continues.

// ExitSkip is the process exit status indicating that the required
// GPU feature or memory is unavailable, so no result was produced.
// This follows the piglit convention used by driver test suites.
const ExitSkip = 77

// ErrUnsupported indicates the environment cannot run the
// diagnostic: no usable adapter or device, or a device allocation
// failed. Wrap with %w or use via [NewGPU] and buffer creation.
var ErrUnsupported = errors.New("gpu: required device, feature, or memory unavailable")

// unsupportedError wraps a driver error into the
// environment-unsupported tier.
type unsupportedError struct {
	msg string
	err error
}

func (e *unsupportedError) Error() string {
	if e.err == nil {
		return "gpu: " + e.msg
	}
	return "gpu: " + e.msg + ": " + e.err.Error()
}

func (e *unsupportedError) Unwrap() error { return ErrUnsupported }

// oomMarkers are substrings that identify out-of-memory reports from
// the various wgpu backends.
var oomMarkers = []string{
	"out of memory",
	"outofmemory",
	"out-of-memory",
	"not enough memory",
}

// Unsupported reports whether err belongs to the
// environment-unsupported tier: it wraps [ErrUnsupported], or its
// message identifies a device out-of-memory condition.
func Unsupported(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnsupported) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range oomMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
