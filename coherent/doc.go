// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coherent implements the coherent-buffer verification
// procedure: buffers with persistently mapped host views are staged
// through overlapping partial GPU writes, and after each completion
// fence the views are probed against the expected bit patterns.
//
// The procedure is expressed over the [Driver] interface so that it
// can run both against the WebGPU storage-buffer driver
// ([StorageDriver]) and against the in-memory reference driver
// ([MemDriver]) that validates the procedure itself.
package coherent
