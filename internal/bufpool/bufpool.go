// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bufpool pools the transport's fixed-size read/write buffers so a
// high-throughput pipelined connection doesn't allocate a fresh ~1MiB
// buffer per instance. It is a thin wrapper over bytebufferpool, the same
// way this corpus treats reusable byte buffers as a scarce resource
// (internal/bufbytes).
package bufpool

import "github.com/valyala/bytebufferpool"

var pool bytebufferpool.Pool

// Buffer is a fixed-capacity byte buffer checked out of the shared pool.
// Callers track how much of Raw() is in use themselves (the transport's
// writer/reader own exactly one Buffer each and never share it).
type Buffer struct {
	bb   *bytebufferpool.ByteBuffer
	size int
}

// Get returns a buffer whose Raw() slice has exactly size bytes of backing
// capacity, reusing a pooled allocation when one is large enough.
func Get(size int) *Buffer {
	bb := pool.Get()
	if cap(bb.B) < size {
		bb.B = make([]byte, size)
	} else {
		bb.B = bb.B[:size]
	}
	return &Buffer{bb: bb, size: size}
}

// Put returns b to the shared pool. b must not be used afterward.
func Put(b *Buffer) {
	b.bb.Reset()
	pool.Put(b.bb)
}

// Raw returns the buffer's full fixed-size backing array.
func (b *Buffer) Raw() []byte { return b.bb.B[:b.size] }

// Size returns the buffer's fixed capacity.
func (b *Buffer) Size() int { return b.size }
