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

// Package parser implements small composable parsers over a shared byte
// cursor. A parser either consumes bytes and produces a value, reports that
// more input is needed (leaving the cursor untouched), or fails terminally.
package parser

// Cursor is the shared, mutable read position over an accumulated byte
// buffer. Parsers advance it on success and must leave it untouched when
// they report incomplete input, so the next call can retry from the same
// position once more bytes have been appended to buf.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor wraps buf for parsing. buf is not copied; callers that reuse the
// backing array across calls must keep it valid until parsing of the frame
// built over it completes.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Remaining returns the unconsumed tail of the cursor's buffer.
func (c *Cursor) Remaining() []byte {
	return c.buf[c.pos:]
}

// Pos returns the number of bytes consumed so far.
func (c *Cursor) Pos() int {
	return c.pos
}

// Advance marks n more bytes of Remaining as consumed.
func (c *Cursor) Advance(n int) {
	c.pos += n
}
