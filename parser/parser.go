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

package parser

import (
	"bytes"

	"github.com/pkg/errors"
)

// ErrMessageTooLong is returned by Delimited when max_len bytes elapse
// without the pattern matching.
var ErrMessageTooLong = errors.New("parser: message too long")

// Parser is a stateful object over a shared Cursor. Step attempts to
// produce a value: ok=true on success (the cursor is advanced past the
// consumed bytes), ok=false and err=nil on incomplete input (the cursor is
// left at its entry position), or a non-nil err on terminal failure.
//
// Composite parsers (Bind) hold their inner parser once produced so partial
// progress survives across calls; Reset discards that progress so the
// parser can be reused for the next frame.
type Parser interface {
	Step(c *Cursor) (any, bool, error)
	Reset()
}

// Delimited scans forward for pattern (e.g. CRLF), yielding the bytes
// before it and consuming through it. If maxLen bytes elapse without a
// match, it fails with ErrMessageTooLong. On incomplete input the cursor is
// left untouched so the caller can retry once more bytes arrive.
//
// The scan is a plain substring search, not a hand-rolled state machine:
// for the two-byte CRLF pattern a linear rescan of the accumulated buffer
// on every call is cheap, and a correct substring search already restarts
// matching from the mismatched byte rather than skipping past it, so inputs
// like "\r\r\n" still find the minimal correct match.
func Delimited(pattern []byte, maxLen int) Parser {
	return &delimitedParser{pattern: pattern, maxLen: maxLen}
}

type delimitedParser struct {
	pattern []byte
	maxLen  int
}

func (p *delimitedParser) Step(c *Cursor) (any, bool, error) {
	rem := c.Remaining()
	idx := bytes.Index(rem, p.pattern)
	if idx < 0 {
		if len(rem) >= p.maxLen {
			return nil, false, ErrMessageTooLong
		}
		return nil, false, nil
	}
	if idx >= p.maxLen {
		return nil, false, ErrMessageTooLong
	}
	line := rem[:idx]
	c.Advance(idx + len(p.pattern))
	return line, true, nil
}

func (p *delimitedParser) Reset() {}

// Fixed yields the next n bytes once available, otherwise incomplete.
func Fixed(n int) Parser {
	return &fixedParser{n: n}
}

type fixedParser struct {
	n int
}

func (p *fixedParser) Step(c *Cursor) (any, bool, error) {
	rem := c.Remaining()
	if len(rem) < p.n {
		return nil, false, nil
	}
	out := rem[:p.n]
	c.Advance(p.n)
	return out, true, nil
}

func (p *fixedParser) Reset() {}

// Just yields v without consuming any input.
func Just(v any) Parser {
	return justParser{v: v}
}

type justParser struct {
	v any
}

func (p justParser) Step(c *Cursor) (any, bool, error) {
	return p.v, true, nil
}

func (p justParser) Reset() {}

// Fail always yields err.
func Fail(err error) Parser {
	return failParser{err: err}
}

type failParser struct {
	err error
}

func (p failParser) Step(c *Cursor) (any, bool, error) {
	return nil, false, p.err
}

func (p failParser) Reset() {}

// Bind runs p; on success it runs f(v) to obtain a second parser q, which is
// then driven by subsequent Step calls. q is memoized so incomplete input on
// q does not re-run p. Reset clears the memo and resets p.
func Bind(p Parser, f func(v any) Parser) Parser {
	return &bindParser{p: p, f: f}
}

type bindParser struct {
	p     Parser
	f     func(v any) Parser
	child Parser
	skip  int // bytes p consumed before child was produced
}

func (b *bindParser) Step(c *Cursor) (any, bool, error) {
	entry := c.pos
	if b.child == nil {
		v, ok, err := b.p.Step(c)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		b.child = b.f(v)
		b.skip = c.pos - entry
	} else {
		c.Advance(b.skip)
	}
	v, ok, err := b.child.Step(c)
	if err == nil && !ok {
		c.pos = entry
	}
	return v, ok, err
}

func (b *bindParser) Reset() {
	b.p.Reset()
	b.child = nil
	b.skip = 0
}

// Map transforms the result of p with f: Map(p, f) = Bind(p, v -> Just(f(v))).
func Map(p Parser, f func(v any) any) Parser {
	return Bind(p, func(v any) Parser {
		return Just(f(v))
	})
}
