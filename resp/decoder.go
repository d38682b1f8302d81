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

package resp

import (
	"strconv"

	"github.com/redpipe/redpipe/parser"
	"github.com/redpipe/redpipe/redpipeerr"
)

// maxLineLen bounds Simple/Error/Integer/length header lines. Bulk string
// payloads are bounded only by their declared length, never by this cap.
const maxLineLen = 4096

var crlf = []byte("\r\n")

// Decoder is a streaming, restartable, allocation-frugal RESP decoder. One
// Decoder decodes an unbounded number of frames: Step consumes as much of
// the cursor as is available, returns (Value, true, nil) on a complete
// frame, (zero, false, nil) on incomplete input (the cursor is left at its
// entry position so the caller can append more bytes and retry), or a
// terminal *redpipeerr.Error.
//
// Decoder is not safe for concurrent use; transport serializes all reads
// onto a single reader goroutine.
type Decoder struct {
	root parser.Parser
}

// NewDecoder returns a Decoder ready to decode the first of an unbounded
// stream of frames.
func NewDecoder() *Decoder {
	d := &Decoder{}
	d.root = newFrameParser()
	return d
}

// Step attempts to decode the next frame from c. On success the decoder
// auto-resets so the next Step call starts a fresh frame — callers never
// need to call Reset themselves in the ordinary streaming loop.
func (d *Decoder) Step(c *parser.Cursor) (Value, bool, error) {
	v, ok, err := d.root.Step(c)
	if err != nil {
		if _, isClassified := err.(*redpipeerr.Error); isClassified {
			return Value{}, false, err
		}
		return Value{}, false, redpipeerr.DecodeWrap(err, "frame too long or malformed")
	}
	if !ok {
		return Value{}, false, nil
	}
	d.root.Reset()
	return v.(Value), true, nil
}

// Reset discards any partially decoded frame, e.g. after a caller decides
// to abandon the stream mid-frame.
func (d *Decoder) Reset() {
	d.root.Reset()
}

// newFrameParser builds one top-level-value parser: a line scan up to
// CRLF, bound to a dispatch that selects the variant from the line's first
// byte and, for Bulk/Array, returns a parser that consumes the remaining
// payload.
func newFrameParser() parser.Parser {
	return parser.Bind(parser.Delimited(crlf, maxLineLen), dispatchLine)
}

func dispatchLine(raw any) parser.Parser {
	line := raw.([]byte)
	if len(line) == 0 {
		return parser.Fail(redpipeerr.Decode("empty header line"))
	}

	switch line[0] {
	case '+':
		return parser.Just(Simple(string(line[1:])))
	case '-':
		return parser.Just(Error(string(line[1:])))
	case ':':
		n, err := parseInt64(line[1:])
		if err != nil {
			return parser.Fail(redpipeerr.Decode("bad integer %q", string(line[1:])))
		}
		return parser.Just(Integer(n))
	case '$':
		return dispatchBulk(line[1:])
	case '*':
		return dispatchArray(line[1:])
	default:
		return parser.Fail(redpipeerr.Decode("bad type byte %q", line[0]))
	}
}

func dispatchBulk(lenBytes []byte) parser.Parser {
	n, err := parseInt32(lenBytes)
	if err != nil {
		return parser.Fail(redpipeerr.Decode("bad bulk length %q", string(lenBytes)))
	}
	if n < 0 {
		return parser.Just(NullBulk())
	}
	return parser.Bind(parser.Fixed(n+2), func(raw any) parser.Parser {
		bytesAndCRLF := raw.([]byte)
		payload := bytesAndCRLF[:n]
		term := bytesAndCRLF[n:]
		if term[0] != '\r' || term[1] != '\n' {
			return parser.Fail(redpipeerr.Decode("missing bulk string terminator"))
		}
		// The payload aliases the read buffer; copy it out so it survives
		// the buffer being compacted/reused by the transport reader.
		out := make([]byte, n)
		copy(out, payload)
		return parser.Just(BulkString(out))
	})
}

func dispatchArray(lenBytes []byte) parser.Parser {
	n, err := parseInt32(lenBytes)
	if err != nil {
		return parser.Fail(redpipeerr.Decode("bad array length %q", string(lenBytes)))
	}
	if n < 0 {
		return parser.Just(NullArray())
	}
	return buildArraySeq(n, make([]Value, 0, n))
}

// buildArraySeq sequences n recursive frame parsers via nested Bind nodes.
// Each Bind node memoizes its own child, so a partially decoded array
// element (including nested arrays to arbitrary depth) survives across
// Step calls exactly like any other Bind chain — no separate explicit
// stack is needed on top of the combinators themselves.
func buildArraySeq(remaining int, acc []Value) parser.Parser {
	if remaining == 0 {
		return parser.Just(ArrayOf(acc))
	}
	return parser.Bind(newFrameParser(), func(v any) parser.Parser {
		next := append(append([]Value{}, acc...), v.(Value))
		return buildArraySeq(remaining-1, next)
	})
}

func parseInt64(b []byte) (int64, error) {
	return strconv.ParseInt(string(b), 10, 64)
}

func parseInt32(b []byte) (int, error) {
	n, err := strconv.ParseInt(string(b), 10, 32)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
