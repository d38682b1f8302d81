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

// Package redpipeerr defines the error taxonomy observable at redpipe's
// boundary: DecodeError, EncodeError, NotConnected, RedisServerError,
// RedisInvalidResponse and IoError. Every constructor formats its message
// through github.com/pkg/errors; the resulting *Error keeps the message
// text and any wrapped cause, not a stack trace.
package redpipeerr

import "github.com/pkg/errors"

// Kind classifies an Error for programmatic dispatch (e.g. deciding whether
// a caller should retry at a higher level, which redpipe itself never does).
type Kind int

const (
	KindDecode Kind = iota
	KindEncode
	KindNotConnected
	KindServerError
	KindInvalidResponse
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "DecodeError"
	case KindEncode:
		return "EncodeError"
	case KindNotConnected:
		return "NotConnected"
	case KindServerError:
		return "RedisServerError"
	case KindInvalidResponse:
		return "RedisInvalidResponse"
	case KindIO:
		return "IoError"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type every redpipe boundary returns.
type Error struct {
	Kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Kind.String() + ": " + e.msg + ": " + e.cause.Error()
	}
	return e.Kind.String() + ": " + e.msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: errors.Errorf(format, args...).Error(), cause: cause}
}

// Decode builds a DecodeError: a malformed wire frame (bad type byte,
// non-numeric length, missing bulk terminator, over-long header line).
func Decode(reason string, args ...any) *Error {
	return newError(KindDecode, nil, reason, args...)
}

// DecodeWrap builds a DecodeError wrapping a lower-level cause (e.g.
// parser.ErrMessageTooLong) so errors.Is still sees through to it.
func DecodeWrap(cause error, reason string, args ...any) *Error {
	return newError(KindDecode, cause, reason, args...)
}

// Encode builds an EncodeError: a value outside the six RESP variants was
// handed to the encoder.
func Encode(reason string, args ...any) *Error {
	return newError(KindEncode, nil, reason, args...)
}

// NotConnected builds a NotConnected error: submit before connect, after
// disconnect, or after a fatal transport failure.
func NotConnected() *Error {
	return newError(KindNotConnected, nil, "not connected")
}

// ServerError wraps a RESP Error value returned by the server, surfaced
// only by the command surface (§6.3), never by the transport core which
// treats Error as an ordinary value.
func ServerError(message string) *Error {
	return newError(KindServerError, nil, "%s", message)
}

// InvalidResponse builds a RedisInvalidResponse error: the command-surface
// coercion received a RESP variant it did not expect.
func InvalidResponse(reason string, args ...any) *Error {
	return newError(KindInvalidResponse, nil, reason, args...)
}

// IO wraps an underlying socket failure.
func IO(cause error) *Error {
	return newError(KindIO, cause, "io error")
}

// Is reports whether err (or something it wraps) is a redpipeerr.Error of
// the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf extracts the Kind of err, or a synthetic "Unknown" Kind if err is
// not (and does not wrap) a *redpipeerr.Error. Used by metrics labeling,
// which must accept any cause handed to the transport's failure path.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return Kind(-1)
	}
	return e.Kind
}
