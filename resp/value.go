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

// Package resp implements the RESP v1 value model and a streaming,
// restartable codec built from the parser package's combinators.
package resp

import "bytes"

// Kind is the RESP value's tagged-union discriminant.
type Kind int

const (
	KindSimple Kind = iota
	KindError
	KindInteger
	KindBulkString
	KindNullBulk
	KindArray
	KindNullArray
)

func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "Simple"
	case KindError:
		return "Error"
	case KindInteger:
		return "Integer"
	case KindBulkString:
		return "BulkString"
	case KindNullBulk:
		return "NullBulk"
	case KindArray:
		return "Array"
	case KindNullArray:
		return "NullArray"
	default:
		return "Unknown"
	}
}

// Value is an immutable RESP v1 value once published to a caller. During
// decoding an array's elements are appended one at a time as each element
// frame completes.
type Value struct {
	Kind  Kind
	Text  string  // Simple / Error
	Int   int64   // Integer
	Bulk  []byte  // BulkString
	Array []Value // Array
}

func Simple(text string) Value     { return Value{Kind: KindSimple, Text: text} }
func Error(text string) Value      { return Value{Kind: KindError, Text: text} }
func Integer(n int64) Value        { return Value{Kind: KindInteger, Int: n} }
func BulkString(b []byte) Value    { return Value{Kind: KindBulkString, Bulk: b} }
func NullBulk() Value              { return Value{Kind: KindNullBulk} }
func NullArray() Value             { return Value{Kind: KindNullArray} }
func Array(items ...Value) Value   { return Value{Kind: KindArray, Array: items} }
func ArrayOf(items []Value) Value  { return Value{Kind: KindArray, Array: items} }

// Equal reports structural, byte-exact equality.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindSimple, KindError:
		return v.Text == other.Text
	case KindInteger:
		return v.Int == other.Int
	case KindBulkString:
		return bytes.Equal(v.Bulk, other.Bulk)
	case KindNullBulk, KindNullArray:
		return true
	case KindArray:
		if len(v.Array) != len(other.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(other.Array[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
