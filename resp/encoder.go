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

	"github.com/redpipe/redpipe/redpipeerr"
)

var (
	simplePrefix = []byte("+")
	errorPrefix  = []byte("-")
	intPrefix    = []byte(":")
	bulkPrefix   = []byte("$")
	arrayPrefix  = []byte("*")
	nullBulk     = []byte("$-1\r\n")
	nullArray    = []byte("*-1\r\n")
)

// Encode serializes v into an ordered scatter list of byte segments, per
// §4.2.3. It fails with an EncodeError (redpipeerr.KindEncode) if v is not
// one of the six RESP variants.
func Encode(v Value) ([][]byte, error) {
	var segs [][]byte
	if err := appendSegments(&segs, v); err != nil {
		return nil, err
	}
	return segs, nil
}

func appendSegments(segs *[][]byte, v Value) error {
	switch v.Kind {
	case KindSimple:
		*segs = append(*segs, simplePrefix, []byte(v.Text), crlf)
	case KindError:
		*segs = append(*segs, errorPrefix, []byte(v.Text), crlf)
	case KindInteger:
		*segs = append(*segs, intPrefix, []byte(strconv.FormatInt(v.Int, 10)), crlf)
	case KindBulkString:
		*segs = append(*segs, bulkPrefix, []byte(strconv.Itoa(len(v.Bulk))), crlf, v.Bulk, crlf)
	case KindNullBulk:
		*segs = append(*segs, nullBulk)
	case KindNullArray:
		*segs = append(*segs, nullArray)
	case KindArray:
		*segs = append(*segs, arrayPrefix, []byte(strconv.Itoa(len(v.Array))), crlf)
		for _, item := range v.Array {
			if err := appendSegments(segs, item); err != nil {
				return err
			}
		}
	default:
		return redpipeerr.Encode("unknown RESP variant %d", v.Kind)
	}
	return nil
}

// Size returns the total encoded length of v without allocating segments,
// used by EncodeInto to decide whether a value fits before writing any of
// it.
func Size(v Value) (int, error) {
	switch v.Kind {
	case KindSimple:
		return len(simplePrefix) + len(v.Text) + len(crlf), nil
	case KindError:
		return len(errorPrefix) + len(v.Text) + len(crlf), nil
	case KindInteger:
		return len(intPrefix) + len(strconv.FormatInt(v.Int, 10)) + len(crlf), nil
	case KindBulkString:
		return len(bulkPrefix) + len(strconv.Itoa(len(v.Bulk))) + len(crlf) + len(v.Bulk) + len(crlf), nil
	case KindNullBulk:
		return len(nullBulk), nil
	case KindNullArray:
		return len(nullArray), nil
	case KindArray:
		total := len(arrayPrefix) + len(strconv.Itoa(len(v.Array))) + len(crlf)
		for _, item := range v.Array {
			n, err := Size(item)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	default:
		return 0, redpipeerr.Encode("unknown RESP variant %d", v.Kind)
	}
}

// EncodeInto writes v's full encoding to dst[off:] iff it entirely fits,
// returning the number of bytes written. If it does not fit, dst is left
// unchanged and 0 is returned — the all-or-nothing "atomic encode"
// semantics §4.2.3 requires so a partial segment never lands on the wire.
func EncodeInto(v Value, dst []byte, off int) (int, error) {
	size, err := Size(v)
	if err != nil {
		return 0, err
	}
	if len(dst)-off < size {
		return 0, nil
	}

	segs, err := Encode(v)
	if err != nil {
		return 0, err
	}
	n := off
	for _, seg := range segs {
		n += copy(dst[n:], seg)
	}
	return n - off, nil
}
