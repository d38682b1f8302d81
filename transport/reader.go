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

package transport

import (
	"github.com/redpipe/redpipe/parser"
	"github.com/redpipe/redpipe/redpipeerr"
)

// runReader is the reader loop. Exactly one instance runs
// at a time per Transport; the writer starts it whenever responses are
// outstanding and no reader is already running, and it exits once the
// response queue drains — at which point every frame it was started for
// has necessarily been decoded in full, so no partial frame survives
// across reader restarts.
func (t *Transport) runReader() {
	raw := t.readBuf.Raw()
	filled := 0

	for {
		t.mu.Lock()
		if len(t.respQueue) == 0 {
			t.reading = false
			t.mu.Unlock()
			return
		}
		conn := t.conn
		t.mu.Unlock()

		if filled == len(raw) {
			// The whole fixed buffer holds one undecoded, incomplete
			// frame: either the configured buffer is too small for this
			// workload's largest value or the peer sent garbage.
			t.fail(redpipeerr.Decode("read buffer exhausted without a complete frame"))
			return
		}

		n, err := conn.Read(raw[filled:])
		if err != nil {
			t.fail(classifyIOErr(err))
			return
		}
		if n == 0 {
			t.fail(redpipeerr.NotConnected())
			return
		}
		t.rec.AddBytesIn(t.connID, n)
		filled += n

		cursor := parser.NewCursor(raw[:filled])
		for {
			v, ok, err := t.decoder.Step(cursor)
			if err != nil {
				t.fail(err)
				return
			}
			if !ok {
				break
			}

			t.mu.Lock()
			if len(t.respQueue) == 0 {
				t.mu.Unlock()
				t.fail(redpipeerr.Decode("response received with no pending request"))
				return
			}
			h := t.respQueue[0]
			t.respQueue = t.respQueue[1:]
			active := len(t.respQueue)
			t.mu.Unlock()

			t.rec.SetActive(t.connID, active)
			h.complete(v, nil)
		}

		consumed := cursor.Pos()
		if consumed > 0 {
			copy(raw, raw[consumed:filled])
			filled -= consumed
		}
	}
}
