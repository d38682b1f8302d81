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

import "github.com/redpipe/redpipe/resp"

// runWriter is the writer loop. Exactly one instance runs
// at a time per Transport; Submit starts it when the transport transitions
// from idle to writing, and it exits once it finds nothing left to send.
func (t *Transport) runWriter() {
	raw := t.writeBuf.Raw()

	for {
		filled := 0

		t.mu.Lock()
		for len(t.reqQueue) > 0 {
			n, err := resp.EncodeInto(t.reqQueue[0], raw, filled)
			if err != nil {
				// The value was already accepted by Submit; a failure to
				// encode it here is fatal to the whole connection, not
				// just this one request.
				t.mu.Unlock()
				t.fail(err)
				return
			}
			if n == 0 {
				// Doesn't fit in what's left of the buffer this round;
				// EncodeInto left both buf and queue untouched, so it
				// stays at the head for the next iteration.
				break
			}
			filled += n
			t.reqQueue = t.reqQueue[1:]
		}

		if filled == 0 {
			// Nothing queued (or nothing fit, but the queue is still
			// non-empty only if a single value exceeds the whole write
			// buffer, which is a configuration error outside this
			// transport's scope). Either way there is nothing to flush.
			t.writing = false
			t.mu.Unlock()
			return
		}

		startReader := false
		if !t.reading && len(t.respQueue) > 0 {
			t.reading = true
			startReader = true
		}
		conn := t.conn
		t.mu.Unlock()

		if startReader {
			go t.runReader()
		}

		if _, err := writeFull(conn, raw[:filled]); err != nil {
			t.fail(classifyIOErr(err))
			return
		}
		t.rec.AddBytesOut(t.connID, filled)
	}
}
