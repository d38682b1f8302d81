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
	"context"
	"sync"

	"github.com/redpipe/redpipe/resp"
)

// Handle is an opaque single-assignment completion cell for one submitted
// request's response. It is completed exactly once, from any goroutine, by
// the transport's writer/reader/failure paths; Await may be called any
// number of times and by any number of goroutines.
type Handle struct {
	done  chan struct{}
	once  sync.Once
	value resp.Value
	err   error
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// complete resolves h with (value, err) exactly once. A second call is a
// programming error; it is swallowed defensively via sync.Once
// rather than panicking a goroutine that isn't the caller's.
func (h *Handle) complete(v resp.Value, err error) {
	h.once.Do(func() {
		h.value = v
		h.err = err
		close(h.done)
	})
}

// Done returns a channel closed once the handle has completed.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Await blocks until h completes or ctx is done. Individual
// request cancellation is not supported: if ctx is done first, the
// in-flight request is unaffected and h will still complete later; Await
// merely stops waiting for it.
func (h *Handle) Await(ctx context.Context) (resp.Value, error) {
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		return resp.Value{}, ctx.Err()
	}
}
