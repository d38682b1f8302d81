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

// Package transport implements redpipe's pipelined request/response
// multiplexer: it owns one TCP socket, batches outgoing RESP frames,
// demultiplexes responses FIFO onto per-request Handles, and never blocks
// a caller's Submit on network I/O.
package transport

import (
	"context"
	"net"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/redpipe/redpipe/internal/bufpool"
	"github.com/redpipe/redpipe/internal/idutil"
	"github.com/redpipe/redpipe/logger"
	"github.com/redpipe/redpipe/metrics"
	"github.com/redpipe/redpipe/redpipeerr"
	"github.com/redpipe/redpipe/resp"
)

// DefaultBufferSize is the fixed size each of the read and write buffers
// is allocated at.
const DefaultBufferSize = 1 << 20

// Options configures a Transport.
type Options struct {
	// Addr is the "host:port" TCP address Connect dials.
	Addr string

	// ReadBufSize / WriteBufSize default to DefaultBufferSize when zero.
	ReadBufSize  int
	WriteBufSize int

	// Logger defaults to logger.Nop().
	Logger logger.Logger
	// Metrics defaults to metrics.Nop().
	Metrics metrics.Recorder
}

// Transport owns one socket and multiplexes every Submit onto it. The zero
// value is not usable; construct with New.
type Transport struct {
	addr   string
	logger logger.Logger
	rec    metrics.Recorder
	connID string

	decoder  *resp.Decoder
	readBuf  *bufpool.Buffer
	writeBuf *bufpool.Buffer

	// mu guards everything below: the request/response queues, the
	// writing/reading scheduling bits, connected, and state. It is never
	// held across I/O. Submit holds it for O(1) work; the writer holds it
	// while encoding every queued request that fits into the write buffer,
	// so that hold grows with the batch size.
	mu        sync.Mutex
	conn      net.Conn
	state     State
	connected bool
	writing   bool
	reading   bool
	reqQueue  []resp.Value
	respQueue []*Handle
}

// New constructs a Transport in StateUnconnected. Connect must be called
// before Submit will accept requests.
func New(opts Options) *Transport {
	if opts.ReadBufSize <= 0 {
		opts.ReadBufSize = DefaultBufferSize
	}
	if opts.WriteBufSize <= 0 {
		opts.WriteBufSize = DefaultBufferSize
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop()
	}

	connID := idutil.New()
	return &Transport{
		addr:     opts.Addr,
		logger:   opts.Logger.With(connID),
		rec:      opts.Metrics,
		connID:   connID,
		decoder:  resp.NewDecoder(),
		readBuf:  bufpool.Get(opts.ReadBufSize),
		writeBuf: bufpool.Get(opts.WriteBufSize),
		state:    StateUnconnected,
	}
}

// ConnID returns the id stamped onto this transport's log lines and
// metrics labels. It carries no protocol meaning.
func (t *Transport) ConnID() string { return t.connID }

// State returns the transport's current lifecycle state.
func (t *Transport) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Connect establishes the TCP connection. It is not safe to call Connect
// twice on the same Transport, nor to call it again after a fatal failure
// or Disconnect — the transport is single-use and never reconnects.
func (t *Transport) Connect(ctx context.Context) error {
	t.mu.Lock()
	if t.state != StateUnconnected {
		t.mu.Unlock()
		return redpipeerr.NotConnected()
	}
	t.state = StateConnecting
	t.mu.Unlock()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		t.mu.Lock()
		t.state = StateUnconnected
		t.mu.Unlock()
		return redpipeerr.IO(err)
	}

	t.mu.Lock()
	t.conn = conn
	t.connected = true
	t.state = StateConnected
	t.mu.Unlock()

	t.logger.Infof("connected to %s", t.addr)
	return nil
}

// Submit enqueues v and returns a Handle for its response. If the
// transport is not connected, the handle is completed exceptionally with
// NotConnected before Submit returns. Safe for arbitrary concurrent
// callers.
func (t *Transport) Submit(v resp.Value) *Handle {
	h := newHandle()

	t.mu.Lock()
	if !t.connected {
		t.mu.Unlock()
		h.complete(resp.Value{}, redpipeerr.NotConnected())
		return h
	}

	// Response queue grows before request queue so the response queue's
	// depth never falls below the count of requests still in flight.
	t.respQueue = append(t.respQueue, h)
	t.reqQueue = append(t.reqQueue, v)

	startWriter := !t.writing
	t.writing = true
	active := len(t.respQueue)
	t.mu.Unlock()

	t.rec.IncRequests(t.connID)
	t.rec.SetActive(t.connID, active)

	if startWriter {
		go t.runWriter()
	}
	return h
}

// ActiveCount returns the current depth of the response queue.
func (t *Transport) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.respQueue)
}

// Disconnect closes the socket; every outstanding handle completes
// exceptionally with NotConnected. If more than one handle was
// outstanding, Disconnect additionally returns their aggregate as a
// *multierror.Error so a caller that cares can inspect everything that was
// in flight — each handle itself still completes with the plain
// classified NotConnected cause, unaffected by the aggregate.
func (t *Transport) Disconnect() error {
	return t.fail(redpipeerr.NotConnected())
}

// fail implements the failure path: it is idempotent,
// marks the transport permanently closed, and drains both queues —
// completing every pending handle exceptionally with cause and discarding
// unsent requests.
func (t *Transport) fail(cause error) error {
	t.mu.Lock()
	if !t.connected {
		t.mu.Unlock()
		return nil
	}
	t.connected = false
	t.state = StateClosed
	pending := t.respQueue
	t.respQueue = nil
	t.reqQueue = nil
	t.mu.Unlock()

	if t.conn != nil {
		_ = t.conn.Close()
	}

	t.logger.Warnf("transport closed: %v", cause)
	t.rec.SetActive(t.connID, 0)
	t.rec.IncErrors(t.connID, redpipeerr.KindOf(cause).String())

	if len(pending) == 0 {
		return nil
	}

	var merr *multierror.Error
	for _, h := range pending {
		h.complete(resp.Value{}, cause)
		merr = multierror.Append(merr, cause)
	}
	if len(pending) == 1 {
		return nil
	}
	return merr.ErrorOrNil()
}
