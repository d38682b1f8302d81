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

package command

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redpipe/redpipe/parser"
	"github.com/redpipe/redpipe/redpipeerr"
	"github.com/redpipe/redpipe/resp"
	"github.com/redpipe/redpipe/transport"
)

// scriptedServer replies to each incoming request array with the next
// value from replies, in order, ignoring the request's contents.
func scriptedServer(t *testing.T, replies []resp.Value) (addr string, closeFn func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		dec := resp.NewDecoder()
		buf := make([]byte, 4096)
		filled := 0
		idx := 0

		for idx < len(replies) {
			n, err := conn.Read(buf[filled:])
			if err != nil {
				return
			}
			filled += n
			cursor := parser.NewCursor(buf[:filled])
			for idx < len(replies) {
				_, ok, err := dec.Step(cursor)
				if err != nil || !ok {
					break
				}
				segs, _ := resp.Encode(replies[idx])
				for _, s := range segs {
					if _, err := conn.Write(s); err != nil {
						return
					}
				}
				idx++
			}
			consumed := cursor.Pos()
			copy(buf, buf[consumed:filled])
			filled -= consumed
		}
	}()

	return ln.Addr().String(), func() { _ = ln.Close() }
}

func newClient(t *testing.T, replies []resp.Value) *Client {
	t.Helper()
	addr, closeFn := scriptedServer(t, replies)
	t.Cleanup(closeFn)
	tr := transport.New(transport.Options{Addr: addr})
	require.NoError(t, tr.Connect(context.Background()))
	t.Cleanup(func() { _ = tr.Disconnect() })
	return New(tr)
}

func TestPing(t *testing.T) {
	c := newClient(t, []resp.Value{resp.Simple("PONG")})
	reply, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PONG", reply)
}

func TestGetHitAndMiss(t *testing.T) {
	c := newClient(t, []resp.Value{resp.BulkString([]byte("bar")), resp.NullBulk()})
	v, ok, err := c.Get(context.Background(), "foo")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("bar"), v)

	v, ok, err = c.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestSet(t *testing.T) {
	c := newClient(t, []resp.Value{resp.Simple("OK")})
	err := c.Set(context.Background(), "foo", []byte("bar"))
	require.NoError(t, err)
}

func TestDelCountsExisting(t *testing.T) {
	c := newClient(t, []resp.Value{resp.Integer(2)})
	n, err := c.Del(context.Background(), "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestIncr(t *testing.T) {
	c := newClient(t, []resp.Value{resp.Integer(43)})
	n, err := c.Incr(context.Background(), "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(43), n)
}

func TestMGetMixedHitsAndMisses(t *testing.T) {
	c := newClient(t, []resp.Value{resp.Array(
		resp.BulkString([]byte("1")),
		resp.NullBulk(),
		resp.BulkString([]byte("3")),
	)})
	vals, err := c.MGet(context.Background(), "a", "b", "c")
	require.NoError(t, err)
	require.Len(t, vals, 3)
	assert.Equal(t, []byte("1"), vals[0])
	assert.Nil(t, vals[1])
	assert.Equal(t, []byte("3"), vals[2])
}

func TestLRange(t *testing.T) {
	c := newClient(t, []resp.Value{resp.Array(
		resp.BulkString([]byte("x")),
		resp.BulkString([]byte("y")),
	)})
	out, err := c.LRange(context.Background(), "mylist", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, out)
}

func TestZAdd(t *testing.T) {
	c := newClient(t, []resp.Value{resp.Integer(1)})
	n, err := c.ZAdd(context.Background(), "myset", 1.5, "member")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestScan(t *testing.T) {
	c := newClient(t, []resp.Value{resp.Array(
		resp.BulkString([]byte("0")),
		resp.ArrayOf([]resp.Value{resp.BulkString([]byte("k1")), resp.BulkString([]byte("k2"))}),
	)})
	cursor, keys, err := c.Scan(context.Background(), 0, "*", 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cursor)
	assert.Equal(t, []string{"k1", "k2"}, keys)
}

func TestScanWithOptions(t *testing.T) {
	c := newClient(t, []resp.Value{resp.Array(
		resp.BulkString([]byte("12")),
		resp.ArrayOf([]resp.Value{resp.BulkString([]byte("k1"))}),
	)})
	cursor, keys, err := c.ScanWithOptions(context.Background(), 0, map[string]any{
		"match": "user:*",
		"count": "50",
		"type":  "string",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(12), cursor)
	assert.Equal(t, []string{"k1"}, keys)
}

func TestBLPopTimeoutAndHit(t *testing.T) {
	c := newClient(t, []resp.Value{
		resp.NullArray(),
		resp.Array(resp.BulkString([]byte("mylist")), resp.BulkString([]byte("v"))),
	})
	_, _, ok, err := c.BLPop(context.Background(), 0, "mylist")
	require.NoError(t, err)
	assert.False(t, ok)

	key, val, ok, err := c.BLPop(context.Background(), 0, "mylist")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "mylist", key)
	assert.Equal(t, "v", val)
}

func TestServerErrorSurfacesAsRedisServerError(t *testing.T) {
	c := newClient(t, []resp.Value{resp.Error("WRONGTYPE Operation against a key holding the wrong kind of value")})
	_, err := c.Incr(context.Background(), "notanumber")
	require.Error(t, err)
	assert.True(t, redpipeerr.Is(err, redpipeerr.KindServerError))
}

func TestNilArgumentRejectedBeforeEncoding(t *testing.T) {
	c := newClient(t, nil)
	err := c.Set(context.Background(), "foo", nil)
	require.Error(t, err)
	assert.True(t, redpipeerr.Is(err, redpipeerr.KindInvalidResponse))
}
