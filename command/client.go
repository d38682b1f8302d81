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

// Package command implements the representative Redis command surface
// consuming *transport.Transport: a thin layer that builds request arrays,
// submits them, and coerces the RESP reply into a concrete Go type. It is
// the only place RedisServerError and RedisInvalidResponse are raised —
// transport treats every RESP Error value as an ordinary response.
package command

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cast"

	"github.com/redpipe/redpipe/redpipeerr"
	"github.com/redpipe/redpipe/resp"
	"github.com/redpipe/redpipe/transport"
)

// Client is a thin Redis command surface over a single *transport.Transport.
// It holds no state of its own; every method is safe for concurrent use
// exactly to the extent Transport.Submit is.
type Client struct {
	tr *transport.Transport
}

// New wraps tr. tr must already be connected, or every method returns
// NotConnected.
func New(tr *transport.Transport) *Client {
	return &Client{tr: tr}
}

// do builds a RESP Array of BulkString elements from args, submits it, and
// awaits the reply. A nil argument is rejected before it ever reaches the
// encoder.
func (c *Client) do(ctx context.Context, args ...any) (resp.Value, error) {
	elems := make([]resp.Value, len(args))
	for i, a := range args {
		if a == nil {
			return resp.Value{}, redpipeerr.InvalidResponse("argument %d is nil", i)
		}
		b, err := toBulk(a)
		if err != nil {
			return resp.Value{}, err
		}
		elems[i] = resp.BulkString(b)
	}
	h := c.tr.Submit(resp.ArrayOf(elems))
	return h.Await(ctx)
}

func toBulk(a any) ([]byte, error) {
	switch v := a.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		if v == nil {
			return nil, redpipeerr.InvalidResponse("nil byte slice argument")
		}
		return v, nil
	case int:
		return strconv.AppendInt(nil, int64(v), 10), nil
	case int64:
		return strconv.AppendInt(nil, v, 10), nil
	case uint64:
		return strconv.AppendUint(nil, v, 10), nil
	case float64:
		return strconv.AppendFloat(nil, v, 'f', -1, 64), nil
	default:
		return nil, redpipeerr.InvalidResponse("unsupported command argument type %T", a)
	}
}

// asError returns the RedisServerError wrapping v.Text when v is a RESP
// Error, or nil otherwise.
func asError(v resp.Value) error {
	if v.Kind == resp.KindError {
		return redpipeerr.ServerError(v.Text)
	}
	return nil
}

// Ping sends PING and returns the server's simple-string reply.
func (c *Client) Ping(ctx context.Context) (string, error) {
	v, err := c.do(ctx, "PING")
	if err != nil {
		return "", err
	}
	if err := asError(v); err != nil {
		return "", err
	}
	if v.Kind != resp.KindSimple {
		return "", redpipeerr.InvalidResponse("PING: expected simple string, got %s", v.Kind)
	}
	return v.Text, nil
}

// Get returns the value stored at key. ok is false when key does not exist.
func (c *Client) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	v, err := c.do(ctx, "GET", key)
	if err != nil {
		return nil, false, err
	}
	if err := asError(v); err != nil {
		return nil, false, err
	}
	switch v.Kind {
	case resp.KindNullBulk:
		return nil, false, nil
	case resp.KindBulkString:
		return v.Bulk, true, nil
	default:
		return nil, false, redpipeerr.InvalidResponse("GET: expected bulk string or null, got %s", v.Kind)
	}
}

// Set stores val at key, overwriting any existing value.
func (c *Client) Set(ctx context.Context, key string, val []byte) error {
	v, err := c.do(ctx, "SET", key, val)
	if err != nil {
		return err
	}
	if err := asError(v); err != nil {
		return err
	}
	if v.Kind != resp.KindSimple {
		return redpipeerr.InvalidResponse("SET: expected simple string, got %s", v.Kind)
	}
	return nil
}

// Del removes keys and returns how many actually existed.
func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	args := make([]any, 0, len(keys)+1)
	args = append(args, "DEL")
	for _, k := range keys {
		args = append(args, k)
	}
	v, err := c.do(ctx, args...)
	if err != nil {
		return 0, err
	}
	if err := asError(v); err != nil {
		return 0, err
	}
	return coerceInt(v, "DEL")
}

// Incr increments the integer value at key by one and returns the result.
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	v, err := c.do(ctx, "INCR", key)
	if err != nil {
		return 0, err
	}
	if err := asError(v); err != nil {
		return 0, err
	}
	return coerceInt(v, "INCR")
}

// MGet returns one slot per key; a missing key's slot is nil.
func (c *Client) MGet(ctx context.Context, keys ...string) ([][]byte, error) {
	args := make([]any, 0, len(keys)+1)
	args = append(args, "MGET")
	for _, k := range keys {
		args = append(args, k)
	}
	v, err := c.do(ctx, args...)
	if err != nil {
		return nil, err
	}
	if err := asError(v); err != nil {
		return nil, err
	}
	if v.Kind != resp.KindArray {
		return nil, redpipeerr.InvalidResponse("MGET: expected array, got %s", v.Kind)
	}
	out := make([][]byte, len(v.Array))
	for i, el := range v.Array {
		if el.Kind == resp.KindNullBulk {
			continue
		}
		if el.Kind != resp.KindBulkString {
			return nil, redpipeerr.InvalidResponse("MGET: element %d: expected bulk string or null, got %s", i, el.Kind)
		}
		out[i] = el.Bulk
	}
	return out, nil
}

// LRange returns list elements in [start, stop], Redis-style inclusive
// bounds with negative indices counting from the tail.
func (c *Client) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	v, err := c.do(ctx, "LRANGE", key, start, stop)
	if err != nil {
		return nil, err
	}
	if err := asError(v); err != nil {
		return nil, err
	}
	return coerceStringSlice(v, "LRANGE")
}

// ZAdd adds member to the sorted set at key with score, returning the
// number of elements newly added (not updated).
func (c *Client) ZAdd(ctx context.Context, key string, score float64, member string) (int64, error) {
	v, err := c.do(ctx, "ZADD", key, score, member)
	if err != nil {
		return 0, err
	}
	if err := asError(v); err != nil {
		return 0, err
	}
	return coerceInt(v, "ZADD")
}

// Scan performs one cursor-based iteration of the keyspace and returns the
// next cursor (0 once iteration is complete) alongside this batch's keys.
func (c *Client) Scan(ctx context.Context, cursor uint64, match string, count int64) (uint64, []string, error) {
	return c.scan(ctx, cursor, scanOptions{Match: match, Count: count})
}

// ScanWithOptions is Scan generalized to an arbitrary, loosely-typed option
// bag (MATCH/COUNT/TYPE), decoded with mitchellh/mapstructure the same way
// this corpus decodes dynamic processor configuration blocks.
func (c *Client) ScanWithOptions(ctx context.Context, cursor uint64, opts map[string]any) (uint64, []string, error) {
	var so scanOptions
	if err := decodeScanOptions(opts, &so); err != nil {
		return 0, nil, redpipeerr.InvalidResponse("SCAN: invalid options: %v", err)
	}
	return c.scan(ctx, cursor, so)
}

func (c *Client) scan(ctx context.Context, cursor uint64, opts scanOptions) (uint64, []string, error) {
	args := []any{"SCAN", strconv.FormatUint(cursor, 10)}
	if opts.Match != "" {
		args = append(args, "MATCH", opts.Match)
	}
	if opts.Count > 0 {
		args = append(args, "COUNT", opts.Count)
	}
	if opts.Type != "" {
		args = append(args, "TYPE", opts.Type)
	}

	v, err := c.do(ctx, args...)
	if err != nil {
		return 0, nil, err
	}
	if err := asError(v); err != nil {
		return 0, nil, err
	}
	if v.Kind != resp.KindArray || len(v.Array) != 2 {
		return 0, nil, redpipeerr.InvalidResponse("SCAN: expected a 2-element array, got %s", v.Kind)
	}
	nextCursor, err := cast.ToUint64E(string(v.Array[0].Bulk))
	if err != nil {
		return 0, nil, redpipeerr.InvalidResponse("SCAN: cursor element is not numeric: %v", err)
	}
	keys, err := coerceStringSlice(v.Array[1], "SCAN")
	if err != nil {
		return 0, nil, err
	}
	return nextCursor, keys, nil
}

// BLPop blocks up to timeout waiting for an element to appear on any of
// keys, popping the first one found. ok is false on timeout.
func (c *Client) BLPop(ctx context.Context, timeout time.Duration, keys ...string) (key, value string, ok bool, err error) {
	args := make([]any, 0, len(keys)+2)
	args = append(args, "BLPOP")
	for _, k := range keys {
		args = append(args, k)
	}
	args = append(args, int64(timeout/time.Second))

	v, err := c.do(ctx, args...)
	if err != nil {
		return "", "", false, err
	}
	if err := asError(v); err != nil {
		return "", "", false, err
	}
	switch v.Kind {
	case resp.KindNullArray:
		return "", "", false, nil
	case resp.KindArray:
		if len(v.Array) != 2 {
			return "", "", false, redpipeerr.InvalidResponse("BLPOP: expected a 2-element array, got %d elements", len(v.Array))
		}
		return string(v.Array[0].Bulk), string(v.Array[1].Bulk), true, nil
	default:
		return "", "", false, redpipeerr.InvalidResponse("BLPOP: expected array or null array, got %s", v.Kind)
	}
}

func coerceInt(v resp.Value, cmd string) (int64, error) {
	if v.Kind != resp.KindInteger {
		return 0, redpipeerr.InvalidResponse("%s: expected integer, got %s", cmd, v.Kind)
	}
	return cast.ToInt64E(v.Int)
}

func coerceStringSlice(v resp.Value, cmd string) ([]string, error) {
	if v.Kind != resp.KindArray {
		return nil, redpipeerr.InvalidResponse("%s: expected array, got %s", cmd, v.Kind)
	}
	out := make([]string, len(v.Array))
	for i, el := range v.Array {
		if el.Kind != resp.KindBulkString {
			return nil, redpipeerr.InvalidResponse("%s: element %d: expected bulk string, got %s", cmd, i, el.Kind)
		}
		s, err := cast.ToStringE(el.Bulk)
		if err != nil {
			return nil, redpipeerr.InvalidResponse("%s: element %d: %v", cmd, i, err)
		}
		out[i] = s
	}
	return out, nil
}
