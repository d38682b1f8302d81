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

package server

import (
	"net"
	"net/http"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/redpipe/redpipe/confengine"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestNewDisabledReturnsNilServer(t *testing.T) {
	s, err := New(confengine.AdminSettings{Enabled: false})
	require.NoError(t, err)
	require.Nil(t, s)
}

func TestServerServesPprofAndMetricsAndSnapshot(t *testing.T) {
	addr := freeAddr(t)
	s, err := New(confengine.AdminSettings{Enabled: true, Addr: addr})
	require.NoError(t, err)
	require.NotNil(t, s)

	reg := prometheus.NewRegistry()
	s.RegisterMetrics(reg)
	s.RegisterTransportSnapshot(func() []TransportSnapshot {
		return []TransportSnapshot{{ConnID: "c1", State: "connected", ActiveCount: 3, Addr: "127.0.0.1:6379"}}
	})

	go s.ListenAndServe()
	waitForServer(t, addr)

	resp, err := http.Get("http://" + addr + "/debug/pprof/cmdline")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get("http://" + addr + "/debug/vars/transport.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snapshots []TransportSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snapshots))
	require.Len(t, snapshots, 1)
	require.Equal(t, "c1", snapshots[0].ConnID)
	require.Equal(t, 3, snapshots[0].ActiveCount)
}

func waitForServer(t *testing.T, addr string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("server at %s never came up", addr)
}
