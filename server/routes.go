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
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TransportSnapshot is the shape served at /debug/vars/transport.json.
type TransportSnapshot struct {
	ConnID       string `json:"connId"`
	State        string `json:"state"`
	ActiveCount  int    `json:"activeCount"`
	Addr         string `json:"addr"`
}

// RegisterMetrics mounts a Prometheus handler for reg at /metrics.
func (s *Server) RegisterMetrics(reg *prometheus.Registry) {
	s.router.Methods(http.MethodGet).Path("/metrics").Handler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

// RegisterTransportSnapshot mounts a goccy/go-json-encoded snapshot of
// live transport state at /debug/vars/transport.json. snapshot is called
// once per request, so it should be cheap and non-blocking.
func (s *Server) RegisterTransportSnapshot(snapshot func() []TransportSnapshot) {
	s.router.Methods(http.MethodGet).Path("/debug/vars/transport.json").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		if err := enc.Encode(snapshot()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
