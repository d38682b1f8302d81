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

// Package metrics instruments a *transport.Transport with Prometheus
// client_golang collectors. Instrumentation is entirely opt-in: a
// transport built without a Recorder uses Nop() and pays no cost.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder observes one transport instance's lifecycle. Every call is made
// from the submission-mutex-protected paths or the reader/writer loops, so
// implementations must be safe for concurrent use but may assume calls are
// not reentrant per connection id.
type Recorder interface {
	SetActive(connID string, n int)
	IncRequests(connID string)
	IncErrors(connID string, kind string)
	AddBytesOut(connID string, n int)
	AddBytesIn(connID string, n int)
}

type nopRecorder struct{}

func (nopRecorder) SetActive(string, int)    {}
func (nopRecorder) IncRequests(string)       {}
func (nopRecorder) IncErrors(string, string) {}
func (nopRecorder) AddBytesOut(string, int)  {}
func (nopRecorder) AddBytesIn(string, int)   {}

// Nop returns a Recorder that discards everything.
func Nop() Recorder { return nopRecorder{} }

// Prometheus is a Recorder backed by github.com/prometheus/client_golang.
// It must be registered with exactly one prometheus.Registerer; construct
// one per process, not one per transport.
type Prometheus struct {
	active      *prometheus.GaugeVec
	requests    *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	bytesOut    *prometheus.CounterVec
	bytesIn     *prometheus.CounterVec
}

// NewPrometheus creates and registers redpipe's transport metrics on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "redpipe",
			Subsystem: "transport",
			Name:      "active_requests",
			Help:      "Current depth of the response queue (requests in flight).",
		}, []string{"conn"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "redpipe",
			Subsystem: "transport",
			Name:      "requests_total",
			Help:      "Total requests submitted.",
		}, []string{"conn"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "redpipe",
			Subsystem: "transport",
			Name:      "errors_total",
			Help:      "Total completions that ended in an error, by classified cause.",
		}, []string{"conn", "kind"}),
		bytesOut: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "redpipe",
			Subsystem: "transport",
			Name:      "bytes_written_total",
			Help:      "Total bytes written to the socket.",
		}, []string{"conn"}),
		bytesIn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "redpipe",
			Subsystem: "transport",
			Name:      "bytes_read_total",
			Help:      "Total bytes read from the socket.",
		}, []string{"conn"}),
	}
	reg.MustRegister(p.active, p.requests, p.errorsTotal, p.bytesOut, p.bytesIn)
	return p
}

func (p *Prometheus) SetActive(connID string, n int) {
	p.active.WithLabelValues(connID).Set(float64(n))
}

func (p *Prometheus) IncRequests(connID string) {
	p.requests.WithLabelValues(connID).Inc()
}

func (p *Prometheus) IncErrors(connID string, kind string) {
	p.errorsTotal.WithLabelValues(connID, kind).Inc()
}

func (p *Prometheus) AddBytesOut(connID string, n int) {
	p.bytesOut.WithLabelValues(connID).Add(float64(n))
}

func (p *Prometheus) AddBytesIn(connID string, n int) {
	p.bytesIn.WithLabelValues(connID).Add(float64(n))
}
