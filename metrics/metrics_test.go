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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusRecordsAgainstLabeledConn(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheus(reg)

	rec.IncRequests("conn-1")
	rec.IncRequests("conn-1")
	rec.SetActive("conn-1", 2)
	rec.AddBytesOut("conn-1", 128)
	rec.AddBytesIn("conn-1", 64)
	rec.IncErrors("conn-1", "IO")

	assert.Equal(t, float64(2), testutil.ToFloat64(rec.requests.WithLabelValues("conn-1")))
	assert.Equal(t, float64(2), testutil.ToFloat64(rec.active.WithLabelValues("conn-1")))
	assert.Equal(t, float64(128), testutil.ToFloat64(rec.bytesOut.WithLabelValues("conn-1")))
	assert.Equal(t, float64(64), testutil.ToFloat64(rec.bytesIn.WithLabelValues("conn-1")))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.errorsTotal.WithLabelValues("conn-1", "IO")))
}

func TestNopRecorderDiscardsEverything(t *testing.T) {
	// Nop must never panic and never touch any shared state; there is
	// nothing to observe besides that it is safe to call.
	rec := Nop()
	rec.SetActive("x", 1)
	rec.IncRequests("x")
	rec.IncErrors("x", "IO")
	rec.AddBytesOut("x", 1)
	rec.AddBytesIn("x", 1)
}
