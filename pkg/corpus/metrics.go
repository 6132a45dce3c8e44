// Copyright 2025 CardinalHQ, Inc
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package corpus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts generator activity. A nil *Metrics records nothing.
type Metrics struct {
	fixtures *prometheus.CounterVec
	bytes    prometheus.Counter
	failures *prometheus.CounterVec
	duration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		fixtures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cicorpus",
			Name:      "fixtures_total",
			Help:      "Fixtures generated, by sample size.",
		}, []string{"size"}),
		bytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: "cicorpus",
			Name:      "fixture_bytes_total",
			Help:      "Encoded bytes of all generated fixtures.",
		}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cicorpus",
			Name:      "failures_total",
			Help:      "Fixtures that failed, by pipeline stage.",
		}, []string{"stage"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cicorpus",
			Name:      "triple_duration_seconds",
			Help:      "Time to sample, estimate, encode and emit one fixture.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}

func (m *Metrics) observe(size, nbytes int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.fixtures.WithLabelValues(strconv.Itoa(size)).Inc()
	m.bytes.Add(float64(nbytes))
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) failure(stage string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(stage).Inc()
}
