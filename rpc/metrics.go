// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package rpc

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the per-handler Prometheus instrumentation the server
// registers on construction (SPEC_FULL's prometheus/client_golang wiring).
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	addListRetries   prometheus.Histogram
}

// NewMetrics creates and registers the handler metrics against reg. A nil
// reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dhtstore_requests_total",
			Help: "Storage RPC requests handled, by operation and result.",
		}, []string{"op", "result"}),
		addListRetries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dhtstore_add_list_mode_retries",
			Help:    "Number of random-content-key retries ADD's list mode needed per entry.",
			Buckets: prometheus.LinearBuckets(0, 4, 8),
		}),
	}
	reg.MustRegister(m.requestsTotal, m.addListRetries)
	return m
}

func (m *Metrics) observeResult(op, result string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(op, result).Inc()
}

func (m *Metrics) observeAddListRetries(n int) {
	if m == nil {
		return
	}
	m.addListRetries.Observe(float64(n))
}
