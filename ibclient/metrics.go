/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ibclient

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics bundles the router's Prometheus instrumentation. Each Client owns
// its own registry so that multiple Clients in the same process never
// collide on metric registration.
type metrics struct {
	framesRouted     *prometheus.CounterVec
	deadSubscriber   *prometheus.CounterVec
	pendingTimeouts  prometheus.Counter
	openSubscriptions prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		framesRouted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ibclient",
			Subsystem: "router",
			Name:      "frames_routed_total",
			Help:      "Frames dispatched by the reader/router task, labeled by frame kind.",
		}, []string{"kind"}),
		deadSubscriber: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ibclient",
			Subsystem: "router",
			Name:      "dead_subscriber_evictions_total",
			Help:      "Streaming subscriptions removed from the router's tables, labeled by frame kind.",
		}, []string{"kind"}),
		pendingTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ibclient",
			Subsystem: "router",
			Name:      "pending_request_timeouts_total",
			Help:      "One-shot and bounded-batch requests that never received a terminal frame.",
		}),
		openSubscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ibclient",
			Subsystem: "router",
			Name:      "open_subscriptions",
			Help:      "Current count of live unbounded-stream subscriptions (tickers and order trackers).",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.framesRouted, m.deadSubscriber, m.pendingTimeouts, m.openSubscriptions)
	}
	return m
}

func (m *metrics) routed(kind FrameKind) {
	m.framesRouted.WithLabelValues(strconv.Itoa(int(kind))).Inc()
}

func (m *metrics) evicted(kind FrameKind) {
	m.deadSubscriber.WithLabelValues(strconv.Itoa(int(kind))).Inc()
}

func (m *metrics) timedOut() {
	m.pendingTimeouts.Inc()
}
