// SPDX-FileCopyrightText: Copyright 2025 Platform.sh
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Transport label values for session metrics.
const (
	transportStreamable = "streamable"
	transportSSE        = "sse"
)

// metrics holds the gateway's Prometheus collectors on a private
// registry so the /metrics endpoint only exposes what the gateway owns.
type metrics struct {
	registry *prometheus.Registry

	sessionsOpened *prometheus.CounterVec
	sessionsClosed *prometheus.CounterVec
	requestsTotal  *prometheus.CounterVec
}

// newMetrics builds and registers the gateway collectors. The active
// gauges read the session registries at scrape time, so the reported
// count is always the registry's truth rather than a counter that can
// drift.
func newMetrics(activeStreamable, activeSSE func() float64) (*metrics, error) {
	m := &metrics{registry: prometheus.NewRegistry()}

	m.sessionsOpened = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upsun_mcp_sessions_opened_total",
			Help: "Total number of MCP sessions established, by transport",
		},
		[]string{"transport"},
	)

	m.sessionsClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upsun_mcp_sessions_closed_total",
			Help: "Total number of MCP sessions torn down, by transport",
		},
		[]string{"transport"},
	)

	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upsun_mcp_http_requests_total",
			Help: "Total number of HTTP requests served by the gateway",
		},
		[]string{"code", "method"},
	)

	collectors := []prometheus.Collector{
		m.sessionsOpened,
		m.sessionsClosed,
		m.requestsTotal,
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name:        "upsun_mcp_sessions_active",
				Help:        "Number of live MCP sessions, by transport",
				ConstLabels: prometheus.Labels{"transport": transportStreamable},
			},
			activeStreamable,
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name:        "upsun_mcp_sessions_active",
				Help:        "Number of live MCP sessions, by transport",
				ConstLabels: prometheus.Labels{"transport": transportSSE},
			},
			activeSSE,
		),
	}

	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// sessionHooks returns the opened/closed callbacks for one transport's
// adapter.
func (m *metrics) sessionHooks(transport string) (opened, closed func()) {
	return func() { m.sessionsOpened.WithLabelValues(transport).Inc() },
		func() { m.sessionsClosed.WithLabelValues(transport).Inc() }
}

// handler serves the private registry in Prometheus exposition format.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
