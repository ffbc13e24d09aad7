// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics defines the Prometheus collectors for the storage layer.
// HTTP request metrics live in the middleware package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_backend_failures_total",
			Help: "Total number of storage operations that failed against a backend",
		},
		[]string{"backend"},
	)

	storageFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_fallbacks_total",
			Help: "Total number of operations that fell through to a lower-priority backend",
		},
		[]string{"backend"},
	)

	backendUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storage_backend_up",
			Help: "Whether a storage backend is currently marked available (1) or not (0)",
		},
		[]string{"backend"},
	)

	logEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "log_events_total",
			Help: "Total number of WARN and ERROR log records by component",
		},
		[]string{"level", "component"},
	)
)

// RecordBackendFailure counts a failed storage operation against a backend.
func RecordBackendFailure(backend string) {
	backendFailures.WithLabelValues(backend).Inc()
}

// RecordFallback counts an operation falling through past a failed backend.
func RecordFallback(backend string) {
	storageFallbacks.WithLabelValues(backend).Inc()
}

// SetBackendUp records a backend's availability state.
func SetBackendUp(backend string, up bool) {
	v := 0.0
	if up {
		v = 1.0
	}
	backendUp.WithLabelValues(backend).Set(v)
}

// RecordLogEvent counts a WARN or ERROR log record.
func RecordLogEvent(level, component string) {
	logEvents.WithLabelValues(level, component).Inc()
}
