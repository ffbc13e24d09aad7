// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a custom slog handler that feeds the log event
// counters. It forwards every record to a wrapped handler and counts WARN
// and ERROR records per component in Prometheus.
package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pipecrm/pipecrm-go/internal/metrics"
)

// ComponentKey is the attribute looked up to label log event counters.
const ComponentKey = "component"

// MetricsHandler is a slog.Handler that wraps another handler and counts
// WARN and ERROR level records in the log event metrics.
type MetricsHandler struct {
	inner     slog.Handler
	component string
	level     slog.Level // Minimum level to count (default: WARN)
}

// NewMetricsHandler creates a MetricsHandler that wraps the given handler.
// Records at WARN level and above are counted.
func NewMetricsHandler(inner slog.Handler) *MetricsHandler {
	return &MetricsHandler{
		inner:     inner,
		component: "app",
		level:     slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *MetricsHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *MetricsHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level {
		metrics.RecordLogEvent(levelLabel(r.Level), h.extractComponent(r))
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler. A component attribute set here sticks
// to the derived handler so child loggers count under their own label.
func (h *MetricsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	component := h.component
	for _, a := range attrs {
		if a.Key == ComponentKey {
			component = a.Value.String()
		}
	}
	return &MetricsHandler{
		inner:     h.inner.WithAttrs(attrs),
		component: component,
		level:     h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *MetricsHandler) WithGroup(name string) slog.Handler {
	return &MetricsHandler{
		inner:     h.inner.WithGroup(name),
		component: h.component,
		level:     h.level,
	}
}

// extractComponent returns the record's component attribute, falling back
// to the handler's own component.
func (h *MetricsHandler) extractComponent(r slog.Record) string {
	component := h.component
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == ComponentKey {
			component = a.Value.String()
			return false
		}
		return true
	})
	return component
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	default:
		return "info"
	}
}

// ParseLevel maps a configuration string to a slog.Level, defaulting to
// info for unrecognized values.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
