// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pipecrm/pipecrm-go/internal/chunker"
	"github.com/pipecrm/pipecrm-go/internal/metrics"
)

// State is the availability state of one backend.
type State string

// Backend availability states. Unavailable is terminal until an explicit
// reprobe; there is no automatic per-request recovery.
const (
	StateUnknown     State = "unknown"
	StateAvailable   State = "available"
	StateUnavailable State = "unavailable"
)

// Health tracks backend availability. It is an explicit value injected into
// the router (rather than package-level state) so tests can simulate backend
// failure, and so a scheduled or manual Reprobe can re-enable a backend
// without a process restart.
type Health struct {
	mu     sync.RWMutex
	states map[string]State
	logger *slog.Logger
}

// NewHealth creates an empty health tracker.
func NewHealth(logger *slog.Logger) *Health {
	if logger == nil {
		logger = slog.Default()
	}
	return &Health{
		states: make(map[string]State),
		logger: logger,
	}
}

// Available reports whether a backend may be tried. Unknown backends are
// tried: a probe may simply not have run yet.
func (h *Health) Available(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.states[name] != StateUnavailable
}

// MarkAvailable records a backend as working.
func (h *Health) MarkAvailable(name string) {
	h.mu.Lock()
	h.states[name] = StateAvailable
	h.mu.Unlock()
	metrics.SetBackendUp(name, true)
}

// MarkUnavailable demotes a backend. It stays demoted until Reprobe.
func (h *Health) MarkUnavailable(name string) {
	h.mu.Lock()
	changed := h.states[name] != StateUnavailable
	h.states[name] = StateUnavailable
	h.mu.Unlock()
	metrics.SetBackendUp(name, false)
	if changed {
		h.logger.Warn("storage backend marked unavailable", "backend", name)
	}
}

// Snapshot returns a copy of the current availability map.
func (h *Health) Snapshot() map[string]State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]State, len(h.states))
	for k, v := range h.states {
		out[k] = v
	}
	return out
}

// Probe pings every store with a retry and records the result, including
// re-enabling previously demoted backends.
func (h *Health) Probe(ctx context.Context, stores []Store) {
	for _, s := range stores {
		err := chunker.WithRetry(ctx, chunker.GenericAttempts, chunker.DefaultBaseDelay, s.Ping)
		if err != nil {
			h.MarkUnavailable(s.Name())
			continue
		}
		h.MarkAvailable(s.Name())
		h.logger.Info("storage backend available", "backend", s.Name())
	}
}
