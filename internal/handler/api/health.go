// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
)

// HealthResponse reports the availability of every configured backend.
type HealthResponse struct {
	Status   string            `json:"status"`
	Backends map[string]string `json:"backends"`
}

// Health returns the availability snapshot of the backend chain. The top
// level status is "ok" while at least one backend is usable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snapshot := h.router.Health().Snapshot()

	backends := make(map[string]string, len(snapshot))
	anyUsable := false
	for name, state := range snapshot {
		backends[name] = string(state)
		if h.router.Health().Available(name) {
			anyUsable = true
		}
	}

	resp := HealthResponse{Status: "ok", Backends: backends}
	code := http.StatusOK
	if !anyUsable {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	WriteJSON(w, code, resp)
}

// Reprobe re-pings every backend, returning demoted ones to service when
// they answer. This is the only path back for a demoted backend besides
// the cron schedule.
func (h *Handler) Reprobe(w http.ResponseWriter, r *http.Request) {
	h.router.Reprobe(r.Context())

	snapshot := h.router.Health().Snapshot()
	backends := make(map[string]string, len(snapshot))
	for name, state := range snapshot {
		backends[name] = string(state)
	}
	WriteSuccess(w, HealthResponse{Status: "ok", Backends: backends}, nil)
}
