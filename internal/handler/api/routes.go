// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts every API handler on a chi router. The caller mounts the
// result under /api/v1.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.Status)
	r.Get("/health", h.Health)
	r.Post("/health/reprobe", h.Reprobe)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Get("/by-email", h.GetUserByEmail)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", h.ListLeads)
		r.Post("/", h.CreateLead)
		r.Get("/{id}", h.GetLead)
		r.Put("/{id}", h.UpdateLead)
		r.Delete("/{id}", h.DeleteLead)
	})

	r.Route("/opportunities", func(r chi.Router) {
		r.Get("/", h.ListOpportunities)
		r.Post("/", h.CreateOpportunity)
		r.Get("/by-lead/{leadID}", h.ListOpportunitiesByLead)
		r.Get("/{id}", h.GetOpportunity)
		r.Put("/{id}", h.UpdateOpportunity)
		r.Delete("/{id}", h.DeleteOpportunity)
	})

	r.Route("/staff", func(r chi.Router) {
		r.Get("/", h.ListStaff)
		r.Post("/", h.CreateStaff)
		r.Get("/by-email", h.GetStaffByEmail)
		r.Get("/{id}", h.GetStaff)
		r.Put("/{id}", h.UpdateStaff)
		r.Delete("/{id}", h.DeleteStaff)
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Get("/leads-by-status", h.LeadsByStatus)
		r.Get("/opportunities-by-stage", h.OpportunitiesByStage)
		r.Get("/revenue", h.TotalRevenue)
		r.Get("/summary", h.Summary)
	})

	return r
}
