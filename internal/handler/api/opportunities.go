// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pipecrm/pipecrm-go/internal/model"
)

// CreateOpportunityRequest represents the request body for creating an opportunity.
type CreateOpportunityRequest struct {
	Title      string                 `json:"title"`
	Amount     float64                `json:"amount"`
	Stage      model.OpportunityStage `json:"stage,omitempty"`
	LeadID     string                 `json:"lead_id,omitempty"`
	AssignedTo string                 `json:"assigned_to,omitempty"`
}

// ListOpportunities returns all opportunities.
func (h *Handler) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	opps, err := h.router.Opportunities().FindMany(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, opps, &Meta{Total: len(opps)})
}

// GetOpportunity returns a single opportunity by ID.
func (h *Handler) GetOpportunity(w http.ResponseWriter, r *http.Request) {
	opp, err := h.router.Opportunities().FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if opp == nil {
		WriteNotFound(w, "Opportunity not found")
		return
	}
	WriteSuccess(w, opp, nil)
}

// ListOpportunitiesByLead returns the opportunities referencing a lead.
func (h *Handler) ListOpportunitiesByLead(w http.ResponseWriter, r *http.Request) {
	opps, err := h.router.Opportunities().FindByLead(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, opps, &Meta{Total: len(opps)})
}

// CreateOpportunity creates a new opportunity.
func (h *Handler) CreateOpportunity(w http.ResponseWriter, r *http.Request) {
	var req CreateOpportunityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	opp, err := h.router.Opportunities().Create(r.Context(), model.Opportunity{
		Title:      req.Title,
		Amount:     req.Amount,
		Stage:      req.Stage,
		LeadID:     req.LeadID,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteCreated(w, opp)
}

// UpdateOpportunity applies a partial update to an opportunity.
func (h *Handler) UpdateOpportunity(w http.ResponseWriter, r *http.Request) {
	var patch model.OpportunityPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	opp, err := h.router.Opportunities().Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if opp == nil {
		WriteNotFound(w, "Opportunity not found")
		return
	}
	WriteSuccess(w, opp, nil)
}

// DeleteOpportunity removes an opportunity.
func (h *Handler) DeleteOpportunity(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.router.Opportunities().Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !deleted {
		WriteNotFound(w, "Opportunity not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
