// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pipecrm/pipecrm-go/internal/model"
)

// CreateLeadRequest represents the request body for creating a lead.
type CreateLeadRequest struct {
	Name       string           `json:"name"`
	Email      string           `json:"email,omitempty"`
	Phone      string           `json:"phone,omitempty"`
	Company    string           `json:"company,omitempty"`
	Status     model.LeadStatus `json:"status,omitempty"`
	AssignedTo string           `json:"assigned_to,omitempty"`
}

// ListLeads returns all leads.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.router.Leads().FindMany(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, leads, &Meta{Total: len(leads)})
}

// GetLead returns a single lead by ID.
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := h.router.Leads().FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if lead == nil {
		WriteNotFound(w, "Lead not found")
		return
	}
	WriteSuccess(w, lead, nil)
}

// CreateLead creates a new lead.
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	lead, err := h.router.Leads().Create(r.Context(), model.Lead{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Company:    req.Company,
		Status:     req.Status,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteCreated(w, lead)
}

// UpdateLead applies a partial update to a lead.
func (h *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	var patch model.LeadPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	lead, err := h.router.Leads().Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if lead == nil {
		WriteNotFound(w, "Lead not found")
		return
	}
	WriteSuccess(w, lead, nil)
}

// DeleteLead removes a lead.
func (h *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.router.Leads().Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !deleted {
		WriteNotFound(w, "Lead not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
