// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pipecrm/pipecrm-go/internal/model"
)

// CreateStaffRequest represents the request body for creating a staff member.
type CreateStaffRequest struct {
	Email      string            `json:"email"`
	Name       string            `json:"name"`
	Role       string            `json:"role,omitempty"`
	Department string            `json:"department,omitempty"`
	Phone      string            `json:"phone,omitempty"`
	Status     model.StaffStatus `json:"status,omitempty"`
}

// ListStaff returns all staff members.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	members, err := h.router.Staff().FindMany(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, members, &Meta{Total: len(members)})
}

// GetStaff returns a single staff member by ID.
func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	member, err := h.router.Staff().FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if member == nil {
		WriteNotFound(w, "Staff member not found")
		return
	}
	WriteSuccess(w, member, nil)
}

// GetStaffByEmail returns the staff member matching the email query parameter.
func (h *Handler) GetStaffByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		WriteBadRequest(w, "Missing email query parameter")
		return
	}
	member, err := h.router.Staff().FindByEmail(r.Context(), email)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if member == nil {
		WriteNotFound(w, "Staff member not found")
		return
	}
	WriteSuccess(w, member, nil)
}

// CreateStaff creates a new staff member.
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req CreateStaffRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	member, err := h.router.Staff().Create(r.Context(), model.Staff{
		Email:      req.Email,
		Name:       req.Name,
		Role:       req.Role,
		Department: req.Department,
		Phone:      req.Phone,
		Status:     req.Status,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteCreated(w, member)
}

// UpdateStaff applies a partial update to a staff member.
func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	var patch model.StaffPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	member, err := h.router.Staff().Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if member == nil {
		WriteNotFound(w, "Staff member not found")
		return
	}
	WriteSuccess(w, member, nil)
}

// DeleteStaff removes a staff member.
func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.router.Staff().Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !deleted {
		WriteNotFound(w, "Staff member not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
