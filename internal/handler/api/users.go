// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pipecrm/pipecrm-go/internal/model"
)

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Email string         `json:"email"`
	Name  string         `json:"name"`
	Role  model.UserRole `json:"role,omitempty"`
}

// ListUsers returns all users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.router.Users().FindMany(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, users, &Meta{Total: len(users)})
}

// GetUser returns a single user by ID.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.router.Users().FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if user == nil {
		WriteNotFound(w, "User not found")
		return
	}
	WriteSuccess(w, user, nil)
}

// GetUserByEmail returns the user matching the email query parameter.
func (h *Handler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		WriteBadRequest(w, "Missing email query parameter")
		return
	}
	user, err := h.router.Users().FindByEmail(r.Context(), email)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if user == nil {
		WriteNotFound(w, "User not found")
		return
	}
	WriteSuccess(w, user, nil)
}

// CreateUser creates a new user.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.router.Users().Create(r.Context(), model.User{
		Email: req.Email,
		Name:  req.Name,
		Role:  req.Role,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteCreated(w, user)
}

// UpdateUser applies a partial update to a user.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch model.UserPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	user, err := h.router.Users().Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if user == nil {
		WriteNotFound(w, "User not found")
		return
	}
	WriteSuccess(w, user, nil)
}

// DeleteUser removes a user.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.router.Users().Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !deleted {
		WriteNotFound(w, "User not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
