// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the four CRM record kinds (User, Lead, Opportunity,
// Staff), their patch types with merge semantics, and the analytics value types.
package model

import (
	"fmt"
	"time"
)

// UserRole is the access role of a dashboard user.
type UserRole string

// User roles.
const (
	RoleUser    UserRole = "USER"
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
)

// User represents a dashboard user account.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      UserRole   `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserPatch carries a partial update for a User. Nil fields are left unchanged.
type UserPatch struct {
	Email *string   `json:"email,omitempty"`
	Name  *string   `json:"name,omitempty"`
	Role  *UserRole `json:"role,omitempty"`
}

// Apply merges the patch into u, changing only the provided fields.
func (p UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}

// Validate checks field constraints enforced at the storage boundary.
func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("user: %w: email is required", ErrInvalid)
	}
	switch u.Role {
	case RoleUser, RoleAdmin, RoleManager:
		return nil
	default:
		return fmt.Errorf("user: %w: unknown role %q", ErrInvalid, u.Role)
	}
}
