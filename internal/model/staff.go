// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// StaffStatus marks a staff member as active or inactive.
type StaffStatus string

// Staff statuses.
const (
	StaffActive   StaffStatus = "ACTIVE"
	StaffInactive StaffStatus = "INACTIVE"
)

// Staff represents an internal staff member. Role is free text, unlike the
// enumerated UserRole.
type Staff struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	Name       string      `json:"name"`
	Role       string      `json:"role"`
	Department string      `json:"department,omitempty"`
	Phone      string      `json:"phone,omitempty"`
	Status     StaffStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  *time.Time  `json:"updated_at,omitempty"`
}

// StaffPatch carries a partial update for a Staff record.
// Nil fields are left unchanged.
type StaffPatch struct {
	Email      *string      `json:"email,omitempty"`
	Name       *string      `json:"name,omitempty"`
	Role       *string      `json:"role,omitempty"`
	Department *string      `json:"department,omitempty"`
	Phone      *string      `json:"phone,omitempty"`
	Status     *StaffStatus `json:"status,omitempty"`
}

// Apply merges the patch into s, changing only the provided fields.
func (p StaffPatch) Apply(s *Staff) {
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Role != nil {
		s.Role = *p.Role
	}
	if p.Department != nil {
		s.Department = *p.Department
	}
	if p.Phone != nil {
		s.Phone = *p.Phone
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
}

// Validate checks field constraints enforced at the storage boundary.
func (s *Staff) Validate() error {
	if s.Email == "" {
		return fmt.Errorf("staff: %w: email is required", ErrInvalid)
	}
	if s.Status != StaffActive && s.Status != StaffInactive {
		return fmt.Errorf("staff: %w: unknown status %q", ErrInvalid, s.Status)
	}
	return nil
}
