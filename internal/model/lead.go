// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// LeadStatus tracks a lead through the sales pipeline.
type LeadStatus string

// Lead statuses.
const (
	LeadNew         LeadStatus = "NEW"
	LeadContacted   LeadStatus = "CONTACTED"
	LeadQualified   LeadStatus = "QUALIFIED"
	LeadProposal    LeadStatus = "PROPOSAL"
	LeadNegotiation LeadStatus = "NEGOTIATION"
	LeadClosedWon   LeadStatus = "CLOSED_WON"
	LeadClosedLost  LeadStatus = "CLOSED_LOST"
)

// LeadStatuses lists all valid lead statuses in pipeline order.
var LeadStatuses = []LeadStatus{
	LeadNew, LeadContacted, LeadQualified, LeadProposal,
	LeadNegotiation, LeadClosedWon, LeadClosedLost,
}

// Lead represents a sales lead. AssignedTo is a weak reference to a User ID
// and is never validated for existence.
type Lead struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Company    string     `json:"company,omitempty"`
	Status     LeadStatus `json:"status"`
	AssignedTo string     `json:"assigned_to,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// LeadPatch carries a partial update for a Lead. Nil fields are left unchanged.
type LeadPatch struct {
	Name       *string     `json:"name,omitempty"`
	Email      *string     `json:"email,omitempty"`
	Phone      *string     `json:"phone,omitempty"`
	Company    *string     `json:"company,omitempty"`
	Status     *LeadStatus `json:"status,omitempty"`
	AssignedTo *string     `json:"assigned_to,omitempty"`
}

// Apply merges the patch into l, changing only the provided fields.
func (p LeadPatch) Apply(l *Lead) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.Company != nil {
		l.Company = *p.Company
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.AssignedTo != nil {
		l.AssignedTo = *p.AssignedTo
	}
}

// Validate checks field constraints enforced at the storage boundary.
func (l *Lead) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("lead: %w: name is required", ErrInvalid)
	}
	for _, s := range LeadStatuses {
		if l.Status == s {
			return nil
		}
	}
	return fmt.Errorf("lead: %w: unknown status %q", ErrInvalid, l.Status)
}
