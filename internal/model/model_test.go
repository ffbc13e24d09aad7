// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"testing"
	"time"
)

func strPtr(v string) *string { return &v }

func TestLeadPatchApply(t *testing.T) {
	lead := Lead{
		Name:    "Acme Corp",
		Email:   "contact@acme.test",
		Company: "Acme",
		Status:  LeadNew,
	}

	qualified := LeadQualified
	patch := LeadPatch{
		Status:     &qualified,
		AssignedTo: strPtr("user-1"),
	}
	patch.Apply(&lead)

	if lead.Status != LeadQualified {
		t.Errorf("Status = %q, want %q", lead.Status, LeadQualified)
	}
	if lead.AssignedTo != "user-1" {
		t.Errorf("AssignedTo = %q, want %q", lead.AssignedTo, "user-1")
	}
	// Untouched fields stay as they were.
	if lead.Name != "Acme Corp" || lead.Email != "contact@acme.test" {
		t.Errorf("unpatched fields changed: %+v", lead)
	}
}

func TestEmptyPatchIsNoOp(t *testing.T) {
	now := time.Now()
	opp := Opportunity{
		ID:        "opp-1",
		Title:     "Pilot",
		Amount:    100,
		Stage:     StageProspect,
		LeadID:    "lead-1",
		CreatedAt: now,
	}
	before := opp

	OpportunityPatch{}.Apply(&opp)

	if opp != before {
		t.Errorf("empty patch changed record: %+v", opp)
	}
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{"valid", User{Email: "a@b.test", Role: RoleUser}, false},
		{"valid admin", User{Email: "a@b.test", Role: RoleAdmin}, false},
		{"missing email", User{Role: RoleUser}, true},
		{"unknown role", User{Email: "a@b.test", Role: "SUPERUSER"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestLeadValidate(t *testing.T) {
	lead := Lead{Name: "Acme", Status: LeadNew}
	if err := lead.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	lead.Status = "PENDING"
	if err := lead.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate() = %v, want ErrInvalid for unknown status", err)
	}

	lead = Lead{Status: LeadNew}
	if err := lead.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate() = %v, want ErrInvalid for missing name", err)
	}
}

func TestOpportunityValidate(t *testing.T) {
	opp := Opportunity{Title: "Deal", Amount: 100, Stage: StageProspect}
	if err := opp.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	opp.Amount = -1
	if err := opp.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate() = %v, want ErrInvalid for negative amount", err)
	}
}

func TestStaffValidate(t *testing.T) {
	s := Staff{Email: "x@y.test", Status: StaffActive}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	s.Status = "ON_LEAVE"
	if err := s.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate() = %v, want ErrInvalid for unknown status", err)
	}
}

func TestPipelineOrders(t *testing.T) {
	if len(LeadStatuses) != 7 {
		t.Errorf("LeadStatuses has %d entries, want 7", len(LeadStatuses))
	}
	if LeadStatuses[0] != LeadNew || LeadStatuses[len(LeadStatuses)-1] != LeadClosedLost {
		t.Errorf("LeadStatuses out of pipeline order: %v", LeadStatuses)
	}
	if len(OpportunityStages) != 6 {
		t.Errorf("OpportunityStages has %d entries, want 6", len(OpportunityStages))
	}
	if OpportunityStages[0] != StageProspect || OpportunityStages[len(OpportunityStages)-1] != StageClosedLost {
		t.Errorf("OpportunityStages out of pipeline order: %v", OpportunityStages)
	}
}

func TestUserIsAdmin(t *testing.T) {
	u := User{Role: RoleAdmin}
	if !u.IsAdmin() {
		t.Error("IsAdmin() = false for admin")
	}
	u.Role = RoleManager
	if u.IsAdmin() {
		t.Error("IsAdmin() = true for manager")
	}
}
