// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// OpportunityStage tracks an opportunity through the deal pipeline.
type OpportunityStage string

// Opportunity stages.
const (
	StageProspect    OpportunityStage = "PROSPECT"
	StageQualified   OpportunityStage = "QUALIFIED"
	StageProposal    OpportunityStage = "PROPOSAL"
	StageNegotiation OpportunityStage = "NEGOTIATION"
	StageClosedWon   OpportunityStage = "CLOSED_WON"
	StageClosedLost  OpportunityStage = "CLOSED_LOST"
)

// OpportunityStages lists all valid stages in pipeline order.
var OpportunityStages = []OpportunityStage{
	StageProspect, StageQualified, StageProposal,
	StageNegotiation, StageClosedWon, StageClosedLost,
}

// Opportunity represents a deal attached to a lead. LeadID and AssignedTo are
// weak references and are never validated for existence.
type Opportunity struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Amount     float64          `json:"amount"`
	Stage      OpportunityStage `json:"stage"`
	LeadID     string           `json:"lead_id"`
	AssignedTo string           `json:"assigned_to,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  *time.Time       `json:"updated_at,omitempty"`
}

// OpportunityPatch carries a partial update for an Opportunity.
// Nil fields are left unchanged.
type OpportunityPatch struct {
	Title      *string           `json:"title,omitempty"`
	Amount     *float64          `json:"amount,omitempty"`
	Stage      *OpportunityStage `json:"stage,omitempty"`
	LeadID     *string           `json:"lead_id,omitempty"`
	AssignedTo *string           `json:"assigned_to,omitempty"`
}

// Apply merges the patch into o, changing only the provided fields.
func (p OpportunityPatch) Apply(o *Opportunity) {
	if p.Title != nil {
		o.Title = *p.Title
	}
	if p.Amount != nil {
		o.Amount = *p.Amount
	}
	if p.Stage != nil {
		o.Stage = *p.Stage
	}
	if p.LeadID != nil {
		o.LeadID = *p.LeadID
	}
	if p.AssignedTo != nil {
		o.AssignedTo = *p.AssignedTo
	}
}

// Validate checks field constraints enforced at the storage boundary.
func (o *Opportunity) Validate() error {
	if o.Title == "" {
		return fmt.Errorf("opportunity: %w: title is required", ErrInvalid)
	}
	if o.Amount < 0 {
		return fmt.Errorf("opportunity: %w: amount must be non-negative", ErrInvalid)
	}
	for _, s := range OpportunityStages {
		if o.Stage == s {
			return nil
		}
	}
	return fmt.Errorf("opportunity: %w: unknown stage %q", ErrInvalid, o.Stage)
}
