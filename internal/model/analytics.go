// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "errors"

// ErrInvalid marks a record that fails storage-boundary validation.
var ErrInvalid = errors.New("invalid record")

// LeadStatusCount is one row of the leads-by-status aggregation.
type LeadStatusCount struct {
	Status LeadStatus `json:"status"`
	Count  int        `json:"count"`
}

// StageSummary is one row of the opportunities-by-stage aggregation.
type StageSummary struct {
	Stage      OpportunityStage `json:"stage"`
	Count      int              `json:"count"`
	TotalValue float64          `json:"total_value"`
}

// RevenueSummary is the total value of all CLOSED_WON opportunities.
type RevenueSummary struct {
	Total float64 `json:"total"`
}
