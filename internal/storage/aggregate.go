// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"

	"github.com/pipecrm/pipecrm-go/internal/model"
)

// scanAnalytics computes the dashboard aggregations by scanning all records
// and grouping client-side. Used by backends without native aggregation
// (blob, graph); the relational backend delegates to SQL instead.
type scanAnalytics struct {
	leads LeadStore
	opps  OpportunityStore
}

// NewScanAnalytics creates an AnalyticsStore that aggregates by scanning.
func NewScanAnalytics(leads LeadStore, opps OpportunityStore) AnalyticsStore {
	return scanAnalytics{leads: leads, opps: opps}
}

func (a scanAnalytics) LeadsByStatus(ctx context.Context) ([]model.LeadStatusCount, error) {
	leads, err := a.leads.FindMany(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[model.LeadStatus]int)
	for _, l := range leads {
		counts[l.Status]++
	}
	return SortLeadCounts(counts), nil
}

func (a scanAnalytics) OpportunitiesByStage(ctx context.Context) ([]model.StageSummary, error) {
	opps, err := a.opps.FindMany(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[model.OpportunityStage]int)
	totals := make(map[model.OpportunityStage]float64)
	for _, o := range opps {
		counts[o.Stage]++
		totals[o.Stage] += o.Amount
	}
	return SortStageSummaries(counts, totals), nil
}

func (a scanAnalytics) TotalRevenue(ctx context.Context) (model.RevenueSummary, error) {
	opps, err := a.opps.FindMany(ctx)
	if err != nil {
		return model.RevenueSummary{}, err
	}
	var total float64
	for _, o := range opps {
		if o.Stage == model.StageClosedWon {
			total += o.Amount
		}
	}
	return model.RevenueSummary{Total: total}, nil
}

// SortLeadCounts orders grouped lead counts in pipeline order, dropping
// statuses with no leads. Shared by the scan and SQL analytics so every
// backend returns rows in the same order.
func SortLeadCounts(counts map[model.LeadStatus]int) []model.LeadStatusCount {
	out := make([]model.LeadStatusCount, 0, len(counts))
	for _, s := range model.LeadStatuses {
		if n, ok := counts[s]; ok {
			out = append(out, model.LeadStatusCount{Status: s, Count: n})
		}
	}
	return out
}

// SortStageSummaries orders grouped stage summaries in pipeline order,
// dropping stages with no opportunities.
func SortStageSummaries(counts map[model.OpportunityStage]int, totals map[model.OpportunityStage]float64) []model.StageSummary {
	out := make([]model.StageSummary, 0, len(counts))
	for _, s := range model.OpportunityStages {
		if n, ok := counts[s]; ok {
			out = append(out, model.StageSummary{Stage: s, Count: n, TotalValue: totals[s]})
		}
	}
	return out
}
