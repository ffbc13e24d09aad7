// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/pipecrm/pipecrm-go/internal/model"
)

// LeadsByStatus returns the count of leads per pipeline status.
func (h *Handler) LeadsByStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.router.Analytics().LeadsByStatus(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, counts, nil)
}

// OpportunitiesByStage returns count and total value per deal stage.
func (h *Handler) OpportunitiesByStage(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.router.Analytics().OpportunitiesByStage(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, summaries, nil)
}

// TotalRevenue returns the summed value of closed-won opportunities.
func (h *Handler) TotalRevenue(w http.ResponseWriter, r *http.Request) {
	revenue, err := h.router.Analytics().TotalRevenue(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, revenue, nil)
}

// SummaryResponse bundles all dashboard aggregations in one payload.
type SummaryResponse struct {
	LeadsByStatus        []model.LeadStatusCount `json:"leads_by_status"`
	OpportunitiesByStage []model.StageSummary    `json:"opportunities_by_stage"`
	Revenue              model.RevenueSummary    `json:"revenue"`
}

// Summary computes all three aggregations concurrently and returns them in
// one response. The first error wins.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var (
		resp   SummaryResponse
		wg     sync.WaitGroup
		mu     sync.Mutex
		reqErr error
	)
	record := func(err error) {
		mu.Lock()
		if reqErr == nil && err != nil {
			reqErr = err
			cancel()
		}
		mu.Unlock()
	}

	analytics := h.router.Analytics()

	wg.Add(3)
	go func() {
		defer wg.Done()
		counts, err := analytics.LeadsByStatus(ctx)
		if err != nil {
			record(err)
			return
		}
		resp.LeadsByStatus = counts
	}()
	go func() {
		defer wg.Done()
		summaries, err := analytics.OpportunitiesByStage(ctx)
		if err != nil {
			record(err)
			return
		}
		resp.OpportunitiesByStage = summaries
	}()
	go func() {
		defer wg.Done()
		revenue, err := analytics.TotalRevenue(ctx)
		if err != nil {
			record(err)
			return
		}
		resp.Revenue = revenue
	}()
	wg.Wait()

	if reqErr != nil {
		writeStoreError(w, reqErr)
		return
	}
	WriteSuccess(w, resp, nil)
}
