// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pipecrm/pipecrm-go/internal/metrics"
)

// Router presents an ordered chain of backends as a single store. Every
// operation walks the chain in priority order, skips backends marked
// unavailable, returns the first success, and demotes a backend on failure.
// With auto-fallback disabled, the first failure propagates immediately.
type Router struct {
	stores       []Store
	health       *Health
	autoFallback bool
	logger       *slog.Logger
}

// RouterOptions configures a Router.
type RouterOptions struct {
	// AutoFallback enables trying subsequent backends after a failure.
	AutoFallback bool

	// Health tracks backend availability; a fresh tracker is created when nil.
	Health *Health

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewRouter creates a router over stores in priority order.
func NewRouter(stores []Store, opts RouterOptions) *Router {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Health == nil {
		opts.Health = NewHealth(opts.Logger)
	}
	return &Router{
		stores:       stores,
		health:       opts.Health,
		autoFallback: opts.AutoFallback,
		logger:       opts.Logger,
	}
}

// Initialize probes every backend once and records availability. A backend
// that fails its probe starts the process demoted.
func (r *Router) Initialize(ctx context.Context) {
	r.health.Probe(ctx, r.stores)
}

// Reprobe re-checks every backend, including previously demoted ones.
func (r *Router) Reprobe(ctx context.Context) {
	r.health.Probe(ctx, r.stores)
}

// Health returns the router's availability tracker.
func (r *Router) Health() *Health {
	return r.health
}

// Backends returns the backend names in priority order.
func (r *Router) Backends() []string {
	names := make([]string, len(r.stores))
	for i, s := range r.stores {
		names[i] = s.Name()
	}
	return names
}

// Close closes every backend, returning the first error encountered.
func (r *Router) Close() error {
	var firstErr error
	for _, s := range r.stores {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// route walks the backend chain for one operation. fn runs the operation
// against a single backend.
func route[T any](r *Router, op string, fn func(s Store) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for _, s := range r.stores {
		if !r.health.Available(s.Name()) {
			continue
		}
		out, err := fn(s)
		if err == nil {
			return out, nil
		}
		if isDomainError(err) {
			return zero, err
		}
		lastErr = err
		r.logger.Error("storage operation failed",
			"backend", s.Name(),
			"op", op,
			"error", err,
		)
		r.health.MarkUnavailable(s.Name())
		metrics.RecordBackendFailure(s.Name())
		if !r.autoFallback {
			return zero, err
		}
		metrics.RecordFallback(s.Name())
	}
	if lastErr != nil {
		return zero, fmt.Errorf("%w: %w", ErrAllBackendsFailed, lastErr)
	}
	return zero, ErrAllBackendsFailed
}

// Users returns the routed user store.
func (r *Router) Users() UserStore { return routerUsers{r} }

// Leads returns the routed lead store.
func (r *Router) Leads() LeadStore { return routerLeads{r} }

// Opportunities returns the routed opportunity store.
func (r *Router) Opportunities() OpportunityStore { return routerOpportunities{r} }

// Staff returns the routed staff store.
func (r *Router) Staff() StaffStore { return routerStaff{r} }

// Analytics returns the routed analytics store.
func (r *Router) Analytics() AnalyticsStore { return routerAnalytics{r} }
