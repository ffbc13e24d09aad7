// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage defines the record store interface implemented by every
// backend (blob, relational, graph) and the router that presents the ordered
// backend chain as a single store with automatic fallback.
package storage

import (
	"context"

	"github.com/pipecrm/pipecrm-go/internal/model"
)

// Store is one storage backend exposing CRUD for every record kind plus the
// dashboard aggregations. A nil record with a nil error means "not found";
// errors are reserved for backend failures.
type Store interface {
	// Name identifies the backend ("blob", "sql", "graph") in logs,
	// health state, and metrics.
	Name() string

	// Ping issues one cheap read to probe backend availability.
	Ping(ctx context.Context) error

	Users() UserStore
	Leads() LeadStore
	Opportunities() OpportunityStore
	Staff() StaffStore
	Analytics() AnalyticsStore

	// Close releases backend resources.
	Close() error
}

// UserStore is the per-backend CRUD surface for users.
type UserStore interface {
	FindMany(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u model.User) (*model.User, error)
	Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// LeadStore is the per-backend CRUD surface for leads.
type LeadStore interface {
	FindMany(ctx context.Context) ([]model.Lead, error)
	FindByID(ctx context.Context, id string) (*model.Lead, error)
	Create(ctx context.Context, l model.Lead) (*model.Lead, error)
	Update(ctx context.Context, id string, patch model.LeadPatch) (*model.Lead, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// OpportunityStore is the per-backend CRUD surface for opportunities.
type OpportunityStore interface {
	FindMany(ctx context.Context) ([]model.Opportunity, error)
	FindByID(ctx context.Context, id string) (*model.Opportunity, error)
	FindByLead(ctx context.Context, leadID string) ([]model.Opportunity, error)
	Create(ctx context.Context, o model.Opportunity) (*model.Opportunity, error)
	Update(ctx context.Context, id string, patch model.OpportunityPatch) (*model.Opportunity, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// StaffStore is the per-backend CRUD surface for staff.
type StaffStore interface {
	FindMany(ctx context.Context) ([]model.Staff, error)
	FindByID(ctx context.Context, id string) (*model.Staff, error)
	FindByEmail(ctx context.Context, email string) (*model.Staff, error)
	Create(ctx context.Context, s model.Staff) (*model.Staff, error)
	Update(ctx context.Context, id string, patch model.StaffPatch) (*model.Staff, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AnalyticsStore computes the dashboard aggregations. Backends without
// native grouping compute them by scanning all records (see Aggregate*
// helpers); the relational backend delegates to SQL.
type AnalyticsStore interface {
	LeadsByStatus(ctx context.Context) ([]model.LeadStatusCount, error)
	OpportunitiesByStage(ctx context.Context) ([]model.StageSummary, error)
	TotalRevenue(ctx context.Context) (model.RevenueSummary, error)
}
