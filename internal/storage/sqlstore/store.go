// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package sqlstore

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pipecrm/pipecrm-go/internal/model"
	"github.com/pipecrm/pipecrm-go/internal/storage"
)

// Store is the relational backend. It owns the database handle and applies
// the same create/update conventions as the other backends: generated UUIDs,
// UTC timestamps, default enum values, and validation before writes.
type Store struct {
	db      *sql.DB
	queries *Queries
	logger  *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// NewStore opens the database at path, runs migrations, and returns the
// relational backend.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	db, err := NewDB(path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, queries: New(db), logger: logger}, nil
}

// NewStoreWithDB wraps an already open and migrated database. Used by tests.
func NewStoreWithDB(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, queries: New(db), logger: logger}
}

// Name identifies the backend in logs, health state, and metrics.
func (s *Store) Name() string { return "sql" }

// Ping probes the backend with a trivial query.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	return s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

// Close closes the database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Users() storage.UserStore                { return users{s} }
func (s *Store) Leads() storage.LeadStore                { return leads{s} }
func (s *Store) Opportunities() storage.OpportunityStore { return opportunities{s} }
func (s *Store) Staff() storage.StaffStore               { return staff{s} }
func (s *Store) Analytics() storage.AnalyticsStore       { return analytics{s} }

// users implements storage.UserStore on SQL.
type users struct{ s *Store }

func (u users) FindMany(ctx context.Context) ([]model.User, error) {
	return u.s.queries.ListUsers(ctx)
}

func (u users) FindByID(ctx context.Context, id string) (*model.User, error) {
	return u.s.queries.GetUser(ctx, id)
}

func (u users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.s.queries.GetUserByEmail(ctx, email)
}

func (u users) Create(ctx context.Context, rec model.User) (*model.User, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()
	rec.UpdatedAt = nil
	if rec.Role == "" {
		rec.Role = model.RoleUser
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := u.s.queries.InsertUser(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (u users) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	rec, err := u.s.queries.GetUser(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	patch.Apply(rec)
	now := time.Now().UTC()
	rec.UpdatedAt = &now
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := u.s.queries.UpdateUser(ctx, *rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (u users) Delete(ctx context.Context, id string) (bool, error) {
	return u.s.queries.DeleteUser(ctx, id)
}

// leads implements storage.LeadStore on SQL.
type leads struct{ s *Store }

func (l leads) FindMany(ctx context.Context) ([]model.Lead, error) {
	return l.s.queries.ListLeads(ctx)
}

func (l leads) FindByID(ctx context.Context, id string) (*model.Lead, error) {
	return l.s.queries.GetLead(ctx, id)
}

func (l leads) Create(ctx context.Context, rec model.Lead) (*model.Lead, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()
	rec.UpdatedAt = nil
	if rec.Status == "" {
		rec.Status = model.LeadNew
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := l.s.queries.InsertLead(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (l leads) Update(ctx context.Context, id string, patch model.LeadPatch) (*model.Lead, error) {
	rec, err := l.s.queries.GetLead(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	patch.Apply(rec)
	now := time.Now().UTC()
	rec.UpdatedAt = &now
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := l.s.queries.UpdateLead(ctx, *rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (l leads) Delete(ctx context.Context, id string) (bool, error) {
	return l.s.queries.DeleteLead(ctx, id)
}

// opportunities implements storage.OpportunityStore on SQL.
type opportunities struct{ s *Store }

func (o opportunities) FindMany(ctx context.Context) ([]model.Opportunity, error) {
	return o.s.queries.ListOpportunities(ctx)
}

func (o opportunities) FindByID(ctx context.Context, id string) (*model.Opportunity, error) {
	return o.s.queries.GetOpportunity(ctx, id)
}

func (o opportunities) FindByLead(ctx context.Context, leadID string) ([]model.Opportunity, error) {
	return o.s.queries.ListOpportunitiesByLead(ctx, leadID)
}

func (o opportunities) Create(ctx context.Context, rec model.Opportunity) (*model.Opportunity, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()
	rec.UpdatedAt = nil
	if rec.Stage == "" {
		rec.Stage = model.StageProspect
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := o.s.queries.InsertOpportunity(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (o opportunities) Update(ctx context.Context, id string, patch model.OpportunityPatch) (*model.Opportunity, error) {
	rec, err := o.s.queries.GetOpportunity(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	patch.Apply(rec)
	now := time.Now().UTC()
	rec.UpdatedAt = &now
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := o.s.queries.UpdateOpportunity(ctx, *rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (o opportunities) Delete(ctx context.Context, id string) (bool, error) {
	return o.s.queries.DeleteOpportunity(ctx, id)
}

// staff implements storage.StaffStore on SQL.
type staff struct{ s *Store }

func (st staff) FindMany(ctx context.Context) ([]model.Staff, error) {
	return st.s.queries.ListStaff(ctx)
}

func (st staff) FindByID(ctx context.Context, id string) (*model.Staff, error) {
	return st.s.queries.GetStaff(ctx, id)
}

func (st staff) FindByEmail(ctx context.Context, email string) (*model.Staff, error) {
	return st.s.queries.GetStaffByEmail(ctx, email)
}

func (st staff) Create(ctx context.Context, rec model.Staff) (*model.Staff, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()
	rec.UpdatedAt = nil
	if rec.Status == "" {
		rec.Status = model.StaffActive
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := st.s.queries.InsertStaff(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (st staff) Update(ctx context.Context, id string, patch model.StaffPatch) (*model.Staff, error) {
	rec, err := st.s.queries.GetStaff(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	patch.Apply(rec)
	now := time.Now().UTC()
	rec.UpdatedAt = &now
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := st.s.queries.UpdateStaff(ctx, *rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (st staff) Delete(ctx context.Context, id string) (bool, error) {
	return st.s.queries.DeleteStaff(ctx, id)
}

// analytics delegates the dashboard aggregations to SQL GROUP BY queries,
// then orders the rows the same way the scanning backends do.
type analytics struct{ s *Store }

func (a analytics) LeadsByStatus(ctx context.Context) ([]model.LeadStatusCount, error) {
	counts, err := a.s.queries.CountLeadsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return storage.SortLeadCounts(counts), nil
}

func (a analytics) OpportunitiesByStage(ctx context.Context) ([]model.StageSummary, error) {
	counts, totals, err := a.s.queries.SummarizeOpportunitiesByStage(ctx)
	if err != nil {
		return nil, err
	}
	return storage.SortStageSummaries(counts, totals), nil
}

func (a analytics) TotalRevenue(ctx context.Context) (model.RevenueSummary, error) {
	total, err := a.s.queries.SumClosedWonRevenue(ctx)
	if err != nil {
		return model.RevenueSummary{}, err
	}
	return model.RevenueSummary{Total: total}, nil
}
