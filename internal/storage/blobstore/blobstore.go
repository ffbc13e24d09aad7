// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package blobstore implements the record store over the key/value blob
// primitive, using the chunked codec for persistence. Records are keyed
// <kind>_<uuid>; the codec's derived keys (metadata, chunks, compressed
// blobs) are filtered out of listings by naming convention.
package blobstore

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pipecrm/pipecrm-go/internal/blob"
	"github.com/pipecrm/pipecrm-go/internal/chunker"
	"github.com/pipecrm/pipecrm-go/internal/model"
	"github.com/pipecrm/pipecrm-go/internal/storage"
)

// Key prefixes per record kind.
const (
	userPrefix        = "user_"
	leadPrefix        = "lead_"
	opportunityPrefix = "opportunity_"
	staffPrefix       = "staff_"
)

// Store is the blob-backed record store.
type Store struct {
	blobs  blob.Store
	codec  *chunker.Codec
	logger *slog.Logger
}

// New creates a blob-backed record store.
func New(blobs blob.Store, codec *chunker.Codec, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{blobs: blobs, codec: codec, logger: logger}
}

// Name implements storage.Store.
func (s *Store) Name() string { return "blob" }

// Ping probes the backend with a single listing.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.blobs.List(ctx)
	return err
}

// Close closes the underlying blob store.
func (s *Store) Close() error { return s.blobs.Close() }

// Users implements storage.Store.
func (s *Store) Users() storage.UserStore { return users{s} }

// Leads implements storage.Store.
func (s *Store) Leads() storage.LeadStore { return leads{s} }

// Opportunities implements storage.Store.
func (s *Store) Opportunities() storage.OpportunityStore { return opportunities{s} }

// Staff implements storage.Store.
func (s *Store) Staff() storage.StaffStore { return staff{s} }

// Analytics aggregates by scanning; the blob backend has no native grouping.
func (s *Store) Analytics() storage.AnalyticsStore {
	return storage.NewScanAnalytics(s.Leads(), s.Opportunities())
}

// findMany lists all primary keys of a kind, loads each record, and skips
// (with a log line) records that cannot be read or parsed. Listing order is
// whatever the backend returns; it is not guaranteed stable.
func findMany[T any](ctx context.Context, s *Store, prefix string) ([]T, error) {
	keys, err := s.blobs.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []T
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) || chunker.IsDerivedKey(k) {
			continue
		}
		var rec T
		found, err := s.codec.Load(ctx, k, &rec)
		if err != nil {
			s.logger.Warn("skipping unreadable record", "key", k, "error", err)
			continue
		}
		if found {
			out = append(out, rec)
		}
	}
	return out, nil
}

// findByID loads a single record, returning nil without error when absent.
func findByID[T any](ctx context.Context, s *Store, prefix, id string) (*T, error) {
	var rec T
	found, err := s.codec.Load(ctx, prefix+id, &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &rec, nil
}

type users struct{ s *Store }

func (v users) FindMany(ctx context.Context) ([]model.User, error) {
	return findMany[model.User](ctx, v.s, userPrefix)
}

func (v users) FindByID(ctx context.Context, id string) (*model.User, error) {
	return findByID[model.User](ctx, v.s, userPrefix, id)
}

// FindByEmail scans all users and returns the first exact (case-sensitive)
// match in listing order. O(n), acceptable at expected record counts.
func (v users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	all, err := v.FindMany(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Email == email {
			return &all[i], nil
		}
	}
	return nil, nil
}

func (v users) Create(ctx context.Context, u model.User) (*model.User, error) {
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = nil
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := v.s.codec.Store(ctx, userPrefix+u.ID, u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (v users) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	existing, err := v.FindByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}
	patch.Apply(existing)
	now := time.Now().UTC()
	existing.UpdatedAt = &now
	if err := existing.Validate(); err != nil {
		return nil, err
	}
	if err := v.s.codec.Store(ctx, userPrefix+id, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (v users) Delete(ctx context.Context, id string) (bool, error) {
	return v.s.codec.Delete(ctx, userPrefix+id), nil
}

type leads struct{ s *Store }

func (v leads) FindMany(ctx context.Context) ([]model.Lead, error) {
	return findMany[model.Lead](ctx, v.s, leadPrefix)
}

func (v leads) FindByID(ctx context.Context, id string) (*model.Lead, error) {
	return findByID[model.Lead](ctx, v.s, leadPrefix, id)
}

func (v leads) Create(ctx context.Context, l model.Lead) (*model.Lead, error) {
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now().UTC()
	l.UpdatedAt = nil
	if l.Status == "" {
		l.Status = model.LeadNew
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if err := v.s.codec.Store(ctx, leadPrefix+l.ID, l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (v leads) Update(ctx context.Context, id string, patch model.LeadPatch) (*model.Lead, error) {
	existing, err := v.FindByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}
	patch.Apply(existing)
	now := time.Now().UTC()
	existing.UpdatedAt = &now
	if err := existing.Validate(); err != nil {
		return nil, err
	}
	if err := v.s.codec.Store(ctx, leadPrefix+id, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (v leads) Delete(ctx context.Context, id string) (bool, error) {
	return v.s.codec.Delete(ctx, leadPrefix+id), nil
}

type opportunities struct{ s *Store }

func (v opportunities) FindMany(ctx context.Context) ([]model.Opportunity, error) {
	return findMany[model.Opportunity](ctx, v.s, opportunityPrefix)
}

func (v opportunities) FindByID(ctx context.Context, id string) (*model.Opportunity, error) {
	return findByID[model.Opportunity](ctx, v.s, opportunityPrefix, id)
}

// FindByLead scans all opportunities and filters on LeadID.
func (v opportunities) FindByLead(ctx context.Context, leadID string) ([]model.Opportunity, error) {
	all, err := v.FindMany(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Opportunity
	for _, o := range all {
		if o.LeadID == leadID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (v opportunities) Create(ctx context.Context, o model.Opportunity) (*model.Opportunity, error) {
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = nil
	if o.Stage == "" {
		o.Stage = model.StageProspect
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := v.s.codec.Store(ctx, opportunityPrefix+o.ID, o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (v opportunities) Update(ctx context.Context, id string, patch model.OpportunityPatch) (*model.Opportunity, error) {
	existing, err := v.FindByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}
	patch.Apply(existing)
	now := time.Now().UTC()
	existing.UpdatedAt = &now
	if err := existing.Validate(); err != nil {
		return nil, err
	}
	if err := v.s.codec.Store(ctx, opportunityPrefix+id, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (v opportunities) Delete(ctx context.Context, id string) (bool, error) {
	return v.s.codec.Delete(ctx, opportunityPrefix+id), nil
}

type staff struct{ s *Store }

func (v staff) FindMany(ctx context.Context) ([]model.Staff, error) {
	return findMany[model.Staff](ctx, v.s, staffPrefix)
}

func (v staff) FindByID(ctx context.Context, id string) (*model.Staff, error) {
	return findByID[model.Staff](ctx, v.s, staffPrefix, id)
}

// FindByEmail scans all staff and returns the first exact (case-sensitive)
// match in listing order.
func (v staff) FindByEmail(ctx context.Context, email string) (*model.Staff, error) {
	all, err := v.FindMany(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Email == email {
			return &all[i], nil
		}
	}
	return nil, nil
}

func (v staff) Create(ctx context.Context, st model.Staff) (*model.Staff, error) {
	st.ID = uuid.NewString()
	st.CreatedAt = time.Now().UTC()
	st.UpdatedAt = nil
	if st.Status == "" {
		st.Status = model.StaffActive
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if err := v.s.codec.Store(ctx, staffPrefix+st.ID, st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (v staff) Update(ctx context.Context, id string, patch model.StaffPatch) (*model.Staff, error) {
	existing, err := v.FindByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}
	patch.Apply(existing)
	now := time.Now().UTC()
	existing.UpdatedAt = &now
	if err := existing.Validate(); err != nil {
		return nil, err
	}
	if err := v.s.codec.Store(ctx, staffPrefix+id, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (v staff) Delete(ctx context.Context, id string) (bool, error) {
	return v.s.codec.Delete(ctx, staffPrefix+id), nil
}
