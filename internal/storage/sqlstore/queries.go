// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package sqlstore

import (
	"database/sql"
	"strings"
	"time"

	"github.com/pipecrm/pipecrm-go/internal/storage"
)

// Queries holds the hand-written SQL for all record kinds.
type Queries struct {
	db *sql.DB
}

// New creates a Queries instance over an open database.
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// nullTime converts an optional timestamp for binding.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// timePtr converts a scanned nullable timestamp back to a pointer.
func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// mapUniqueViolation translates SQLite unique-index failures on email
// columns into the storage-level sentinel.
func mapUniqueViolation(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return storage.ErrDuplicateEmail
	}
	return err
}
