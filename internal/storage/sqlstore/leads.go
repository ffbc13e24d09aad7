// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pipecrm/pipecrm-go/internal/model"
)

const leadColumns = "id, name, email, phone, company, status, assigned_to, created_at, updated_at"

func scanLead(row rowScanner) (*model.Lead, error) {
	var l model.Lead
	var updated sql.NullTime
	if err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Status,
		&l.AssignedTo, &l.CreatedAt, &updated); err != nil {
		return nil, err
	}
	l.UpdatedAt = timePtr(updated)
	return &l, nil
}

// ListLeads returns all leads ordered by creation time.
func (q *Queries) ListLeads(ctx context.Context) ([]model.Lead, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT "+leadColumns+" FROM leads ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// GetLead returns a lead by ID, or nil when absent.
func (q *Queries) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	l, err := scanLead(q.db.QueryRowContext(ctx, "SELECT "+leadColumns+" FROM leads WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

// InsertLead inserts a fully populated lead record.
func (q *Queries) InsertLead(ctx context.Context, l model.Lead) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO leads (id, name, email, phone, company, status, assigned_to, created_at, updated_at) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		l.ID, l.Name, l.Email, l.Phone, l.Company, l.Status, l.AssignedTo, l.CreatedAt, nullTime(l.UpdatedAt),
	)
	return err
}

// UpdateLead overwrites every mutable column of a lead record.
func (q *Queries) UpdateLead(ctx context.Context, l model.Lead) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE leads SET name = ?, email = ?, phone = ?, company = ?, status = ?, assigned_to = ?, updated_at = ? WHERE id = ?",
		l.Name, l.Email, l.Phone, l.Company, l.Status, l.AssignedTo, nullTime(l.UpdatedAt), l.ID,
	)
	return err
}

// DeleteLead removes a lead, reporting whether a row existed.
func (q *Queries) DeleteLead(ctx context.Context, id string) (bool, error) {
	res, err := q.db.ExecContext(ctx, "DELETE FROM leads WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CountLeadsByStatus groups leads by status in SQL.
func (q *Queries) CountLeadsByStatus(ctx context.Context) (map[model.LeadStatus]int, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM leads GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.LeadStatus]int)
	for rows.Next() {
		var status model.LeadStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
