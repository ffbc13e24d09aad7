// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pipecrm/pipecrm-go/internal/model"
)

const staffColumns = "id, email, name, role, department, phone, status, created_at, updated_at"

func scanStaff(row rowScanner) (*model.Staff, error) {
	var s model.Staff
	var updated sql.NullTime
	if err := row.Scan(&s.ID, &s.Email, &s.Name, &s.Role, &s.Department,
		&s.Phone, &s.Status, &s.CreatedAt, &updated); err != nil {
		return nil, err
	}
	s.UpdatedAt = timePtr(updated)
	return &s, nil
}

// ListStaff returns all staff members ordered by creation time.
func (q *Queries) ListStaff(ctx context.Context) ([]model.Staff, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT "+staffColumns+" FROM staff ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// GetStaff returns a staff member by ID, or nil when absent.
func (q *Queries) GetStaff(ctx context.Context, id string) (*model.Staff, error) {
	s, err := scanStaff(q.db.QueryRowContext(ctx, "SELECT "+staffColumns+" FROM staff WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// GetStaffByEmail returns the staff member with an exact email match, or nil.
func (q *Queries) GetStaffByEmail(ctx context.Context, email string) (*model.Staff, error) {
	s, err := scanStaff(q.db.QueryRowContext(ctx, "SELECT "+staffColumns+" FROM staff WHERE email = ?", email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// InsertStaff inserts a fully populated staff record.
func (q *Queries) InsertStaff(ctx context.Context, s model.Staff) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO staff (id, email, name, role, department, phone, status, created_at, updated_at) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.ID, s.Email, s.Name, s.Role, s.Department, s.Phone, s.Status, s.CreatedAt, nullTime(s.UpdatedAt),
	)
	return mapUniqueViolation(err)
}

// UpdateStaff overwrites every mutable column of a staff record.
func (q *Queries) UpdateStaff(ctx context.Context, s model.Staff) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE staff SET email = ?, name = ?, role = ?, department = ?, phone = ?, status = ?, updated_at = ? WHERE id = ?",
		s.Email, s.Name, s.Role, s.Department, s.Phone, s.Status, nullTime(s.UpdatedAt), s.ID,
	)
	return mapUniqueViolation(err)
}

// DeleteStaff removes a staff member, reporting whether a row existed.
func (q *Queries) DeleteStaff(ctx context.Context, id string) (bool, error) {
	res, err := q.db.ExecContext(ctx, "DELETE FROM staff WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
