// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pipecrm/pipecrm-go/internal/model"
)

const userColumns = "id, email, name, role, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	var updated sql.NullTime
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &updated); err != nil {
		return nil, err
	}
	u.UpdatedAt = timePtr(updated)
	return &u, nil
}

// ListUsers returns all users ordered by creation time.
func (q *Queries) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// GetUser returns a user by ID, or nil when absent.
func (q *Queries) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// GetUserByEmail returns the user with an exact email match, or nil.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// InsertUser inserts a fully populated user record.
func (q *Queries) InsertUser(ctx context.Context, u model.User) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO users (id, email, name, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		u.ID, u.Email, u.Name, u.Role, u.CreatedAt, nullTime(u.UpdatedAt),
	)
	return mapUniqueViolation(err)
}

// UpdateUser overwrites every mutable column of a user record.
func (q *Queries) UpdateUser(ctx context.Context, u model.User) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE users SET email = ?, name = ?, role = ?, updated_at = ? WHERE id = ?",
		u.Email, u.Name, u.Role, nullTime(u.UpdatedAt), u.ID,
	)
	return mapUniqueViolation(err)
}

// DeleteUser removes a user, reporting whether a row existed.
func (q *Queries) DeleteUser(ctx context.Context, id string) (bool, error) {
	res, err := q.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
