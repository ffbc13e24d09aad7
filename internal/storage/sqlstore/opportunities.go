// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pipecrm/pipecrm-go/internal/model"
)

const opportunityColumns = "id, title, amount, stage, lead_id, assigned_to, created_at, updated_at"

func scanOpportunity(row rowScanner) (*model.Opportunity, error) {
	var o model.Opportunity
	var updated sql.NullTime
	if err := row.Scan(&o.ID, &o.Title, &o.Amount, &o.Stage, &o.LeadID,
		&o.AssignedTo, &o.CreatedAt, &updated); err != nil {
		return nil, err
	}
	o.UpdatedAt = timePtr(updated)
	return &o, nil
}

// ListOpportunities returns all opportunities ordered by creation time.
func (q *Queries) ListOpportunities(ctx context.Context) ([]model.Opportunity, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT "+opportunityColumns+" FROM opportunities ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOpportunities(rows)
}

// ListOpportunitiesByLead returns the opportunities referencing a lead.
func (q *Queries) ListOpportunitiesByLead(ctx context.Context, leadID string) ([]model.Opportunity, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+opportunityColumns+" FROM opportunities WHERE lead_id = ? ORDER BY created_at", leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOpportunities(rows)
}

func collectOpportunities(rows *sql.Rows) ([]model.Opportunity, error) {
	var out []model.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// GetOpportunity returns an opportunity by ID, or nil when absent.
func (q *Queries) GetOpportunity(ctx context.Context, id string) (*model.Opportunity, error) {
	o, err := scanOpportunity(q.db.QueryRowContext(ctx,
		"SELECT "+opportunityColumns+" FROM opportunities WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

// InsertOpportunity inserts a fully populated opportunity record.
func (q *Queries) InsertOpportunity(ctx context.Context, o model.Opportunity) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO opportunities (id, title, amount, stage, lead_id, assigned_to, created_at, updated_at) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		o.ID, o.Title, o.Amount, o.Stage, o.LeadID, o.AssignedTo, o.CreatedAt, nullTime(o.UpdatedAt),
	)
	return err
}

// UpdateOpportunity overwrites every mutable column of an opportunity.
func (q *Queries) UpdateOpportunity(ctx context.Context, o model.Opportunity) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE opportunities SET title = ?, amount = ?, stage = ?, lead_id = ?, assigned_to = ?, updated_at = ? WHERE id = ?",
		o.Title, o.Amount, o.Stage, o.LeadID, o.AssignedTo, nullTime(o.UpdatedAt), o.ID,
	)
	return err
}

// DeleteOpportunity removes an opportunity, reporting whether a row existed.
func (q *Queries) DeleteOpportunity(ctx context.Context, id string) (bool, error) {
	res, err := q.db.ExecContext(ctx, "DELETE FROM opportunities WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SummarizeOpportunitiesByStage groups opportunities by stage in SQL.
func (q *Queries) SummarizeOpportunitiesByStage(ctx context.Context) (map[model.OpportunityStage]int, map[model.OpportunityStage]float64, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT stage, COUNT(*), COALESCE(SUM(amount), 0) FROM opportunities GROUP BY stage")
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	counts := make(map[model.OpportunityStage]int)
	totals := make(map[model.OpportunityStage]float64)
	for rows.Next() {
		var stage model.OpportunityStage
		var n int
		var total float64
		if err := rows.Scan(&stage, &n, &total); err != nil {
			return nil, nil, err
		}
		counts[stage] = n
		totals[stage] = total
	}
	return counts, totals, rows.Err()
}

// SumClosedWonRevenue sums the amounts of all CLOSED_WON opportunities.
func (q *Queries) SumClosedWonRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := q.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM opportunities WHERE stage = ?",
		model.StageClosedWon,
	).Scan(&total)
	return total, err
}
