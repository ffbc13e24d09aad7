// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package graphstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pipecrm/pipecrm-go/internal/model"
)

// users implements storage.UserStore with User nodes.
type users struct{ s *Store }

func (u users) FindMany(ctx context.Context) ([]model.User, error) {
	out, err := u.s.readTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		all, err := collectProps(ctx, tx, "MATCH (n:User) RETURN n ORDER BY n.created_at", nil)
		if err != nil {
			return nil, err
		}
		recs := make([]model.User, 0, len(all))
		for _, props := range all {
			recs = append(recs, userFromProps(props))
		}
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]model.User), nil
}

func (u users) FindByID(ctx context.Context, id string) (*model.User, error) {
	return u.findOne(ctx, "MATCH (n:User {id: $v}) RETURN n", id)
}

func (u users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.findOne(ctx, "MATCH (n:User {email: $v}) RETURN n LIMIT 1", email)
}

func (u users) findOne(ctx context.Context, query, value string) (*model.User, error) {
	out, err := u.s.readTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return singleProps(ctx, tx, query, map[string]any{"v": value})
	})
	if err != nil {
		return nil, err
	}
	props, _ := out.(map[string]any)
	if props == nil {
		return nil, nil
	}
	rec := userFromProps(props)
	return &rec, nil
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
	_, err := u.s.writeTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "CREATE (n:User) SET n = $props", map[string]any{"props": userProps(rec)})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (u users) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	rec, err := u.FindByID(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	patch.Apply(rec)
	now := time.Now().UTC()
	rec.UpdatedAt = &now
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	_, err = u.s.writeTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "MATCH (n:User {id: $id}) SET n = $props",
			map[string]any{"id": id, "props": userProps(*rec)})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (u users) Delete(ctx context.Context, id string) (bool, error) {
	out, err := u.s.writeTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return deleteNode(ctx, tx, "User", id)
	})
	if err != nil {
		return false, err
	}
	return out.(bool), nil
}

// leads implements storage.LeadStore with Lead nodes.
type leads struct{ s *Store }

func (l leads) FindMany(ctx context.Context) ([]model.Lead, error) {
	out, err := l.s.readTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		all, err := collectProps(ctx, tx, "MATCH (n:Lead) RETURN n ORDER BY n.created_at", nil)
		if err != nil {
			return nil, err
		}
		recs := make([]model.Lead, 0, len(all))
		for _, props := range all {
			recs = append(recs, leadFromProps(props))
		}
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]model.Lead), nil
}

func (l leads) FindByID(ctx context.Context, id string) (*model.Lead, error) {
	out, err := l.s.readTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return singleProps(ctx, tx, "MATCH (n:Lead {id: $v}) RETURN n", map[string]any{"v": id})
	})
	if err != nil {
		return nil, err
	}
	props, _ := out.(map[string]any)
	if props == nil {
		return nil, nil
	}
	rec := leadFromProps(props)
	return &rec, nil
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
	_, err := l.s.writeTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "CREATE (n:Lead) SET n = $props", map[string]any{"props": leadProps(rec)})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (l leads) Update(ctx context.Context, id string, patch model.LeadPatch) (*model.Lead, error) {
	rec, err := l.FindByID(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	patch.Apply(rec)
	now := time.Now().UTC()
	rec.UpdatedAt = &now
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	_, err = l.s.writeTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "MATCH (n:Lead {id: $id}) SET n = $props",
			map[string]any{"id": id, "props": leadProps(*rec)})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (l leads) Delete(ctx context.Context, id string) (bool, error) {
	out, err := l.s.writeTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return deleteNode(ctx, tx, "Lead", id)
	})
	if err != nil {
		return false, err
	}
	return out.(bool), nil
}

// opportunities implements storage.OpportunityStore with Opportunity nodes.
type opportunities struct{ s *Store }

func (o opportunities) FindMany(ctx context.Context) ([]model.Opportunity, error) {
	return o.findAll(ctx, "MATCH (n:Opportunity) RETURN n ORDER BY n.created_at", nil)
}

func (o opportunities) FindByLead(ctx context.Context, leadID string) ([]model.Opportunity, error) {
	return o.findAll(ctx, "MATCH (n:Opportunity {lead_id: $lead_id}) RETURN n ORDER BY n.created_at",
		map[string]any{"lead_id": leadID})
}

func (o opportunities) findAll(ctx context.Context, query string, params map[string]any) ([]model.Opportunity, error) {
	out, err := o.s.readTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		all, err := collectProps(ctx, tx, query, params)
		if err != nil {
			return nil, err
		}
		recs := make([]model.Opportunity, 0, len(all))
		for _, props := range all {
			recs = append(recs, opportunityFromProps(props))
		}
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]model.Opportunity), nil
}

func (o opportunities) FindByID(ctx context.Context, id string) (*model.Opportunity, error) {
	out, err := o.s.readTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return singleProps(ctx, tx, "MATCH (n:Opportunity {id: $v}) RETURN n", map[string]any{"v": id})
	})
	if err != nil {
		return nil, err
	}
	props, _ := out.(map[string]any)
	if props == nil {
		return nil, nil
	}
	rec := opportunityFromProps(props)
	return &rec, nil
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
	_, err := o.s.writeTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "CREATE (n:Opportunity) SET n = $props",
			map[string]any{"props": opportunityProps(rec)})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (o opportunities) Update(ctx context.Context, id string, patch model.OpportunityPatch) (*model.Opportunity, error) {
	rec, err := o.FindByID(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	patch.Apply(rec)
	now := time.Now().UTC()
	rec.UpdatedAt = &now
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	_, err = o.s.writeTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "MATCH (n:Opportunity {id: $id}) SET n = $props",
			map[string]any{"id": id, "props": opportunityProps(*rec)})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (o opportunities) Delete(ctx context.Context, id string) (bool, error) {
	out, err := o.s.writeTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return deleteNode(ctx, tx, "Opportunity", id)
	})
	if err != nil {
		return false, err
	}
	return out.(bool), nil
}

// staff implements storage.StaffStore with Staff nodes.
type staff struct{ s *Store }

func (st staff) FindMany(ctx context.Context) ([]model.Staff, error) {
	out, err := st.s.readTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		all, err := collectProps(ctx, tx, "MATCH (n:Staff) RETURN n ORDER BY n.created_at", nil)
		if err != nil {
			return nil, err
		}
		recs := make([]model.Staff, 0, len(all))
		for _, props := range all {
			recs = append(recs, staffFromProps(props))
		}
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]model.Staff), nil
}

func (st staff) FindByID(ctx context.Context, id string) (*model.Staff, error) {
	return st.findOne(ctx, "MATCH (n:Staff {id: $v}) RETURN n", id)
}

func (st staff) FindByEmail(ctx context.Context, email string) (*model.Staff, error) {
	return st.findOne(ctx, "MATCH (n:Staff {email: $v}) RETURN n LIMIT 1", email)
}

func (st staff) findOne(ctx context.Context, query, value string) (*model.Staff, error) {
	out, err := st.s.readTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return singleProps(ctx, tx, query, map[string]any{"v": value})
	})
	if err != nil {
		return nil, err
	}
	props, _ := out.(map[string]any)
	if props == nil {
		return nil, nil
	}
	rec := staffFromProps(props)
	return &rec, nil
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
	_, err := st.s.writeTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "CREATE (n:Staff) SET n = $props", map[string]any{"props": staffProps(rec)})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (st staff) Update(ctx context.Context, id string, patch model.StaffPatch) (*model.Staff, error) {
	rec, err := st.FindByID(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	patch.Apply(rec)
	now := time.Now().UTC()
	rec.UpdatedAt = &now
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	_, err = st.s.writeTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "MATCH (n:Staff {id: $id}) SET n = $props",
			map[string]any{"id": id, "props": staffProps(*rec)})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (st staff) Delete(ctx context.Context, id string) (bool, error) {
	out, err := st.s.writeTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return deleteNode(ctx, tx, "Staff", id)
	})
	if err != nil {
		return false, err
	}
	return out.(bool), nil
}
