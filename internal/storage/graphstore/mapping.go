// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package graphstore

import (
	"time"

	"github.com/pipecrm/pipecrm-go/internal/model"
)

func strProp(props map[string]any, key string) string {
	v, _ := props[key].(string)
	return v
}

func floatProp(props map[string]any, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func timeProp(props map[string]any, key string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, strProp(props, key))
	return t
}

func timePtrProp(props map[string]any, key string) *time.Time {
	s, ok := props[key].(string)
	if !ok || s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}

func setTime(props map[string]any, key string, t time.Time) {
	props[key] = t.Format(time.RFC3339Nano)
}

func setTimePtr(props map[string]any, key string, t *time.Time) {
	if t == nil {
		return
	}
	props[key] = t.Format(time.RFC3339Nano)
}

func userProps(u model.User) map[string]any {
	props := map[string]any{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
		"role":  string(u.Role),
	}
	setTime(props, "created_at", u.CreatedAt)
	setTimePtr(props, "updated_at", u.UpdatedAt)
	return props
}

func userFromProps(props map[string]any) model.User {
	return model.User{
		ID:        strProp(props, "id"),
		Email:     strProp(props, "email"),
		Name:      strProp(props, "name"),
		Role:      model.UserRole(strProp(props, "role")),
		CreatedAt: timeProp(props, "created_at"),
		UpdatedAt: timePtrProp(props, "updated_at"),
	}
}

func leadProps(l model.Lead) map[string]any {
	props := map[string]any{
		"id":          l.ID,
		"name":        l.Name,
		"email":       l.Email,
		"phone":       l.Phone,
		"company":     l.Company,
		"status":      string(l.Status),
		"assigned_to": l.AssignedTo,
	}
	setTime(props, "created_at", l.CreatedAt)
	setTimePtr(props, "updated_at", l.UpdatedAt)
	return props
}

func leadFromProps(props map[string]any) model.Lead {
	return model.Lead{
		ID:         strProp(props, "id"),
		Name:       strProp(props, "name"),
		Email:      strProp(props, "email"),
		Phone:      strProp(props, "phone"),
		Company:    strProp(props, "company"),
		Status:     model.LeadStatus(strProp(props, "status")),
		AssignedTo: strProp(props, "assigned_to"),
		CreatedAt:  timeProp(props, "created_at"),
		UpdatedAt:  timePtrProp(props, "updated_at"),
	}
}

func opportunityProps(o model.Opportunity) map[string]any {
	props := map[string]any{
		"id":          o.ID,
		"title":       o.Title,
		"amount":      o.Amount,
		"stage":       string(o.Stage),
		"lead_id":     o.LeadID,
		"assigned_to": o.AssignedTo,
	}
	setTime(props, "created_at", o.CreatedAt)
	setTimePtr(props, "updated_at", o.UpdatedAt)
	return props
}

func opportunityFromProps(props map[string]any) model.Opportunity {
	return model.Opportunity{
		ID:         strProp(props, "id"),
		Title:      strProp(props, "title"),
		Amount:     floatProp(props, "amount"),
		Stage:      model.OpportunityStage(strProp(props, "stage")),
		LeadID:     strProp(props, "lead_id"),
		AssignedTo: strProp(props, "assigned_to"),
		CreatedAt:  timeProp(props, "created_at"),
		UpdatedAt:  timePtrProp(props, "updated_at"),
	}
}

func staffProps(s model.Staff) map[string]any {
	props := map[string]any{
		"id":         s.ID,
		"email":      s.Email,
		"name":       s.Name,
		"role":       s.Role,
		"department": s.Department,
		"phone":      s.Phone,
		"status":     string(s.Status),
	}
	setTime(props, "created_at", s.CreatedAt)
	setTimePtr(props, "updated_at", s.UpdatedAt)
	return props
}

func staffFromProps(props map[string]any) model.Staff {
	return model.Staff{
		ID:         strProp(props, "id"),
		Email:      strProp(props, "email"),
		Name:       strProp(props, "name"),
		Role:       strProp(props, "role"),
		Department: strProp(props, "department"),
		Phone:      strProp(props, "phone"),
		Status:     model.StaffStatus(strProp(props, "status")),
		CreatedAt:  timeProp(props, "created_at"),
		UpdatedAt:  timePtrProp(props, "updated_at"),
	}
}
