// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"

	"github.com/pipecrm/pipecrm-go/internal/model"
)

// Per-kind views delegating every operation through route.

type routerUsers struct{ r *Router }

func (v routerUsers) FindMany(ctx context.Context) ([]model.User, error) {
	return route(v.r, "users.find_many", func(s Store) ([]model.User, error) {
		return s.Users().FindMany(ctx)
	})
}

func (v routerUsers) FindByID(ctx context.Context, id string) (*model.User, error) {
	return route(v.r, "users.find_by_id", func(s Store) (*model.User, error) {
		return s.Users().FindByID(ctx, id)
	})
}

func (v routerUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return route(v.r, "users.find_by_email", func(s Store) (*model.User, error) {
		return s.Users().FindByEmail(ctx, email)
	})
}

func (v routerUsers) Create(ctx context.Context, u model.User) (*model.User, error) {
	return route(v.r, "users.create", func(s Store) (*model.User, error) {
		return s.Users().Create(ctx, u)
	})
}

func (v routerUsers) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	return route(v.r, "users.update", func(s Store) (*model.User, error) {
		return s.Users().Update(ctx, id, patch)
	})
}

func (v routerUsers) Delete(ctx context.Context, id string) (bool, error) {
	return route(v.r, "users.delete", func(s Store) (bool, error) {
		return s.Users().Delete(ctx, id)
	})
}

type routerLeads struct{ r *Router }

func (v routerLeads) FindMany(ctx context.Context) ([]model.Lead, error) {
	return route(v.r, "leads.find_many", func(s Store) ([]model.Lead, error) {
		return s.Leads().FindMany(ctx)
	})
}

func (v routerLeads) FindByID(ctx context.Context, id string) (*model.Lead, error) {
	return route(v.r, "leads.find_by_id", func(s Store) (*model.Lead, error) {
		return s.Leads().FindByID(ctx, id)
	})
}

func (v routerLeads) Create(ctx context.Context, l model.Lead) (*model.Lead, error) {
	return route(v.r, "leads.create", func(s Store) (*model.Lead, error) {
		return s.Leads().Create(ctx, l)
	})
}

func (v routerLeads) Update(ctx context.Context, id string, patch model.LeadPatch) (*model.Lead, error) {
	return route(v.r, "leads.update", func(s Store) (*model.Lead, error) {
		return s.Leads().Update(ctx, id, patch)
	})
}

func (v routerLeads) Delete(ctx context.Context, id string) (bool, error) {
	return route(v.r, "leads.delete", func(s Store) (bool, error) {
		return s.Leads().Delete(ctx, id)
	})
}

type routerOpportunities struct{ r *Router }

func (v routerOpportunities) FindMany(ctx context.Context) ([]model.Opportunity, error) {
	return route(v.r, "opportunities.find_many", func(s Store) ([]model.Opportunity, error) {
		return s.Opportunities().FindMany(ctx)
	})
}

func (v routerOpportunities) FindByID(ctx context.Context, id string) (*model.Opportunity, error) {
	return route(v.r, "opportunities.find_by_id", func(s Store) (*model.Opportunity, error) {
		return s.Opportunities().FindByID(ctx, id)
	})
}

func (v routerOpportunities) FindByLead(ctx context.Context, leadID string) ([]model.Opportunity, error) {
	return route(v.r, "opportunities.find_by_lead", func(s Store) ([]model.Opportunity, error) {
		return s.Opportunities().FindByLead(ctx, leadID)
	})
}

func (v routerOpportunities) Create(ctx context.Context, o model.Opportunity) (*model.Opportunity, error) {
	return route(v.r, "opportunities.create", func(s Store) (*model.Opportunity, error) {
		return s.Opportunities().Create(ctx, o)
	})
}

func (v routerOpportunities) Update(ctx context.Context, id string, patch model.OpportunityPatch) (*model.Opportunity, error) {
	return route(v.r, "opportunities.update", func(s Store) (*model.Opportunity, error) {
		return s.Opportunities().Update(ctx, id, patch)
	})
}

func (v routerOpportunities) Delete(ctx context.Context, id string) (bool, error) {
	return route(v.r, "opportunities.delete", func(s Store) (bool, error) {
		return s.Opportunities().Delete(ctx, id)
	})
}

type routerStaff struct{ r *Router }

func (v routerStaff) FindMany(ctx context.Context) ([]model.Staff, error) {
	return route(v.r, "staff.find_many", func(s Store) ([]model.Staff, error) {
		return s.Staff().FindMany(ctx)
	})
}

func (v routerStaff) FindByID(ctx context.Context, id string) (*model.Staff, error) {
	return route(v.r, "staff.find_by_id", func(s Store) (*model.Staff, error) {
		return s.Staff().FindByID(ctx, id)
	})
}

func (v routerStaff) FindByEmail(ctx context.Context, email string) (*model.Staff, error) {
	return route(v.r, "staff.find_by_email", func(s Store) (*model.Staff, error) {
		return s.Staff().FindByEmail(ctx, email)
	})
}

func (v routerStaff) Create(ctx context.Context, st model.Staff) (*model.Staff, error) {
	return route(v.r, "staff.create", func(s Store) (*model.Staff, error) {
		return s.Staff().Create(ctx, st)
	})
}

func (v routerStaff) Update(ctx context.Context, id string, patch model.StaffPatch) (*model.Staff, error) {
	return route(v.r, "staff.update", func(s Store) (*model.Staff, error) {
		return s.Staff().Update(ctx, id, patch)
	})
}

func (v routerStaff) Delete(ctx context.Context, id string) (bool, error) {
	return route(v.r, "staff.delete", func(s Store) (bool, error) {
		return s.Staff().Delete(ctx, id)
	})
}

type routerAnalytics struct{ r *Router }

func (v routerAnalytics) LeadsByStatus(ctx context.Context) ([]model.LeadStatusCount, error) {
	return route(v.r, "analytics.leads_by_status", func(s Store) ([]model.LeadStatusCount, error) {
		return s.Analytics().LeadsByStatus(ctx)
	})
}

func (v routerAnalytics) OpportunitiesByStage(ctx context.Context) ([]model.StageSummary, error) {
	return route(v.r, "analytics.opportunities_by_stage", func(s Store) ([]model.StageSummary, error) {
		return s.Analytics().OpportunitiesByStage(ctx)
	})
}

func (v routerAnalytics) TotalRevenue(ctx context.Context) (model.RevenueSummary, error) {
	return route(v.r, "analytics.total_revenue", func(s Store) (model.RevenueSummary, error) {
		return s.Analytics().TotalRevenue(ctx)
	})
}
