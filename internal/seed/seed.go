// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seed loads demo CRM records through the storage router so that a
// fresh deployment has something to show on the dashboard.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pipecrm/pipecrm-go/internal/model"
	"github.com/pipecrm/pipecrm-go/internal/storage"
)

// Demo account emails. Seeding is skipped when the admin already exists.
const (
	DemoAdminEmail   = "admin@pipecrm.test"
	DemoManagerEmail = "manager@pipecrm.test"
)

// Run creates the demo dataset if it is not already present. Records go
// through the router, so they land on the highest-priority healthy backend.
func Run(ctx context.Context, router *storage.Router, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	existing, err := router.Users().FindByEmail(ctx, DemoAdminEmail)
	if err != nil {
		return fmt.Errorf("checking for existing seed data: %w", err)
	}
	if existing != nil {
		logger.Info("demo records already exist, skipping seed")
		return nil
	}

	logger.Info("seeding demo records")

	admin, err := router.Users().Create(ctx, model.User{
		Email: DemoAdminEmail,
		Name:  "Demo Admin",
		Role:  model.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}
	manager, err := router.Users().Create(ctx, model.User{
		Email: DemoManagerEmail,
		Name:  "Demo Manager",
		Role:  model.RoleManager,
	})
	if err != nil {
		return fmt.Errorf("seeding manager user: %w", err)
	}

	leads := []model.Lead{
		{Name: "Acme Corp", Email: "contact@acme.test", Company: "Acme", Status: model.LeadQualified, AssignedTo: manager.ID},
		{Name: "Globex", Email: "hello@globex.test", Company: "Globex", Status: model.LeadNew},
		{Name: "Initech", Email: "sales@initech.test", Company: "Initech", Status: model.LeadProposal, AssignedTo: admin.ID},
		{Name: "Umbrella Ltd", Email: "info@umbrella.test", Company: "Umbrella", Status: model.LeadClosedWon, AssignedTo: manager.ID},
	}
	leadIDs := make([]string, 0, len(leads))
	for _, l := range leads {
		created, err := router.Leads().Create(ctx, l)
		if err != nil {
			return fmt.Errorf("seeding lead %q: %w", l.Name, err)
		}
		leadIDs = append(leadIDs, created.ID)
	}

	opportunities := []model.Opportunity{
		{Title: "Acme pilot", Amount: 12000, Stage: model.StageProposal, LeadID: leadIDs[0], AssignedTo: manager.ID},
		{Title: "Globex discovery", Amount: 4500, Stage: model.StageProspect, LeadID: leadIDs[1]},
		{Title: "Initech rollout", Amount: 38000, Stage: model.StageNegotiation, LeadID: leadIDs[2], AssignedTo: admin.ID},
		{Title: "Umbrella renewal", Amount: 21000, Stage: model.StageClosedWon, LeadID: leadIDs[3], AssignedTo: manager.ID},
	}
	for _, o := range opportunities {
		if _, err := router.Opportunities().Create(ctx, o); err != nil {
			return fmt.Errorf("seeding opportunity %q: %w", o.Title, err)
		}
	}

	staff := []model.Staff{
		{Email: "sales.lead@pipecrm.test", Name: "Sam Seller", Role: "Sales Lead", Department: "Sales"},
		{Email: "support@pipecrm.test", Name: "Casey Care", Role: "Support Engineer", Department: "Support", Status: model.StaffActive},
	}
	for _, s := range staff {
		if _, err := router.Staff().Create(ctx, s); err != nil {
			return fmt.Errorf("seeding staff %q: %w", s.Email, err)
		}
	}

	logger.Info("demo records seeded",
		"users", 2, "leads", len(leads),
		"opportunities", len(opportunities), "staff", len(staff))
	return nil
}
