// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic health reprobe. A demoted backend
// stays out of the rotation until a reprobe succeeds, so without this job
// (or a manual reprobe call) a recovered backend would never return.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pipecrm/pipecrm-go/internal/storage"
)

// ProbeTimeout bounds a single reprobe pass across all backends.
const ProbeTimeout = 10 * time.Second

// Scheduler periodically reprobes the storage backends.
type Scheduler struct {
	router *storage.Router
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a new scheduler instance.
func New(router *storage.Router, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		router: router,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start registers the reprobe job with the given cron spec (e.g. "@every 1m")
// and starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, s.reprobe)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "reprobe_schedule", spec)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) reprobe() {
	ctx, cancel := context.WithTimeout(context.Background(), ProbeTimeout)
	defer cancel()

	before := s.router.Health().Snapshot()
	s.router.Reprobe(ctx)
	after := s.router.Health().Snapshot()

	for name, state := range after {
		if before[name] == storage.StateUnavailable && state == storage.StateAvailable {
			s.logger.Info("backend recovered", "backend", name)
		}
	}
}
