// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package graphstore implements the record store on Neo4j. Each record kind
// is a node label; timestamps are stored as RFC 3339 strings so nodes stay
// readable from the Neo4j browser. Analytics are computed by scanning, same
// as the blob backend.
package graphstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pipecrm/pipecrm-go/internal/storage"
)

// Store is the graph backend over a Neo4j driver.
type Store struct {
	driver neo4j.DriverWithContext
	logger *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// Config carries the Neo4j connection settings.
type Config struct {
	URI      string
	User     string
	Password string
}

// NewStore connects to Neo4j and verifies connectivity before returning.
func NewStore(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("verifying neo4j connectivity: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{driver: driver, logger: logger}, nil
}

// Name identifies the backend in logs, health state, and metrics.
func (s *Store) Name() string { return "graph" }

// Ping probes the backend with a trivial query.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.readTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, "RETURN 1", nil)
		if err != nil {
			return nil, err
		}
		_, err = result.Consume(ctx)
		return nil, err
	})
	return err
}

// Close shuts down the driver and its connection pool.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.driver.Close(ctx)
}

func (s *Store) Users() storage.UserStore                { return users{s} }
func (s *Store) Leads() storage.LeadStore                { return leads{s} }
func (s *Store) Opportunities() storage.OpportunityStore { return opportunities{s} }
func (s *Store) Staff() storage.StaffStore               { return staff{s} }

// Analytics aggregates by scanning all nodes client-side.
func (s *Store) Analytics() storage.AnalyticsStore {
	return storage.NewScanAnalytics(s.Leads(), s.Opportunities())
}

func (s *Store) readTx(ctx context.Context, work neo4j.ManagedTransactionWork) (any, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)
	return session.ExecuteRead(ctx, work)
}

func (s *Store) writeTx(ctx context.Context, work neo4j.ManagedTransactionWork) (any, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	return session.ExecuteWrite(ctx, work)
}

// collectProps runs a query and returns the property map of every node bound
// to the variable n.
func collectProps(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) ([]map[string]any, error) {
	result, err := tx.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		v, ok := rec.Get("n")
		if !ok {
			continue
		}
		node, ok := v.(neo4j.Node)
		if !ok {
			continue
		}
		out = append(out, node.Props)
	}
	return out, nil
}

// singleProps runs a query expected to match at most one node. Returns nil
// when nothing matched.
func singleProps(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) (map[string]any, error) {
	all, err := collectProps(ctx, tx, query, params)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

// deleteNode detach-deletes nodes by label and id, reporting whether any
// node existed.
func deleteNode(ctx context.Context, tx neo4j.ManagedTransaction, label, id string) (bool, error) {
	result, err := tx.Run(ctx,
		"MATCH (n:"+label+" {id: $id}) DETACH DELETE n RETURN count(n) AS deleted",
		map[string]any{"id": id})
	if err != nil {
		return false, err
	}
	rec, err := result.Single(ctx)
	if err != nil {
		return false, err
	}
	n, _ := rec.Get("deleted")
	count, _ := n.(int64)
	return count > 0, nil
}
