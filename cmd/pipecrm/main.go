// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pipecrm/pipecrm-go/internal/blob"
	"github.com/pipecrm/pipecrm-go/internal/chunker"
	"github.com/pipecrm/pipecrm-go/internal/config"
	"github.com/pipecrm/pipecrm-go/internal/handler/api"
	"github.com/pipecrm/pipecrm-go/internal/logging"
	"github.com/pipecrm/pipecrm-go/internal/middleware"
	"github.com/pipecrm/pipecrm-go/internal/scheduler"
	"github.com/pipecrm/pipecrm-go/internal/seed"
	"github.com/pipecrm/pipecrm-go/internal/storage"
	"github.com/pipecrm/pipecrm-go/internal/storage/blobstore"
	"github.com/pipecrm/pipecrm-go/internal/storage/graphstore"
	"github.com/pipecrm/pipecrm-go/internal/storage/sqlstore"
	"github.com/pipecrm/pipecrm-go/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "PipeCRM - CRM backend with multi-backend storage\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORT                     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STORAGE_PRIORITY         Backend order, e.g. blob,sql,graph (default)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STORAGE_AUTO_FALLBACK    Fall through to the next backend (default: true)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOB_BACKEND             memory|redis|badger (default: memory)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REDIS_URL                Redis URL for the redis blob backend\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BADGER_PATH              Badger data directory\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DB_PATH                  SQLite database path (default: ./data/pipecrm.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NEO4J_URI                Neo4j bolt URI (graph backend skipped if unset)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHUNK_SIZE               Max compressed blob size in bytes (default: 25600)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DO_SEED                  Load demo records on startup (default: false)\n")
	}

	flag.Parse()

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Handle -v/-version flag
	if *showVersion {
		_, _ = fmt.Printf("pipecrm %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Setup logger: text handler wrapped so WARN/ERROR records feed the
	// log event counters.
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logging.ParseLevel(cfg.LogLevel),
	})
	logger := slog.New(logging.NewMetricsHandler(textHandler))
	slog.SetDefault(logger)

	slog.Info("starting pipecrm",
		"version", versionInfo.String(),
		"env", cfg.Env,
		"priority", cfg.Priority(),
	)

	ctx := context.Background()

	// Build the backend chain in priority order. Backends that cannot be
	// constructed at startup are fatal; a missing NEO4J_URI just drops the
	// graph backend from the chain.
	stores, err := buildStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		return errors.New("no storage backends configured")
	}

	router := storage.NewRouter(stores, storage.RouterOptions{
		AutoFallback: cfg.AutoFallback,
		Logger:       logger,
	})
	defer func() {
		if err := router.Close(); err != nil {
			slog.Error("closing storage backends", "error", err)
		}
	}()

	router.Initialize(ctx)
	slog.Info("storage router initialized",
		"backends", router.Backends(),
		"auto_fallback", cfg.AutoFallback,
	)

	// Seed demo records if requested
	if cfg.DoSeed {
		if err := seed.Run(ctx, router, logger); err != nil {
			return fmt.Errorf("seeding demo records: %w", err)
		}
	}

	// Periodic health reprobe
	if cfg.ReprobeSchedule != "" {
		sched := scheduler.New(router, logger)
		if err := sched.Start(cfg.ReprobeSchedule); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		defer sched.Stop()
	}

	// HTTP surface
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	r.Use(rateLimiter.Middleware())

	apiHandler := api.NewHandler(router, versionInfo)
	r.Mount("/api/v1", apiHandler.Routes())
	r.Handle("/metrics", promhttp.Handler())
	slog.Info("REST API v1 mounted at /api/v1")

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// buildStores constructs one storage backend per entry of the priority
// list, preserving order.
func buildStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]storage.Store, error) {
	var stores []storage.Store

	for _, name := range cfg.Priority() {
		switch name {
		case config.BackendBlob:
			blobs, err := blob.Open(blob.Config{
				Backend:    cfg.BlobBackend,
				RedisURL:   cfg.RedisURL,
				Prefix:     cfg.BlobKeyPrefix,
				BadgerPath: cfg.BadgerPath,
			})
			if err != nil {
				return nil, fmt.Errorf("opening blob backend: %w", err)
			}
			codec := chunker.New(blobs, chunker.Options{
				ChunkSize:  cfg.ChunkSize,
				WriteDelay: cfg.ChunkWriteDelay(),
				Logger:     logger,
			})
			stores = append(stores, blobstore.New(blobs, codec, logger))
			slog.Info("blob backend ready", "kind", cfg.BlobBackend)

		case config.BackendSQL:
			store, err := sqlstore.NewStore(cfg.DBPath, logger)
			if err != nil {
				return nil, fmt.Errorf("opening sql backend: %w", err)
			}
			stores = append(stores, store)
			slog.Info("sql backend ready", "path", cfg.DBPath)

		case config.BackendGraph:
			if cfg.Neo4jURI == "" {
				slog.Warn("graph backend in priority list but NEO4J_URI is unset, skipping")
				continue
			}
			store, err := graphstore.NewStore(ctx, graphstore.Config{
				URI:      cfg.Neo4jURI,
				User:     cfg.Neo4jUser,
				Password: cfg.Neo4jPassword,
			}, logger)
			if err != nil {
				return nil, fmt.Errorf("opening graph backend: %w", err)
			}
			stores = append(stores, store)
			slog.Info("graph backend ready", "uri", cfg.Neo4jURI)
		}
	}

	return stores, nil
}
