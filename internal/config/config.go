// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from environment
// variables, including the ordered storage backend priority list.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Backend names accepted in STORAGE_PRIORITY. The aliases keep priority
// lists written for earlier deployments working.
const (
	BackendBlob  = "blob"
	BackendSQL   = "sql"
	BackendGraph = "graph"
)

var backendAliases = map[string]string{
	"blob":   BackendBlob,
	"sql":    BackendSQL,
	"prisma": BackendSQL,
	"graph":  BackendGraph,
	"neo4j":  BackendGraph,
}

// DefaultPriority is the backend order used when STORAGE_PRIORITY is unset
// or malformed.
var DefaultPriority = []string{BackendBlob, BackendSQL, BackendGraph}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"HOST" envDefault:"localhost"`
	ServerPort int    `env:"PORT" envDefault:"8080"`
	Env        string `env:"ENV" envDefault:"development"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Storage routing
	StoragePriority string `env:"STORAGE_PRIORITY"`                        // Comma-separated backend order
	AutoFallback    bool   `env:"STORAGE_AUTO_FALLBACK" envDefault:"true"` // Fall through to the next backend on failure

	// Blob backend
	BlobBackend   string `env:"BLOB_BACKEND" envDefault:"memory"`       // memory, redis, or badger
	RedisURL      string `env:"REDIS_URL"`                              // Redis URL for the redis blob backend
	BlobKeyPrefix string `env:"BLOB_KEY_PREFIX" envDefault:"pipecrm:"`  // Redis key prefix
	BadgerPath    string `env:"BADGER_PATH" envDefault:"./data/badger"` // Badger directory, empty for in-memory

	// Relational backend
	DBPath string `env:"DB_PATH" envDefault:"./data/pipecrm.db"`

	// Graph backend
	Neo4jURI      string `env:"NEO4J_URI"`
	Neo4jUser     string `env:"NEO4J_USER" envDefault:"neo4j"`
	Neo4jPassword string `env:"NEO4J_PASSWORD"`

	// Chunked blob persistence
	ChunkSize         int `env:"CHUNK_SIZE" envDefault:"25600"`        // Max compressed bytes per blob
	ChunkWriteDelayMS int `env:"CHUNK_WRITE_DELAY_MS" envDefault:"50"` // Pause between chunk writes

	// Health reprobing
	ReprobeSchedule string `env:"HEALTH_REPROBE_SCHEDULE" envDefault:"@every 1m"` // Cron spec, empty disables

	// HTTP surface
	CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimitRPS   float64  `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int      `env:"RATE_LIMIT_BURST" envDefault:"100"`

	// Seeding
	DoSeed bool `env:"DO_SEED" envDefault:"false"` // Load demo records on startup
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// ChunkWriteDelay returns the configured pause between chunk writes.
func (c Config) ChunkWriteDelay() time.Duration {
	return time.Duration(c.ChunkWriteDelayMS) * time.Millisecond
}

// Priority resolves STORAGE_PRIORITY into the canonical ordered backend
// list. Unknown or duplicate entries invalidate the whole value and the
// default order is used instead, with a warning.
func (c Config) Priority() []string {
	return ParsePriority(c.StoragePriority)
}

// ParsePriority parses a comma-separated backend list, resolving aliases.
// Empty or malformed input yields DefaultPriority.
func ParsePriority(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultPriority
	}

	seen := make(map[string]bool)
	var order []string
	for _, part := range strings.Split(trimmed, ",") {
		name, ok := backendAliases[strings.ToLower(strings.TrimSpace(part))]
		if !ok || seen[name] {
			slog.Warn("ignoring malformed storage priority, using default order",
				"value", raw)
			return DefaultPriority
		}
		seen[name] = true
		order = append(order, name)
	}
	return order
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("CHUNK_SIZE must be positive, got %d", cfg.ChunkSize)
	}
	if cfg.ChunkWriteDelayMS < 0 {
		return nil, fmt.Errorf("CHUNK_WRITE_DELAY_MS must be non-negative, got %d", cfg.ChunkWriteDelayMS)
	}

	return cfg, nil
}
