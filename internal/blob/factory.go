// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blob

import "fmt"

// Backend types accepted by Open.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

// Config holds configuration for blob store creation.
type Config struct {
	// Backend is the blob backend type: "memory", "redis" or "badger".
	Backend string

	// RedisURL is the Redis connection URL (redis backend only).
	RedisURL string

	// Prefix is the key prefix for Redis (redis backend only).
	Prefix string

	// BadgerPath is the data directory (badger backend only).
	BadgerPath string

	// MaxPayloadSize caps value sizes for the memory backend (0 = unlimited).
	MaxPayloadSize int
}

// Open creates a blob store for the configured backend.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendRedis:
		opts := DefaultRedisStoreOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		return NewRedisStore(opts)
	case BackendBadger:
		return NewBadgerStore(cfg.BadgerPath)
	case BackendMemory, "":
		return NewMemoryStore(MemoryStoreOptions{MaxPayloadSize: cfg.MaxPayloadSize}), nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}
