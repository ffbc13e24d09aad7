// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package blob provides the key/value blob primitive used by the chunked
// record codec. Backends enforce (or simulate) a maximum per-request payload
// size; callers are expected to chunk larger values.
package blob

import "context"

// Store defines the interface for blob store implementations.
// All implementations must be thread-safe.
type Store interface {
	// List returns all keys currently stored, in no guaranteed order.
	List(ctx context.Context) ([]string, error)

	// Get retrieves the value for a key.
	// Returns ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under a key, overwriting any existing value.
	// Returns ErrPayloadTooLarge if the value exceeds the backend's cap.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Error represents an error type for blob operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrNotFound indicates the key does not exist.
	ErrNotFound Error = "blob not found"

	// ErrPayloadTooLarge indicates the value exceeds the backend's
	// maximum request size.
	ErrPayloadTooLarge Error = "request too large"

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed Error = "blob store closed"
)
