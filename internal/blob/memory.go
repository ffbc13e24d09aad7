// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blob

import (
	"context"
	"sync"
	"sync/atomic"
)

// MemoryStore is a thread-safe in-memory blob store. It is the default
// backend for development and tests; MaxPayloadSize lets tests exercise the
// oversized-write path that real backends hit.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed atomic.Bool

	// MaxPayloadSize rejects Set calls with larger values (0 = unlimited).
	maxPayloadSize int
}

// MemoryStoreOptions configures the memory store.
type MemoryStoreOptions struct {
	// MaxPayloadSize is the maximum value size accepted by Set (0 = unlimited).
	MaxPayloadSize int
}

// NewMemoryStore creates a new memory store with the given options.
func NewMemoryStore(opts MemoryStoreOptions) *MemoryStore {
	return &MemoryStore{
		data:           make(map[string][]byte),
		maxPayloadSize: opts.MaxPayloadSize,
	}
}

// List returns all keys currently stored.
func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

// Get retrieves the value for a key.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}

	s.mu.RLock()
	value, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	// Return a copy to prevent mutation
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

// Set stores a value under a key.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if s.maxPayloadSize > 0 && len(value) > s.maxPayloadSize {
		return ErrPayloadTooLarge
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	s.mu.Lock()
	s.data[key] = valueCopy
	s.mu.Unlock()
	return nil
}

// Delete removes a key. Deleting an absent key is a no-op.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}

	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Close marks the store as closed.
func (s *MemoryStore) Close() error {
	s.closed.Store(true)
	return nil
}

// Len returns the number of stored blobs. Used by tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
