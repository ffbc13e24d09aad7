// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package chunker makes arbitrarily large JSON-serializable records
// persistable in a blob store that rejects writes above a fixed byte size.
// Records are gzip-compressed, split into fixed-size chunks when still too
// large, and every individual blob operation is retried with linear backoff.
package chunker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/pipecrm/pipecrm-go/internal/blob"
)

// Defaults. The 25 KiB chunk size is deliberately far below typical backend
// request ceilings; small chunks trade request count for write reliability.
const (
	DefaultChunkSize  = 25 * 1024
	DefaultWriteDelay = 50 * time.Millisecond
)

// Storage layouts recorded in metadata.
const (
	typeCompressed        = "compressed"
	typeCompressedChunked = "compressed_chunked"
	typeChunked           = "chunked" // legacy: uncompressed chunks, read-only support
)

// metadata describes how a record is laid out in the blob store.
type metadata struct {
	Type           string    `json:"type"`
	Chunks         int       `json:"chunks,omitempty"`
	ChunkSize      int       `json:"chunk_size,omitempty"`
	OriginalSize   int       `json:"original_size"`
	CompressedSize int       `json:"compressed_size"`
	CreatedAt      time.Time `json:"created_at"`
}

// Codec stores and loads records through a size-constrained blob store.
type Codec struct {
	blobs      blob.Store
	chunkSize  int
	writeDelay time.Duration
	baseDelay  time.Duration
	logger     *slog.Logger
}

// Options configures a Codec.
type Options struct {
	// ChunkSize is both the single-blob threshold and the chunk size in bytes.
	ChunkSize int

	// WriteDelay is the pause between consecutive chunk writes, to avoid
	// tripping backend rate limits.
	WriteDelay time.Duration

	// BaseDelay is the base retry delay (the nth retry waits n*BaseDelay).
	BaseDelay time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// New creates a Codec over the given blob store.
func New(blobs blob.Store, opts Options) *Codec {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.WriteDelay <= 0 {
		opts.WriteDelay = DefaultWriteDelay
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Codec{
		blobs:      blobs,
		chunkSize:  opts.ChunkSize,
		writeDelay: opts.WriteDelay,
		baseDelay:  opts.BaseDelay,
		logger:     opts.Logger,
	}
}

// Store serializes v, compresses it, and writes it under key as either a
// single compressed blob or a sequence of fixed-size chunks, plus a metadata
// blob describing the layout. Chunk writes are serial with a short delay
// between them.
func (c *Codec) Store(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	compressed, err := compress(raw)
	if err != nil {
		return fmt.Errorf("compressing %s: %w", key, err)
	}

	// Previous layout, if any, for stale-blob cleanup after the write.
	oldMeta, err := c.readMeta(ctx, key)
	if err != nil && !blob.IsNotFound(err) {
		return fmt.Errorf("reading existing metadata for %s: %w", key, err)
	}

	meta := metadata{
		OriginalSize:   len(raw),
		CompressedSize: len(compressed),
		CreatedAt:      time.Now().UTC(),
	}

	if len(compressed) <= c.chunkSize {
		meta.Type = typeCompressed
		if err := c.set(ctx, CompressedKey(key), compressed); err != nil {
			return fmt.Errorf("writing %s: %w", key, err)
		}
	} else {
		chunks := splitChunks(compressed, c.chunkSize)
		meta.Type = typeCompressedChunked
		meta.Chunks = len(chunks)
		meta.ChunkSize = c.chunkSize

		for i, chunk := range chunks {
			if i > 0 {
				if err := sleepCtx(ctx, c.writeDelay); err != nil {
					return err
				}
			}
			if err := c.set(ctx, ChunkKey(key, i), chunk); err != nil {
				return fmt.Errorf("writing chunk %d/%d of %s: %w", i+1, len(chunks), key, err)
			}
		}
		c.logger.Debug("stored chunked record",
			"key", key,
			"chunks", len(chunks),
			"original_size", meta.OriginalSize,
			"compressed_size", meta.CompressedSize,
		)
	}

	metaRaw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding metadata for %s: %w", key, err)
	}
	if err := c.set(ctx, MetaKey(key), metaRaw); err != nil {
		return fmt.Errorf("writing metadata for %s: %w", key, err)
	}

	c.cleanupStale(ctx, key, oldMeta, &meta)
	return nil
}

// Load reads the record stored under key into v. It first attempts a direct
// unchunked read for records written before chunking existed, then falls back
// to metadata-driven reassembly. Returns (false, nil) when nothing is stored
// under key; errors are reserved for I/O failures and corrupt data.
func (c *Codec) Load(ctx context.Context, key string, v any) (bool, error) {
	raw, err := c.get(ctx, key)
	if err == nil {
		if err := json.Unmarshal(raw, v); err != nil {
			return false, fmt.Errorf("decoding %s: %w", key, err)
		}
		return true, nil
	}
	if !blob.IsNotFound(err) {
		return false, err
	}

	metaRaw, err := c.get(ctx, MetaKey(key))
	if err != nil {
		if blob.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	var meta metadata
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		return false, fmt.Errorf("decoding metadata for %s: %w", key, err)
	}

	var payload []byte
	switch meta.Type {
	case typeCompressed:
		data, err := c.get(ctx, CompressedKey(key))
		if err != nil {
			if blob.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		if payload, err = decompress(data); err != nil {
			return false, fmt.Errorf("decompressing %s: %w", key, err)
		}
	case typeCompressedChunked:
		joined, err := c.readChunks(ctx, key, meta.Chunks)
		if err != nil {
			return false, err
		}
		if payload, err = decompress(joined); err != nil {
			return false, fmt.Errorf("decompressing %s: %w", key, err)
		}
	case typeChunked:
		if payload, err = c.readChunks(ctx, key, meta.Chunks); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown storage type %q for %s", meta.Type, key)
	}

	if err := json.Unmarshal(payload, v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// Delete removes the record stored under key, using metadata to decide
// whether to remove a single compressed blob or every chunk, and falling back
// to a direct unchunked blob when no metadata exists. Returns whether a
// record was found; failures are logged rather than returned.
func (c *Codec) Delete(ctx context.Context, key string) bool {
	meta, err := c.readMeta(ctx, key)
	if err != nil && !blob.IsNotFound(err) {
		c.logger.Warn("delete: reading metadata failed", "key", key, "error", err)
		return false
	}

	if meta == nil {
		// No metadata: the record, if present, lives at the bare key.
		if _, err := c.get(ctx, key); err != nil {
			if !blob.IsNotFound(err) {
				c.logger.Warn("delete: reading blob failed", "key", key, "error", err)
			}
			return false
		}
		if err := c.del(ctx, key); err != nil {
			c.logger.Warn("delete: removing blob failed", "key", key, "error", err)
			return false
		}
		return true
	}

	ok := true
	switch meta.Type {
	case typeCompressed:
		if err := c.del(ctx, CompressedKey(key)); err != nil {
			c.logger.Warn("delete: removing compressed blob failed", "key", key, "error", err)
			ok = false
		}
	case typeCompressedChunked, typeChunked:
		for i := 0; i < meta.Chunks; i++ {
			if err := c.del(ctx, ChunkKey(key, i)); err != nil {
				c.logger.Warn("delete: removing chunk failed", "key", key, "chunk", i, "error", err)
				ok = false
			}
		}
	}

	if err := c.del(ctx, MetaKey(key)); err != nil {
		c.logger.Warn("delete: removing metadata failed", "key", key, "error", err)
		ok = false
	}
	// A bare blob may coexist with a chunked layout after a legacy migration.
	if err := c.del(ctx, key); err != nil {
		c.logger.Warn("delete: removing legacy blob failed", "key", key, "error", err)
	}
	return ok
}

// readMeta loads and decodes the metadata blob for key.
func (c *Codec) readMeta(ctx context.Context, key string) (*metadata, error) {
	raw, err := c.get(ctx, MetaKey(key))
	if err != nil {
		return nil, err
	}
	var meta metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("decoding metadata for %s: %w", key, err)
	}
	return &meta, nil
}

// readChunks reads and concatenates chunks 0..n-1 of key.
func (c *Codec) readChunks(ctx context.Context, key string, n int) ([]byte, error) {
	var joined []byte
	for i := 0; i < n; i++ {
		chunk, err := c.get(ctx, ChunkKey(key, i))
		if err != nil {
			return nil, fmt.Errorf("reading chunk %d/%d of %s: %w", i+1, n, key, err)
		}
		joined = append(joined, chunk...)
	}
	return joined, nil
}

// cleanupStale removes blobs from a previous layout that the new layout no
// longer references. Best effort: a leftover chunk is invisible to readers
// once metadata points elsewhere.
func (c *Codec) cleanupStale(ctx context.Context, key string, old, cur *metadata) {
	if err := c.del(ctx, key); err != nil {
		c.logger.Debug("cleanup: removing legacy blob failed", "key", key, "error", err)
	}
	if old == nil {
		return
	}
	if (old.Type == typeCompressed) && cur.Type != typeCompressed {
		if err := c.del(ctx, CompressedKey(key)); err != nil {
			c.logger.Debug("cleanup: removing stale compressed blob failed", "key", key, "error", err)
		}
	}
	for i := cur.Chunks; i < old.Chunks; i++ {
		if err := c.del(ctx, ChunkKey(key, i)); err != nil {
			c.logger.Debug("cleanup: removing stale chunk failed", "key", key, "chunk", i, "error", err)
		}
	}
}

// get reads a blob with chunk-level retry. Not-found is permanent and is
// returned without retrying.
func (c *Codec) get(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	b := retry.WithMaxRetries(ChunkIOAttempts-1, linearBackoff(c.baseDelay))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		v, err := c.blobs.Get(ctx, key)
		if err != nil {
			if blob.IsNotFound(err) {
				return err
			}
			return retry.RetryableError(err)
		}
		out = v
		return nil
	})
	return out, err
}

// set writes a blob with chunk-level retry. Oversized-write rejections are
// retried too; see WithRetry.
func (c *Codec) set(ctx context.Context, key string, value []byte) error {
	return WithRetry(ctx, ChunkIOAttempts, c.baseDelay, func(ctx context.Context) error {
		return c.blobs.Set(ctx, key, value)
	})
}

// del removes a blob with generic-operation retry.
func (c *Codec) del(ctx context.Context, key string) error {
	return WithRetry(ctx, GenericAttempts, c.baseDelay, func(ctx context.Context) error {
		return c.blobs.Delete(ctx, key)
	})
}

// sleepCtx sleeps for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
