// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package chunker

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Retry attempt caps. Chunk I/O gets the higher cap because a single logical
// store/load fans out into many backend requests and one lost chunk loses the
// whole record.
const (
	// ChunkIOAttempts is the attempt cap for individual chunk reads/writes.
	ChunkIOAttempts = 5

	// GenericAttempts is the attempt cap for generic storage operations
	// such as backend availability probes.
	GenericAttempts = 3

	// DefaultBaseDelay is the base retry delay; the nth retry waits n times
	// this long.
	DefaultBaseDelay = 100 * time.Millisecond
)

// linearBackoff returns a backoff where the nth retry waits n*base.
func linearBackoff(base time.Duration) retry.Backoff {
	attempt := 0
	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return time.Duration(attempt) * base, false
	})
}

// WithRetry runs fn up to attempts times with linearly increasing delay
// between attempts. Every error from fn is treated as retryable; after the
// attempts are exhausted the last error is returned unwrapped. Oversized-write
// rejections are deliberately retried like any transient failure, since
// backends have been observed to report them spuriously under load.
func WithRetry(ctx context.Context, attempts int, base time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	b := retry.WithMaxRetries(uint64(attempts-1), linearBackoff(base))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
