// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package chunker

import (
	"fmt"
	"strings"
)

// Derived-key naming conventions. A record stored under key K occupies either
// the bare key K (legacy unchunked), K_compressed, or K_chunk_0..K_chunk_N-1,
// always accompanied by _meta_K. Listing code must skip derived keys to
// recover the set of primary keys.
const (
	metaPrefix       = "_meta_"
	chunkInfix       = "_chunk_"
	compressedSuffix = "_compressed"
)

// MetaKey returns the metadata key for a record key.
func MetaKey(key string) string {
	return metaPrefix + key
}

// ChunkKey returns the key of the i-th chunk of a record.
func ChunkKey(key string, i int) string {
	return fmt.Sprintf("%s%s%d", key, chunkInfix, i)
}

// CompressedKey returns the single-blob key for a compressed record.
func CompressedKey(key string) string {
	return key + compressedSuffix
}

// IsDerivedKey reports whether a listed key is metadata, a chunk, or a
// compressed blob rather than a primary record key. The check is by naming
// convention, so a record ID containing one of these markers would be
// misclassified; IDs are UUIDs in practice, which cannot collide with them.
func IsDerivedKey(key string) bool {
	return strings.HasPrefix(key, metaPrefix) ||
		strings.Contains(key, chunkInfix) ||
		strings.HasSuffix(key, compressedSuffix)
}
