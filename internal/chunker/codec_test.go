package chunker

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipecrm/pipecrm-go/internal/blob"
)

type record struct {
	ID      string `json:"id"`
	Payload string `json:"payload"`
}

func testCodec(t *testing.T, chunkSize int) (*Codec, *blob.MemoryStore) {
	t.Helper()
	store := blob.NewMemoryStore(blob.MemoryStoreOptions{})
	t.Cleanup(func() { store.Close() })
	c := New(store, Options{
		ChunkSize:  chunkSize,
		WriteDelay: time.Millisecond,
		BaseDelay:  time.Millisecond,
	})
	return c, store
}

// incompressible returns n bytes of seeded random data, which gzip cannot
// shrink below its input size.
func incompressible(n int) []byte {
	data := make([]byte, n)
	rand.New(rand.NewSource(42)).Read(data)
	return data
}

func TestRoundTripSmall(t *testing.T) {
	c, store := testCodec(t, DefaultChunkSize)
	ctx := context.Background()

	in := record{ID: "r1", Payload: "hello"}
	require.NoError(t, c.Store(ctx, "r1", in))

	var out record
	found, err := c.Load(ctx, "r1", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)

	// Small records are stored as a single compressed blob.
	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{CompressedKey("r1"), MetaKey("r1")}, keys)
}

func TestRoundTripMultiChunk(t *testing.T) {
	c, store := testCodec(t, 1024)
	ctx := context.Background()

	in := record{ID: "big", Payload: string(incompressible(8 * 1024))}
	require.NoError(t, c.Store(ctx, "big", in))

	var out record
	found, err := c.Load(ctx, "big", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)

	keys, err := store.List(ctx)
	require.NoError(t, err)
	for _, k := range keys {
		assert.True(t, IsDerivedKey(k), "unexpected primary key %q", k)
	}
}

func TestChunkBoundary(t *testing.T) {
	ctx := context.Background()

	in := record{ID: "b", Payload: string(incompressible(4 * 1024))}
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	compressed, err := compress(raw)
	require.NoError(t, err)

	// Compressed payload of exactly the threshold: one compressed blob.
	c, store := testCodec(t, len(compressed))
	require.NoError(t, c.Store(ctx, "b", in))
	_, err = store.Get(ctx, CompressedKey("b"))
	require.NoError(t, err)
	meta := readMetaRaw(t, store, "b")
	assert.Equal(t, "compressed", meta.Type)
	assert.Zero(t, meta.Chunks)

	// One byte over the threshold: exactly two chunks.
	c2, store2 := testCodec(t, len(compressed)-1)
	require.NoError(t, c2.Store(ctx, "b", in))
	meta2 := readMetaRaw(t, store2, "b")
	assert.Equal(t, "compressed_chunked", meta2.Type)
	assert.Equal(t, 2, meta2.Chunks)
	assert.Equal(t, len(compressed)-1, meta2.ChunkSize)

	var out record
	found, err := c2.Load(ctx, "b", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)
}

func TestStoreCompressibleRecordNotChunked(t *testing.T) {
	// A 2 MiB record of repeated text compresses far below the 25 KiB
	// threshold and must be stored as a single compressed blob.
	c, store := testCodec(t, DefaultChunkSize)
	ctx := context.Background()

	in := record{ID: "zip", Payload: strings.Repeat("pipeline ", 2*1024*1024/9)}
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	require.NoError(t, c.Store(ctx, "zip", in))

	meta := readMetaRaw(t, store, "zip")
	assert.Equal(t, "compressed", meta.Type)
	assert.Equal(t, len(raw), meta.OriginalSize)
	assert.LessOrEqual(t, meta.CompressedSize, DefaultChunkSize)

	var out record
	found, err := c.Load(ctx, "zip", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)
}

func TestStoreIncompressibleRecordChunkCount(t *testing.T) {
	// 85 KiB of random bytes serialize to ~113 KiB of base64 and compress
	// back to roughly their entropy (85-97 KiB), which lands in the
	// four-chunk range for the default 25 KiB chunk size.
	c, store := testCodec(t, DefaultChunkSize)
	ctx := context.Background()

	type blobRecord struct {
		ID   string `json:"id"`
		Data []byte `json:"data"`
	}
	in := blobRecord{ID: "huge", Data: incompressible(85 * 1024)}
	require.NoError(t, c.Store(ctx, "huge", in))

	meta := readMetaRaw(t, store, "huge")
	assert.Equal(t, "compressed_chunked", meta.Type)
	want := (meta.CompressedSize + DefaultChunkSize - 1) / DefaultChunkSize
	assert.Equal(t, want, meta.Chunks)
	assert.Equal(t, 4, meta.Chunks)

	for i := 0; i < meta.Chunks; i++ {
		_, err := store.Get(ctx, ChunkKey("huge", i))
		require.NoError(t, err, "chunk %d missing", i)
	}
}

func TestLoadMissing(t *testing.T) {
	c, _ := testCodec(t, DefaultChunkSize)

	var out record
	found, err := c.Load(context.Background(), "ghost", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadLegacyUnchunked(t *testing.T) {
	// Records written before chunking existed live at the bare key.
	c, store := testCodec(t, DefaultChunkSize)
	ctx := context.Background()

	in := record{ID: "old", Payload: "plain"}
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "old", raw))

	var out record
	found, err := c.Load(ctx, "old", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)
}

func TestLoadLegacyChunked(t *testing.T) {
	// Legacy layout: uncompressed chunks with type "chunked".
	c, store := testCodec(t, DefaultChunkSize)
	ctx := context.Background()

	in := record{ID: "legacy", Payload: "split across chunks"}
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	half := len(raw) / 2
	require.NoError(t, store.Set(ctx, ChunkKey("legacy", 0), raw[:half]))
	require.NoError(t, store.Set(ctx, ChunkKey("legacy", 1), raw[half:]))
	metaRaw, err := json.Marshal(metadata{Type: "chunked", Chunks: 2, OriginalSize: len(raw)})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, MetaKey("legacy"), metaRaw))

	var out record
	found, err := c.Load(ctx, "legacy", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)
}

func TestLoadCorruptCompressedBlob(t *testing.T) {
	c, store := testCodec(t, DefaultChunkSize)
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, "r", record{ID: "r"}))
	require.NoError(t, store.Set(ctx, CompressedKey("r"), []byte("not gzip")))

	var out record
	_, err := c.Load(ctx, "r", &out)
	assert.Error(t, err)
}

func TestDeleteIdempotent(t *testing.T) {
	c, store := testCodec(t, DefaultChunkSize)
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, "d", record{ID: "d"}))
	assert.True(t, c.Delete(ctx, "d"))
	assert.False(t, c.Delete(ctx, "d"))
	assert.False(t, c.Delete(ctx, "never-existed"))

	assert.Equal(t, 0, store.Len())
}

func TestDeleteChunkedRemovesAllBlobs(t *testing.T) {
	c, store := testCodec(t, 1024)
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, "d", record{ID: "d", Payload: string(incompressible(8 * 1024))}))
	require.Greater(t, store.Len(), 2)

	assert.True(t, c.Delete(ctx, "d"))
	assert.Equal(t, 0, store.Len())
}

func TestRestoreSmallerRecordCleansStaleChunks(t *testing.T) {
	c, store := testCodec(t, 1024)
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, "k", record{ID: "k", Payload: string(incompressible(8 * 1024))}))
	require.NoError(t, c.Store(ctx, "k", record{ID: "k", Payload: "tiny"}))

	var out record
	found, err := c.Load(ctx, "k", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "tiny", out.Payload)

	// Only the compressed blob and metadata remain.
	assert.Equal(t, 2, store.Len())
}

// flakyStore fails every operation until the failure budget is used up.
type flakyStore struct {
	blob.Store
	failures atomic.Int32
	calls    atomic.Int32
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	f.calls.Add(1)
	if f.failures.Add(-1) >= 0 {
		return fmt.Errorf("transient backend error")
	}
	return f.Store.Set(ctx, key, value)
}

func TestStoreRetriesTransientFailures(t *testing.T) {
	inner := blob.NewMemoryStore(blob.MemoryStoreOptions{})
	defer inner.Close()
	flaky := &flakyStore{Store: inner}
	flaky.failures.Store(2)

	c := New(flaky, Options{WriteDelay: time.Millisecond, BaseDelay: time.Millisecond})
	require.NoError(t, c.Store(context.Background(), "r", record{ID: "r"}))
	assert.GreaterOrEqual(t, flaky.calls.Load(), int32(3))
}

func TestStoreExhaustsRetries(t *testing.T) {
	inner := blob.NewMemoryStore(blob.MemoryStoreOptions{})
	defer inner.Close()
	flaky := &flakyStore{Store: inner}
	flaky.failures.Store(1000)

	c := New(flaky, Options{WriteDelay: time.Millisecond, BaseDelay: time.Millisecond})
	err := c.Store(context.Background(), "r", record{ID: "r"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transient backend error")
}

func readMetaRaw(t *testing.T, store blob.Store, key string) metadata {
	t.Helper()
	raw, err := store.Get(context.Background(), MetaKey(key))
	require.NoError(t, err)
	var meta metadata
	require.NoError(t, json.Unmarshal(raw, &meta))
	return meta
}
