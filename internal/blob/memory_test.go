package blob

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore(MemoryStoreOptions{})
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k1", []byte("hello")))

	got, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore(MemoryStoreOptions{})
	defer s.Close()

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreMaxPayloadSize(t *testing.T) {
	s := NewMemoryStore(MemoryStoreOptions{MaxPayloadSize: 4})
	defer s.Close()
	ctx := context.Background()

	assert.NoError(t, s.Set(ctx, "ok", []byte("1234")))

	err := s.Set(ctx, "big", []byte("12345"))
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.True(t, IsTooLarge(err))
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	s := NewMemoryStore(MemoryStoreOptions{})
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))
	// Second delete of the same key must be a no-op.
	require.NoError(t, s.Delete(ctx, "k"))

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreList(t *testing.T) {
	s := NewMemoryStore(MemoryStoreOptions{})
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	require.NoError(t, s.Set(ctx, "b", []byte("2")))

	keys, err := s.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}

func TestMemoryStoreClosed(t *testing.T) {
	s := NewMemoryStore(MemoryStoreOptions{})
	require.NoError(t, s.Close())

	_, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, s.Set(context.Background(), "k", nil), ErrStoreClosed)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore(MemoryStoreOptions{})
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("abc")))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'X'

	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestIsTooLargeMessageMatch(t *testing.T) {
	assert.True(t, IsTooLarge(errors.New("HTTP 413: Request Too Large")))
	assert.True(t, IsTooLarge(errors.New("value exceeds max request size")))
	assert.False(t, IsTooLarge(errors.New("connection refused")))
	assert.False(t, IsTooLarge(nil))
}

func TestOpenFactory(t *testing.T) {
	s, err := Open(Config{Backend: BackendMemory})
	require.NoError(t, err)
	defer s.Close()
	_, ok := s.(*MemoryStore)
	assert.True(t, ok)

	_, err = Open(Config{Backend: "dynamodb"})
	assert.Error(t, err)
}
