// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipecrm/pipecrm-go/internal/blob"
	"github.com/pipecrm/pipecrm-go/internal/chunker"
	"github.com/pipecrm/pipecrm-go/internal/storage"
	"github.com/pipecrm/pipecrm-go/internal/storage/blobstore"
)

func testRouter(t *testing.T) *storage.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	blobs := blob.NewMemoryStore(blob.MemoryStoreOptions{})
	codec := chunker.New(blobs, chunker.Options{WriteDelay: time.Millisecond, Logger: logger})
	backend := blobstore.New(blobs, codec, logger)
	return storage.NewRouter([]storage.Store{backend}, storage.RouterOptions{
		AutoFallback: true,
		Logger:       logger,
	})
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := New(testRouter(t), nil)
	require.Error(t, s.Start("not a cron spec"))
}

func TestStartAndStop(t *testing.T) {
	s := New(testRouter(t), nil)
	require.NoError(t, s.Start("@every 1h"))
	s.Stop()
}

func TestReprobeMarksBackendAvailable(t *testing.T) {
	router := testRouter(t)
	s := New(router, nil)

	s.reprobe()
	assert.Equal(t, storage.StateAvailable, router.Health().Snapshot()["blob"])
}
