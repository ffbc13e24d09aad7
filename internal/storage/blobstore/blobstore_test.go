package blobstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipecrm/pipecrm-go/internal/blob"
	"github.com/pipecrm/pipecrm-go/internal/chunker"
	"github.com/pipecrm/pipecrm-go/internal/model"
	"github.com/pipecrm/pipecrm-go/internal/storage"
)

var _ storage.Store = (*Store)(nil)

func testStore(t *testing.T) (*Store, *blob.MemoryStore) {
	t.Helper()
	blobs := blob.NewMemoryStore(blob.MemoryStoreOptions{})
	t.Cleanup(func() { blobs.Close() })
	codec := chunker.New(blobs, chunker.Options{
		WriteDelay: time.Millisecond,
		BaseDelay:  time.Millisecond,
	})
	return New(blobs, codec, nil), blobs
}

func TestLeadLifecycle(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	created, err := s.Leads().Create(ctx, model.Lead{Name: "Acme", Email: "a@acme.com"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, model.LeadNew, created.Status)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.UpdatedAt)

	got, err := s.Leads().FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *created, *got)

	status := model.LeadQualified
	updated, err := s.Leads().Update(ctx, created.ID, model.LeadPatch{Status: &status})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, model.LeadQualified, updated.Status)
	assert.Equal(t, "Acme", updated.Name)
	assert.Equal(t, "a@acme.com", updated.Email)
	require.NotNil(t, updated.UpdatedAt)

	ok, err := s.Leads().Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	gone, err := s.Leads().FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestUpdateMissingReturnsNil(t *testing.T) {
	s, _ := testStore(t)

	name := "nobody"
	got, err := s.Leads().Update(context.Background(), "missing-id", model.LeadPatch{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteMissingReturnsFalse(t *testing.T) {
	s, _ := testStore(t)

	ok, err := s.Users().Delete(context.Background(), "missing-id")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindByEmailFirstMatchCaseSensitive(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	_, err := s.Users().Create(ctx, model.User{Email: "dup@example.com", Name: "First"})
	require.NoError(t, err)
	_, err = s.Users().Create(ctx, model.User{Email: "dup@example.com", Name: "Second"})
	require.NoError(t, err)
	_, err = s.Users().Create(ctx, model.User{Email: "other@example.com", Name: "Other"})
	require.NoError(t, err)

	got, err := s.Users().FindByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "dup@example.com", got.Email)

	// Case-sensitive: no match for a different casing.
	got, err = s.Users().FindByEmail(ctx, "DUP@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.Users().FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindManySkipsCorruptRecords(t *testing.T) {
	s, blobs := testStore(t)
	ctx := context.Background()

	_, err := s.Staff().Create(ctx, model.Staff{Email: "ok@example.com", Name: "Fine", Role: "support"})
	require.NoError(t, err)

	// A record whose blob is garbage must be skipped, not abort the listing.
	require.NoError(t, blobs.Set(ctx, "staff_broken", []byte("{not json")))

	all, err := s.Staff().FindMany(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "ok@example.com", all[0].Email)
}

func TestFindManyExcludesDerivedAndForeignKeys(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	_, err := s.Leads().Create(ctx, model.Lead{Name: "Solo", Email: "s@example.com"})
	require.NoError(t, err)
	_, err = s.Users().Create(ctx, model.User{Email: "u@example.com", Name: "U"})
	require.NoError(t, err)

	all, err := s.Leads().FindMany(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFindByLead(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	lead, err := s.Leads().Create(ctx, model.Lead{Name: "L", Email: "l@example.com"})
	require.NoError(t, err)

	_, err = s.Opportunities().Create(ctx, model.Opportunity{Title: "Deal A", Amount: 100, LeadID: lead.ID})
	require.NoError(t, err)
	_, err = s.Opportunities().Create(ctx, model.Opportunity{Title: "Deal B", Amount: 200, LeadID: lead.ID})
	require.NoError(t, err)
	_, err = s.Opportunities().Create(ctx, model.Opportunity{Title: "Unrelated", Amount: 300, LeadID: "someone-else"})
	require.NoError(t, err)

	got, err := s.Opportunities().FindByLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestScanAnalytics(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	for _, st := range []model.LeadStatus{model.LeadNew, model.LeadNew, model.LeadQualified} {
		status := st
		l, err := s.Leads().Create(ctx, model.Lead{Name: "x", Email: "x@example.com"})
		require.NoError(t, err)
		_, err = s.Leads().Update(ctx, l.ID, model.LeadPatch{Status: &status})
		require.NoError(t, err)
	}

	counts, err := s.Analytics().LeadsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.LeadStatusCount{
		{Status: model.LeadNew, Count: 2},
		{Status: model.LeadQualified, Count: 1},
	}, counts)

	won := model.StageClosedWon
	for _, amount := range []float64{100, 250} {
		o, err := s.Opportunities().Create(ctx, model.Opportunity{Title: "d", Amount: amount, LeadID: "l"})
		require.NoError(t, err)
		_, err = s.Opportunities().Update(ctx, o.ID, model.OpportunityPatch{Stage: &won})
		require.NoError(t, err)
	}
	_, err = s.Opportunities().Create(ctx, model.Opportunity{Title: "open", Amount: 999, LeadID: "l"})
	require.NoError(t, err)

	stages, err := s.Analytics().OpportunitiesByStage(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.StageSummary{
		{Stage: model.StageProspect, Count: 1, TotalValue: 999},
		{Stage: model.StageClosedWon, Count: 2, TotalValue: 350},
	}, stages)

	revenue, err := s.Analytics().TotalRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 350.0, revenue.Total)
}

func TestCreateRejectsInvalidRecord(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	_, err := s.Opportunities().Create(ctx, model.Opportunity{Title: "neg", Amount: -5})
	assert.ErrorIs(t, err, model.ErrInvalid)

	_, err = s.Users().Create(ctx, model.User{Name: "no email"})
	assert.ErrorIs(t, err, model.ErrInvalid)
}
