package storage

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipecrm/pipecrm-go/internal/model"
)

// stubStore is a backend whose every operation succeeds with a result tagged
// by the backend name, or fails wholesale when fail is set. domainErr, when
// set, is returned as-is to model a caller error rather than an outage.
type stubStore struct {
	name      string
	fail      atomic.Bool
	calls     atomic.Int32
	domainErr error
}

func newStubStore(name string) *stubStore {
	return &stubStore{name: name}
}

func (s *stubStore) op() error {
	s.calls.Add(1)
	if s.domainErr != nil {
		return s.domainErr
	}
	if s.fail.Load() {
		return errors.New(s.name + " backend down")
	}
	return nil
}

func (s *stubStore) Name() string { return s.name }

func (s *stubStore) Ping(context.Context) error { return s.op() }

func (s *stubStore) Close() error { return nil }

func (s *stubStore) Users() UserStore                { return stubUsers{s} }
func (s *stubStore) Leads() LeadStore                { return stubLeads{s} }
func (s *stubStore) Opportunities() OpportunityStore { return stubOpps{s} }
func (s *stubStore) Staff() StaffStore               { return stubStaff{s} }
func (s *stubStore) Analytics() AnalyticsStore       { return stubAnalytics{s} }

type stubUsers struct{ s *stubStore }

func (u stubUsers) FindMany(context.Context) ([]model.User, error) {
	if err := u.s.op(); err != nil {
		return nil, err
	}
	return []model.User{{Name: u.s.name}}, nil
}

func (u stubUsers) FindByID(context.Context, string) (*model.User, error) {
	if err := u.s.op(); err != nil {
		return nil, err
	}
	return &model.User{Name: u.s.name}, nil
}

func (u stubUsers) FindByEmail(context.Context, string) (*model.User, error) {
	return u.FindByID(context.Background(), "")
}

func (u stubUsers) Create(_ context.Context, in model.User) (*model.User, error) {
	if err := u.s.op(); err != nil {
		return nil, err
	}
	in.Name = u.s.name
	return &in, nil
}

func (u stubUsers) Update(context.Context, string, model.UserPatch) (*model.User, error) {
	return u.FindByID(context.Background(), "")
}

func (u stubUsers) Delete(context.Context, string) (bool, error) {
	if err := u.s.op(); err != nil {
		return false, err
	}
	return true, nil
}

type stubLeads struct{ s *stubStore }

func (l stubLeads) FindMany(context.Context) ([]model.Lead, error) {
	if err := l.s.op(); err != nil {
		return nil, err
	}
	return nil, nil
}
func (l stubLeads) FindByID(context.Context, string) (*model.Lead, error)  { return nil, l.s.op() }
func (l stubLeads) Create(_ context.Context, in model.Lead) (*model.Lead, error) {
	if err := l.s.op(); err != nil {
		return nil, err
	}
	return &in, nil
}
func (l stubLeads) Update(context.Context, string, model.LeadPatch) (*model.Lead, error) {
	return nil, l.s.op()
}
func (l stubLeads) Delete(context.Context, string) (bool, error) { return true, l.s.op() }

type stubOpps struct{ s *stubStore }

func (o stubOpps) FindMany(context.Context) ([]model.Opportunity, error)   { return nil, o.s.op() }
func (o stubOpps) FindByID(context.Context, string) (*model.Opportunity, error) {
	return nil, o.s.op()
}
func (o stubOpps) FindByLead(context.Context, string) ([]model.Opportunity, error) {
	return nil, o.s.op()
}
func (o stubOpps) Create(_ context.Context, in model.Opportunity) (*model.Opportunity, error) {
	return &in, o.s.op()
}
func (o stubOpps) Update(context.Context, string, model.OpportunityPatch) (*model.Opportunity, error) {
	return nil, o.s.op()
}
func (o stubOpps) Delete(context.Context, string) (bool, error) { return true, o.s.op() }

type stubStaff struct{ s *stubStore }

func (t stubStaff) FindMany(context.Context) ([]model.Staff, error)        { return nil, t.s.op() }
func (t stubStaff) FindByID(context.Context, string) (*model.Staff, error) { return nil, t.s.op() }
func (t stubStaff) FindByEmail(context.Context, string) (*model.Staff, error) {
	return nil, t.s.op()
}
func (t stubStaff) Create(_ context.Context, in model.Staff) (*model.Staff, error) {
	return &in, t.s.op()
}
func (t stubStaff) Update(context.Context, string, model.StaffPatch) (*model.Staff, error) {
	return nil, t.s.op()
}
func (t stubStaff) Delete(context.Context, string) (bool, error) { return true, t.s.op() }

type stubAnalytics struct{ s *stubStore }

func (a stubAnalytics) LeadsByStatus(context.Context) ([]model.LeadStatusCount, error) {
	return nil, a.s.op()
}
func (a stubAnalytics) OpportunitiesByStage(context.Context) ([]model.StageSummary, error) {
	return nil, a.s.op()
}
func (a stubAnalytics) TotalRevenue(context.Context) (model.RevenueSummary, error) {
	return model.RevenueSummary{}, a.s.op()
}

func TestRouterReturnsFirstHealthyBackend(t *testing.T) {
	a, b, c := newStubStore("a"), newStubStore("b"), newStubStore("c")
	b.fail.Store(true)
	r := NewRouter([]Store{a, b, c}, RouterOptions{AutoFallback: true})

	got, err := r.Users().FindByID(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)
	// b and c were never consulted.
	assert.Equal(t, int32(0), b.calls.Load())
	assert.Equal(t, int32(0), c.calls.Load())
}

func TestRouterFallsThroughFailedBackends(t *testing.T) {
	a, b, c := newStubStore("a"), newStubStore("b"), newStubStore("c")
	a.fail.Store(true)
	b.fail.Store(true)
	r := NewRouter([]Store{a, b, c}, RouterOptions{AutoFallback: true})

	got, err := r.Users().FindByID(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "c", got.Name)

	// a and b are demoted; the next call goes straight to c.
	aCalls, bCalls := a.calls.Load(), b.calls.Load()
	_, err = r.Users().FindByID(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, aCalls, a.calls.Load())
	assert.Equal(t, bCalls, b.calls.Load())
}

func TestRouterNeverSkipsHealthyEarlierBackend(t *testing.T) {
	a, b := newStubStore("a"), newStubStore("b")
	r := NewRouter([]Store{a, b}, RouterOptions{AutoFallback: true})

	for i := 0; i < 3; i++ {
		got, err := r.Users().FindByID(context.Background(), "x")
		require.NoError(t, err)
		assert.Equal(t, "a", got.Name)
	}
	assert.Equal(t, int32(0), b.calls.Load())
}

func TestRouterAutoFallbackDisabled(t *testing.T) {
	a, b := newStubStore("a"), newStubStore("b")
	a.fail.Store(true)
	r := NewRouter([]Store{a, b}, RouterOptions{AutoFallback: false})

	_, err := r.Users().FindByID(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAllBackendsFailed)
	assert.Equal(t, int32(0), b.calls.Load())
}

func TestRouterAllBackendsFailed(t *testing.T) {
	a, b := newStubStore("a"), newStubStore("b")
	a.fail.Store(true)
	b.fail.Store(true)
	r := NewRouter([]Store{a, b}, RouterOptions{AutoFallback: true})

	_, err := r.Users().FindByID(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllBackendsFailed)
	// The last backend's error is preserved in the chain.
	assert.Contains(t, err.Error(), "b backend down")

	// Every backend is now demoted: nothing is attempted at all.
	_, err = r.Users().FindByID(context.Background(), "x")
	require.ErrorIs(t, err, ErrAllBackendsFailed)
}

func TestRouterDomainErrorDoesNotDemote(t *testing.T) {
	a, b := newStubStore("a"), newStubStore("b")
	a.domainErr = fmt.Errorf("user: %w: email is required", model.ErrInvalid)
	r := NewRouter([]Store{a, b}, RouterOptions{AutoFallback: true})

	_, err := r.Users().Create(context.Background(), model.User{})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalid)
	assert.NotErrorIs(t, err, ErrAllBackendsFailed)
	// b would reject the same input, so it is never consulted.
	assert.Equal(t, int32(0), b.calls.Load())
	assert.True(t, r.Health().Available("a"))

	// The backend stays in rotation for the next call.
	a.domainErr = nil
	got, err := r.Users().FindByID(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)
}

func TestRouterDuplicateEmailDoesNotFallThrough(t *testing.T) {
	a, b := newStubStore("a"), newStubStore("b")
	a.domainErr = ErrDuplicateEmail
	r := NewRouter([]Store{a, b}, RouterOptions{AutoFallback: true})

	_, err := r.Staff().Create(context.Background(), model.Staff{Email: "x@y.test"})
	require.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Equal(t, int32(0), b.calls.Load())
	assert.True(t, r.Health().Available("a"))
}

func TestRouterInitializeDemotesUnreachableBackend(t *testing.T) {
	a, b := newStubStore("a"), newStubStore("b")
	a.fail.Store(true)
	r := NewRouter([]Store{a, b}, RouterOptions{AutoFallback: true})
	r.Initialize(context.Background())

	assert.False(t, r.Health().Available("a"))
	assert.True(t, r.Health().Available("b"))

	aCalls := a.calls.Load()
	got, err := r.Users().FindByID(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)
	assert.Equal(t, aCalls, a.calls.Load())
}

func TestRouterReprobeReenablesBackend(t *testing.T) {
	a, b := newStubStore("a"), newStubStore("b")
	a.fail.Store(true)
	r := NewRouter([]Store{a, b}, RouterOptions{AutoFallback: true})

	got, err := r.Users().FindByID(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)

	a.fail.Store(false)
	r.Reprobe(context.Background())

	got, err = r.Users().FindByID(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)
}

func TestHealthSnapshot(t *testing.T) {
	h := NewHealth(nil)
	h.MarkAvailable("blob")
	h.MarkUnavailable("graph")

	snap := h.Snapshot()
	assert.Equal(t, StateAvailable, snap["blob"])
	assert.Equal(t, StateUnavailable, snap["graph"])
	_, ok := snap["sql"]
	assert.False(t, ok)
}
