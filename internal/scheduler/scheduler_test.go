package scheduler

import (
	"context"
	"errors"
	"pbcheck/internal/lottery"
	"pbcheck/internal/models"
	"pbcheck/internal/services"
	"pbcheck/internal/structures"
	"pbcheck/internal/testutil"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refreshCall struct {
	force    bool
	deadline bool
}

type mockService struct {
	mu      sync.Mutex
	calls   []refreshCall
	acq     services.Acquisition
	err     error
	drawing *models.Drawing
	meta    models.FetchMeta
}

func (m *mockService) Load(_ context.Context, _ services.Sink) {}
func (m *mockService) SubmitSelection(_ []string, _ string, _ services.Sink) error {
	return nil
}
func (m *mockService) Refresh(ctx context.Context, force bool) (services.Acquisition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	m.calls = append(m.calls, refreshCall{force: force, deadline: hasDeadline})
	return m.acq, m.err
}
func (m *mockService) Selection() (models.NumberSelection, bool) {
	return models.NumberSelection{}, false
}
func (m *mockService) Drawing() (models.Drawing, models.FetchMeta, bool) {
	if m.drawing == nil {
		return models.Drawing{}, models.FetchMeta{}, false
	}
	return *m.drawing, m.meta, true
}
func (m *mockService) NextCutoff() time.Time { return time.Time{} }

func testConfig() *structures.Config {
	return &structures.Config{
		Persistence: structures.Persistence{
			FilePath:     "/tmp/pbcheck-test.db",
			SaveInterval: time.Second,
			WriteThrough: true,
		},
		Source: structures.SourceConfig{Timeout: time.Second},
		Policy: structures.PolicyConfig{
			Timezone:   "America/New_York",
			DrawDays:   []string{"mon", "wed", "sat"},
			Cutoff:     "23:00",
			StaleAfter: 12 * time.Hour,
		},
		Scheduler: structures.SchedulerConfig{Enabled: true, Spec: "@every 15m"},
	}
}

func newTestScheduler(t *testing.T, conf *structures.Config, svc *mockService, store *testutil.MockStore, logger *testutil.MockLogger) *Scheduler {
	t.Helper()
	policy, err := lottery.NewFetchPolicy(conf)
	require.NoError(t, err)
	return NewScheduler(conf, logger, svc, store, policy, testutil.NewMockMetrics()).(*Scheduler)
}

func TestScheduler_InitRegistersRefresh(t *testing.T) {
	s := newTestScheduler(t, testConfig(), &mockService{}, testutil.NewMockStore(), &testutil.MockLogger{})
	require.NoError(t, s.Init())
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 1)
	assert.Equal(t, "America/New_York", s.cron.Location().String())
}

func TestScheduler_InitDisabled(t *testing.T) {
	conf := testConfig()
	conf.Scheduler.Enabled = false
	s := newTestScheduler(t, conf, &mockService{}, testutil.NewMockStore(), &testutil.MockLogger{})
	require.NoError(t, s.Init())
	defer s.Stop()

	assert.Empty(t, s.cron.Entries())
}

func TestScheduler_InitInvalidSpec(t *testing.T) {
	conf := testConfig()
	conf.Scheduler.Spec = "every now and then"
	s := newTestScheduler(t, conf, &mockService{}, testutil.NewMockStore(), &testutil.MockLogger{})

	err := s.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduler.spec")
}

func TestScheduler_PeriodicPersistWithoutWriteThrough(t *testing.T) {
	conf := testConfig()
	conf.Scheduler.Enabled = false
	conf.Persistence.WriteThrough = false
	store := testutil.NewMockStore()
	s := newTestScheduler(t, conf, &mockService{}, store, &testutil.MockLogger{})
	require.NoError(t, s.Init())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return store.Persisted() > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_RefreshIsBackgroundAndBounded(t *testing.T) {
	svc := &mockService{acq: services.Acquisition{
		Drawing: models.Drawing{Date: models.NewDrawDate(2026, time.January, 17)},
		Source:  services.SourceFresh,
	}}
	logger := &testutil.MockLogger{}
	s := newTestScheduler(t, testConfig(), svc, testutil.NewMockStore(), logger)

	s.refresh()

	require.Len(t, svc.calls, 1)
	assert.False(t, svc.calls[0].force)
	assert.True(t, svc.calls[0].deadline)
	assert.Equal(t, 1, logger.Count("info"))
}

func TestScheduler_RefreshLogsFailures(t *testing.T) {
	logger := &testutil.MockLogger{}
	svc := &mockService{err: errors.New("unable to load")}
	s := newTestScheduler(t, testConfig(), svc, testutil.NewMockStore(), logger)

	s.refresh()
	assert.Equal(t, 1, logger.Count("error"))

	svc.err = nil
	svc.acq = services.Acquisition{Source: services.SourceFallback, Err: errors.New("upstream 503")}
	s.refresh()
	assert.Equal(t, 1, logger.Count("warn"))
}

func TestScheduler_PersistDelegatesToStore(t *testing.T) {
	store := testutil.NewMockStore()
	logger := &testutil.MockLogger{}
	s := newTestScheduler(t, testConfig(), &mockService{}, store, logger)

	require.NoError(t, s.Persist())
	assert.Equal(t, 1, store.PersistCalls)

	store.PersistErr = testutil.ErrStoreUnavailable
	assert.ErrorIs(t, s.Persist(), testutil.ErrStoreUnavailable)
	assert.Equal(t, 1, logger.Count("error"))
}

func TestScheduler_RestoreDelegatesToStore(t *testing.T) {
	store := testutil.NewMockStore()
	s := newTestScheduler(t, testConfig(), &mockService{}, store, &testutil.MockLogger{})

	require.NoError(t, s.Restore())
	assert.Equal(t, 1, store.RestoreCalls)

	store.RestoreErr = testutil.ErrStoreUnavailable
	assert.ErrorIs(t, s.Restore(), testutil.ErrStoreUnavailable)
}

func TestScheduler_RestoreSeedsDrawingAge(t *testing.T) {
	fetched := time.UnixMilli(1768708800123)
	svc := &mockService{
		drawing: &models.Drawing{Date: models.NewDrawDate(2026, time.January, 17)},
		meta:    models.FetchMeta{LastFetch: fetched},
	}
	s := newTestScheduler(t, testConfig(), svc, testutil.NewMockStore(), &testutil.MockLogger{})

	require.NoError(t, s.Restore())
	metrics := s.metrics.(*testutil.MockMetrics)
	assert.True(t, fetched.Equal(metrics.LastFetch))
}

func TestScheduler_RestoreWithoutTimestampLeavesAgeUnset(t *testing.T) {
	svc := &mockService{drawing: &models.Drawing{Date: models.NewDrawDate(2026, time.January, 17)}}
	s := newTestScheduler(t, testConfig(), svc, testutil.NewMockStore(), &testutil.MockLogger{})

	require.NoError(t, s.Restore())
	assert.True(t, s.metrics.(*testutil.MockMetrics).LastFetch.IsZero())
}

func TestScheduler_StopBeforeInit(t *testing.T) {
	s := newTestScheduler(t, testConfig(), &mockService{}, testutil.NewMockStore(), &testutil.MockLogger{})
	assert.NotPanics(t, s.Stop)
}
