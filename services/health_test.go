package services

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"mgnrega_api/models"
	"mgnrega_api/store"
)

func newTestTracker(t *testing.T) (*HealthTracker, *store.MemoryStore, clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	st := store.NewMemoryStore().WithNow(clock.Now)
	return NewHealthTracker(st, clock), st, clock
}

func TestRecordOutcomeEscalatesToDown(t *testing.T) {
	tracker, st, _ := newTestTracker(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, tracker.RecordOutcome(ctx, "district_data", 0, 10))
	}
	status, err := st.GetCacheStatus(ctx, "district_data")
	require.NoError(t, err)
	require.Equal(t, 2, status.FailedAttempts)
	require.NotEqual(t, models.APIStatusDown, status.APIStatus)
	require.False(t, status.IsStale)

	// Third consecutive all-failure cycle crosses the threshold.
	require.NoError(t, tracker.RecordOutcome(ctx, "district_data", 0, 10))
	status, err = st.GetCacheStatus(ctx, "district_data")
	require.NoError(t, err)
	require.Equal(t, models.APIStatusDown, status.APIStatus)
	require.True(t, status.IsStale)
	require.NotEmpty(t, status.ErrorMessage)

	report, err := tracker.Report(ctx)
	require.NoError(t, err)
	require.Equal(t, models.OverallCritical, report.OverallStatus)
}

func TestRecordOutcomeSuccessResets(t *testing.T) {
	tracker, st, clock := newTestTracker(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, tracker.RecordOutcome(ctx, "district_data", 0, 10))
	}

	clock.Advance(6 * time.Hour)
	require.NoError(t, tracker.RecordOutcome(ctx, "district_data", 7, 10))

	status, err := st.GetCacheStatus(ctx, "district_data")
	require.NoError(t, err)
	require.Equal(t, models.APIStatusActive, status.APIStatus)
	require.Zero(t, status.FailedAttempts)
	require.False(t, status.IsStale)
	require.Empty(t, status.ErrorMessage)
	require.Equal(t, clock.Now(), status.LastSuccessfulFetch)
	require.Equal(t, 7, status.TotalRecords)
}

func TestReportEmptyStoreIsHealthy(t *testing.T) {
	tracker, _, _ := newTestTracker(t)

	report, err := tracker.Report(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.OverallHealthy, report.OverallStatus)
	require.Empty(t, report.DataTypes)
}

func TestReportDegradedOnStaleData(t *testing.T) {
	tracker, st, _ := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertCacheStatus(ctx, &models.CacheStatus{
		DataType:  "district_data",
		APIStatus: models.APIStatusActive,
		IsStale:   true,
	}))

	report, err := tracker.Report(ctx)
	require.NoError(t, err)
	require.Equal(t, models.OverallDegraded, report.OverallStatus)
	require.Equal(t, models.APIStatusActive, report.APIHealth["district_data"])
}
