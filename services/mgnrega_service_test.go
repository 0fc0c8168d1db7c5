package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mgnrega_api/models"
	"mgnrega_api/store"
)

func TestGetDistrictDataFetchesAndCaches(t *testing.T) {
	svc, _, client, _ := newTestService(t)
	ctx := context.Background()

	data, err := svc.GetDistrictData(ctx, "MH002", 2024)
	require.NoError(t, err)
	require.False(t, data.IsCached)
	require.Equal(t, "MH002", data.DistrictCode)
	require.Equal(t, 2024, data.Year)
	require.Equal(t, 1, client.callCount())

	// Second read within the freshness window comes from the cache.
	again, err := svc.GetDistrictData(ctx, "MH002", 2024)
	require.NoError(t, err)
	require.True(t, again.IsCached)
	require.False(t, again.StaleOnFallback)
	require.Equal(t, data.TotalPersonDays, again.TotalPersonDays)
	require.Equal(t, 1, client.callCount())
}

func TestGetDistrictDataRefetchesWhenStale(t *testing.T) {
	svc, st, client, clock := newTestService(t)
	ctx := context.Background()

	first, err := svc.GetDistrictData(ctx, "UP001", 2024)
	require.NoError(t, err)

	clock.Advance(25 * time.Hour)

	second, err := svc.GetDistrictData(ctx, "UP001", 2024)
	require.NoError(t, err)
	require.False(t, second.IsCached)
	require.Equal(t, 2, client.callCount())
	require.True(t, second.LastUpdated.After(first.LastUpdated))

	// Still a single row per (district, year) after the re-fetch.
	rows, err := st.GetRecentDistrictData(ctx, "UP001", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestGetDistrictDataStaleFallback(t *testing.T) {
	svc, _, client, clock := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetDistrictData(ctx, "RJ001", 2024)
	require.NoError(t, err)

	clock.Advance(48 * time.Hour)
	client.failAll = true

	data, err := svc.GetDistrictData(ctx, "RJ001", 2024)
	require.NoError(t, err)
	require.True(t, data.IsCached)
	require.True(t, data.StaleOnFallback)
	require.Equal(t, "RJ001", data.DistrictCode)
}

func TestGetDistrictDataNotFound(t *testing.T) {
	svc, _, client, _ := newTestService(t)
	client.failAll = true

	_, err := svc.GetDistrictData(context.Background(), "XX999", 2024)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetDistrictDataDefaultsToCurrentYear(t *testing.T) {
	svc, _, _, clock := newTestService(t)

	data, err := svc.GetDistrictData(context.Background(), "KA001", 0)
	require.NoError(t, err)
	require.Equal(t, clock.Now().Year(), data.Year)
}

func seedDistrictYear(t *testing.T, st *store.MemoryStore, code string, year int, personDays, expenditure float64) {
	t.Helper()
	_, err := st.UpsertDistrictData(context.Background(), &models.DistrictData{
		DistrictCode:                 code,
		DistrictName:                 "Testpur",
		StateName:                    "Teststate",
		Year:                         year,
		TotalPersonDays:              personDays,
		TotalExpenditure:             expenditure,
		ActiveWorkers:                200,
		AverageDaysPerHousehold:      60,
		EmploymentProvidedPercentage: 50,
		TimelyPaymentPercentage:      80,
	})
	require.NoError(t, err)
}

func TestGetDistrictStatsComputesTrends(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	ctx := context.Background()

	seedDistrictYear(t, st, "BR001", 2023, 800, 40)
	seedDistrictYear(t, st, "BR001", 2024, 1000, 50)

	stats, err := svc.GetDistrictStats(ctx, "BR001")
	require.NoError(t, err)
	require.Equal(t, "BR001", stats.DistrictCode)
	require.InDelta(t, 25.0, stats.EmploymentTrend, 0.001)
	require.InDelta(t, 25.0, stats.ExpenditureTrend, 0.001)
	// 0.4*50 + 0.3*80 + 0.3*60
	require.InDelta(t, 62.0, stats.PerformanceScore, 0.001)
	require.Equal(t, 200, stats.TotalBeneficiaries)
	require.InDelta(t, 50.0, stats.TotalInvestment, 0.001)
}

func TestGetDistrictStatsComputesDecliningTrends(t *testing.T) {
	svc, st, _, _ := newTestService(t)

	seedDistrictYear(t, st, "OR001", 2023, 1000, 50)
	seedDistrictYear(t, st, "OR001", 2024, 800, 40)

	stats, err := svc.GetDistrictStats(context.Background(), "OR001")
	require.NoError(t, err)
	require.Equal(t, -20.0, stats.EmploymentTrend)
	require.Equal(t, -20.0, stats.ExpenditureTrend)
}

func TestGetDistrictStatsZeroPreviousYieldsZeroTrend(t *testing.T) {
	svc, st, _, _ := newTestService(t)

	seedDistrictYear(t, st, "GJ001", 2023, 0, 0)
	seedDistrictYear(t, st, "GJ001", 2024, 1000, 50)

	stats, err := svc.GetDistrictStats(context.Background(), "GJ001")
	require.NoError(t, err)
	require.Zero(t, stats.EmploymentTrend)
	require.Zero(t, stats.ExpenditureTrend)
}

func TestGetDistrictStatsClampsAverageDays(t *testing.T) {
	svc, st, _, _ := newTestService(t)

	_, err := st.UpsertDistrictData(context.Background(), &models.DistrictData{
		DistrictCode:            "TN001",
		Year:                    2024,
		AverageDaysPerHousehold: 150,
	})
	require.NoError(t, err)

	stats, err := svc.GetDistrictStats(context.Background(), "TN001")
	require.NoError(t, err)
	// 0.3 * 100, the other components are zero.
	require.InDelta(t, 30.0, stats.PerformanceScore, 0.001)
}

func TestGetDistrictStatsSingleYearHasNoTrend(t *testing.T) {
	svc, st, _, _ := newTestService(t)

	seedDistrictYear(t, st, "WB001", 2024, 1000, 50)

	stats, err := svc.GetDistrictStats(context.Background(), "WB001")
	require.NoError(t, err)
	require.Zero(t, stats.EmploymentTrend)
	require.Zero(t, stats.ExpenditureTrend)
}

func TestGetDistrictStatsNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.GetDistrictStats(context.Background(), "XX999")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetDistrictStatsFallsBackToStoredStats(t *testing.T) {
	svc, st, _, clock := newTestService(t)
	ctx := context.Background()

	_, err := st.UpsertDistrictStats(ctx, &models.DistrictStats{
		DistrictCode:     "HP001",
		PerformanceScore: 71.5,
	})
	require.NoError(t, err)

	// Stats are stale and no data rows remain to recompute from.
	clock.Advance(48 * time.Hour)

	stats, err := svc.GetDistrictStats(ctx, "HP001")
	require.NoError(t, err)
	require.InDelta(t, 71.5, stats.PerformanceScore, 0.001)
}

func TestGetDistrictStatsServesFreshStoredStats(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	ctx := context.Background()

	// Data rows would compute a different score; fresh stored stats win.
	seedDistrictYear(t, st, "PB001", 2024, 1000, 50)
	_, err := st.UpsertDistrictStats(ctx, &models.DistrictStats{
		DistrictCode:     "PB001",
		PerformanceScore: 99.9,
	})
	require.NoError(t, err)

	stats, err := svc.GetDistrictStats(ctx, "PB001")
	require.NoError(t, err)
	require.InDelta(t, 99.9, stats.PerformanceScore, 0.001)
}

func TestRefreshAllDataTally(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	ctx := context.Background()

	seedDistrictYear(t, st, "MH001", 2024, 900, 45)
	seedDistrictYear(t, st, "MH002", 2024, 800, 40)

	result, err := svc.RefreshAllData(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, result.Total)
	require.Equal(t, 2, result.Succeeded)

	status, err := st.GetCacheStatus(ctx, "district_data")
	require.NoError(t, err)
	require.Equal(t, models.APIStatusActive, status.APIStatus)
	require.Zero(t, status.FailedAttempts)
	require.False(t, status.IsStale)
}

func TestRefreshAllDataIsolatesFailures(t *testing.T) {
	svc, st, client, _ := newTestService(t)
	ctx := context.Background()

	seedDistrictYear(t, st, "MH001", 2024, 900, 45)
	seedDistrictYear(t, st, "MH002", 2024, 800, 40)
	client.failFor = map[string]bool{"MH001": true}

	result, err := svc.RefreshAllData(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, result.Total)
	require.Equal(t, 1, result.Succeeded)
}

func TestRefreshAllDataHonorsCancelledContext(t *testing.T) {
	svc, st, client, _ := newTestService(t)

	seedDistrictYear(t, st, "MH001", 2024, 900, 45)
	seedDistrictYear(t, st, "MH002", 2024, 800, 40)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.RefreshAllData(ctx)
	require.NoError(t, err)
	require.Zero(t, result.Succeeded)
	require.Zero(t, client.callCount())
}
