package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"mgnrega_api/models"
	"mgnrega_api/store"
)

// MGNREGAService is the cache orchestrator. Every read walks the
// degrade ladder: fresh cache, then live fetch with write-back, then
// stale cache, then not-found. Source failures never surface raw;
// only validation and persistence errors do.
type MGNREGAService struct {
	store  store.Store
	client DataClient
	health *HealthTracker
	clock  clockwork.Clock
	maxAge time.Duration
}

func NewMGNREGAService(st store.Store, client DataClient, clock clockwork.Clock, maxAge time.Duration) *MGNREGAService {
	return &MGNREGAService{
		store:  st,
		client: client,
		health: NewHealthTracker(st, clock),
		clock:  clock,
		maxAge: maxAge,
	}
}

// GetDistrictData returns the record for (districtCode, year). A year
// of 0 means the current year. The result carries IsCached=false only
// when it came straight from the source; StaleOnFallback marks a
// stale record served because the source was unavailable.
func (s *MGNREGAService) GetDistrictData(ctx context.Context, districtCode string, year int) (*models.DistrictData, error) {
	if year == 0 {
		year = s.clock.Now().Year()
	}

	cached, err := s.store.GetDistrictData(ctx, districtCode, year)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if cached != nil && !IsStale(cached.LastUpdated, s.clock.Now(), s.maxAge) {
		log.Printf("Returning cached data for district %s", districtCode)
		result := *cached
		result.IsCached = true
		return &result, nil
	}

	log.Printf("Fetching fresh data for district %s", districtCode)
	fresh, fetchErr := s.client.FetchDistrictData(ctx, districtCode, year)
	if fetchErr == nil {
		stored, err := s.saveDistrictData(ctx, fresh, districtCode, year)
		if err != nil {
			return nil, err
		}
		result := *stored
		result.IsCached = false
		return &result, nil
	}

	// Source failed: serve whatever we have, however old.
	if cached != nil {
		log.Printf("Source unavailable, returning stale cached data for district %s: %v", districtCode, fetchErr)
		result := *cached
		result.IsCached = true
		result.StaleOnFallback = true
		return &result, nil
	}

	return nil, store.ErrNotFound
}

// saveDistrictData merges a fetched record into the cached row for
// (districtCode, year), creating it when absent, and upserts the
// result.
func (s *MGNREGAService) saveDistrictData(ctx context.Context, fresh *models.DistrictData, districtCode string, year int) (*models.DistrictData, error) {
	record, err := s.store.GetDistrictData(ctx, districtCode, year)
	if errors.Is(err, store.ErrNotFound) {
		record = &models.DistrictData{
			DistrictCode: districtCode,
			Year:         year,
			IsCached:     true,
		}
	} else if err != nil {
		return nil, err
	}

	record.MergeFrom(fresh)
	stored, err := s.store.UpsertDistrictData(ctx, record)
	if err != nil {
		return nil, err
	}
	log.Printf("Saved district data to cache: %s", districtCode)
	return stored, nil
}

// GetDistrictStats returns the aggregate stats for a district,
// recomputing from the cached records when the stored stats are
// missing or stale. Stats are derived from the cache only, never from
// the source.
func (s *MGNREGAService) GetDistrictStats(ctx context.Context, districtCode string) (*models.DistrictStats, error) {
	cachedStats, err := s.store.GetDistrictStats(ctx, districtCode)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if cachedStats != nil && !IsStale(cachedStats.LastUpdated, s.clock.Now(), s.maxAge) {
		return cachedStats, nil
	}

	recent, err := s.store.GetRecentDistrictData(ctx, districtCode, 2)
	if err != nil {
		return nil, err
	}

	if len(recent) == 0 {
		// Nothing to compute from; previous stats, stale or not, beat
		// an empty answer.
		if cachedStats != nil {
			return cachedStats, nil
		}
		return nil, store.ErrNotFound
	}

	computed := s.calculateStats(districtCode, recent)

	if cachedStats != nil {
		cachedStats.MergeFrom(computed)
		computed = cachedStats
	}
	stored, err := s.store.UpsertDistrictStats(ctx, computed)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// calculateStats derives the performance score from the latest record
// and year-over-year trends from the latest two. recent is ordered
// most recent year first and is never empty.
func (s *MGNREGAService) calculateStats(districtCode string, recent []*models.DistrictData) *models.DistrictStats {
	latest := recent[0]

	// Clamp the day count at 100 so its contribution stays bounded.
	avgDays := latest.AverageDaysPerHousehold
	if avgDays > 100 {
		avgDays = 100
	}
	performanceScore := latest.EmploymentProvidedPercentage*0.4 +
		latest.TimelyPaymentPercentage*0.3 +
		avgDays*0.3

	var employmentTrend, expenditureTrend float64
	if len(recent) >= 2 {
		current, previous := recent[0], recent[1]
		if previous.TotalPersonDays > 0 {
			employmentTrend = (current.TotalPersonDays - previous.TotalPersonDays) / previous.TotalPersonDays * 100
		}
		if previous.TotalExpenditure > 0 {
			expenditureTrend = (current.TotalExpenditure - previous.TotalExpenditure) / previous.TotalExpenditure * 100
		}
	}

	return &models.DistrictStats{
		DistrictCode:     districtCode,
		DistrictName:     latest.DistrictName,
		StateName:        latest.StateName,
		PerformanceScore: round2(performanceScore),
		// Ranks and averages need state/national data; left at zero.
		EmploymentRank:            0,
		ExpenditureRank:           0,
		EmploymentTrend:           round2(employmentTrend),
		ExpenditureTrend:          round2(expenditureTrend),
		StateAverageComparison:    0,
		NationalAverageComparison: 0,
		TotalBeneficiaries:        latest.ActiveWorkers,
		TotalInvestment:           latest.TotalExpenditure,
		CalculationDate:           s.clock.Now(),
	}
}

// RefreshResult summarizes one bulk refresh pass.
type RefreshResult struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
}

// RefreshAllData re-fetches every district currently present in the
// cache for the current year. Each district is independent: one
// failure never aborts the batch. The tally is handed to the health
// tracker. No new district is started once ctx is cancelled.
func (s *MGNREGAService) RefreshAllData(ctx context.Context) (*RefreshResult, error) {
	log.Printf("Starting data refresh")

	codes, err := s.store.ListDistrictCodes(ctx)
	if err != nil {
		return nil, err
	}

	year := s.clock.Now().Year()
	successCount := 0

	for _, code := range codes {
		if ctx.Err() != nil {
			log.Printf("Data refresh interrupted after %d/%d districts", successCount, len(codes))
			break
		}
		fresh, err := s.client.FetchDistrictData(ctx, code, year)
		if err != nil {
			log.Printf("Failed to refresh data for district %s: %v", code, err)
			continue
		}
		if _, err := s.saveDistrictData(ctx, fresh, code, year); err != nil {
			log.Printf("Failed to save refreshed data for district %s: %v", code, err)
			continue
		}
		successCount++
	}

	if err := s.health.RecordOutcome(ctx, "district_data", successCount, len(codes)); err != nil {
		log.Printf("Error recording refresh outcome: %v", err)
	}

	log.Printf("Data refresh completed: %d/%d districts updated", successCount, len(codes))
	return &RefreshResult{Total: len(codes), Succeeded: successCount}, nil
}

// CacheStatus reports per-data-type freshness and the overall health
// derived from it.
func (s *MGNREGAService) CacheStatus(ctx context.Context) (*HealthReport, error) {
	return s.health.Report(ctx)
}

// Health exposes the tracker for callers that record outcomes
// directly.
func (s *MGNREGAService) Health() *HealthTracker {
	return s.health
}
