package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"mgnrega_api/models"
	"mgnrega_api/store"
)

// downThreshold is the number of consecutive all-failure refresh
// cycles after which a data type is declared down.
const downThreshold = 3

// HealthTracker aggregates refresh outcomes into per-data-type cache
// status rows. It is the only writer of cache_status.
type HealthTracker struct {
	store store.Store
	clock clockwork.Clock
}

func NewHealthTracker(st store.Store, clock clockwork.Clock) *HealthTracker {
	return &HealthTracker{store: st, clock: clock}
}

// RecordOutcome folds one bulk-refresh tally into the status row for
// dataType. Any success resets the failure counter; consecutive
// all-failure cycles escalate to down/stale once they reach the
// threshold.
func (h *HealthTracker) RecordOutcome(ctx context.Context, dataType string, successCount, totalCount int) error {
	status, err := h.store.GetCacheStatus(ctx, dataType)
	if errors.Is(err, store.ErrNotFound) {
		status = &models.CacheStatus{
			DataType:  dataType,
			APIStatus: models.APIStatusUnknown,
		}
	} else if err != nil {
		return err
	}

	now := h.clock.Now()
	status.LastAPIFetch = now
	status.TotalRecords = successCount

	if successCount > 0 {
		status.LastSuccessfulFetch = now
		status.APIStatus = models.APIStatusActive
		status.IsStale = false
		status.FailedAttempts = 0
		status.ErrorMessage = ""
	} else {
		status.FailedAttempts++
		if status.FailedAttempts >= downThreshold {
			status.APIStatus = models.APIStatusDown
			status.IsStale = true
		}
		status.ErrorMessage = fmt.Sprintf("refresh cycle completed with 0/%d successes", totalCount)
	}

	if err := h.store.UpsertCacheStatus(ctx, status); err != nil {
		log.Printf("Error updating cache status for %s: %v", dataType, err)
		return err
	}
	return nil
}

// DataTypeStatus is one data type's snapshot in a health report.
type DataTypeStatus struct {
	LastFetch           time.Time `json:"last_fetch"`
	LastSuccessfulFetch time.Time `json:"last_successful_fetch"`
	TotalRecords        int       `json:"total_records"`
	FailedAttempts      int       `json:"failed_attempts"`
	IsStale             bool      `json:"is_stale"`
	APIStatus           string    `json:"api_status"`
}

// HealthReport is the operational view over all tracked data types.
type HealthReport struct {
	DataTypes     map[string]DataTypeStatus `json:"data_types"`
	OverallStatus string                    `json:"overall_status"`
	GeneratedAt   time.Time                 `json:"generated_at"`
	APIHealth     map[string]string         `json:"api_health"`
}

// trackedDataTypes enumerates the categories this deployment refreshes.
var trackedDataTypes = []string{"district_data"}

// Report assembles per-type snapshots and the overall status:
// critical if any type is down, degraded if any is stale, healthy
// otherwise.
func (h *HealthTracker) Report(ctx context.Context) (*HealthReport, error) {
	report := &HealthReport{
		DataTypes:     make(map[string]DataTypeStatus),
		OverallStatus: models.OverallHealthy,
		GeneratedAt:   h.clock.Now(),
		APIHealth:     make(map[string]string),
	}

	for _, dataType := range trackedDataTypes {
		status, err := h.store.GetCacheStatus(ctx, dataType)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		report.DataTypes[dataType] = DataTypeStatus{
			LastFetch:           status.LastAPIFetch,
			LastSuccessfulFetch: status.LastSuccessfulFetch,
			TotalRecords:        status.TotalRecords,
			FailedAttempts:      status.FailedAttempts,
			IsStale:             status.IsStale,
			APIStatus:           status.APIStatus,
		}
		report.APIHealth[dataType] = status.APIStatus

		if status.IsStale && report.OverallStatus == models.OverallHealthy {
			report.OverallStatus = models.OverallDegraded
		}
		if status.APIStatus == models.APIStatusDown {
			report.OverallStatus = models.OverallCritical
		}
	}

	return report, nil
}
