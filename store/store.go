package store

import (
	"context"
	"errors"
	"time"

	"mgnrega_api/models"
)

// ErrNotFound is returned when no row exists for the requested key.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence contract for the district data cache.
// Every write is a single-row atomic upsert keyed as documented on the
// method; no cross-row transactions are required by callers.
type Store interface {
	// GetDistrictData returns the row for (districtCode, year), or
	// ErrNotFound.
	GetDistrictData(ctx context.Context, districtCode string, year int) (*models.DistrictData, error)
	// UpsertDistrictData overwrites by (DistrictCode, Year) and stamps
	// LastUpdated with the current time. Returns the stored row.
	UpsertDistrictData(ctx context.Context, data *models.DistrictData) (*models.DistrictData, error)
	// GetRecentDistrictData returns up to limit rows for the district,
	// most recent year first.
	GetRecentDistrictData(ctx context.Context, districtCode string, limit int) ([]*models.DistrictData, error)

	// GetDistrictStats returns the stats row for the district, or
	// ErrNotFound.
	GetDistrictStats(ctx context.Context, districtCode string) (*models.DistrictStats, error)
	// UpsertDistrictStats overwrites by DistrictCode and stamps
	// LastUpdated.
	UpsertDistrictStats(ctx context.Context, stats *models.DistrictStats) (*models.DistrictStats, error)

	// ListDistrictCodes returns the distinct district codes present in
	// the data cache.
	ListDistrictCodes(ctx context.Context) ([]string, error)

	// GetCacheStatus returns the status row for a data type, or
	// ErrNotFound.
	GetCacheStatus(ctx context.Context, dataType string) (*models.CacheStatus, error)
	// UpsertCacheStatus overwrites by DataType.
	UpsertCacheStatus(ctx context.Context, status *models.CacheStatus) error

	// DeleteDistrictDataBefore removes rows last updated before cutoff,
	// except rows belonging to the keepYears most recent years of their
	// district (those back the stats computation).
	DeleteDistrictDataBefore(ctx context.Context, cutoff time.Time, keepYears int) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}
