package models

import "time"

// API status values tracked per data type.
const (
	APIStatusUnknown = "unknown"
	APIStatusActive  = "active"
	APIStatusLimited = "limited"
	APIStatusDown    = "down"
)

// Overall service health derived from the per-type statuses.
const (
	OverallHealthy  = "healthy"
	OverallDegraded = "degraded"
	OverallCritical = "critical"
)

// CacheStatus tracks fetch outcomes and freshness for one data type
// (e.g. "district_data"). One row per data type, upserted on every
// refresh cycle.
type CacheStatus struct {
	DataType            string    `json:"data_type" bson:"data_type"`
	LastAPIFetch        time.Time `json:"last_api_fetch" bson:"last_api_fetch"`
	LastSuccessfulFetch time.Time `json:"last_successful_fetch" bson:"last_successful_fetch"`
	TotalRecords        int       `json:"total_records" bson:"total_records"`
	FailedAttempts      int       `json:"failed_attempts" bson:"failed_attempts"`
	IsStale             bool      `json:"is_stale" bson:"is_stale"`
	APIStatus           string    `json:"api_status" bson:"api_status"`
	ErrorMessage        string    `json:"error_message,omitempty" bson:"error_message"`
	UpdatedAt           time.Time `json:"updated_at" bson:"updated_at"`
}
