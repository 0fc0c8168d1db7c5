package config

import (
	"os"
	"strconv"
	"time"
)

// Tunables for the caching policy, read from the environment with
// sensible defaults.

// CacheMaxAge is how old a cached record may be before it is
// considered stale.
func CacheMaxAge() time.Duration {
	return time.Duration(getEnvAsInt("CACHE_MAX_AGE_HOURS", 24)) * time.Hour
}

// RefreshInterval is how often the scheduler refreshes all cached
// districts from the source.
func RefreshInterval() time.Duration {
	return time.Duration(getEnvAsInt("REFRESH_INTERVAL_HOURS", 6)) * time.Hour
}

// CleanupInterval is how often the scheduler prunes old cache rows.
func CleanupInterval() time.Duration {
	return time.Duration(getEnvAsInt("CLEANUP_INTERVAL_HOURS", 24)) * time.Hour
}

// CleanupRetention is the age past which district rows become
// candidates for deletion.
func CleanupRetention() time.Duration {
	return time.Duration(getEnvAsInt("CLEANUP_RETENTION_DAYS", 90)) * 24 * time.Hour
}

// StoreBackend selects the persistence backend: "postgres" (default),
// "mongo", or "memory".
func StoreBackend() string {
	return getEnvWithDefault("STORE_BACKEND", "postgres")
}

// DataGovAPIKey enables live requests against data.gov.in when set.
func DataGovAPIKey() string {
	return os.Getenv("DATA_GOV_API_KEY")
}

// Helper functions
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
