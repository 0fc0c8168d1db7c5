package config

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

var (
	// In-memory memo caches. GeoCache holds resolved
	// coordinate→district lookups; DistrictListCache holds per-state
	// district listings. Both are best-effort and not
	// coherence-critical.
	GeoCache          *cache.Cache
	DistrictListCache *cache.Cache
)

const (
	geoCacheDuration          = 24 * time.Hour
	districtListCacheDuration = 12 * time.Hour

	geoCleanupInterval          = 48 * time.Hour
	districtListCleanupInterval = 24 * time.Hour
)

func InitCache() {
	GeoCache = cache.New(geoCacheDuration, geoCleanupInterval)
	DistrictListCache = cache.New(districtListCacheDuration, districtListCleanupInterval)
}

func ClearAllCaches() {
	GeoCache.Flush()
	DistrictListCache.Flush()
}

func GetCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}
	return key
}
