package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"mgnrega_api/models"
)

type dataKey struct {
	code string
	year int
}

// MemoryStore is a map-backed Store used for tests and single-node
// development (STORE_BACKEND=memory). Same upsert-by-key semantics as
// the database backends.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[dataKey]models.DistrictData
	stats  map[string]models.DistrictStats
	status map[string]models.CacheStatus
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:   make(map[dataKey]models.DistrictData),
		stats:  make(map[string]models.DistrictStats),
		status: make(map[string]models.CacheStatus),
		now:    time.Now,
	}
}

// WithNow overrides the timestamp source; tests pair this with a fake
// clock.
func (s *MemoryStore) WithNow(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) GetDistrictData(ctx context.Context, districtCode string, year int) (*models.DistrictData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.data[dataKey{districtCode, year}]
	if !ok {
		return nil, ErrNotFound
	}
	copied := d
	return &copied, nil
}

func (s *MemoryStore) UpsertDistrictData(ctx context.Context, data *models.DistrictData) (*models.DistrictData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *data
	stored.LastUpdated = s.now()
	s.data[dataKey{data.DistrictCode, data.Year}] = stored

	copied := stored
	return &copied, nil
}

func (s *MemoryStore) GetRecentDistrictData(ctx context.Context, districtCode string, limit int) ([]*models.DistrictData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.DistrictData
	for key, d := range s.data {
		if key.code == districtCode {
			copied := d
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Year > result[j].Year
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *MemoryStore) GetDistrictStats(ctx context.Context, districtCode string) (*models.DistrictStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stats[districtCode]
	if !ok {
		return nil, ErrNotFound
	}
	copied := st
	return &copied, nil
}

func (s *MemoryStore) UpsertDistrictStats(ctx context.Context, stats *models.DistrictStats) (*models.DistrictStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *stats
	stored.LastUpdated = s.now()
	s.stats[stats.DistrictCode] = stored

	copied := stored
	return &copied, nil
}

func (s *MemoryStore) ListDistrictCodes(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var codes []string
	for key := range s.data {
		if !seen[key.code] {
			seen[key.code] = true
			codes = append(codes, key.code)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

func (s *MemoryStore) GetCacheStatus(ctx context.Context, dataType string) (*models.CacheStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs, ok := s.status[dataType]
	if !ok {
		return nil, ErrNotFound
	}
	copied := cs
	return &copied, nil
}

func (s *MemoryStore) UpsertCacheStatus(ctx context.Context, status *models.CacheStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *status
	stored.UpdatedAt = s.now()
	s.status[status.DataType] = stored
	return nil
}

func (s *MemoryStore) DeleteDistrictDataBefore(ctx context.Context, cutoff time.Time, keepYears int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Years to keep per district, newest first.
	keep := make(map[string]map[int]bool)
	byCode := make(map[string][]int)
	for key := range s.data {
		byCode[key.code] = append(byCode[key.code], key.year)
	}
	for code, years := range byCode {
		sort.Sort(sort.Reverse(sort.IntSlice(years)))
		keep[code] = make(map[int]bool)
		for i, year := range years {
			if i >= keepYears {
				break
			}
			keep[code][year] = true
		}
	}

	var deleted int64
	for key, d := range s.data {
		if d.LastUpdated.Before(cutoff) && !keep[key.code][key.year] {
			delete(s.data, key)
			deleted++
		}
	}
	return deleted, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
