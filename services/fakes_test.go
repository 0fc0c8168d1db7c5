package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"mgnrega_api/models"
	"mgnrega_api/store"
)

// fakeDataClient is a scriptable DataClient. failAll makes every fetch
// fail; failFor fails selected district codes only.
type fakeDataClient struct {
	mu      sync.Mutex
	calls   int
	failAll bool
	failFor map[string]bool
	record  func(districtCode string, year int) *models.DistrictData
}

func (c *fakeDataClient) FetchDistrictData(ctx context.Context, districtCode string, year int) (*models.DistrictData, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	if c.failAll || c.failFor[districtCode] {
		return nil, ErrSourceUnavailable
	}
	if c.record != nil {
		return c.record(districtCode, year), nil
	}
	return &models.DistrictData{
		DistrictCode:                 districtCode,
		DistrictName:                 "Testpur",
		StateName:                    "Teststate",
		Year:                         year,
		TotalPersonDays:              1000,
		TotalExpenditure:             50,
		ActiveWorkers:                200,
		AverageDaysPerHousehold:      45,
		EmploymentProvidedPercentage: 45,
		TimelyPaymentPercentage:      80,
		DataSource:                   "test",
	}, nil
}

func (c *fakeDataClient) CheckHealth(ctx context.Context) *APIHealth {
	return &APIHealth{OverallStatus: "healthy", Endpoints: map[string]string{}}
}

func (c *fakeDataClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// newTestService wires an orchestrator over an in-memory store and a
// fake clock pinned to mid-2024.
func newTestService(t *testing.T) (*MGNREGAService, *store.MemoryStore, *fakeDataClient, clockwork.FakeClock) {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	st := store.NewMemoryStore().WithNow(clock.Now)
	client := &fakeDataClient{}
	svc := NewMGNREGAService(st, client, clock, 24*time.Hour)
	return svc, st, client, clock
}
