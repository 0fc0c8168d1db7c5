package services

import (
	"context"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"mgnrega_api/store"
)

// StoreFactory opens a fresh Store handle. The scheduler never shares
// a request-scoped handle; it opens and closes its own per run.
type StoreFactory func(ctx context.Context) (store.Store, error)

// statsWindowYears is how many most-recent years per district the
// cleanup keeps regardless of age; the stats computation reads them.
const statsWindowYears = 2

// Scheduler periodically refreshes all cached districts and prunes
// old rows. Constructed at process start, stopped via Stop on
// shutdown; an in-flight refresh finishes its current district but
// starts no new one once stopped.
type Scheduler struct {
	newStore        StoreFactory
	client          DataClient
	clock           clockwork.Clock
	maxAge          time.Duration
	refreshInterval time.Duration
	cleanupInterval time.Duration
	retention       time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(newStore StoreFactory, client DataClient, clock clockwork.Clock, maxAge, refreshInterval, cleanupInterval, retention time.Duration) *Scheduler {
	return &Scheduler{
		newStore:        newStore,
		client:          client,
		clock:           clock,
		maxAge:          maxAge,
		refreshInterval: refreshInterval,
		cleanupInterval: cleanupInterval,
		retention:       retention,
	}
}

// Start launches the background loop. Call Stop to shut it down.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
	log.Printf("Scheduler started: refresh every %v, cleanup every %v", s.refreshInterval, s.cleanupInterval)
}

// Stop signals the loop to exit and waits for it to finish.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	log.Printf("Scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	refreshTicker := s.clock.NewTicker(s.refreshInterval)
	cleanupTicker := s.clock.NewTicker(s.cleanupInterval)
	defer refreshTicker.Stop()
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-refreshTicker.Chan():
			s.refreshOnce(ctx)
		case <-cleanupTicker.Chan():
			s.cleanupOnce(ctx)
		}
	}
}

// refreshOnce opens its own store handle and runs a full refresh
// pass.
func (s *Scheduler) refreshOnce(ctx context.Context) {
	log.Printf("Starting scheduled data refresh")

	st, err := s.newStore(ctx)
	if err != nil {
		log.Printf("Scheduled refresh could not open store: %v", err)
		return
	}
	defer st.Close()

	service := NewMGNREGAService(st, s.client, s.clock, s.maxAge)
	if _, err := service.RefreshAllData(ctx); err != nil {
		log.Printf("Scheduled refresh failed: %v", err)
	}
}

// cleanupOnce prunes rows older than the retention window, always
// keeping each district's most recent years.
func (s *Scheduler) cleanupOnce(ctx context.Context) {
	log.Printf("Starting cache cleanup")

	st, err := s.newStore(ctx)
	if err != nil {
		log.Printf("Cache cleanup could not open store: %v", err)
		return
	}
	defer st.Close()

	cutoff := s.clock.Now().Add(-s.retention)
	deleted, err := st.DeleteDistrictDataBefore(ctx, cutoff, statsWindowYears)
	if err != nil {
		log.Printf("Cache cleanup failed: %v", err)
		return
	}
	log.Printf("Cache cleanup removed %d rows older than %s", deleted, cutoff.Format(time.RFC3339))
}
