package generation

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Scheduler drives the periodic generation sweep in the background
type Scheduler struct {
	service      *Service
	interval     time.Duration
	batchTimeout time.Duration
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

// NewScheduler creates a scheduler that sweeps every interval
func NewScheduler(service *Service, interval, batchTimeout time.Duration) *Scheduler {
	return &Scheduler{
		service:      service,
		interval:     interval,
		batchTimeout: batchTimeout,
		stopChan:     make(chan struct{}),
	}
}

// Start starts the scheduler in a goroutine
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop stops the scheduler gracefully, waiting for an in-progress sweep
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

// run is the main scheduler loop
func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	log.Printf("[INFO] Generation scheduler starting (interval %s)", s.interval)
	defer log.Printf("[INFO] Generation scheduler stopped")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			sweepID := uuid.NewString()[:8]
			result, err := s.service.ProcessAllEligibleUsers(ctx, s.batchTimeout)
			if err != nil {
				log.Printf("[ERROR] Sweep %s failed: %v", sweepID, err)
				continue
			}
			log.Printf("[INFO] Sweep %s: %d processed, %d generated, %d skipped, %d failed in %s",
				sweepID, result.Processed, result.Generated, result.Skipped, result.Failed, result.Elapsed.Round(time.Millisecond))
		}
	}
}
