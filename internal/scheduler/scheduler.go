// Package scheduler wires up the cron job that periodically imports
// recent Adzuna listings.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/adzuna"
)

// recentWindowHours is the lookback passed to each scheduled run.
const recentWindowHours = 24

// Scheduler wraps robfig/cron and manages the recurring import sync.
type Scheduler struct {
	cron *cron.Cron
	sync *adzuna.SyncService
	spec string // cron spec, e.g. "@every 24h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(sync *adzuna.SyncService, intervalHours int) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		sync: sync,
		spec: fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one sync
// immediately so the map has imported markers without waiting for the
// first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSync(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.runSync(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

func (s *Scheduler) runSync(ctx context.Context) {
	log.Println("[scheduler] Import sync started")

	summary, err := s.sync.SyncRecentJobs(ctx, recentWindowHours)
	if err != nil {
		log.Printf("[scheduler] Sync error: %v", err)
		return
	}

	log.Printf("[scheduler] Import sync complete — saved %d/%d jobs, %d errors",
		summary.Summary.TotalSaved, summary.Summary.TotalJobs, summary.Summary.TotalErrors)
}
