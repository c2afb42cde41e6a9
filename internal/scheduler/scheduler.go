package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/edgar/internal/common"
	"github.com/ternarybob/edgar/internal/monitor"
)

// DefaultSchedule polls every minute, matching the cadence the feed is
// published at.
const DefaultSchedule = "*/1 * * * *"

// cycleTimeout bounds a single poll cycle so a hung upstream cannot
// wedge the scheduler.
const cycleTimeout = 5 * time.Minute

// Scheduler drives the monitor service on a cron schedule.
type Scheduler struct {
	service *monitor.Service
	cron    *cron.Cron
	logger  arbor.ILogger

	// running guards against overlapping cycles when a run outlasts
	// the schedule interval. The late tick is skipped, not queued.
	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler for the given monitor service.
func NewScheduler(service *monitor.Service, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		service: service,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start begins scheduled polling. An empty schedule falls back to
// DefaultSchedule.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	_, err := s.cron.AddFunc(schedule, func() {
		s.runCycle()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", schedule).
		Msg("Filing monitor scheduler started")

	return nil
}

// Stop stops the scheduler. A cycle already in flight finishes.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Filing monitor scheduler stopped")
}

// RunNow triggers an immediate poll cycle without waiting for the next
// scheduled tick.
func (s *Scheduler) RunNow() {
	s.logger.Info().Msg("Triggering immediate poll cycle")
	go s.runCycle()
}

func (s *Scheduler) runCycle() {
	// A panicking cycle must not take down the cron goroutine (and with
	// it the process); it gets a crash report and the next tick runs.
	defer func() {
		if r := recover(); r != nil {
			common.WriteCrashFile(r, common.GetStackTrace())
			s.logger.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("Poll cycle panicked")
		}
	}()

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn().Msg("Previous poll cycle still running, skipping tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
	defer cancel()

	result := s.service.Run(ctx)

	if result.FetchErr {
		s.logger.Error().
			Str("cycle_id", result.CycleID).
			Str("error", result.FetchErrText).
			Msg("Poll cycle failed to fetch source")
		return
	}

	s.logger.Info().
		Str("cycle_id", result.CycleID).
		Int("fetched", result.Fetched).
		Int("admitted", result.Admitted).
		Int("duplicates", result.Duplicates).
		Int("rejected", result.Rejected).
		Int("skipped", result.Skipped).
		Msg("Poll cycle completed")
}
