// Package schedule runs the digest job on a cron schedule.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled run. The context is cancelled when the scheduler stops.
type Job func(ctx context.Context) error

// Scheduler triggers a job on a cron expression in a fixed timezone.
// A run that is still going when the next one is due is skipped.
type Scheduler struct {
	mu       sync.Mutex
	cron     *cron.Cron
	entryID  cron.EntryID
	location *time.Location
	job      Job
	logger   *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	runs     int
}

// New creates a scheduler for spec, a standard 5-field cron expression or
// a descriptor such as "@daily" or "@every 1h".
func New(spec, timezone string, job Job, logger *slog.Logger) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("job must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timezone == "" {
		timezone = "UTC"
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		location: loc,
		job:      job,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}

	id, err := s.cron.AddFunc(spec, s.run)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("add cron %q: %w", spec, err)
	}
	s.entryID = id
	return s, nil
}

func (s *Scheduler) run() {
	s.mu.Lock()
	s.runs++
	run := s.runs
	s.mu.Unlock()

	start := time.Now()
	s.logger.Info("scheduled run started", "run", run)
	if err := s.job(s.ctx); err != nil {
		s.logger.Error("scheduled run failed", "run", run, "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Info("scheduled run finished", "run", run, "duration", time.Since(start))
}

// Start begins cron execution
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "next", s.Next())
}

// Stop cancels a running job and waits for it to return
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// Next returns the next activation time, or zero before Start
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// NextAfter returns the activation following t
func (s *Scheduler) NextAfter(t time.Time) time.Time {
	return s.cron.Entry(s.entryID).Schedule.Next(t.In(s.location))
}

// Runs returns how many runs have started
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// Location returns the scheduler location
func (s *Scheduler) Location() *time.Location {
	return s.location
}
