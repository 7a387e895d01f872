// Package reminder implements the periodic overdue-task scan that runs for
// the lifetime of the process, independent of any HTTP request.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/store"
)

// SchedulerConfig holds configuration for the reminder scheduler.
type SchedulerConfig struct {
	// Interval determines how often the overdue scan runs.
	// If zero, defaults to 24 hours.
	Interval time.Duration
}

// DefaultSchedulerConfig returns a SchedulerConfig with reasonable defaults.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Interval: 24 * time.Hour,
	}
}

// Scheduler periodically counts non-completed tasks across all users whose
// due date has passed and logs the count. It performs only read-then-log,
// never a write, and holds no per-user granularity.
//
// The scheduler is constructed and owned by the application; it starts
// exactly once at process startup and is stopped only during shutdown.
type Scheduler struct {
	taskStore  store.TaskStore
	config     SchedulerConfig
	logger     *slog.Logger
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	started    bool
	mu         sync.Mutex
	timeFunc   func() time.Time // Injectable for testing
}

// NewScheduler creates a new Scheduler.
func NewScheduler(taskStore store.TaskStore, config SchedulerConfig, logger *slog.Logger) *Scheduler {
	if config.Interval == 0 {
		config.Interval = 24 * time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		taskStore:  taskStore,
		config:     config,
		logger:     logger.With(slog.String("component", "reminder_scheduler")),
		ctx:        ctx,
		cancelFunc: cancel,
		timeFunc:   time.Now,
	}
}

// Start launches the background scan loop.
// Returns an error if the scheduler was already started.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("reminder scheduler already started")
	}
	s.started = true

	s.wg.Add(1)
	go s.run()

	s.logger.Info("reminder scheduler started",
		"interval", s.config.Interval.String())
	return nil
}

// Stop cancels the scan loop and waits for it to exit.
// It is safe to call Stop on a scheduler that was never started.
func (s *Scheduler) Stop() {
	s.cancelFunc()
	s.wg.Wait()
}

// run is the scan loop. It wakes on every tick until the context is canceled.
func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.scan()
		case <-s.ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return
		}
	}
}

// scan counts overdue open tasks across all users and logs the result.
// Failures are logged and swallowed; the next tick retries naturally.
func (s *Scheduler) scan() {
	now := s.timeFunc().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	count, err := s.taskStore.CountOpenOverdue(s.ctx, today)
	if err != nil {
		s.logger.Error("overdue task scan failed", "error", err)
		return
	}

	if count > 0 {
		s.logger.Info("overdue tasks detected",
			"overdue_count", count,
			"status_excluded", string(domain.TaskStatusCompleted))
	}
}
