package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/AI2HU/trader-ai/internal/logger"
	"github.com/AI2HU/trader-ai/internal/models"
)

// DefaultProbeInterval is how often the database is probed when no
// interval is configured.
const DefaultProbeInterval = 30 * time.Second

// Checker reports the current database status
type Checker interface {
	CheckDatabase(ctx context.Context) string
}

// Scheduler periodically probes the database and logs status changes
type Scheduler struct {
	checker  Checker
	interval time.Duration
	cron     *cron.Cron
	running  bool
	last     string
	mu       sync.RWMutex
}

// New creates a new scheduler
func New(checker Checker, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &Scheduler{
		checker:  checker,
		interval: interval,
	}
}

// Start registers the probe and starts the cron runner
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	// Each Start gets its own runner.
	runner := cron.New()
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := runner.AddFunc(spec, func() { s.Probe(ctx) }); err != nil {
		return fmt.Errorf("failed to register probe %q: %w", spec, err)
	}

	runner.Start()
	s.cron = runner
	s.running = true

	logger.Info("Database probe scheduled every %s", s.interval)
	return nil
}

// Stop stops the scheduler and waits for a running probe to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	runner := s.cron
	s.mu.Unlock()

	// Probe takes the lock, so wait for in-flight runs without holding it.
	<-runner.Stop().Done()
	logger.Info("Database probe stopped")
}

// Probe runs one check and logs when the status changes
func (s *Scheduler) Probe(ctx context.Context) string {
	status := s.checker.CheckDatabase(ctx)

	s.mu.Lock()
	previous := s.last
	s.last = status
	s.mu.Unlock()

	switch {
	case previous == status:
		logger.Debug("Database probe: %s", status)
	case status == models.StatusHealthy:
		logger.Info("Database is %s", status)
	default:
		logger.Warning("Database is %s", status)
	}
	return status
}

// LastStatus returns the most recent probe result, or "" before the first probe
func (s *Scheduler) LastStatus() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}
