package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"valutatrade-hub/internal/domain/model"
	"valutatrade-hub/internal/domain/ports"
	"valutatrade-hub/internal/metrics"
	"valutatrade-hub/pkg/logger"
)

var (
	ErrRefreshInProgress = errors.New("refresh already in progress")
	ErrSchedulerStopped  = errors.New("scheduler stopped")
)

const (
	StateIdle    = "idle"
	StateRunning = "running"
	StateStopped = "stopped"
)

// Scheduler drives periodic refresh cycles and owns the single-flight
// gate shared by timer ticks and manual triggers: at most one cycle
// runs at any moment. A tick that finds the gate held is dropped; a
// manual trigger is rejected with ErrRefreshInProgress.
type Scheduler struct {
	runner   ports.CycleRunner
	interval time.Duration
	metrics  *metrics.Metrics
	log      *logger.Logger

	mu       sync.Mutex
	state    string
	stopping bool
	started  bool

	inflight sync.WaitGroup
	loopWG   sync.WaitGroup
	quit     chan struct{}
	stopOnce sync.Once
}

func NewScheduler(runner ports.CycleRunner, interval time.Duration, metrics *metrics.Metrics, log *logger.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		metrics:  metrics,
		log:      log,
		state:    StateIdle,
		quit:     make(chan struct{}),
	}
}

// Start launches the refresh loop: one immediate cycle, then one per
// interval. Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopping {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.loopWG.Add(1)
	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.loopWG.Done()

	s.runTick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runTick(ctx)
		case <-ctx.Done():
			s.log.Info("Stopping refresh loop")
			return
		case <-s.quit:
			s.log.Info("Stopping refresh loop")
			return
		}
	}
}

func (s *Scheduler) runTick(ctx context.Context) {
	if err := s.acquire(); err != nil {
		if errors.Is(err, ErrRefreshInProgress) {
			s.metrics.TickDropped()
			s.log.Debug("Dropping refresh tick, cycle already running")
		}
		return
	}
	defer s.release()

	if _, err := s.runner.RunCycle(ctx, ""); err != nil {
		s.log.Error("Scheduled refresh failed", "error", err)
	}
}

// TriggerNow runs one cycle on the caller's goroutine, competing for
// the same gate as the timer.
func (s *Scheduler) TriggerNow(ctx context.Context, sourceFilter string) (*model.RefreshResult, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	return s.runner.RunCycle(ctx, sourceFilter)
}

// Stop is idempotent. It schedules no further ticks, waits for any
// in-flight cycle to finish, and leaves the scheduler terminally
// stopped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopping = true
	if s.state != StateRunning {
		s.state = StateStopped
	}
	s.mu.Unlock()

	s.stopOnce.Do(func() { close(s.quit) })

	s.loopWG.Wait()
	s.inflight.Wait()
}

func (s *Scheduler) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopping || s.state == StateStopped {
		return ErrSchedulerStopped
	}
	if s.state == StateRunning {
		return ErrRefreshInProgress
	}

	s.state = StateRunning
	s.inflight.Add(1)
	return nil
}

func (s *Scheduler) release() {
	s.mu.Lock()
	if s.stopping {
		s.state = StateStopped
	} else {
		s.state = StateIdle
	}
	s.mu.Unlock()
	s.inflight.Done()
}
