package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/armoniahq/armonia/internal/clock"
	"github.com/armoniahq/armonia/internal/config"
	rollupdomain "github.com/armoniahq/armonia/internal/rollup/domain"
	"go.uber.org/zap"
)

const leaseKeyPrefix = "armonia:rollup:"

// Scheduler runs the portfolio rollup once per day at the configured
// time. It polls rather than sleeps to the target so clock adjustments
// and restarts behave predictably.
type Scheduler struct {
	cfg     config.RollupConfig
	log     *zap.Logger
	clock   clock.Clock
	rollups rollupdomain.Service
	locker  Locker

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

func NewScheduler(cfg config.Config, log *zap.Logger, clk clock.Clock, rollups rollupdomain.Service, locker Locker) *Scheduler {
	rollupCfg := cfg.Rollup
	if rollupCfg.CheckInterval <= 0 {
		rollupCfg.CheckInterval = time.Minute
	}
	if rollupCfg.LeaseTTL <= 0 {
		rollupCfg.LeaseTTL = 10 * time.Minute
	}

	return &Scheduler{
		cfg:     rollupCfg,
		log:     log.Named("rollup.scheduler"),
		clock:   clk,
		rollups: rollups,
		locker:  locker,
	}
}

// Start launches the polling loop. Calling Start on a running scheduler
// is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.log.Info("rollup scheduler started",
		zap.Int("hour", s.cfg.Hour),
		zap.Int("minute", s.cfg.Minute),
		zap.Duration("check_interval", s.cfg.CheckInterval),
	)
	return nil
}

// Stop cancels the loop and waits for an in-flight run to finish, bounded
// by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("rollup scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndTrigger(ctx)
		}
	}
}

func (s *Scheduler) checkAndTrigger(ctx context.Context) {
	now := s.clock.Now(ctx)
	currentDate := now.Format("2006-01-02")

	s.mu.Lock()
	alreadyRan := s.lastRunDate == currentDate
	s.mu.Unlock()
	if alreadyRan {
		return
	}

	// At-or-after match: a run missed by a restart, or cleared after a
	// failure, catches up on the next tick instead of waiting a day.
	if now.Hour() < s.cfg.Hour || (now.Hour() == s.cfg.Hour && now.Minute() < s.cfg.Minute) {
		return
	}

	s.mu.Lock()
	s.lastRunDate = currentDate
	s.mu.Unlock()

	s.TriggerRollup(ctx, currentDate)
}

// TriggerRollup runs the rollup for date under the distributed lease.
// It is also the entry point for manual reruns from the admin API.
func (s *Scheduler) TriggerRollup(ctx context.Context, date string) {
	key := leaseKeyPrefix + date
	acquired, err := s.locker.Acquire(ctx, key, s.cfg.LeaseTTL)
	if err != nil {
		s.log.Error("rollup lease acquisition failed", zap.String("date", date), zap.Error(err))
		return
	}
	if !acquired {
		s.log.Info("rollup already owned by another instance", zap.String("date", date))
		return
	}

	s.log.Info("running portfolio rollup", zap.String("date", date))
	if _, err := s.rollups.Run(ctx); err != nil {
		s.log.Error("portfolio rollup failed", zap.String("date", date), zap.Error(err))
		// The lease is released and the date cleared so the next tick
		// retries within the same day.
		if relErr := s.locker.Release(ctx, key); relErr != nil {
			s.log.Warn("rollup lease release failed", zap.String("date", date), zap.Error(relErr))
		}
		s.mu.Lock()
		s.lastRunDate = ""
		s.mu.Unlock()
	}
}
