package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReapSpec is how often idle sessions are collected
const ReapSpec = "@every 1m"

// SessionReaper discards sessions that have been idle too long
type SessionReaper interface {
	ReapIdle(maxIdle time.Duration) int
	Len() int
}

// Scheduler handles periodic background jobs for the designer API
type Scheduler struct {
	cron     *cron.Cron
	sessions SessionReaper
	maxIdle  time.Duration
	log      *zap.SugaredLogger

	// OnReap, when set, is called with the live session count after each run
	OnReap func(live int)
}

// NewScheduler creates a new scheduler instance
func NewScheduler(sessions SessionReaper, maxIdle time.Duration, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		sessions: sessions,
		maxIdle:  maxIdle,
		log:      log,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(ReapSpec, s.ReapSessions); err != nil {
		s.log.Errorw("failed to register session reaper job", "error", err)
		return err
	}

	s.cron.Start()
	s.log.Infow("scheduler started", "maxIdle", s.maxIdle)
	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}

// ReapSessions discards idle sessions once
func (s *Scheduler) ReapSessions() {
	removed := s.sessions.ReapIdle(s.maxIdle)
	live := s.sessions.Len()
	if removed > 0 {
		s.log.Infow("reaped idle sessions", "removed", removed, "live", live)
	}
	if s.OnReap != nil {
		s.OnReap(live)
	}
}
