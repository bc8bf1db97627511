package planner

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SessionSweeper periodically closes editing sessions nobody has touched
// for a while, flushing their pending saves.
type SessionSweeper struct {
	cron     *cron.Cron
	registry *Registry
	maxIdle  time.Duration
}

// NewSessionSweeper creates a sweeper over the given registry.
func NewSessionSweeper(registry *Registry, maxIdle time.Duration) *SessionSweeper {
	if maxIdle <= 0 {
		maxIdle = 30 * time.Minute
	}
	return &SessionSweeper{
		cron:     cron.New(cron.WithSeconds()),
		registry: registry,
		maxIdle:  maxIdle,
	}
}

// Start begins the periodic sweep.
func (s *SessionSweeper) Start() {
	slog.Info("starting session sweeper", "max_idle", s.maxIdle)

	s.cron.AddFunc("@every 1m", func() {
		if n := s.registry.SweepIdle(s.maxIdle); n > 0 {
			slog.Info("swept idle sessions", "count", n)
		}
	})

	s.cron.Start()
}

// Stop halts the sweeper, waiting for an in-flight sweep to finish.
func (s *SessionSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
