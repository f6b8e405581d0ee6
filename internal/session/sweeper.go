package session

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/recap-flow/internal/logger"
)

// Forgetter drops any record kept about a session once its directory is gone.
type Forgetter interface {
	Delete(ctx context.Context, id string) error
}

// Sweeper periodically removes sessions older than the retention window.
type Sweeper struct {
	manager   Manager
	forgetter Forgetter
	retention time.Duration
	interval  time.Duration
	logger    logger.Logger
	now       func() time.Time
}

// NewSweeper creates a Sweeper. forgetter may be nil.
func NewSweeper(m Manager, forgetter Forgetter, retention, interval time.Duration, log logger.Logger) *Sweeper {
	return &Sweeper{
		manager:   m,
		forgetter: forgetter,
		retention: retention,
		interval:  interval,
		logger:    log,
		now:       time.Now,
	}
}

// Run sweeps every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info(ctx, "Session sweeper started (retention: %s, interval: %s)", s.retention, s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Session sweeper stopped")
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep removes every expired session once and returns how many were deleted.
func (s *Sweeper) Sweep(ctx context.Context) int {
	expired, err := s.manager.Expired(s.now().Add(-s.retention))
	if err != nil {
		s.logger.Error(ctx, "Error listing sessions: %v", err)
		return 0
	}

	deleted := 0
	for _, sess := range expired {
		if err := s.manager.Remove(ctx, sess); err != nil {
			s.logger.Warn(ctx, "Failed to delete old session %s: %v", sess.ID, err)
			continue
		}
		if s.forgetter != nil {
			if err := s.forgetter.Delete(ctx, sess.ID); err != nil {
				s.logger.Warn(ctx, "Failed to delete record of session %s: %v", sess.ID, err)
			}
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info(ctx, "Cleaned up %d old sessions", deleted)
	}
	return deleted
}
