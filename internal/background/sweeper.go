package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/casadocarlos/matriculas/internal/auth"
)

// Sweeper periodically evicts expired sessions and stale login-attempt
// records. It runs on its own timer, fully decoupled from request traffic;
// the stores' own locking makes a sweep safe against concurrent renewals.
type Sweeper struct {
	sessions *auth.SessionStore
	attempts *auth.AttemptTracker
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewSweeper creates a new sweeper
func NewSweeper(sessions *auth.SessionStore, attempts *auth.AttemptTracker, logger *slog.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		sessions: sessions,
		attempts: attempts,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep. It blocks until Stop is called or the
// context is cancelled, so callers run it in a goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on startup
	s.run()

	for {
		select {
		case <-ticker.C:
			s.run()
		case <-s.stopCh:
			s.logger.Info("sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("sweeper context cancelled")
			return
		}
	}
}

func (s *Sweeper) run() {
	now := time.Now()
	expiredSessions := s.sessions.Sweep(now)
	staleAttempts := s.attempts.Sweep(now)

	if expiredSessions > 0 || staleAttempts > 0 {
		s.logger.Info("sweep completed",
			slog.Int("expired_sessions", expiredSessions),
			slog.Int("stale_attempts", staleAttempts),
		)
	}
}

// Stop signals the sweeper to stop
func (s *Sweeper) Stop() {
	close(s.stopCh)
}
