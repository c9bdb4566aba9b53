package background_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/casadocarlos/matriculas/internal/auth"
	"github.com/casadocarlos/matriculas/internal/background"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func TestSweeper_EvictsExpiredState(t *testing.T) {
	sessions := auth.NewSessionStore(time.Millisecond)
	attempts := auth.NewAttemptTracker(5, time.Millisecond, time.Millisecond, nil)

	_, err := sessions.Issue(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	attempts.RecordFailure("1.2.3.4", time.Now().Add(-time.Hour))

	sweeper := background.NewSweeper(sessions, attempts, testLogger(), time.Hour)

	done := make(chan struct{})
	go func() {
		sweeper.Start(context.Background())
		close(done)
	}()

	// The startup sweep runs immediately; give it a moment.
	time.Sleep(50 * time.Millisecond)
	sweeper.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}

	// Everything stale was already collected.
	assert.Equal(t, 0, sessions.Sweep(time.Now()))
	assert.Equal(t, 0, attempts.Sweep(time.Now()))
}

func TestSweeper_StopsOnContextCancel(t *testing.T) {
	sessions := auth.NewSessionStore(time.Hour)
	attempts := auth.NewAttemptTracker(5, time.Minute, time.Minute, nil)
	sweeper := background.NewSweeper(sessions, attempts, testLogger(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not exit on context cancellation")
	}
}
