package logger

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// BlockLog appends one line per lockout event to a durable text file, the
// audit trail consulted when someone asks "who has been hammering the login
// endpoint". Appends are fire-and-forget: a failed write is reported on the
// diagnostic logger and never fails the login request that triggered it.
type BlockLog struct {
	path   string
	logger *slog.Logger
}

func NewBlockLog(path string, logger *slog.Logger) *BlockLog {
	return &BlockLog{
		path:   path,
		logger: logger,
	}
}

// NotifyBlocked satisfies the attempt tracker's notifier contract. The
// append runs detached so the caller never waits on the filesystem.
func (b *BlockLog) NotifyBlocked(key string, until time.Time) {
	if key == "" {
		return
	}
	go b.append(key, until)
}

func (b *BlockLog) append(key string, until time.Time) {
	line := fmt.Sprintf("[%s] IP %s bloqueado até %s\n",
		time.Now().UTC().Format(time.RFC3339),
		key,
		until.UTC().Format(time.RFC3339),
	)

	f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		b.logger.Warn("could not record lockout", slog.String("key", key), slog.Any("error", err))
		return
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		b.logger.Warn("could not record lockout", slog.String("key", key), slog.Any("error", err))
	}
}
