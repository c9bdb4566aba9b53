package auth

import (
	"sync"
	"time"
)

// attemptRecord tracks consecutive login failures for one client key within
// a sliding window anchored at the first failure.
type attemptRecord struct {
	attempts       int
	firstAttemptAt time.Time
	blockedUntil   time.Time
}

// FailureResult describes the outcome of recording one failed login.
type FailureResult struct {
	Locked            bool
	AttemptsRemaining int
	RetryAfter        int // seconds, set when Locked
}

// BlockNotifier receives every transition into a locked state. Delivery is
// best-effort; implementations must never fail or block the login request.
type BlockNotifier interface {
	NotifyBlocked(key string, until time.Time)
}

// AttemptTracker counts failed logins per client key and escalates to a
// timed lockout once maxAttempts failures land inside a single window.
// All state is in memory; per-key mutations are atomic under one mutex so
// concurrent failures from the same key both count.
type AttemptTracker struct {
	mu          sync.Mutex
	records     map[string]*attemptRecord
	maxAttempts int
	window      time.Duration
	blockFor    time.Duration
	notifier    BlockNotifier
}

// NewAttemptTracker creates a tracker. notifier may be nil.
func NewAttemptTracker(maxAttempts int, window, blockFor time.Duration, notifier BlockNotifier) *AttemptTracker {
	return &AttemptTracker{
		records:     make(map[string]*attemptRecord),
		maxAttempts: maxAttempts,
		window:      window,
		blockFor:    blockFor,
		notifier:    notifier,
	}
}

// RecordFailure registers one failed login for key. A failure that lands
// after the window elapsed (and outside any lockout) starts a fresh record;
// reaching the attempt limit trips a lockout and restarts the window.
func (t *AttemptTracker) RecordFailure(key string, now time.Time) FailureResult {
	t.mu.Lock()

	rec, ok := t.records[key]
	withinWindow := ok && rec.firstAttemptAt.Add(t.window).After(now)
	stillLocked := ok && rec.blockedUntil.After(now)
	if !withinWindow && !stillLocked {
		rec = &attemptRecord{firstAttemptAt: now}
		t.records[key] = rec
	}

	rec.attempts++

	if rec.attempts >= t.maxAttempts {
		rec.blockedUntil = now.Add(t.blockFor)
		rec.attempts = 0
		rec.firstAttemptAt = now
		until := rec.blockedUntil
		t.mu.Unlock()

		if t.notifier != nil {
			t.notifier.NotifyBlocked(key, until)
		}

		return FailureResult{
			Locked:     true,
			RetryAfter: int(t.blockFor / time.Second),
		}
	}

	remaining := t.maxAttempts - rec.attempts
	t.mu.Unlock()

	return FailureResult{AttemptsRemaining: remaining}
}

// CheckLock reports whether key is currently locked out and, if so, for how
// many more seconds. A stale lockout does not block; the record is left for
// Sweep to collect.
func (t *AttemptTracker) CheckLock(key string, now time.Time) (bool, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[key]
	if !ok || !rec.blockedUntil.After(now) {
		return false, 0
	}

	retryAfter := int((rec.blockedUntil.Sub(now) + time.Second - 1) / time.Second)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return true, retryAfter
}

// Clear removes the record for key entirely. Called on successful login.
func (t *AttemptTracker) Clear(key string) {
	t.mu.Lock()
	delete(t.records, key)
	t.mu.Unlock()
}

// Sweep deletes records whose lockout and window have both elapsed and
// returns how many were dropped.
func (t *AttemptTracker) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for key, rec := range t.records {
		if rec.blockedUntil.After(now) {
			continue
		}
		if rec.firstAttemptAt.Add(t.window).After(now) {
			continue
		}
		delete(t.records, key)
		removed++
	}
	return removed
}
