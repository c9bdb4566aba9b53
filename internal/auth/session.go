package auth

import (
	"sync"
	"time"
)

// SessionStore keeps issued session tokens in memory, mapped to their
// expiry. Sessions deliberately do not survive a process restart.
//
// Methods take the current time explicitly so expiry behavior is
// deterministic under test; request handlers pass time.Now().
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	ttl      time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]time.Time),
		ttl:      ttl,
	}
}

// Issue mints a new token valid for the configured TTL from now.
func (s *SessionStore) Issue(now time.Time) (string, error) {
	token, err := NewSessionToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.sessions[token] = now.Add(s.ttl)
	s.mu.Unlock()

	return token, nil
}

// Validate reports whether token is a live session. A valid token has its
// expiry pushed forward by the full TTL (renew-on-use); an expired one is
// removed on the spot.
func (s *SessionStore) Validate(token string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.sessions[token]
	if !ok {
		return false
	}

	if !expiresAt.After(now) {
		delete(s.sessions, token)
		return false
	}

	s.sessions[token] = now.Add(s.ttl)
	return true
}

// Sweep removes every session whose expiry has passed and returns how many
// were dropped. Called periodically, independent of request traffic.
func (s *SessionStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, expiresAt := range s.sessions {
		if !expiresAt.After(now) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// TTL returns the configured session lifetime.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}
