package services

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/casadocarlos/matriculas/internal/auth"
	"github.com/casadocarlos/matriculas/internal/models"
	pkgauth "github.com/casadocarlos/matriculas/pkg/auth"
)

// LoginResult is returned on a successful login. ExpiresIn is in
// milliseconds, matching what the SPA expects.
type LoginResult struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// AuthService runs the login state machine against the shared admin
// credential, the session store and the per-client attempt tracker.
type AuthService struct {
	sessions      *auth.SessionStore
	attempts      *auth.AttemptTracker
	timing        *auth.TimingDelay
	adminUsername string
	adminPassword string
	logger        *slog.Logger
}

func NewAuthService(
	sessions *auth.SessionStore,
	attempts *auth.AttemptTracker,
	timing *auth.TimingDelay,
	adminUsername, adminPassword string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		sessions:      sessions,
		attempts:      attempts,
		timing:        timing,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		logger:        logger,
	}
}

// Enabled reports whether an admin password is configured for the process.
func (s *AuthService) Enabled() bool {
	return s.adminPassword != ""
}

// Login attempts to authenticate one request, keyed by clientKey.
// Failures are tracked; a key that keeps failing gets locked out and the
// transition is audited. A successful login wipes the key's record.
func (s *AuthService) Login(ctx context.Context, clientKey, username, password string) (*LoginResult, error) {
	if !s.Enabled() {
		return nil, models.ErrAuthNotConfigured
	}

	now := time.Now()

	if locked, retryAfter := s.attempts.CheckLock(clientKey, now); locked {
		return nil, &models.LockoutError{RetryAfter: retryAfter}
	}

	// Both checks always run so a wrong username costs the same as a wrong
	// password, and the caller only ever sees one generic failure.
	usernameOK := s.adminUsername == "" ||
		subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1
	passwordOK := pkgauth.VerifyPassword(s.adminPassword, password)

	if !usernameOK || !passwordOK {
		result := s.attempts.RecordFailure(clientKey, now)
		s.timing.Wait(false)

		s.logger.Warn("login failed",
			slog.String("client_key", clientKey),
			slog.Bool("locked", result.Locked),
		)

		if result.Locked {
			return nil, &models.LockoutError{RetryAfter: result.RetryAfter, Triggered: true}
		}
		return nil, &models.CredentialsError{AttemptsRemaining: result.AttemptsRemaining}
	}

	s.attempts.Clear(clientKey)

	token, err := s.sessions.Issue(now)
	if err != nil {
		s.logger.Error("failed to issue session", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("login succeeded", slog.String("client_key", clientKey))

	return &LoginResult{
		Token:     token,
		ExpiresIn: s.sessions.TTL().Milliseconds(),
	}, nil
}
