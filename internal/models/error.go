package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrBadRequest     = errors.New("bad request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternalServer = errors.New("internal server error")

	// ErrAuthNotConfigured is returned by the login flow when the process
	// has no admin password set.
	ErrAuthNotConfigured = errors.New("authentication not configured")
)

// CredentialsError reports a failed login along with how many attempts
// remain before the client key trips a lockout.
type CredentialsError struct {
	AttemptsRemaining int
}

func (e *CredentialsError) Error() string {
	return "invalid credentials"
}

// LockoutError reports that a client key is locked out of the login
// endpoint. Triggered distinguishes the failure that tripped the lock from
// requests arriving while it is already in force.
type LockoutError struct {
	RetryAfter int // seconds until the lock expires
	Triggered  bool
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("locked out, retry after %ds", e.RetryAfter)
}
