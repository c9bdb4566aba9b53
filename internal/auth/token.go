package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the entropy of a session token. 48 random bytes (384 bits)
// make collisions and guessing negligible without an explicit uniqueness
// check on issue.
const tokenBytes = 48

// NewSessionToken returns an opaque, hex-encoded session token.
func NewSessionToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
