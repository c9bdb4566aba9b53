// Package auth holds credential helpers shared by the service and its tools.
package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptPrefixes identify a configured secret that is a bcrypt hash rather
// than a plaintext password.
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// VerifyPassword checks a submitted password against the configured admin
// secret. Deployments may store a bcrypt hash instead of the plaintext;
// anything else is compared constant-time so the comparison cost does not
// depend on where the strings diverge.
func VerifyPassword(configured, submitted string) bool {
	if configured == "" {
		return false
	}

	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(configured, prefix) {
			return bcrypt.CompareHashAndPassword([]byte(configured), []byte(submitted)) == nil
		}
	}

	return subtle.ConstantTimeCompare([]byte(configured), []byte(submitted)) == 1
}

// HashPassword returns a bcrypt hash suitable for the ADMIN_PASSWORD
// environment variable.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
