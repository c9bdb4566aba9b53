package auth_test

import (
	"strings"
	"testing"

	"github.com/casadocarlos/matriculas/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPassword_Plaintext(t *testing.T) {
	assert.True(t, auth.VerifyPassword("hunter2", "hunter2"))
	assert.False(t, auth.VerifyPassword("hunter2", "hunter3"))
	assert.False(t, auth.VerifyPassword("hunter2", ""))
}

func TestVerifyPassword_EmptyConfiguredNeverMatches(t *testing.T) {
	assert.False(t, auth.VerifyPassword("", ""))
	assert.False(t, auth.VerifyPassword("", "anything"))
}

func TestVerifyPassword_BcryptHash(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.True(t, auth.VerifyPassword(hash, "hunter2"))
	assert.False(t, auth.VerifyPassword(hash, "hunter3"))
	assert.False(t, auth.VerifyPassword(hash, hash))
}
