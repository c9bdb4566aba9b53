package auth_test

import (
	"encoding/hex"
	"testing"

	"github.com/casadocarlos/matriculas/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionToken(t *testing.T) {
	token, err := auth.NewSessionToken()
	require.NoError(t, err)

	// 48 random bytes, hex encoded.
	assert.Len(t, token, 96)
	_, err = hex.DecodeString(token)
	assert.NoError(t, err)

	other, err := auth.NewSessionToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
