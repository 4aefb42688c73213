package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	s := NewSigner("test-secret", time.Hour)
	token, err := s.GenerateToken("editor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "editor", claims.Subject)
}

func TestValidateToken_Invalid(t *testing.T) {
	s := NewSigner("test-secret", time.Hour)
	_, err := s.ValidateToken("invalid.token")
	require.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewSigner("a", time.Hour).GenerateToken("editor")
	require.NoError(t, err)
	_, err = NewSigner("b", time.Hour).ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	s := NewSigner("test-secret", time.Minute)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := s.GenerateToken("editor")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ValidateToken(token)
	require.Error(t, err)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	require.NoError(t, CheckPassword(hash, "hunter2"))
	require.ErrorIs(t, CheckPassword(hash, "wrong"), ErrInvalidPassword)
	require.ErrorIs(t, CheckPassword("", "hunter2"), ErrInvalidPassword)
}
