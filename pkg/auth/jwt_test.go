package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateAccessToken("user-1a2b3c4d5e6f7a8b", "dicoding")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1a2b3c4d5e6f7a8b", claims.UserID)
	assert.Equal(t, "dicoding", claims.Username)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	other := NewJWTManager("other-secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateAccessToken("user-1a2b3c4d5e6f7a8b", "dicoding")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("user-1a2b3c4d5e6f7a8b", "dicoding")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	_, err := m.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenSubject(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateRefreshToken("user-1a2b3c4d5e6f7a8b")
	require.NoError(t, err)

	userID, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1a2b3c4d5e6f7a8b", userID)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	first, err := m.GenerateRefreshToken("user-1a2b3c4d5e6f7a8b")
	require.NoError(t, err)
	second, err := m.GenerateRefreshToken("user-1a2b3c4d5e6f7a8b")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "back-to-back tokens for one user must differ")
}

func TestRefreshTokenNotValidAsAccessClaims(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateRefreshToken("user-1a2b3c4d5e6f7a8b")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Empty(t, claims.Username, "refresh tokens carry no username claim")
}
