package utils

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	userID := gofakeit.UUID()
	tok, err := NewAccessToken("secret", userID, 15*time.Minute, time.Now())
	require.NoError(t, err)

	sub, err := ParseAccessToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, sub)
}

func TestParseAccessTokenRejects(t *testing.T) {
	valid, err := NewAccessToken("secret", "u1", time.Minute, time.Now())
	require.NoError(t, err)
	expired, err := NewAccessToken("secret", "u1", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = ParseAccessToken("other", valid.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken("secret", expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken("secret", "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken(t *testing.T) {
	now := time.Now()
	a, err := NewRefreshToken(24*time.Hour, now)
	require.NoError(t, err)
	b, err := NewRefreshToken(24*time.Hour, now)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Equal(t, now.UTC().Add(24*time.Hour), a.Exp)
	assert.Len(t, HashRefreshRaw(a.Raw), 64)
	assert.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
}

func TestPassword(t *testing.T) {
	pass := gofakeit.Password(true, true, true, false, false, 12)
	hash, err := HashPassword(pass, bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, pass))
	assert.False(t, VerifyPassword(hash, pass+"x"))
}
