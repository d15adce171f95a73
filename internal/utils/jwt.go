// Package utils provides token and password helpers shared by the auth
// handler and the JWT middleware.
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by ParseAccessToken for any token that does not
// verify or carries no subject.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken is a signed JWT together with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// RefreshToken is the raw refresh token handed to the client. Only its
// SHA-256 hash is persisted.
type RefreshToken struct {
	Raw string
	Exp time.Time
}

// NewAccessToken signs an HS256 JWT whose subject is the user id. Roles are
// not embedded; they are resolved from the profile on every request.
func NewAccessToken(secret, userID string, ttl time.Duration, now time.Time) (AccessToken, error) {
	exp := now.UTC().Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now.UTC()),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of raw and returns the
// subject user id.
func ParseAccessToken(secret, raw string) (string, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// NewRefreshToken returns 48 random bytes hex-encoded and their expiry.
func NewRefreshToken(ttl time.Duration, now time.Time) (RefreshToken, error) {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Raw: hex.EncodeToString(buf), Exp: now.UTC().Add(ttl)}, nil
}

// HashRefreshRaw returns the hex SHA-256 of a raw refresh token.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
