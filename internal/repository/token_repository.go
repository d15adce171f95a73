package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// TokenRepo persists and validates refresh tokens by their hash.
type TokenRepo struct{ db *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// ValidateRefresh returns the owning user id when a live token with the
// given hash exists. Revoked and expired tokens report ErrNotFound.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	var (
		userID    string
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if revokedAt.Valid || now.UTC().After(expiresAt) {
		return "", ErrNotFound
	}
	return userID, nil
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser revokes every active token of the user.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}
