package model

import "time"

// User is an authentication identity as stored in the `users` table.
// Marketplace attributes live on Profile.
type User struct {
	ID           string    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash (bcrypt)
	CreatedAt    time.Time // users.created_at
}

// RefreshToken models a row in `refresh_tokens`. Only the SHA-256 hash of
// the raw token is stored.
type RefreshToken struct {
	ID        uint64
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
