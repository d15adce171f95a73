package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/cmarinek/red-square-broadcast/internal/utils"
	"github.com/google/uuid"
)

// UserRepo reads and writes the `users` table.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Register creates a user and its profile in one transaction and returns the
// new user id. The email is normalised to lower case before insertion.
func (r *UserRepo) Register(ctx context.Context, email, password, displayName string, role model.Role, cost int) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash) VALUES (?,?,?)",
		id, email, hash); err != nil {
		if isDuplicateKey(err) {
			return "", ErrEmailExists
		}
		return "", err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO profiles (user_id, display_name, role) VALUES (?,?,?)",
		id, displayName, string(role)); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	committed = true
	return id, nil
}

// GetByEmail fetches a user by normalised email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id,email,password_hash,created_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id,email,password_hash,created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}
