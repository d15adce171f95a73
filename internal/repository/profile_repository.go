package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cmarinek/red-square-broadcast/internal/model"
)

// ProfileRepo reads and writes `profiles`.
type ProfileRepo struct{ db *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

const profileColumns = "user_id, display_name, role, payout_enabled, stripe_account_id, total_earnings, created_at, updated_at"

func scanProfile(s interface{ Scan(...any) error }) (model.Profile, error) {
	var (
		p       model.Profile
		role    string
		account sql.NullString
	)
	err := s.Scan(&p.UserID, &p.DisplayName, &role, &p.PayoutEnabled, &account, &p.TotalEarnings, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	p.Role = model.Role(role)
	if account.Valid {
		p.StripeAccountID = &account.String
	}
	return p, nil
}

// GetByUserID returns the profile of a user or ErrNotFound.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (model.Profile, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE user_id=? LIMIT 1", userID)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// List returns every profile, newest first.
func (r *ProfileRepo) List(ctx context.Context) ([]model.Profile, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+profileColumns+" FROM profiles ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateRole overwrites the role of a profile.
func (r *ProfileRepo) UpdateRole(ctx context.Context, userID string, role model.Role) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE profiles SET role=?, updated_at=UTC_TIMESTAMP() WHERE user_id=?",
		string(role), userID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// expectAffected maps a zero-row update to ErrNotFound. The DSN sets
// clientFoundRows so matched-but-unchanged rows still count.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
