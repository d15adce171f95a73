package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cmarinek/red-square-broadcast/internal/booking"
	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/google/uuid"
)

// Listing bounds for discovery queries.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// ScreenRepo provides access to `screens`. Availability boundaries are
// stored as TIME and returned as HH:MM.
type ScreenRepo struct{ db *sql.DB }

func NewScreenRepo(db *sql.DB) *ScreenRepo { return &ScreenRepo{db: db} }

const screenColumns = "id, owner_id, screen_name, address, city, location_lat, location_lng, price_per_hour, availability_start, availability_end, is_active, created_at, updated_at"

func scanScreen(s interface{ Scan(...any) error }) (model.Screen, error) {
	var (
		sc       model.Screen
		lat, lng sql.NullFloat64
	)
	err := s.Scan(&sc.ID, &sc.OwnerID, &sc.Name, &sc.Address, &sc.City, &lat, &lng,
		&sc.PricePerHour, &sc.AvailabilityStart, &sc.AvailabilityEnd, &sc.IsActive,
		&sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return sc, err
	}
	if lat.Valid {
		sc.Lat = &lat.Float64
	}
	if lng.Valid {
		sc.Lng = &lng.Float64
	}
	sc.AvailabilityStart = booking.NormalizeClock(sc.AvailabilityStart)
	sc.AvailabilityEnd = booking.NormalizeClock(sc.AvailabilityEnd)
	return sc, nil
}

// Create inserts s, assigning it a fresh id, and reloads the stored row.
func (r *ScreenRepo) Create(ctx context.Context, s *model.Screen) error {
	s.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO screens (id, owner_id, screen_name, address, city, location_lat, location_lng,
		                      price_per_hour, availability_start, availability_end, is_active)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		s.ID, s.OwnerID, s.Name, s.Address, s.City, s.Lat, s.Lng,
		s.PricePerHour, s.AvailabilityStart, s.AvailabilityEnd, s.IsActive)
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = stored
	return nil
}

// GetByID returns a screen regardless of its active flag.
func (r *ScreenRepo) GetByID(ctx context.Context, id string) (model.Screen, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+screenColumns+" FROM screens WHERE id=? LIMIT 1", id)
	s, err := scanScreen(row)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrNotFound
	}
	return s, err
}

// List returns screens matching f, newest first. Query matches name,
// address or city case-insensitively. Unless f.Unbounded, at most
// MaxListLimit rows come back.
func (r *ScreenRepo) List(ctx context.Context, f model.ScreenFilter) ([]model.Screen, error) {
	var (
		where []string
		args  []any
	)
	if f.ActiveOnly {
		where = append(where, "is_active = TRUE")
	}
	if f.City != "" {
		where = append(where, "city = ?")
		args = append(args, f.City)
	}
	if f.OwnerID != "" {
		where = append(where, "owner_id = ?")
		args = append(args, f.OwnerID)
	}
	if f.MaxPrice > 0 {
		where = append(where, "price_per_hour <= ?")
		args = append(args, f.MaxPrice)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		where = append(where, "(LOWER(screen_name) LIKE ? OR LOWER(address) LIKE ? OR LOWER(city) LIKE ?)")
		args = append(args, like, like, like)
	}
	q := "SELECT " + screenColumns + " FROM screens"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC"
	if !f.Unbounded {
		limit := f.Limit
		if limit <= 0 {
			limit = DefaultListLimit
		}
		if limit > MaxListLimit {
			limit = MaxListLimit
		}
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Screen
	for rows.Next() {
		s, err := scanScreen(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update overwrites the editable fields of s.
func (r *ScreenRepo) Update(ctx context.Context, s model.Screen) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE screens SET screen_name=?, address=?, city=?, location_lat=?, location_lng=?,
		        price_per_hour=?, availability_start=?, availability_end=?, updated_at=UTC_TIMESTAMP()
		 WHERE id=?`,
		s.Name, s.Address, s.City, s.Lat, s.Lng, s.PricePerHour, s.AvailabilityStart, s.AvailabilityEnd, s.ID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// ToggleActive flips is_active and returns the new value.
func (r *ScreenRepo) ToggleActive(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE screens SET is_active = NOT is_active, updated_at=UTC_TIMESTAMP() WHERE id=?", id)
	if err != nil {
		return false, err
	}
	if err := expectAffected(res); err != nil {
		return false, err
	}
	var active bool
	err = r.db.QueryRowContext(ctx, "SELECT is_active FROM screens WHERE id=?", id).Scan(&active)
	return active, err
}

// CountByOwner returns how many screens the user has listed.
func (r *ScreenRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM screens WHERE owner_id=?", ownerID).Scan(&n)
	return n, err
}
