package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/cmarinek/red-square-broadcast/internal/model"
)

// StatsRepo computes aggregate figures for the admin dashboard.
type StatsRepo struct{ db *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// Admin returns platform totals. Revenue sums total_amount over every
// booking, matching what broadcasters were quoted.
func (r *StatsRepo) Admin(ctx context.Context, monthStart time.Time) (model.AdminStats, error) {
	var s model.AdminStats
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles").Scan(&s.TotalUsers); err != nil {
		return s, err
	}
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(is_active), 0) FROM screens").
		Scan(&s.TotalScreens, &s.ActiveScreens); err != nil {
		return s, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(total_amount), 0),
		        COALESCE(SUM(status = 'pending'), 0),
		        COALESCE(SUM(CASE WHEN created_at >= ? THEN total_amount ELSE 0 END), 0),
		        COALESCE(SUM(created_at >= ?), 0)
		 FROM bookings`, monthStart.UTC(), monthStart.UTC()).
		Scan(&s.TotalBookings, &s.TotalRevenue, &s.PendingBookings, &s.MonthlyRevenue, &s.MonthlyBookings); err != nil {
		return s, err
	}
	return s, nil
}
