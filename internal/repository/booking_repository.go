package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cmarinek/red-square-broadcast/internal/booking"
	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/google/uuid"
)

// BookingRepo provides access to `bookings`. Overlapping rows for the same
// screen, date and time range are allowed.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = "b.id, b.user_id, b.screen_id, b.content_id, b.scheduled_date, b.scheduled_start_time, b.scheduled_end_time, b.total_amount, b.status, b.payment_status, b.stripe_session_id, b.created_at, b.updated_at"

func scanBooking(s interface{ Scan(...any) error }, extra ...any) (model.Booking, error) {
	var (
		b       model.Booking
		status  string
		payment string
		session sql.NullString
	)
	dest := []any{&b.ID, &b.UserID, &b.ScreenID, &b.ContentID, &b.ScheduledDate, &b.StartTime, &b.EndTime,
		&b.TotalAmount, &status, &payment, &session, &b.CreatedAt, &b.UpdatedAt}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return b, err
	}
	b.Status = booking.Status(status)
	b.PaymentStatus = booking.PaymentStatus(payment)
	if session.Valid {
		b.StripeSessionID = &session.String
	}
	b.StartTime = booking.NormalizeClock(b.StartTime)
	b.EndTime = booking.NormalizeClock(b.EndTime)
	return b, nil
}

// Create inserts b with a fresh id and reloads the stored row.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	b.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (id, user_id, screen_id, content_id, scheduled_date, scheduled_start_time,
		                       scheduled_end_time, total_amount, status, payment_status)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		b.ID, b.UserID, b.ScreenID, b.ContentID, b.ScheduledDate.Format(booking.DateLayout),
		b.StartTime, b.EndTime, b.TotalAmount, string(b.Status), string(b.PaymentStatus))
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = stored
	return nil
}

// GetByID returns a booking or ErrNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (model.Booking, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM bookings b WHERE b.id=? LIMIT 1", id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return b, ErrNotFound
	}
	return b, err
}

const detailQuery = `SELECT ` + bookingColumns + `,
       s.screen_name, s.address, s.city,
       c.file_name, c.file_type, c.file_url
FROM bookings b
JOIN screens s ON s.id = b.screen_id
LEFT JOIN content_uploads c ON c.id = b.content_id`

func scanDetail(s interface{ Scan(...any) error }) (model.BookingDetail, error) {
	var (
		d                  model.BookingDetail
		fileName, fileType sql.NullString
		fileURL            sql.NullString
	)
	b, err := scanBooking(s, &d.Screen.Name, &d.Screen.Address, &d.Screen.City, &fileName, &fileType, &fileURL)
	if err != nil {
		return d, err
	}
	d.Booking = b
	if fileName.Valid {
		d.Content = &model.ContentSummary{FileName: fileName.String, FileType: fileType.String, FileURL: fileURL.String}
	}
	return d, nil
}

// GetDetail returns a booking joined with its screen and content summaries.
func (r *BookingRepo) GetDetail(ctx context.Context, id string) (model.BookingDetail, error) {
	d, err := scanDetail(r.db.QueryRowContext(ctx, detailQuery+" WHERE b.id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	return d, err
}

// ListDetailByUser returns a user's bookings with summaries, latest
// scheduled date first.
func (r *BookingRepo) ListDetailByUser(ctx context.Context, userID string) ([]model.BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, detailQuery+" WHERE b.user_id=? ORDER BY b.scheduled_date DESC, b.scheduled_start_time DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.BookingDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// List returns every booking, newest first.
func (r *BookingRepo) List(ctx context.Context) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+bookingColumns+" FROM bookings b ORDER BY b.created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Confirm sets the booking confirmed and stamps the payment session id. The
// write is unconditional on the current status; callers check it first.
func (r *BookingRepo) Confirm(ctx context.Context, id, sessionID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status=?, stripe_session_id=?, updated_at=UTC_TIMESTAMP() WHERE id=?",
		string(booking.StatusConfirmed), sessionID, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// SetStatus overwrites the lifecycle status.
func (r *BookingRepo) SetStatus(ctx context.Context, id string, status booking.Status) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status=?, updated_at=UTC_TIMESTAMP() WHERE id=?",
		string(status), id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// CompleteElapsed moves every confirmed booking whose end is at or before
// now to completed and returns how many rows changed.
func (r *BookingRepo) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status=?, updated_at=UTC_TIMESTAMP()
		 WHERE status=? AND TIMESTAMP(scheduled_date, scheduled_end_time) <= ?`,
		string(booking.StatusCompleted), string(booking.StatusConfirmed), now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountByScreen returns how many bookings reference the screen.
func (r *BookingRepo) CountByScreen(ctx context.Context, screenID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings WHERE screen_id=?", screenID).Scan(&n)
	return n, err
}
