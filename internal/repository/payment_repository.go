package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cmarinek/red-square-broadcast/internal/booking"
	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/google/uuid"
)

// PaymentRepo records settlements of confirmed bookings.
type PaymentRepo struct{ db *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Settlement is everything written when a confirmed booking is settled.
type Settlement struct {
	Payment      model.Payment
	OwnerID      string
	Notification model.Notification
}

// Settle writes the payment row, marks the booking paid, credits the screen
// owner's earnings and queues a notification, all in one transaction. A
// booking that already has a payment yields ErrConflict and nothing changes.
func (r *PaymentRepo) Settle(ctx context.Context, s Settlement) error {
	p := s.Payment
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	n := s.Notification
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (id, booking_id, amount, platform_fee, screen_owner_amount, currency, status, stripe_session_id)
		 VALUES (?,?,?,?,?,?,?,?)`,
		p.ID, p.BookingID, p.Amount, p.PlatformFee, p.ScreenOwnerAmount, p.Currency, p.Status, p.StripeSessionID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET payment_status=?, updated_at=UTC_TIMESTAMP() WHERE id=?",
		string(booking.PaymentPaid), p.BookingID)
	if err != nil {
		return err
	}
	if err := expectAffected(res); err != nil {
		return err
	}
	// The owner may have no profile row; earnings are then not tracked.
	if _, err := tx.ExecContext(ctx,
		"UPDATE profiles SET total_earnings = total_earnings + ? WHERE user_id=?",
		p.ScreenOwnerAmount, s.OwnerID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO notifications (id, user_id, title, message, type) VALUES (?,?,?,?,?)",
		n.ID, n.UserID, n.Title, n.Message, n.Type); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByBooking returns the payment of a booking or ErrNotFound.
func (r *PaymentRepo) GetByBooking(ctx context.Context, bookingID string) (model.Payment, error) {
	var (
		p       model.Payment
		session sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, booking_id, amount, platform_fee, screen_owner_amount, currency, status, stripe_session_id, created_at, updated_at
		 FROM payments WHERE booking_id=? LIMIT 1`, bookingID).
		Scan(&p.ID, &p.BookingID, &p.Amount, &p.PlatformFee, &p.ScreenOwnerAmount, &p.Currency, &p.Status, &session, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	if session.Valid {
		p.StripeSessionID = &session.String
	}
	return p, err
}
