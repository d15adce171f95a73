package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmarinek/red-square-broadcast/internal/booking"
	"github.com/cmarinek/red-square-broadcast/internal/metrics"
	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/cmarinek/red-square-broadcast/internal/queue"
	"github.com/cmarinek/red-square-broadcast/internal/repository"
)

type Settler interface {
	Settle(ctx context.Context, s repository.Settlement) error
}

// Settlements records payments for confirmed bookings as their events
// arrive from the queue.
type Settlements struct {
	log     *slog.Logger
	store   Settler
	metrics *metrics.Metrics
}

func NewSettlements(log *slog.Logger, store Settler, m *metrics.Metrics) *Settlements {
	return &Settlements{log: log, store: store, metrics: m}
}

// HandleBookingConfirmed writes the payment split, marks the booking paid
// and notifies the broadcaster. Redelivered events for an already settled
// booking are acknowledged without changes.
func (s *Settlements) HandleBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	const op = "service.Settlements.HandleBookingConfirmed"
	log := s.log.With(slog.String("op", op), slog.String("booking_id", ev.BookingID))

	if ev.BookingID == "" {
		return queue.Permanent(fmt.Errorf("%s: %w: missing booking_id", op, ErrInvalidInput))
	}
	base, fee := booking.Breakdown(ev.TotalAmount)
	session := ev.SessionID
	err := s.store.Settle(ctx, repository.Settlement{
		Payment: model.Payment{
			BookingID:         ev.BookingID,
			Amount:            ev.TotalAmount,
			PlatformFee:       fee,
			ScreenOwnerAmount: base,
			Currency:          ev.Currency,
			Status:            "completed",
			StripeSessionID:   &session,
		},
		OwnerID: ev.OwnerID,
		Notification: model.Notification{
			UserID:  ev.UserID,
			Title:   "Booking confirmed",
			Message: fmt.Sprintf("Your content will play on %s on %s from %s to %s.", ev.ScreenName, ev.ScheduledDate, ev.StartTime, ev.EndTime),
			Type:    "booking",
		},
	})
	if errors.Is(err, repository.ErrConflict) {
		log.Info("booking already settled")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.PaymentsSettled.Inc()
	log.Info("payment recorded", slog.Int64("amount", ev.TotalAmount), slog.Int64("platform_fee", fee))
	return nil
}
