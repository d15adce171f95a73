package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmarinek/red-square-broadcast/internal/booking"
	"github.com/cmarinek/red-square-broadcast/internal/lib/logger/sl"
	"github.com/cmarinek/red-square-broadcast/internal/metrics"
	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/cmarinek/red-square-broadcast/internal/payment"
	"github.com/cmarinek/red-square-broadcast/internal/queue"
	"github.com/cmarinek/red-square-broadcast/internal/repository"
)

type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (model.Booking, error)
	GetDetail(ctx context.Context, id string) (model.BookingDetail, error)
	ListDetailByUser(ctx context.Context, userID string) ([]model.BookingDetail, error)
	Confirm(ctx context.Context, id, sessionID string) error
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
}

type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// Bookings drives a booking from scheduling through payment.
type Bookings struct {
	log       *slog.Logger
	screens   ScreenGetter
	contents  ContentGetter
	bookings  BookingStore
	charger   payment.Charger
	publisher EventPublisher
	metrics   *metrics.Metrics
	currency  string
	now       func() time.Time
}

func NewBookings(
	log *slog.Logger,
	screens ScreenGetter,
	contents ContentGetter,
	bookings BookingStore,
	charger payment.Charger,
	publisher EventPublisher,
	m *metrics.Metrics,
	currency string,
) *Bookings {
	return &Bookings{
		log:       log,
		screens:   screens,
		contents:  contents,
		bookings:  bookings,
		charger:   charger,
		publisher: publisher,
		metrics:   m,
		currency:  currency,
		now:       time.Now,
	}
}

// SchedulePreview is everything needed to pick a date, start and duration.
type SchedulePreview struct {
	Screen    model.Screen        `json:"screen"`
	Content   model.ContentUpload `json:"content"`
	Slots     []string            `json:"time_slots"`
	Durations []int               `json:"durations"`
	MaxDate   string              `json:"max_date"`
	MinDate   string              `json:"min_date"`
}

// PaymentView is a booking as shown on the payment step, with the stored
// total split back into base price and platform fee.
type PaymentView struct {
	Booking     model.BookingDetail `json:"booking"`
	Hours       int                 `json:"hours"`
	BaseAmount  int64               `json:"base_amount"`
	PlatformFee int64               `json:"platform_fee"`
	TotalAmount int64               `json:"total_amount"`
}

// PayResult is the outcome of a successful charge. CheckoutURL is set, and
// Status stays pending, when the payer still has to finish a hosted
// checkout.
type PayResult struct {
	BookingID   string         `json:"booking_id"`
	SessionID   string         `json:"session_id"`
	Status      booking.Status `json:"status"`
	CheckoutURL string         `json:"checkout_url,omitempty"`
}

func screenErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrScreenNotFound
	}
	return err
}

func contentErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrContentNotFound
	}
	return err
}

func bookingErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrBookingNotFound
	}
	return err
}

// Preview loads the screen and content and computes the selectable slots.
func (s *Bookings) Preview(ctx context.Context, userID, screenID, contentID string) (SchedulePreview, error) {
	const op = "service.Bookings.Preview"

	var p SchedulePreview
	screen, content, err := s.screenAndContent(ctx, userID, screenID, contentID)
	if err != nil {
		return p, fmt.Errorf("%s: %w", op, err)
	}
	slots, err := booking.GenerateSlots(screen.AvailabilityStart, screen.AvailabilityEnd)
	if err != nil {
		return p, fmt.Errorf("%s: %w", op, err)
	}
	today := s.now().UTC()
	return SchedulePreview{
		Screen:    screen,
		Content:   content,
		Slots:     slots,
		Durations: booking.Durations,
		MinDate:   today.Format(booking.DateLayout),
		MaxDate:   today.AddDate(0, 0, booking.MaxAdvanceDays).Format(booking.DateLayout),
	}, nil
}

func (s *Bookings) screenAndContent(ctx context.Context, userID, screenID, contentID string) (model.Screen, model.ContentUpload, error) {
	screen, err := s.screens.GetByID(ctx, screenID)
	if err != nil {
		return screen, model.ContentUpload{}, screenErr(err)
	}
	content, err := s.contents.GetByID(ctx, contentID)
	if err != nil {
		return screen, content, contentErr(err)
	}
	if content.UserID != userID {
		return screen, content, ErrForbidden
	}
	return screen, content, nil
}

// CreatePending validates the requested schedule against the screen's slots
// and inserts a pending, unpaid booking priced per hour plus the platform
// fee. Overlap with other bookings is not checked.
func (s *Bookings) CreatePending(ctx context.Context, userID, screenID, contentID string, req booking.ScheduleRequest) (model.Booking, error) {
	const op = "service.Bookings.CreatePending"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID), slog.String("screen_id", screenID))

	var b model.Booking
	screen, _, err := s.screenAndContent(ctx, userID, screenID, contentID)
	if err != nil {
		return b, fmt.Errorf("%s: %w", op, err)
	}
	slots, err := booking.GenerateSlots(screen.AvailabilityStart, screen.AvailabilityEnd)
	if err != nil {
		return b, fmt.Errorf("%s: %w", op, err)
	}
	if err := booking.ValidateSchedule(req, slots, s.now()); err != nil {
		return b, fmt.Errorf("%s: %w: %w", op, ErrInvalidSchedule, err)
	}
	end, err := booking.EndTime(req.StartTime, req.Duration)
	if err != nil {
		return b, fmt.Errorf("%s: %w: %w", op, ErrInvalidSchedule, err)
	}

	b = model.Booking{
		UserID:        userID,
		ScreenID:      screenID,
		ContentID:     contentID,
		ScheduledDate: req.Date,
		StartTime:     booking.NormalizeClock(req.StartTime),
		EndTime:       end,
		TotalAmount:   booking.Total(screen.PricePerHour, int64(req.Duration)),
		Status:        booking.StatusPending,
		PaymentStatus: booking.PaymentPending,
	}
	if err := s.bookings.Create(ctx, &b); err != nil {
		return b, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.BookingsCreated.Inc()
	log.Info("booking created", slog.String("booking_id", b.ID), slog.Int64("total", b.TotalAmount))
	return b, nil
}

// Detail returns a booking visible to the actor: its broadcaster or an admin.
func (s *Bookings) Detail(ctx context.Context, actorID string, actorRole model.Role, bookingID string) (model.BookingDetail, error) {
	const op = "service.Bookings.Detail"

	d, err := s.bookings.GetDetail(ctx, bookingID)
	if err != nil {
		return d, fmt.Errorf("%s: %w", op, bookingErr(err))
	}
	if d.UserID != actorID && actorRole != model.RoleAdmin {
		return d, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	return d, nil
}

// PaymentSummary returns the booking with its hours and fee breakdown.
func (s *Bookings) PaymentSummary(ctx context.Context, actorID string, actorRole model.Role, bookingID string) (PaymentView, error) {
	d, err := s.Detail(ctx, actorID, actorRole, bookingID)
	if err != nil {
		return PaymentView{}, err
	}
	base, fee := booking.Breakdown(d.TotalAmount)
	return PaymentView{
		Booking:     d,
		Hours:       booking.Hours(d.StartTime, d.EndTime),
		BaseAmount:  base,
		PlatformFee: fee,
		TotalAmount: d.TotalAmount,
	}, nil
}

// Pay charges a pending booking. A charge that completes in place confirms
// the booking at once. A charge that hands the payer a hosted checkout page
// leaves the booking pending until CompleteCheckout is called for its
// session. The status check and the confirming write are separate
// statements. A failed charge leaves the booking pending; a failed publish
// is only logged.
func (s *Bookings) Pay(ctx context.Context, userID, bookingID string) (PayResult, error) {
	const op = "service.Bookings.Pay"
	log := s.log.With(slog.String("op", op), slog.String("booking_id", bookingID))

	var res PayResult
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, bookingErr(err))
	}
	if b.UserID != userID {
		return res, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	if !booking.CanConfirm(b.Status) {
		return res, fmt.Errorf("%s: %w", op, ErrNotPending)
	}
	screen, err := s.screens.GetByID(ctx, b.ScreenID)
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, screenErr(err))
	}

	charge, err := s.charger.Charge(ctx, payment.Charge{
		BookingID:   b.ID,
		Amount:      b.TotalAmount,
		Currency:    s.currency,
		Description: fmt.Sprintf("%s on %s %s-%s", screen.Name, b.ScheduledDate.Format(booking.DateLayout), b.StartTime, b.EndTime),
	})
	if err != nil {
		log.Warn("charge failed", sl.Err(err), slog.String("charger", s.charger.Name()))
		return res, fmt.Errorf("%s: %w: %w", op, ErrPaymentFailed, err)
	}

	if charge.RedirectURL != "" {
		log.Info("checkout opened", slog.String("session_id", charge.SessionID))
		return PayResult{
			BookingID:   b.ID,
			SessionID:   charge.SessionID,
			Status:      booking.StatusPending,
			CheckoutURL: charge.RedirectURL,
		}, nil
	}

	s.metrics.PaymentsCharged.WithLabelValues(s.charger.Name()).Inc()
	if err := s.confirm(ctx, log, b, screen, charge.SessionID); err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}
	return PayResult{BookingID: b.ID, SessionID: charge.SessionID, Status: booking.StatusConfirmed}, nil
}

// CompleteCheckout confirms a booking whose hosted checkout session has been
// paid. A booking that is no longer pending yields ErrNotPending.
func (s *Bookings) CompleteCheckout(ctx context.Context, bookingID, sessionID string) error {
	const op = "service.Bookings.CompleteCheckout"
	log := s.log.With(slog.String("op", op), slog.String("booking_id", bookingID))

	if bookingID == "" || sessionID == "" {
		return fmt.Errorf("%s: %w", op, ErrInvalidInput)
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, bookingErr(err))
	}
	if !booking.CanConfirm(b.Status) {
		return fmt.Errorf("%s: %w", op, ErrNotPending)
	}
	screen, err := s.screens.GetByID(ctx, b.ScreenID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, screenErr(err))
	}

	s.metrics.PaymentsCharged.WithLabelValues(s.charger.Name()).Inc()
	if err := s.confirm(ctx, log, b, screen, sessionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// confirm marks b confirmed under sessionID and announces it for settlement.
func (s *Bookings) confirm(ctx context.Context, log *slog.Logger, b model.Booking, screen model.Screen, sessionID string) error {
	if err := s.bookings.Confirm(ctx, b.ID, sessionID); err != nil {
		return bookingErr(err)
	}
	s.metrics.BookingsConfirmed.Inc()
	log.Info("booking confirmed", slog.String("session_id", sessionID))

	ev := queue.BookingConfirmedEvent{
		BookingID:     b.ID,
		UserID:        b.UserID,
		ScreenID:      b.ScreenID,
		OwnerID:       screen.OwnerID,
		ScreenName:    screen.Name,
		ScheduledDate: b.ScheduledDate.Format(booking.DateLayout),
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		TotalAmount:   b.TotalAmount,
		Currency:      s.currency,
		SessionID:     sessionID,
		ConfirmedAt:   s.now().UTC().Format(time.RFC3339),
	}
	if s.publisher != nil {
		if err := s.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
			log.Error("publish booking.confirmed failed", sl.Err(err))
		}
	}
	return nil
}

// BroadcasterDashboard is a broadcaster's bookings with summary figures.
type BroadcasterDashboard struct {
	Bookings []model.BookingDetail  `json:"bookings"`
	Stats    model.BroadcasterStats `json:"stats"`
}

// Dashboard lists the user's bookings, latest date first, and summarises
// them. Active means confirmed and scheduled today or later; upcoming means
// scheduled after today in any status.
func (s *Bookings) Dashboard(ctx context.Context, userID string) (BroadcasterDashboard, error) {
	const op = "service.Bookings.Dashboard"

	list, err := s.bookings.ListDetailByUser(ctx, userID)
	if err != nil {
		return BroadcasterDashboard{}, fmt.Errorf("%s: %w", op, err)
	}
	if list == nil {
		list = []model.BookingDetail{}
	}
	return BroadcasterDashboard{Bookings: list, Stats: BroadcasterStats(list, s.now())}, nil
}

// BroadcasterStats computes dashboard figures for bookings as of now.
func BroadcasterStats(list []model.BookingDetail, now time.Time) model.BroadcasterStats {
	n := now.UTC()
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	st := model.BroadcasterStats{TotalBookings: len(list)}
	for _, b := range list {
		d := b.ScheduledDate.UTC()
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		st.TotalSpent += b.TotalAmount
		if b.Status == booking.StatusConfirmed && !day.Before(today) {
			st.ActiveBookings++
		}
		if day.After(today) {
			st.UpcomingBookings++
		}
	}
	return st
}

// CompleteElapsed moves every confirmed booking whose end has passed to
// completed.
func (s *Bookings) CompleteElapsed(ctx context.Context) (int64, error) {
	const op = "service.Bookings.CompleteElapsed"

	n, err := s.bookings.CompleteElapsed(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		s.metrics.BookingsCompleted.Add(float64(n))
		s.log.Info("bookings completed", slog.String("op", op), slog.Int64("count", n))
	}
	return n, nil
}
