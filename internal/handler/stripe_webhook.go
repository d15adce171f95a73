package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/cmarinek/red-square-broadcast/internal/lib/logger/sl"
	"github.com/cmarinek/red-square-broadcast/internal/service"
)

const maxWebhookBytes = 64 << 10

type CheckoutCompleter interface {
	CompleteCheckout(ctx context.Context, bookingID, sessionID string) error
}

// StripeWebhookHandler receives Stripe events signed with the endpoint
// secret and confirms bookings whose checkout has been paid.
type StripeWebhookHandler struct {
	log      *slog.Logger
	secret   string
	bookings CheckoutCompleter
}

func NewStripeWebhookHandler(log *slog.Logger, secret string, bookings CheckoutCompleter) *StripeWebhookHandler {
	return &StripeWebhookHandler{log: log, secret: secret, bookings: bookings}
}

// Handle answers 400 to unsigned or malformed events and 500 when a paid
// checkout could not be confirmed, so Stripe retries it. Everything else,
// including events for bookings that are already confirmed, is 204.
func (h *StripeWebhookHandler) Handle(c echo.Context) error {
	const op = "handler.StripeWebhookHandler.Handle"
	log := h.log.With(slog.String("op", op))

	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBytes))
	if err != nil {
		return badRequest(c, "unreadable body")
	}
	event, err := webhook.ConstructEvent(payload, c.Request().Header.Get("Stripe-Signature"), h.secret)
	if err != nil {
		log.Warn("rejected webhook", sl.Err(err))
		return badRequest(c, "invalid signature")
	}
	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return c.NoContent(http.StatusNoContent)
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		log.Warn("bad checkout session", sl.Err(err))
		return badRequest(c, "invalid checkout session")
	}
	if cs.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		log.Info("checkout completed unpaid", slog.String("session_id", cs.ID))
		return c.NoContent(http.StatusNoContent)
	}
	bookingID := cs.Metadata["booking_id"]
	if bookingID == "" {
		bookingID = cs.ClientReferenceID
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err = h.bookings.CompleteCheckout(ctx, bookingID, cs.ID)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNotPending):
		log.Info("checkout already settled", slog.String("booking_id", bookingID))
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrBookingNotFound):
		log.Warn("checkout for unknown booking", slog.String("session_id", cs.ID), sl.Err(err))
	default:
		log.Error("confirm checkout failed", slog.String("booking_id", bookingID), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}
