package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
)

// StripeCharger opens a hosted Checkout Session for the booking total.
type StripeCharger struct {
	client     *stripe.Client
	successURL string
	cancelURL  string
}

func NewStripeCharger(client *stripe.Client, successURL, cancelURL string) *StripeCharger {
	return &StripeCharger{client: client, successURL: successURL, cancelURL: cancelURL}
}

func (s *StripeCharger) Name() string { return "stripe" }

func (s *StripeCharger) Charge(ctx context.Context, c Charge) (Result, error) {
	const op = "payment.StripeCharger.Charge"

	cs, err := s.client.V1CheckoutSessions.Create(ctx, s.checkoutParams(c))
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	return Result{SessionID: cs.ID, RedirectURL: cs.URL}, nil
}

func (s *StripeCharger) checkoutParams(c Charge) *stripe.CheckoutSessionCreateParams {
	success := strings.TrimRight(s.successURL, "/") + "/" + c.BookingID
	return &stripe.CheckoutSessionCreateParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(success),
		CancelURL:         stripe.String(s.cancelURL),
		ClientReferenceID: stripe.String(c.BookingID),
		Metadata:          map[string]string{"booking_id": c.BookingID},
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(c.Currency),
					UnitAmount: stripe.Int64(c.Amount),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(c.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
}
