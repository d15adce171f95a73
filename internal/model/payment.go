package model

import "time"

// Payment records the money side of a confirmed booking: the charged amount,
// the platform's fee and what the screen owner is owed.
type Payment struct {
	ID                string    `json:"id"`
	BookingID         string    `json:"booking_id"`
	Amount            int64     `json:"amount"`
	PlatformFee       int64     `json:"platform_fee"`
	ScreenOwnerAmount int64     `json:"screen_owner_amount"`
	Currency          string    `json:"currency"`
	Status            string    `json:"status"`
	StripeSessionID   *string   `json:"stripe_session_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
