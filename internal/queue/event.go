// Package queue carries booking lifecycle events over RabbitMQ.
package queue

// BookingConfirmedQueue is the durable queue confirmed bookings are sent to.
const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent is published once a booking's payment succeeded. It
// carries enough for the settlement consumer to record the payment without
// re-reading the screen.
type BookingConfirmedEvent struct {
	BookingID     string `json:"booking_id"`
	UserID        string `json:"user_id"`
	ScreenID      string `json:"screen_id"`
	OwnerID       string `json:"owner_id"`
	ScreenName    string `json:"screen_name"`
	ScheduledDate string `json:"scheduled_date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	TotalAmount   int64  `json:"total_amount"`
	Currency      string `json:"currency"`
	SessionID     string `json:"session_id"`
	ConfirmedAt   string `json:"confirmed_at"`
}
