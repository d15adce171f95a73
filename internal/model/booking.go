package model

import (
	"time"

	"github.com/cmarinek/red-square-broadcast/internal/booking"
)

// Booking reserves a screen's time for a piece of content on one date. The
// screen and content references are fixed at creation.
//
// Fields:
//  ID              – primary key (UUID).
//  UserID          – broadcaster who created the booking.
//  ScreenID        – booked screen.
//  ContentID       – content to display.
//  ScheduledDate   – broadcast date (UTC midnight).
//  StartTime       – HH:MM start.
//  EndTime         – HH:MM end.
//  TotalAmount     – price in cents including the platform fee.
//  Status          – lifecycle status (pending, confirmed, cancelled, completed).
//  PaymentStatus   – pending, paid or refunded.
//  StripeSessionID – payment session id stamped on confirmation (nullable).
type Booking struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user_id"`
	ScreenID        string                `json:"screen_id"`
	ContentID       string                `json:"content_id"`
	ScheduledDate   time.Time             `json:"scheduled_date"`
	StartTime       string                `json:"scheduled_start_time"`
	EndTime         string                `json:"scheduled_end_time"`
	TotalAmount     int64                 `json:"total_amount"`
	Status          booking.Status        `json:"status"`
	PaymentStatus   booking.PaymentStatus `json:"payment_status"`
	StripeSessionID *string               `json:"stripe_session_id,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ScreenSummary is the slice of a screen shown next to a booking.
type ScreenSummary struct {
	Name    string `json:"screen_name"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// ContentSummary is the slice of a content upload shown next to a booking.
type ContentSummary struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileURL  string `json:"file_url,omitempty"`
}

// BookingDetail is a booking joined with its screen and content summaries.
// Content is nil when the referenced upload no longer exists.
type BookingDetail struct {
	Booking
	Screen  ScreenSummary   `json:"screen"`
	Content *ContentSummary `json:"content"`
}
