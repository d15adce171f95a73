package booking

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// PaymentStatus tracks money movement separately from the booking lifecycle.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Statuses is every value an admin may write.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

// IsValidStatus reports whether s names a booking status. It says nothing
// about whether a transition into s is allowed.
func IsValidStatus(s string) bool {
	for _, st := range Statuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// CanConfirm reports whether payment may confirm a booking in status s.
func CanConfirm(s Status) bool { return s == StatusPending }

// CanComplete reports whether a finished broadcast may be marked completed.
func CanComplete(s Status) bool { return s == StatusConfirmed }

// SessionID returns a synthetic payment session identifier.
func SessionID(now time.Time) string {
	return fmt.Sprintf("sim_%d", now.UnixMilli())
}
