// Package payment charges a booking's total through a pluggable Charger.
package payment

import (
	"context"
	"time"

	"github.com/cmarinek/red-square-broadcast/internal/booking"
)

// Charge describes one payment attempt for a booking.
type Charge struct {
	BookingID   string
	Amount      int64 // cents, fee included
	Currency    string
	Description string
}

// Result identifies the session a charge was made under. RedirectURL is set
// when the payer must complete the payment on a hosted page.
type Result struct {
	SessionID   string
	RedirectURL string
}

type Charger interface {
	Charge(ctx context.Context, c Charge) (Result, error)
	Name() string
}

// SimulatedCharger always succeeds after Delay with a sim_<millis> session.
type SimulatedCharger struct {
	Delay time.Duration
	Now   func() time.Time
}

func NewSimulatedCharger(delay time.Duration) *SimulatedCharger {
	return &SimulatedCharger{Delay: delay, Now: time.Now}
}

func (s *SimulatedCharger) Name() string { return "simulated" }

func (s *SimulatedCharger) Charge(ctx context.Context, _ Charge) (Result, error) {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-t.C:
		}
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return Result{SessionID: booking.SessionID(now())}, nil
}
