package booking

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// MaxAdvanceDays bounds how far ahead a broadcast can be scheduled.
const MaxAdvanceDays = 30

// DateLayout is the wire and storage format of a scheduled date.
const DateLayout = "2006-01-02"

// Durations lists the broadcast lengths, in hours, a booking may request.
var Durations = []int{1, 2, 3, 4, 6, 8, 12}

var (
	ErrDateInPast        = errors.New("date is in the past")
	ErrDateTooFar        = errors.New("date is more than 30 days out")
	ErrStartTimeRequired = errors.New("start time required")
	ErrStartTimeNotOpen  = errors.New("start time is outside the screen's availability")
	ErrInvalidDuration   = errors.New("invalid duration")
	ErrPastMidnight      = errors.New("broadcast would run past midnight")
)

// ScheduleRequest is a broadcaster's selection on the scheduling step.
type ScheduleRequest struct {
	Date      time.Time
	StartTime string
	Duration  int
}

// ValidateSchedule checks a request against a screen's slot list. Dates are
// compared as UTC calendar days: today is allowed, today+30 is the last
// allowed day.
func ValidateSchedule(req ScheduleRequest, slots []string, now time.Time) error {
	day := truncateDay(req.Date)
	today := truncateDay(now)
	if day.Before(today) {
		return ErrDateInPast
	}
	if day.After(today.AddDate(0, 0, MaxAdvanceDays)) {
		return ErrDateTooFar
	}
	if req.StartTime == "" {
		return ErrStartTimeRequired
	}
	if !slices.Contains(slots, NormalizeClock(req.StartTime)) {
		return ErrStartTimeNotOpen
	}
	if !slices.Contains(Durations, req.Duration) {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, req.Duration)
	}
	h, err := ParseHour(req.StartTime)
	if err != nil {
		return err
	}
	if h+req.Duration > 24 {
		return ErrPastMidnight
	}
	return nil
}

// EndTime returns the end boundary of a broadcast starting at start.
func EndTime(start string, durationHours int) (string, error) {
	h, err := ParseHour(start)
	if err != nil {
		return "", err
	}
	return FormatHour(h + durationHours), nil
}

// Hours returns the whole-hour length between two clocks.
func Hours(start, end string) int {
	s, err := ParseHour(start)
	if err != nil {
		return 0
	}
	e, err := ParseHour(end)
	if err != nil || e < s {
		return 0
	}
	return e - s
}

// EndsAt is the wall-clock instant a broadcast finishes, in UTC.
func EndsAt(date time.Time, end string) (time.Time, error) {
	h, err := ParseHour(end)
	if err != nil {
		return time.Time{}, err
	}
	return truncateDay(date).Add(time.Duration(h) * time.Hour), nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
