package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidClock is returned when a time-of-day boundary is not HH:MM or HH:MM:SS.
var ErrInvalidClock = errors.New("invalid time of day")

// ParseHour returns the hour component of a "HH:MM" or "HH:MM:SS" clock.
// "24:00" is accepted so that a window may end at midnight.
func ParseHour(clock string) (int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	for _, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 59 || len(p) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
		}
		if h == 24 && n != 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
		}
	}
	return h, nil
}

// FormatHour renders an hour as "HH:00".
func FormatHour(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

// GenerateSlots returns the whole-hour start times inside an availability
// window, start inclusive and end exclusive. Only the hour component of each
// boundary is used. A window whose end is not after its start, including one
// that would wrap past midnight, has no slots. Existing bookings are not
// consulted: the result is the same for every date.
func GenerateSlots(start, end string) ([]string, error) {
	from, err := ParseHour(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseHour(end)
	if err != nil {
		return nil, err
	}
	slots := make([]string, 0, max(to-from, 0))
	for h := from; h < to; h++ {
		slots = append(slots, FormatHour(h))
	}
	return slots, nil
}

// NormalizeClock trims a stored TIME value such as "09:00:00" down to "09:00".
func NormalizeClock(clock string) string {
	clock = strings.TrimSpace(clock)
	if parts := strings.Split(clock, ":"); len(parts) == 3 {
		return parts[0] + ":" + parts[1]
	}
	return clock
}
