package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 15, 4, 0, 0, time.UTC)

func slots9to17(t *testing.T) []string {
	t.Helper()
	s, err := GenerateSlots("09:00", "17:00")
	require.NoError(t, err)
	return s
}

func TestValidateSchedule(t *testing.T) {
	slots := slots9to17(t)
	cases := []struct {
		name string
		req  ScheduleRequest
		want error
	}{
		{"today", ScheduleRequest{Date: now, StartTime: "09:00", Duration: 2}, nil},
		{"last allowed day", ScheduleRequest{Date: now.AddDate(0, 0, 30), StartTime: "16:00", Duration: 8}, nil},
		{"yesterday", ScheduleRequest{Date: now.AddDate(0, 0, -1), StartTime: "09:00", Duration: 1}, ErrDateInPast},
		{"31 days out", ScheduleRequest{Date: now.AddDate(0, 0, 31), StartTime: "09:00", Duration: 1}, ErrDateTooFar},
		{"no start", ScheduleRequest{Date: now, Duration: 1}, ErrStartTimeRequired},
		{"closed hour", ScheduleRequest{Date: now, StartTime: "17:00", Duration: 1}, ErrStartTimeNotOpen},
		{"odd duration", ScheduleRequest{Date: now, StartTime: "09:00", Duration: 5}, ErrInvalidDuration},
		{"zero duration", ScheduleRequest{Date: now, StartTime: "09:00", Duration: 0}, ErrInvalidDuration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSchedule(tc.req, slots, now)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidateSchedule_PastMidnight(t *testing.T) {
	slots, err := GenerateSlots("08:00", "24:00")
	require.NoError(t, err)
	err = ValidateSchedule(ScheduleRequest{Date: now, StartTime: "20:00", Duration: 6}, slots, now)
	assert.ErrorIs(t, err, ErrPastMidnight)
	assert.NoError(t, ValidateSchedule(ScheduleRequest{Date: now, StartTime: "20:00", Duration: 4}, slots, now))
}

func TestEndTimeAndHours(t *testing.T) {
	end, err := EndTime("14:00", 3)
	require.NoError(t, err)
	assert.Equal(t, "17:00", end)
	assert.Equal(t, 3, Hours("14:00", end))
	assert.Equal(t, 0, Hours("14:00", "bogus"))
}

func TestEndsAt(t *testing.T) {
	at, err := EndsAt(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), "17:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC), at)
}
