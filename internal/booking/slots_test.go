package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlots_BusinessHours(t *testing.T) {
	slots, err := GenerateSlots("09:00", "17:00")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}, slots)
	assert.NotContains(t, slots, "17:00")
}

func TestGenerateSlots_StoredTimeFormat(t *testing.T) {
	slots, err := GenerateSlots("20:00:00", "24:00:00")
	require.NoError(t, err)
	assert.Equal(t, []string{"20:00", "21:00", "22:00", "23:00"}, slots)
}

func TestGenerateSlots_OnlyHourComponentCounts(t *testing.T) {
	slots, err := GenerateSlots("09:30", "11:45")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, slots)
}

func TestGenerateSlots_EmptyWindows(t *testing.T) {
	cases := map[string][2]string{
		"same hour":        {"10:00", "10:00"},
		"crosses midnight": {"22:00", "02:00"},
	}
	for name, w := range cases {
		t.Run(name, func(t *testing.T) {
			slots, err := GenerateSlots(w[0], w[1])
			require.NoError(t, err)
			assert.Empty(t, slots)
		})
	}
}

func TestGenerateSlots_Malformed(t *testing.T) {
	for _, bad := range []string{"", "9", "ab:00", "25:00", "10:7", "24:30"} {
		_, err := GenerateSlots(bad, "17:00")
		assert.ErrorIs(t, err, ErrInvalidClock, bad)
	}
}

func TestNormalizeClock(t *testing.T) {
	assert.Equal(t, "09:00", NormalizeClock("09:00:00"))
	assert.Equal(t, "09:00", NormalizeClock(" 09:00 "))
}
