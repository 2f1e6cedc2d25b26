package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestMondayOf_SameWeekIncludingSunday(t *testing.T) {
	// 2025-03-03 is a Monday, 2025-03-09 the Sunday closing that week.
	want := date(t, "2025-03-03")
	for d := 0; d < 7; d++ {
		day := want.AddDate(0, 0, d)
		assert.Equal(t, want, MondayOf(day), "MondayOf(%s)", FormatDate(day))
	}
}

func TestMondayOf_DropsClock(t *testing.T) {
	ts := time.Date(2025, 3, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, date(t, "2025-03-03"), MondayOf(ts))
}

func TestDayIndex(t *testing.T) {
	tests := []struct {
		date string
		idx  int
		ok   bool
	}{
		{"2025-03-03", 0, true},
		{"2025-03-06", 3, true},
		{"2025-03-07", 4, true},
		{"2025-03-08", 0, false},
		{"2025-03-09", 0, false},
	}
	for _, tt := range tests {
		idx, ok := DayIndex(date(t, tt.date))
		assert.Equal(t, tt.ok, ok, tt.date)
		if tt.ok {
			assert.Equal(t, tt.idx, idx, tt.date)
		}
	}
}

func TestIsWeekendAndSkipWeekend(t *testing.T) {
	assert.True(t, IsWeekend(date(t, "2025-03-08")))
	assert.True(t, IsWeekend(date(t, "2025-03-09")))
	assert.False(t, IsWeekend(date(t, "2025-03-10")))

	assert.Equal(t, date(t, "2025-03-10"), SkipWeekend(date(t, "2025-03-08")))
	assert.Equal(t, date(t, "2025-03-07"), SkipWeekend(date(t, "2025-03-07")))
}

func TestFormatAndParseHour(t *testing.T) {
	assert.Equal(t, "09:00", FormatHour(9))
	assert.Equal(t, "12:30", FormatHour(12.5))
	assert.Equal(t, "18:00", FormatHour(18))

	h, err := ParseHour("13:30")
	require.NoError(t, err)
	assert.Equal(t, 13.5, h)

	_, err = ParseHour("25:99")
	assert.Error(t, err)
}

func TestDateForIndexAndISOWeek(t *testing.T) {
	monday := date(t, "2025-03-03")
	assert.Equal(t, date(t, "2025-03-07"), DateForIndex(monday, 4))
	assert.Equal(t, 10, ISOWeek(monday))
	assert.Equal(t, "Thu", DayName(3))
	assert.Equal(t, "?", DayName(6))
}
