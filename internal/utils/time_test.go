package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixed offsets standing in for winter and summer time.
var (
	winter = time.FixedZone("CET", 1*60*60)
	summer = time.FixedZone("CEST", 2*60*60)
)

func TestCalendarDaysBetween(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 4, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, CalendarDaysBetween(start, end))
	assert.Equal(t, 0, CalendarDaysBetween(start, start))
	assert.Equal(t, -3, CalendarDaysBetween(end, start))
}

func TestCalendarDaysAcrossClockChange(t *testing.T) {
	// Midnight-to-midnight across the spring change is a 71 hour span,
	// but still three calendar days.
	start := time.Date(2025, 3, 28, 0, 0, 0, 0, winter)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, summer)

	assert.Equal(t, 3, CalendarDaysBetween(start, end))
	assert.Equal(t, -3, CalendarDaysBetween(end, start))
}

func TestEnumerateDaysAcrossClockChange(t *testing.T) {
	start := time.Date(2025, 3, 28, 0, 0, 0, 0, winter)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, summer)

	days := EnumerateDays(start, end)
	require.Len(t, days, 4)
	assert.Equal(t, "2025-03-28", DateKey(days[0]))
	assert.Equal(t, "2025-03-31", DateKey(days[3]))
}

func TestEnumerateDaysMatchesCalendarDays(t *testing.T) {
	start := time.Date(2025, 3, 28, 18, 30, 0, 0, winter)
	end := time.Date(2025, 4, 2, 9, 0, 0, 0, summer)

	// Inclusive endpoints: one more cell than the day difference.
	days := EnumerateDays(start, end)
	assert.Len(t, days, CalendarDaysBetween(start, end)+1)
}

func TestDateKeyIgnoresZone(t *testing.T) {
	local := time.Date(2025, 6, 1, 23, 30, 0, 0, summer)
	assert.Equal(t, "2025-06-01", DateKey(local))
}
