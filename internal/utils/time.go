package utils

import "time"

// DateKey formats a timestamp as the YYYY-MM-DD bucket key used by the
// availability calendar. The time-of-day component is dropped first so
// bookings created in different timezones land in the same bucket.
func DateKey(t time.Time) string {
	return StartOfDay(t).Format(DateKeyLayout)
}

func ParseDateKey(key string) (time.Time, error) {
	return time.Parse(DateKeyLayout, key)
}

// StartOfDay keeps only the wall-clock date, rebuilt in UTC. Dropping the
// zone makes day arithmetic exact even when the two endpoints of a range
// carry different UTC offsets, as they do around a clock change.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func StartOfMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
}

func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// CalendarDaysBetween counts whole calendar days from start to end,
// ignoring the time-of-day of both endpoints. Negative when end precedes
// start.
func CalendarDaysBetween(start, end time.Time) int {
	s := StartOfDay(start)
	e := StartOfDay(end)
	return int(e.Sub(s).Hours() / 24)
}

// EnumerateDays returns every calendar day in [start, end] inclusive,
// swapping the endpoints when the range is inverted.
func EnumerateDays(start, end time.Time) []time.Time {
	s := StartOfDay(start)
	e := StartOfDay(end)
	if s.After(e) {
		s, e = e, s
	}

	var days []time.Time
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func FormatTimeISO(t time.Time) string {
	return t.Format(time.RFC3339)
}

func ParseTimeISO(timeStr string) (time.Time, error) {
	return time.Parse(time.RFC3339, timeStr)
}
