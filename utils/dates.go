package utils

import "time"

// DateKey is the YYYY-MM-DD key of t in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// MidnightUTC truncates t to the start of its UTC day.
func MidnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth counts the days of t's UTC month.
func DaysInMonth(t time.Time) int {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
