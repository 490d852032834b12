package calendar

import (
	"fmt"
	"time"
)

// Layout is the wire format for calendar dates across the API and the store.
const Layout = "2006-01-02"

// Today returns local midnight of the current calendar day.
func Today() time.Time {
	return Midnight(time.Now())
}

// Midnight truncates t to local midnight of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// Format renders the local calendar date of t as "YYYY-MM-DD". Formatting
// must never go through UTC: a Date on local March 1 has to come back as
// "03-01" even when the UTC instant is still February 28.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse reads a "YYYY-MM-DD" string as local midnight of that day.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// AddDays returns the local midnight n calendar days after t. Using
// time.Date instead of Add keeps the arithmetic correct across DST
// transitions, where a "day" is not always 24 hours.
func AddDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, time.Local)
}

// DayDiff returns the number of calendar days from b to a (a - b). Both
// arguments are truncated to their local calendar day first, so the hour of
// day never influences the result.
func DayDiff(a, b time.Time) int {
	am := Midnight(a)
	bm := Midnight(b)
	return int(am.Sub(bm).Round(24*time.Hour) / (24 * time.Hour))
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
