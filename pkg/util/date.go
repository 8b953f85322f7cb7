package util

import "time"

const (
	dateLayout        = "2006-01-02"
	compactDateLayout = "20060102"
)

// ParseDate parses a YYYY-MM-DD date. Returns (t, true) if it worked.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseCompactDate parses a YYYYMMDD date. Returns (t, true) if it worked.
func ParseCompactDate(s string) (time.Time, bool) {
	if len(s) != len(compactDateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(compactDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// DayWindow returns the [from, to] range covering the trailing days up to
// now. from is aligned to UTC midnight so the boundary day is never cut in
// half; to keeps its clock time so today's bar stays inside the window.
func DayWindow(now time.Time, days int) (time.Time, time.Time) {
	from := now.UTC().AddDate(0, 0, -days)
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	return from, now
}

// DaySpan counts the calendar days from from to to, inclusive of both ends.
func DaySpan(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}
