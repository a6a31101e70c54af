// Package calendar provides calendar-day arithmetic in a fixed location.
//
// Day differences are computed from civil dates (year, month, day) rather
// than by subtracting instants, so a 23- or 25-hour day around a DST
// transition still counts as exactly one day.
package calendar

import "time"

// Calendar performs day arithmetic in a single time zone.
type Calendar struct {
	loc *time.Location
}

// New returns a calendar for loc. A nil loc means time.Local.
func New(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{loc: loc}
}

// Local returns a calendar in the process's local time zone.
func Local() Calendar {
	return New(time.Local)
}

// Location returns the calendar's time zone.
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// StartOfDay returns midnight of t's civil date in the calendar's zone.
//
// Example:
//
//	input:  2024-01-15 14:30:45.123456789
//	output: 2024-01-15 00:00:00.0
func (c Calendar) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(c.Location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.Location())
}

// StartOfMonth returns midnight on the first day of t's month.
func (c Calendar) StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.In(c.Location()).Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, c.Location())
}

// EndOfMonth returns the exclusive upper bound of t's month: midnight on
// the first day of the following month.
func (c Calendar) EndOfMonth(t time.Time) time.Time {
	return c.StartOfMonth(t).AddDate(0, 1, 0)
}

// DayNumber returns the number of days between 1970-01-01 and t's civil
// date in the calendar's zone.
func (c Calendar) DayNumber(t time.Time) int {
	y, m, d := t.In(c.Location()).Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// DaysBetween returns the number of calendar days from a to b. It is
// positive when b falls on a later day than a.
func (c Calendar) DaysBetween(a, b time.Time) int {
	return c.DayNumber(b) - c.DayNumber(a)
}

// AddDays moves t by n calendar days, keeping the wall-clock time.
func (c Calendar) AddDays(t time.Time, n int) time.Time {
	return t.In(c.Location()).AddDate(0, 0, n)
}

// SameDay reports whether a and b fall on the same calendar day.
func (c Calendar) SameDay(a, b time.Time) bool {
	return c.DayNumber(a) == c.DayNumber(b)
}

// ParseMonth parses "2006-01" into the first instant of that month.
func (c Calendar) ParseMonth(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01", s, c.Location())
}

// ParseDate parses "2006-01-02" into midnight of that day.
func (c Calendar) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, c.Location())
}
