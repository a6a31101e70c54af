// Package streak counts consecutive calendar days on which at least one
// entry was created. The count is anchored to CreatedAt, which the user
// cannot edit, rather than to the diary date.
package streak

import (
	"time"

	"github.com/chris-regnier/daybook/internal/calendar"
	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/storage"
)

// ConsecutiveDays returns the length of the run of days with entries that
// ends today or yesterday. entries must be ordered by CreatedAt descending.
//
// An entry created today is set aside and only adds one to the result.
// The rest are scanned against an expected day that starts at yesterday:
// a match counts the day and moves the expectation back one day, an entry
// one day newer than expected is a repeat of a day already counted, and
// anything else ends the run.
func ConsecutiveDays(entries []entry.Entry, now time.Time, cal calendar.Calendar) int {
	if len(entries) == 0 {
		return 0
	}

	rest := entries
	today := cal.DaysBetween(entries[0].CreatedAt, now) == 0
	if today {
		rest = entries[1:]
	}

	streak := 0
	for _, e := range rest {
		expected := cal.AddDays(now, -(streak + 1))
		switch cal.DaysBetween(e.CreatedAt, expected) {
		case 0:
			streak++
		case -1:
			// Same day as the one just counted.
		default:
			return finish(streak, today)
		}
	}
	return finish(streak, today)
}

func finish(streak int, today bool) int {
	if today {
		return streak + 1
	}
	return streak
}

// Lister is the read side of a journal.
type Lister interface {
	List(q storage.Query) ([]entry.Entry, error)
}

// Calculator computes the streak over entries read from a Lister.
type Calculator struct {
	src Lister
	cal calendar.Calendar
}

// NewCalculator returns a Calculator reading from src.
func NewCalculator(src Lister, cal calendar.Calendar) *Calculator {
	return &Calculator{src: src, cal: cal}
}

// ConsecutiveDays fetches every entry by creation time and computes the
// streak as of now. Read failures are returned unchanged.
func (c *Calculator) ConsecutiveDays(now time.Time) (int, error) {
	entries, err := c.src.List(storage.Query{OrderBy: storage.OrderByCreatedAt})
	if err != nil {
		return 0, err
	}
	return ConsecutiveDays(entries, now, c.cal), nil
}
