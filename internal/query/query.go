// Package query answers the read-side views of the journal: a month, an
// arbitrary interval, the bookmarked entries, and everything. All date
// ranges are half-open, [start, end).
package query

import (
	"context"
	"time"

	"github.com/chris-regnier/daybook/internal/calendar"
	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/journal"
	"github.com/chris-regnier/daybook/internal/storage"
)

// Source is what the engine reads from. *journal.Store satisfies it.
type Source interface {
	List(q storage.Query) ([]entry.Entry, error)
	Subscribe() (<-chan journal.Change, func())
}

// Engine runs typed queries against a Source.
type Engine struct {
	src Source
	cal calendar.Calendar
}

// New returns an Engine over src using cal for month boundaries.
func New(src Source, cal calendar.Calendar) *Engine {
	return &Engine{src: src, cal: cal}
}

// Month returns the query for the calendar month containing ref.
func (e *Engine) Month(ref time.Time) storage.Query {
	return e.Interval(e.cal.StartOfMonth(ref), e.cal.EndOfMonth(ref))
}

// Interval returns the query for diary dates in [start, end).
func (e *Engine) Interval(start, end time.Time) storage.Query {
	return storage.Query{DateFrom: &start, DateTo: &end}
}

// EntriesInMonth returns entries whose diary date falls in ref's month,
// newest first. Undated entries are never included.
func (e *Engine) EntriesInMonth(ref time.Time) ([]entry.Entry, error) {
	return e.src.List(e.Month(ref))
}

// EntriesInInterval returns entries dated in [start, end), newest first.
// An empty or inverted interval yields no entries.
func (e *Engine) EntriesInInterval(start, end time.Time) ([]entry.Entry, error) {
	if !start.Before(end) {
		return []entry.Entry{}, nil
	}
	return e.src.List(e.Interval(start, end))
}

// Bookmarked returns bookmarked entries, newest diary date first.
func (e *Engine) Bookmarked() ([]entry.Entry, error) {
	return e.src.List(storage.Query{Bookmarked: true})
}

// All returns every entry ordered by creation time, newest first.
func (e *Engine) All() ([]entry.Entry, error) {
	return e.src.List(storage.Query{OrderBy: storage.OrderByCreatedAt})
}

// MonthCount is the number of dated entries in one calendar month.
type MonthCount struct {
	Month time.Time `json:"month"`
	Count int       `json:"count"`
}

// Months lists every month that has at least one dated entry, newest
// first.
func (e *Engine) Months() ([]MonthCount, error) {
	entries, err := e.src.List(storage.Query{})
	if err != nil {
		return nil, err
	}
	months := []MonthCount{}
	for _, en := range entries {
		if en.Date == nil {
			// Undated entries sort last.
			break
		}
		start := e.cal.StartOfMonth(*en.Date)
		if n := len(months); n > 0 && months[n-1].Month.Equal(start) {
			months[n-1].Count++
			continue
		}
		months = append(months, MonthCount{Month: start, Count: 1})
	}
	return months, nil
}

// Snapshot is one evaluation of a live query.
type Snapshot struct {
	Entries []entry.Entry
	Err     error
}

// Live evaluates q now and again after every change to the source,
// sending each result on the returned channel. The channel is closed when
// ctx is done or the source shuts down.
func (e *Engine) Live(ctx context.Context, q storage.Query) <-chan Snapshot {
	out := make(chan Snapshot)
	changes, cancel := e.src.Subscribe()

	go func() {
		defer close(out)
		defer cancel()

		for {
			entries, err := e.src.List(q)
			select {
			case out <- Snapshot{Entries: entries, Err: err}:
			case <-ctx.Done():
				return
			}

			select {
			case _, ok := <-changes:
				if !ok {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
