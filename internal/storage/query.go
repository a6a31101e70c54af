package storage

import (
	"sort"
	"time"

	"github.com/chris-regnier/daybook/internal/entry"
)

// Order selects the sort order of a List call.
type Order int

const (
	// OrderByDate sorts by diary date descending. Entries without a date
	// sort last; ties fall back to CreatedAt descending, then ID.
	OrderByDate Order = iota
	// OrderByCreatedAt sorts by creation time descending, then ID.
	OrderByCreatedAt
)

// Query controls filtering and ordering for List operations. All criteria
// are ANDed together.
type Query struct {
	DateFrom   *time.Time // inclusive lower bound on Date (nil = none)
	DateTo     *time.Time // exclusive upper bound on Date (nil = none)
	Bookmarked bool       // only bookmarked entries
	OrderBy    Order
	Limit      int // 0 = no limit
}

// HasDateFilter reports whether the query constrains the diary date.
// Entries without a date never match such a query.
func (q Query) HasDateFilter() bool {
	return q.DateFrom != nil || q.DateTo != nil
}

// Match reports whether e satisfies the query's filters.
func (q Query) Match(e entry.Entry) bool {
	if q.Bookmarked && !e.Bookmarked {
		return false
	}
	if q.HasDateFilter() {
		if e.Date == nil {
			return false
		}
		if q.DateFrom != nil && e.Date.Before(*q.DateFrom) {
			return false
		}
		if q.DateTo != nil && !e.Date.Before(*q.DateTo) {
			return false
		}
	}
	return true
}

// Apply filters, sorts, and limits entries in memory. Backends without a
// native query language use it to answer List.
func (q Query) Apply(entries []entry.Entry) []entry.Entry {
	out := make([]entry.Entry, 0, len(entries))
	for _, e := range entries {
		if q.Match(e) {
			out = append(out, e)
		}
	}
	Sort(out, q.OrderBy)
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out
}

// Sort orders entries in place according to order.
func Sort(entries []entry.Entry, order Order) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if order == OrderByDate {
			switch {
			case a.Date != nil && b.Date == nil:
				return true
			case a.Date == nil && b.Date != nil:
				return false
			case a.Date != nil && b.Date != nil && !a.Date.Equal(*b.Date):
				return a.Date.After(*b.Date)
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
