package query

import (
	"context"
	"testing"
	"time"

	"github.com/chris-regnier/daybook/internal/calendar"
	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/journal"
	"github.com/chris-regnier/daybook/internal/storage"
	"github.com/chris-regnier/daybook/internal/storage/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cal = calendar.New(time.UTC)

// ticker returns a clock that advances one second per call, so creation
// order is deterministic.
func ticker() func() time.Time {
	t := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newJournal(t *testing.T) *journal.Store {
	t.Helper()
	backend, err := markdown.New(t.TempDir())
	require.NoError(t, err)
	j := journal.New(backend, journal.WithCalendar(cal), journal.WithClock(ticker()))
	t.Cleanup(func() { j.Close() })
	return j
}

func create(t *testing.T, j *journal.Store, title string, date *time.Time, bookmarked bool) entry.Entry {
	t.Helper()
	e, err := j.Create(entry.Draft{Title: title, Date: date, Bookmarked: bookmarked})
	require.NoError(t, err)
	return e
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func titles(entries []entry.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}

func TestEntriesInMonthHalfOpen(t *testing.T) {
	j := newJournal(t)
	q := New(j, cal)

	create(t, j, "first", day(2026, 3, 1), false)
	create(t, j, "mid", day(2026, 3, 15), false)
	endOfMarch := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
	create(t, j, "last", &endOfMarch, false)
	create(t, j, "april", day(2026, 4, 1), false)
	create(t, j, "feb", day(2026, 2, 28), false)
	create(t, j, "undated", nil, false)

	got, err := q.EntriesInMonth(time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []string{"last", "mid", "first"}, titles(got))
}

func TestEntriesInInterval(t *testing.T) {
	j := newJournal(t)
	q := New(j, cal)

	create(t, j, "d1", day(2026, 1, 1), false)
	create(t, j, "d2", day(2026, 1, 2), false)
	create(t, j, "d3", day(2026, 1, 3), false)

	got, err := q.EntriesInInterval(*day(2026, 1, 1), *day(2026, 1, 3))
	require.NoError(t, err)
	assert.Equal(t, []string{"d2", "d1"}, titles(got))

	got, err = q.EntriesInInterval(*day(2026, 1, 3), *day(2026, 1, 1))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = q.EntriesInInterval(*day(2026, 1, 2), *day(2026, 1, 2))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBookmarkedAndAll(t *testing.T) {
	j := newJournal(t)
	q := New(j, cal)

	a := create(t, j, "a", day(2026, 5, 1), true)
	create(t, j, "b", day(2026, 5, 2), false)
	c := create(t, j, "c", nil, true)

	marked, err := q.Bookmarked()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, titles(marked))

	all, err := q.All()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, c.ID, all[0].ID, "undated entries still appear in All")

	require.NoError(t, j.Delete(a.ID))
	marked, err = q.Bookmarked()
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, titles(marked))
	month, err := q.EntriesInMonth(*day(2026, 5, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, titles(month))
}

func TestMonths(t *testing.T) {
	j := newJournal(t)
	q := New(j, cal)

	create(t, j, "a", day(2026, 5, 1), false)
	create(t, j, "b", day(2026, 5, 20), false)
	create(t, j, "c", day(2026, 3, 2), false)
	create(t, j, "d", nil, false)

	months, err := q.Months()
	require.NoError(t, err)
	require.Len(t, months, 2)
	assert.True(t, months[0].Month.Equal(*day(2026, 5, 1)))
	assert.Equal(t, 2, months[0].Count)
	assert.True(t, months[1].Month.Equal(*day(2026, 3, 1)))
	assert.Equal(t, 1, months[1].Count)
}

func next(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "live channel closed")
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestLive(t *testing.T) {
	j := newJournal(t)
	q := New(j, cal)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	live := q.Live(ctx, storage.Query{Bookmarked: true})
	first := next(t, live)
	require.NoError(t, first.Err)
	assert.Empty(t, first.Entries)

	create(t, j, "marked", nil, true)
	snap := next(t, live)
	require.NoError(t, snap.Err)
	assert.Equal(t, []string{"marked"}, titles(snap.Entries))

	cancel()
	for range live {
	}
}

func TestLiveEndsWhenJournalCloses(t *testing.T) {
	backend, err := markdown.New(t.TempDir())
	require.NoError(t, err)
	j := journal.New(backend, journal.WithCalendar(cal))
	q := New(j, cal)

	live := q.Live(context.Background(), storage.Query{})
	next(t, live)
	require.NoError(t, j.Close())

	select {
	case _, ok := <-live:
		if ok {
			// A final evaluation may race the close; the channel must
			// still close afterwards.
			for range live {
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("live query did not stop after Close")
	}
}
