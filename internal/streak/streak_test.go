package streak

import (
	"errors"
	"testing"
	"time"

	"github.com/chris-regnier/daybook/internal/calendar"
	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cal = calendar.New(time.UTC)
	now = time.Date(2026, 6, 15, 14, 0, 0, 0, time.UTC)
)

// history builds entries created at the given day offsets from now (0 is
// today, -1 yesterday), ordered by CreatedAt descending.
func history(offsets ...int) []entry.Entry {
	entries := make([]entry.Entry, 0, len(offsets))
	for i, off := range offsets {
		// Later offsets in the list are created earlier in the day.
		created := cal.StartOfDay(cal.AddDays(now, off)).Add(12*time.Hour - time.Duration(i)*time.Minute)
		entries = append(entries, entry.Entry{ID: string(rune('a' + i)), CreatedAt: created, UpdatedAt: created})
	}
	storage.Sort(entries, storage.OrderByCreatedAt)
	return entries
}

func span(from, to int) []int {
	var offs []int
	for d := from; d >= to; d-- {
		offs = append(offs, d)
	}
	return offs
}

func TestConsecutiveDays(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
		want    int
	}{
		{"no entries", nil, 0},
		{"yesterday only", []int{-1}, 1},
		{"today only", []int{0}, 1},
		{"today and yesterday", []int{0, -1}, 2},
		{"ten days including today", span(0, -9), 10},
		{"ten days ending yesterday", span(-1, -10), 10},
		{"gap at today and yesterday", span(-2, -9), 0},
		{"duplicate day does not inflate", []int{0, -1, -1, -2}, 3},
		{"several entries today", []int{0, 0, 0, -1}, 2},
		{"gap breaks the run", []int{0, -1, -3, -4}, 2},
		{"duplicates on every day", []int{-1, -1, -2, -2, -3}, 3},
		{"today only after long gap", []int{0, -5, -6}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConsecutiveDays(history(tt.offsets...), now, cal))
		})
	}
}

func TestConsecutiveDaysIgnoresDiaryDate(t *testing.T) {
	entries := history(-5)
	// Backdating or forward-dating the diary date must not change the streak.
	d := now
	entries[0].Date = &d
	assert.Equal(t, 0, ConsecutiveDays(entries, now, cal))
}

func TestConsecutiveDaysCalendarBoundaries(t *testing.T) {
	lateNight := time.Date(2026, 6, 14, 23, 59, 0, 0, time.UTC)
	earlyMorning := time.Date(2026, 6, 15, 0, 1, 0, 0, time.UTC)

	entries := []entry.Entry{{ID: "a", CreatedAt: lateNight}}
	// Two minutes apart but on different calendar days.
	assert.Equal(t, 1, ConsecutiveDays(entries, earlyMorning, cal))

	entries = []entry.Entry{{ID: "b", CreatedAt: earlyMorning}, {ID: "a", CreatedAt: lateNight}}
	assert.Equal(t, 2, ConsecutiveDays(entries, earlyMorning.Add(23*time.Hour), cal))
}

func TestConsecutiveDaysAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	c := calendar.New(ny)
	// Clocks spring forward on 2026-03-08.
	today := time.Date(2026, 3, 9, 8, 0, 0, 0, ny)
	var entries []entry.Entry
	for i := 0; i < 4; i++ {
		created := time.Date(2026, 3, 9-i, 0, 30, 0, 0, ny)
		entries = append(entries, entry.Entry{ID: string(rune('a' + i)), CreatedAt: created})
	}
	assert.Equal(t, 4, ConsecutiveDays(entries, today, c))
}

type fakeLister struct {
	entries []entry.Entry
	err     error
	query   storage.Query
}

func (f *fakeLister) List(q storage.Query) ([]entry.Entry, error) {
	f.query = q
	if f.err != nil {
		return nil, f.err
	}
	return q.Apply(f.entries), nil
}

func TestCalculator(t *testing.T) {
	entries := history(0, -1, -2)
	// Shuffle to prove the calculator asks for creation order.
	entries[0], entries[2] = entries[2], entries[0]
	src := &fakeLister{entries: entries}

	got, err := NewCalculator(src, cal).ConsecutiveDays(now)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Equal(t, storage.OrderByCreatedAt, src.query.OrderBy)
	assert.False(t, src.query.HasDateFilter())
}

func TestCalculatorPropagatesErrors(t *testing.T) {
	cause := storage.Fail("listing entries", errors.New("disk gone"))
	_, err := NewCalculator(&fakeLister{err: cause}, cal).ConsecutiveDays(now)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrStorage)
}
