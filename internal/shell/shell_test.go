package shell

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/chris-regnier/daybook/internal/calendar"
	"github.com/chris-regnier/daybook/internal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cal = calendar.New(time.UTC)

type fakeSummarizer struct {
	sum   journal.Summary
	err   error
	calls int
}

func (f *fakeSummarizer) Summary(time.Time) (journal.Summary, error) {
	f.calls++
	return f.sum, f.err
}

func (f *fakeSummarizer) refresher() Refresher {
	return func() (Summarizer, error) { return f, nil }
}

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	assert.Nil(t, ReadCache(dir))

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c := &PromptCache{WrittenToday: true, Streak: 4, Count: 9, Day: "2026-08-01", Backend: "sqlite", UpdatedAt: now}
	require.NoError(t, WriteCache(dir, c))

	got := ReadCache(dir)
	require.NotNil(t, got)
	assert.Equal(t, c.Streak, got.Streak)
	assert.True(t, got.UpdatedAt.Equal(now))

	require.NoError(t, InvalidateCache(dir))
	assert.Nil(t, ReadCache(dir))
	require.NoError(t, InvalidateCache(dir), "invalidating a missing cache is fine")
}

func TestReadCacheCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(CachePath(dir), []byte("{not json"), 0600))
	assert.Nil(t, ReadCache(dir))
}

func TestIsFresh(t *testing.T) {
	written := time.Date(2026, 8, 1, 23, 50, 0, 0, time.UTC)
	c := &PromptCache{Day: "2026-08-01", UpdatedAt: written}
	ttl := 5 * time.Minute

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"within ttl", written.Add(time.Minute), true},
		{"ttl elapsed", written.Add(6 * time.Minute), false},
		{"midnight rollover", written.Add(11 * time.Minute), false},
		{"clock moved back", written.Add(-time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsFresh(ttl, tt.now, cal))
		})
	}

	var missing *PromptCache
	assert.False(t, missing.IsFresh(ttl, written, cal))
}

func TestStatusUsesFreshCache(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	f := &fakeSummarizer{sum: journal.Summary{Count: 3, Streak: 2, WrittenToday: true}}
	opts := StatusOptions{DataDir: dir, Backend: "markdown", TTL: time.Minute, Now: now, Cal: cal}

	c, err := Status(f.refresher(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Streak)
	assert.Equal(t, "2026-08-01", c.Day)
	assert.Equal(t, 1, f.calls)

	f.sum.Streak = 7
	opts.Now = now.Add(30 * time.Second)
	c, err = Status(f.refresher(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Streak, "served from cache")
	assert.Equal(t, 1, f.calls)

	opts.Force = true
	c, err = Status(f.refresher(), opts)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Streak)
	assert.Equal(t, 2, f.calls)
}

func TestStatusErrors(t *testing.T) {
	opts := StatusOptions{DataDir: t.TempDir(), TTL: time.Minute, Now: time.Now(), Cal: cal}

	_, err := Status(func() (Summarizer, error) { return nil, errors.New("no backend") }, opts)
	assert.EqualError(t, err, "no backend")

	f := &fakeSummarizer{err: errors.New("storage error: locked")}
	_, err = Status(f.refresher(), opts)
	assert.EqualError(t, err, "storage error: locked")
	assert.Nil(t, ReadCache(opts.DataDir), "failed refresh must not write a cache")
}

func TestStatusOutput(t *testing.T) {
	icons := Icons{Today: "✓", NoToday: "✗", Streak: "🔥"}
	d := NewStatusData(&PromptCache{WrittenToday: true, Streak: 3, Count: 10, Backend: "redis"}, icons)

	var buf bytes.Buffer
	WriteDefault(&buf, d, false)
	assert.Equal(t, "✓ 3🔥\n", buf.String())

	buf.Reset()
	WriteDefault(&buf, d, true)
	assert.Equal(t, "✓ 3🔥 redis\n", buf.String())

	buf.Reset()
	WriteEnv(&buf, d)
	assert.Contains(t, buf.String(), `export DAYBOOK_STREAK="3"`)
	assert.Contains(t, buf.String(), `export DAYBOOK_BACKEND="redis"`)

	buf.Reset()
	require.NoError(t, WriteTemplate(&buf, d, "{{.Count}} entries"))
	assert.Equal(t, "10 entries\n", buf.String())

	assert.Error(t, WriteTemplate(&buf, d, "{{.Nope"))

	d = NewStatusData(&PromptCache{}, icons)
	assert.Equal(t, "✗", d.TodayIcon)
}

func TestWriteInit(t *testing.T) {
	for _, sh := range Shells {
		var buf bytes.Buffer
		require.NoError(t, WriteInit(&buf, sh))
		assert.True(t, strings.Contains(buf.String(), "daybook status --env"), sh)
	}
	assert.Error(t, WriteInit(&bytes.Buffer{}, "tcsh"))
}
