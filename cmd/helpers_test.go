package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chris-regnier/daybook/internal/calendar"
	"github.com/chris-regnier/daybook/internal/config"
	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/journal"
	"github.com/chris-regnier/daybook/internal/query"
	"github.com/chris-regnier/daybook/internal/storage/markdown"
)

// testClock is a settable time source for the journal.
type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

// setupTestEnv points the command globals at a fresh markdown journal in a
// temp dir, with a clock fixed at 2026-07-15 10:00 UTC.
func setupTestEnv(t *testing.T) *testClock {
	t.Helper()
	dir := t.TempDir()
	b, err := markdown.New(dir)
	if err != nil {
		t.Fatalf("creating test storage: %v", err)
	}

	clock := &testClock{t: time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC)}
	cal := calendar.New(time.UTC)
	backend = b
	journ = journal.New(b, journal.WithClock(clock.now), journal.WithCalendar(cal))
	queries = query.New(journ, cal)
	appConfig = &config.Config{
		Storage: "markdown",
		DataDir: dir,
		Shell: config.ShellConfig{
			CacheTTL:    "5m",
			TodayIcon:   "✓",
			NoTodayIcon: "✗",
			StreakIcon:  "🔥",
		},
	}
	jsonOutput = false

	t.Cleanup(func() {
		closeJournal()
		appConfig = nil
		jsonOutput = false
	})
	return clock
}

func mustCreate(t *testing.T, d entry.Draft) entry.Entry {
	t.Helper()
	e, err := journ.Create(d)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return e
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func strPtr(s string) *string { return &s }

// fakeEditor writes a script that replaces the edited file with content.
func fakeEditor(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "content.md")
	if err := os.WriteFile(src, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(dir, "editor.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\ncp "+src+" \"$1\"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return script
}

// syncBuffer is a bytes.Buffer safe for one writer goroutine and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// waitFor polls until the buffer contains s.
func (b *syncBuffer) waitFor(t *testing.T, s string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(b.String(), s) {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %q in output:\n%s", s, b.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
