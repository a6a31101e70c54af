package shell

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/chris-regnier/daybook/internal/calendar"
	"github.com/chris-regnier/daybook/internal/journal"
	"github.com/chris-regnier/daybook/internal/logger"
)

// Summarizer computes the journal summary. *journal.Store implements it.
type Summarizer interface {
	Summary(now time.Time) (journal.Summary, error)
}

// Refresher is how a cache miss gets a new summary. It is called lazily so
// a fresh cache never opens the storage backend.
type Refresher func() (Summarizer, error)

// StatusOptions controls Status.
type StatusOptions struct {
	DataDir string
	Backend string
	TTL     time.Duration
	Force   bool
	Now     time.Time
	Cal     calendar.Calendar
}

// Status returns the cached prompt status, recomputing and rewriting the
// cache when it is stale or Force is set. A failed cache write is logged
// and otherwise ignored.
func Status(refresh Refresher, opts StatusOptions) (*PromptCache, error) {
	cache := ReadCache(opts.DataDir)
	if !opts.Force && cache.IsFresh(opts.TTL, opts.Now, opts.Cal) {
		return cache, nil
	}

	src, err := refresh()
	if err != nil {
		return nil, err
	}
	sum, err := src.Summary(opts.Now)
	if err != nil {
		return nil, err
	}
	cache = &PromptCache{
		WrittenToday: sum.WrittenToday,
		Streak:       sum.Streak,
		Count:        sum.Count,
		Day:          dayKey(opts.Now, opts.Cal),
		Backend:      opts.Backend,
		UpdatedAt:    opts.Now,
	}
	if err := WriteCache(opts.DataDir, cache); err != nil {
		logger.Warn("could not write prompt cache", "err", err)
	}
	return cache, nil
}

// Icons are the prompt glyphs from the shell config.
type Icons struct {
	Today   string
	NoToday string
	Streak  string
}

// StatusData is what --format templates see.
type StatusData struct {
	TodayIcon    string
	WrittenToday bool
	Streak       int
	StreakIcon   string
	Count        int
	Backend      string
}

// NewStatusData resolves the icons for c.
func NewStatusData(c *PromptCache, icons Icons) StatusData {
	icon := icons.NoToday
	if c.WrittenToday {
		icon = icons.Today
	}
	return StatusData{
		TodayIcon:    icon,
		WrittenToday: c.WrittenToday,
		Streak:       c.Streak,
		StreakIcon:   icons.Streak,
		Count:        c.Count,
		Backend:      c.Backend,
	}
}

// WriteDefault prints "<today icon> <streak><streak icon>" with the backend
// appended when showBackend is set.
func WriteDefault(w io.Writer, d StatusData, showBackend bool) {
	parts := []string{fmt.Sprintf("%s %d%s", d.TodayIcon, d.Streak, d.StreakIcon)}
	if showBackend && d.Backend != "" {
		parts = append(parts, d.Backend)
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}

// WriteEnv prints export statements for the prompt hook to eval.
func WriteEnv(w io.Writer, d StatusData) {
	fmt.Fprintf(w, "export DAYBOOK_TODAY=%q\n", d.TodayIcon)
	fmt.Fprintf(w, "export DAYBOOK_STREAK=%q\n", fmt.Sprint(d.Streak))
	fmt.Fprintf(w, "export DAYBOOK_STREAK_ICON=%q\n", d.StreakIcon)
	fmt.Fprintf(w, "export DAYBOOK_COUNT=%q\n", fmt.Sprint(d.Count))
	if d.Backend != "" {
		fmt.Fprintf(w, "export DAYBOOK_BACKEND=%q\n", d.Backend)
	}
}

// WriteTemplate renders d with a user-supplied text/template.
func WriteTemplate(w io.Writer, d StatusData, format string) error {
	tmpl, err := template.New("status").Parse(format)
	if err != nil {
		return fmt.Errorf("invalid format template: %w", err)
	}
	if err := tmpl.Execute(w, d); err != nil {
		return fmt.Errorf("executing format template: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}
