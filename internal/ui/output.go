package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/chris-regnier/daybook/internal/entry"
)

const stampFormat = "2006-01-02 15:04"

// FormatEntryCreated formats a creation confirmation message.
func FormatEntryCreated(w io.Writer, e entry.Entry) {
	fmt.Fprintf(w, "Created entry %s (%s)\n", e.ID, e.CreatedAt.Local().Format(stampFormat))
}

// FormatEntryUpdated formats an update confirmation message.
func FormatEntryUpdated(w io.Writer, e entry.Entry) {
	fmt.Fprintf(w, "Updated entry %s (%s)\n", e.ID, e.UpdatedAt.Local().Format(stampFormat))
}

// FormatUnchanged reports an edit session that saved nothing.
func FormatUnchanged(w io.Writer, id string) {
	fmt.Fprintf(w, "No changes to entry %s.\n", id)
}

// FormatEntryDeleted formats a deletion confirmation message.
func FormatEntryDeleted(w io.Writer, id string) {
	fmt.Fprintf(w, "Deleted entry %s.\n", id)
}

// FormatBookmark formats the result of bookmarking or unbookmarking.
func FormatBookmark(w io.Writer, e entry.Entry) {
	if e.Bookmarked {
		fmt.Fprintf(w, "Bookmarked entry %s.\n", e.ID)
		return
	}
	fmt.Fprintf(w, "Removed bookmark from entry %s.\n", e.ID)
}

// FormatWarnings prints advisory validation warnings.
func FormatWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintf(w, "warning: %s\n", msg)
	}
}

// dateLabel renders an entry's diary date, or a dash when it has none.
func dateLabel(e entry.Entry) string {
	if e.Date == nil {
		return "undated   "
	}
	return e.Date.Local().Format("2006-01-02")
}

// FormatEntryFull formats a full entry display with metadata header.
// The markdownStyle parameter controls glamour rendering (e.g. "dark", "light").
func FormatEntryFull(w io.Writer, e entry.Entry, markdownStyle string) {
	fmt.Fprintf(w, "Entry: %s\n", e.ID)
	if e.Title != "" {
		fmt.Fprintf(w, "Title: %s\n", e.Title)
	}
	if e.Date != nil {
		fmt.Fprintf(w, "Date: %s\n", e.Date.Local().Format("2006-01-02"))
	}
	if !e.Weather.IsZero() {
		fmt.Fprintf(w, "Weather: %s\n", e.Weather.Display())
	}
	if e.Bookmarked {
		fmt.Fprintln(w, "Bookmarked: yes")
	}
	if e.HasImage() {
		fmt.Fprintf(w, "Photo: %d bytes\n", len(e.Image))
	}
	fmt.Fprintf(w, "Created: %s\n", e.CreatedAt.Local().Format(stampFormat))
	fmt.Fprintf(w, "Modified: %s\n", e.UpdatedAt.Local().Format(stampFormat))
	if len(e.Checklist) > 0 {
		fmt.Fprintln(w, "Checklist:")
		for _, item := range e.Checklist {
			fmt.Fprintf(w, "  [x] %s\n", item.Title)
		}
	}
	fmt.Fprintln(w)

	// 80 columns; the pager re-wraps when it is used.
	rendered := RenderMarkdownWithStyle(e.Body, 80, markdownStyle)
	fmt.Fprintln(w, rendered)
}

// FormatEntryList formats a list of entries, one per line.
func FormatEntryList(w io.Writer, entries []entry.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No diary entries found.")
		return
	}
	for _, e := range entries {
		mark := " "
		if e.Bookmarked {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s  %s  %s\n",
			mark,
			e.ID,
			dateLabel(e),
			e.Headline(60),
		)
	}
}

// FormatMonth formats a month's entries under a heading.
func FormatMonth(w io.Writer, month time.Time, entries []entry.Entry) {
	label := "entries"
	if len(entries) == 1 {
		label = "entry"
	}
	fmt.Fprintf(w, "── %s (%d %s) ──────────\n", month.Format("January 2006"), len(entries), label)
	if len(entries) == 0 {
		return
	}
	FormatEntryList(w, entries)
}

// FormatCheckItems formats the reusable checklist items.
func FormatCheckItems(w io.Writer, items []entry.CheckItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No check items found.")
		return
	}
	for _, c := range items {
		fmt.Fprintf(w, "%s  %s\n", c.ID, c.Title)
	}
}

// FormatStats formats the journal summary.
func FormatStats(w io.Writer, count, streak int, writtenToday bool) {
	today := "no"
	if writtenToday {
		today = "yes"
	}
	days := "days"
	if streak == 1 {
		days = "day"
	}
	fmt.Fprintf(w, "Entries:       %d\n", count)
	fmt.Fprintf(w, "Streak:        %d %s\n", streak, days)
	fmt.Fprintf(w, "Written today: %s\n", today)
}

// FormatJSON writes any value as JSON to the writer.
func FormatJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// EntrySummary is a JSON representation for list output.
type EntrySummary struct {
	ID         string     `json:"id"`
	Date       *time.Time `json:"date,omitempty"`
	Title      string     `json:"title"`
	Preview    string     `json:"preview"`
	Bookmarked bool       `json:"bookmarked"`
	Weather    string     `json:"weather,omitempty"`
	HasImage   bool       `json:"has_image"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ToSummary converts one entry to its list representation.
func ToSummary(e entry.Entry) EntrySummary {
	return EntrySummary{
		ID:         e.ID,
		Date:       e.Date,
		Title:      e.Title,
		Preview:    e.Preview(60),
		Bookmarked: e.Bookmarked,
		Weather:    e.Weather.String(),
		HasImage:   e.HasImage(),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// ToSummaries converts entries to summary format for JSON list output.
func ToSummaries(entries []entry.Entry) []EntrySummary {
	summaries := make([]EntrySummary, len(entries))
	for i, e := range entries {
		summaries[i] = ToSummary(e)
	}
	return summaries
}

// DeleteResult is a JSON representation for delete output.
type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

