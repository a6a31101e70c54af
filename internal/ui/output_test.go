package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/chris-regnier/daybook/internal/entry"
)

func TestFormatEntryList(t *testing.T) {
	date := time.Date(2026, 7, 4, 0, 0, 0, 0, time.Local)
	entries := []entry.Entry{
		{ID: "aaaaaaaa", Title: "Fireworks", Date: &date, Bookmarked: true},
		{ID: "bbbbbbbb", Body: "no title here"},
	}

	var buf bytes.Buffer
	FormatEntryList(&buf, entries)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "* aaaaaaaa  2026-07-04  Fireworks" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "  bbbbbbbb  undated     no title here" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestFormatEntryListEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatEntryList(&buf, nil)
	if buf.String() != "No diary entries found.\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestFormatMonth(t *testing.T) {
	var buf bytes.Buffer
	FormatMonth(&buf, time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local), nil)
	if !strings.Contains(buf.String(), "February 2026 (0 entries)") {
		t.Errorf("got %q", buf.String())
	}
}

func TestFormatStats(t *testing.T) {
	var buf bytes.Buffer
	FormatStats(&buf, 12, 1, true)
	want := "Entries:       12\nStreak:        1 day\nWritten today: yes\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestFormatEntryFull(t *testing.T) {
	date := time.Date(2026, 7, 4, 0, 0, 0, 0, time.Local)
	e := entry.Entry{
		ID:         "aaaaaaaa",
		Title:      "Fireworks",
		Body:       "Loud.",
		Date:       &date,
		Bookmarked: true,
		Weather:    entry.Weather{Kind: entry.WeatherSunny},
		Image:      []byte{1, 2, 3},
		Checklist:  []entry.CheckedItem{{ItemID: "cccccccc", Title: "Call mom"}},
	}
	var buf bytes.Buffer
	FormatEntryFull(&buf, e, "notty")
	out := buf.String()
	for _, want := range []string{"Title: Fireworks", "Date: 2026-07-04", "Bookmarked: yes", "Photo: 3 bytes", "[x] Call mom", "Loud."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestToSummaryJSON(t *testing.T) {
	e := entry.Entry{ID: "aaaaaaaa", Title: "t", Body: "b", Weather: entry.Weather{Kind: entry.WeatherRainy}}
	var buf bytes.Buffer
	if err := FormatJSON(&buf, ToSummaries([]entry.Entry{e})); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(got) != 1 || got[0]["id"] != "aaaaaaaa" || got[0]["has_image"] != false {
		t.Errorf("unexpected summary %v", got)
	}
	if _, ok := got[0]["date"]; ok {
		t.Error("undated entry should omit date")
	}
}
