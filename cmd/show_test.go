package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/storage"
)

// stripANSI removes ANSI escape sequences from a string
func stripANSI(s string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(s, "")
}

func TestShowFullContent(t *testing.T) {
	setupTestEnv(t)
	e := mustCreate(t, entry.Draft{
		Title:   "Storm",
		Body:    "Full diary entry content here",
		Weather: entry.Weather{Kind: entry.WeatherStormy},
	})

	var buf bytes.Buffer
	if err := runShow(&buf, e.ID, false); err != nil {
		t.Fatalf("runShow: %v", err)
	}
	// Strip ANSI codes for testing since markdown rendering adds color codes
	output := stripANSI(buf.String())

	for _, want := range []string{"Entry: " + e.ID, "Title: Storm", "Weather: ⛈️ stormy", "Created:", "Full diary entry content here"} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in output:\n%s", want, output)
		}
	}
}

func TestShowNotFound(t *testing.T) {
	setupTestEnv(t)

	err := runShow(&bytes.Buffer{}, "nonexist", false)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := describe(err); got != "entry nonexist not found" {
		t.Errorf("describe = %q", got)
	}
	if exitCode(err) != 1 {
		t.Errorf("exit code = %d, want 1", exitCode(err))
	}
}

func TestShowInvalidID(t *testing.T) {
	setupTestEnv(t)
	if err := runShow(&bytes.Buffer{}, "BAD!", false); exitCode(err) != 1 || err == nil {
		t.Errorf("expected usage error, got %v", err)
	}
}

func TestShowBodyOnly(t *testing.T) {
	setupTestEnv(t)
	e := mustCreate(t, entry.Draft{Title: "t", Body: "just the body"})

	var buf bytes.Buffer
	if err := runShow(&buf, e.ID, true); err != nil {
		t.Fatalf("runShow: %v", err)
	}
	if buf.String() != "just the body\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestShowJSONOutput(t *testing.T) {
	setupTestEnv(t)
	jsonOutput = true
	e := mustCreate(t, entry.Draft{Title: "json", Body: "body", Date: day(2026, 7, 1)})

	var buf bytes.Buffer
	if err := runShow(&buf, e.ID, false); err != nil {
		t.Fatalf("runShow: %v", err)
	}
	var got entry.Entry
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("JSON unmarshal: %v", err)
	}
	if got.ID != e.ID || got.Title != "json" || got.Date == nil {
		t.Errorf("got %+v", got)
	}
}
