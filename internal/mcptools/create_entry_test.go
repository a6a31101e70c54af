package mcptools_test

import (
	"os"
	"testing"

	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/mcptools"
	"github.com/chris-regnier/daybook/internal/shell"
)

func TestMCPServer_CreateEntry(t *testing.T) {
	ts := newTestServer(t)

	t.Run("creates entry with title and body", func(t *testing.T) {
		var output mcptools.CreateEntryOutput
		ts.call(t, "create_entry", mcptools.CreateEntryInput{Title: "Picnic", Body: "Test entry content"}, &output)

		if output.ID == "" {
			t.Error("expected non-empty ID")
		}
		if output.Date != "" {
			t.Errorf("date = %q, want undated", output.Date)
		}
		if output.Preview != "Picnic" {
			t.Errorf("preview = %q", output.Preview)
		}
		if len(output.Warnings) != 0 {
			t.Errorf("unexpected warnings %v", output.Warnings)
		}

		e, err := ts.journal.Get(output.ID)
		if err != nil {
			t.Fatalf("entry not found in storage: %v", err)
		}
		if e.Body != "Test entry content" {
			t.Errorf("stored body = %q, want %q", e.Body, "Test entry content")
		}
		if !e.CreatedAt.Equal(ts.now) {
			t.Errorf("created_at = %v, want %v", e.CreatedAt, ts.now)
		}
	})

	t.Run("creates dated entry with weather and checklist", func(t *testing.T) {
		item, err := ts.journal.CreateCheckItem("Water plants")
		if err != nil {
			t.Fatalf("CreateCheckItem: %v", err)
		}

		var output mcptools.CreateEntryOutput
		ts.call(t, "create_entry", mcptools.CreateEntryInput{
			Title:        "Garden",
			Date:         "2026-05-18",
			Weather:      "custom:🌈:rainbow",
			Bookmarked:   true,
			CheckItemIDs: []string{item.ID},
		}, &output)
		if output.Date != "2026-05-18" {
			t.Errorf("date = %q", output.Date)
		}

		e, err := ts.journal.Get(output.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !e.Bookmarked || e.Weather.Kind != entry.WeatherCustom || e.Weather.Label != "rainbow" {
			t.Errorf("unexpected entry %+v", e)
		}
		if len(e.Checklist) != 1 || e.Checklist[0].Title != "Water plants" {
			t.Errorf("checklist = %+v", e.Checklist)
		}
	})

	t.Run("warns about long titles", func(t *testing.T) {
		var output mcptools.CreateEntryOutput
		ts.call(t, "create_entry", mcptools.CreateEntryInput{Title: "A title that runs long"}, &output)
		if len(output.Warnings) != 1 {
			t.Errorf("expected one warning, got %v", output.Warnings)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		for _, input := range []mcptools.CreateEntryInput{
			{Title: "x", Date: "18/05/2026"},
			{Title: "x", Weather: "sleet"},
			{Title: "x", CheckItemIDs: []string{"zzzzzzzz"}},
		} {
			if res := ts.call(t, "create_entry", input, nil); !res.IsError {
				t.Errorf("expected tool error for %+v", input)
			}
		}
	})

	t.Run("invalidates prompt cache", func(t *testing.T) {
		if err := shell.WriteCache(ts.dataDir, &shell.PromptCache{Streak: 1}); err != nil {
			t.Fatalf("WriteCache: %v", err)
		}
		ts.call(t, "create_entry", mcptools.CreateEntryInput{Title: "x"}, nil)
		if _, err := os.Stat(shell.CachePath(ts.dataDir)); !os.IsNotExist(err) {
			t.Error("expected prompt cache to be removed")
		}
	})
}
