package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/storage"
	"github.com/chris-regnier/daybook/internal/ui"
)

// answer replaces the confirmation prompt for the duration of a test.
func answer(t *testing.T, yes bool) *int {
	t.Helper()
	asked := 0
	orig := confirmDelete
	confirmDelete = func(entry.Entry) (bool, error) {
		asked++
		return yes, nil
	}
	t.Cleanup(func() { confirmDelete = orig })
	return &asked
}

func TestDeleteConfirmed(t *testing.T) {
	setupTestEnv(t)
	asked := answer(t, true)
	e := mustCreate(t, entry.Draft{Title: "gone", Bookmarked: true, Date: day(2026, 7, 2)})

	var out bytes.Buffer
	if err := runDelete(&out, e.ID, false); err != nil {
		t.Fatalf("runDelete: %v", err)
	}
	if *asked != 1 {
		t.Errorf("asked %d times, want 1", *asked)
	}
	if !strings.Contains(out.String(), "Deleted entry "+e.ID) {
		t.Errorf("output = %q", out.String())
	}

	if _, err := journ.Get(e.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	marked, _ := queries.Bookmarked()
	month, _ := queries.EntriesInMonth(*day(2026, 7, 1))
	if len(marked) != 0 || len(month) != 0 {
		t.Error("deleted entry still returned by queries")
	}
}

func TestDeleteCancelled(t *testing.T) {
	setupTestEnv(t)
	answer(t, false)
	e := mustCreate(t, entry.Draft{Title: "stays"})

	var out bytes.Buffer
	if err := runDelete(&out, e.ID, false); err != nil {
		t.Fatalf("runDelete: %v", err)
	}
	if !strings.Contains(out.String(), "Cancelled.") {
		t.Errorf("output = %q", out.String())
	}
	if n, _ := journ.Count(); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestDeleteForceSkipsPrompt(t *testing.T) {
	setupTestEnv(t)
	asked := answer(t, false)
	e := mustCreate(t, entry.Draft{Title: "forced"})

	if err := runDelete(&bytes.Buffer{}, e.ID, true); err != nil {
		t.Fatalf("runDelete: %v", err)
	}
	if *asked != 0 {
		t.Error("--force should not prompt")
	}
	if n, _ := journ.Count(); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestDeleteNotFound(t *testing.T) {
	setupTestEnv(t)
	err := runDelete(&bytes.Buffer{}, "nonexist", true)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteJSONOutput(t *testing.T) {
	setupTestEnv(t)
	jsonOutput = true
	e := mustCreate(t, entry.Draft{Title: "json"})

	var buf bytes.Buffer
	if err := runDelete(&buf, e.ID, true); err != nil {
		t.Fatalf("runDelete: %v", err)
	}
	var got ui.DeleteResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("JSON unmarshal: %v", err)
	}
	if !got.Deleted || got.ID != e.ID {
		t.Errorf("got %+v", got)
	}
}
