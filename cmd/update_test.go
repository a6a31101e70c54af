package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/storage"
)

func TestUpdateInline(t *testing.T) {
	clock := setupTestEnv(t)
	e := mustCreate(t, entry.Draft{Title: "Old", Body: "old body", Date: day(2026, 7, 1)})

	clock.t = clock.t.Add(time.Hour)
	var out, errOut bytes.Buffer
	opts := updateOptions{title: strPtr("New"), weather: strPtr("rainy"), clearDate: true}
	if err := runUpdate(&out, &errOut, e.ID, opts, strPtr("new body")); err != nil {
		t.Fatalf("runUpdate: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Updated entry "+e.ID) {
		t.Errorf("output = %q", out.String())
	}

	got, err := journ.Get(e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "New" || got.Body != "new body" || got.Date != nil || got.Weather.Kind != entry.WeatherRainy {
		t.Errorf("entry = %+v", got)
	}
	if !got.CreatedAt.Equal(e.CreatedAt) {
		t.Error("createdAt changed")
	}
	if !got.UpdatedAt.Equal(clock.t) {
		t.Errorf("updatedAt = %v, want %v", got.UpdatedAt, clock.t)
	}
}

func TestUpdateEmptyValuesKeepStoredText(t *testing.T) {
	clock := setupTestEnv(t)
	e := mustCreate(t, entry.Draft{Title: "Keep", Body: "keep me"})

	clock.t = clock.t.Add(time.Minute)
	var out, errOut bytes.Buffer
	if err := runUpdate(&out, &errOut, e.ID, updateOptions{title: strPtr("")}, strPtr("")); err != nil {
		t.Fatalf("runUpdate: %v", err)
	}
	got, _ := journ.Get(e.ID)
	if got.Title != "Keep" || got.Body != "keep me" {
		t.Errorf("entry = %+v", got)
	}
	if !got.UpdatedAt.Equal(clock.t) {
		t.Error("updatedAt should be bumped even when nothing changed")
	}
}

func TestUpdateChecklist(t *testing.T) {
	setupTestEnv(t)
	item, err := journ.CreateCheckItem("Read")
	if err != nil {
		t.Fatal(err)
	}
	e := mustCreate(t, entry.Draft{Title: "t"})

	var out, errOut bytes.Buffer
	if err := runUpdate(&out, &errOut, e.ID, updateOptions{checks: &[]string{item.ID}}, nil); err != nil {
		t.Fatalf("runUpdate: %v", err)
	}
	got, _ := journ.Get(e.ID)
	if len(got.Checklist) != 1 || got.Checklist[0].ItemID != item.ID {
		t.Fatalf("checklist = %+v", got.Checklist)
	}

	if err := runUpdate(&out, &errOut, e.ID, updateOptions{clearChecklist: true}, nil); err != nil {
		t.Fatalf("runUpdate: %v", err)
	}
	got, _ = journ.Get(e.ID)
	if len(got.Checklist) != 0 {
		t.Errorf("checklist = %+v, want empty", got.Checklist)
	}
}

func TestUpdateNotFound(t *testing.T) {
	setupTestEnv(t)
	err := runUpdate(&bytes.Buffer{}, &bytes.Buffer{}, "nonexist", updateOptions{title: strPtr("x")}, nil)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateBadDateLeavesEntryIntact(t *testing.T) {
	setupTestEnv(t)
	e := mustCreate(t, entry.Draft{Title: "Same"})

	err := runUpdate(&bytes.Buffer{}, &bytes.Buffer{}, e.ID, updateOptions{title: strPtr("Other"), date: strPtr("2026/07/01")}, nil)
	if exitCode(err) != 1 || err == nil {
		t.Fatalf("expected usage error, got %v", err)
	}
	got, _ := journ.Get(e.ID)
	if got.Title != "Same" || !got.UpdatedAt.Equal(e.UpdatedAt) {
		t.Errorf("entry changed: %+v", got)
	}
}

func TestEditEntryInEditor(t *testing.T) {
	setupTestEnv(t)
	e := mustCreate(t, entry.Draft{Title: "Draft", Body: "first pass"})

	appConfig.Editor = fakeEditor(t, "# Final\n\nsecond pass\n")
	var out bytes.Buffer
	if err := runEditEntry(&out, &bytes.Buffer{}, e.ID); err != nil {
		t.Fatalf("runEditEntry: %v", err)
	}
	got, _ := journ.Get(e.ID)
	if got.Title != "Final" || got.Body != "second pass" {
		t.Errorf("entry = %+v", got)
	}

	appConfig.Editor = fakeEditor(t, "# Final\n\nsecond pass\n")
	out.Reset()
	if err := runEditEntry(&out, &bytes.Buffer{}, e.ID); err != nil {
		t.Fatalf("runEditEntry: %v", err)
	}
	if !strings.Contains(out.String(), "No changes") {
		t.Errorf("output = %q", out.String())
	}
}

func TestUpdateOptionsEmpty(t *testing.T) {
	if !(updateOptions{}).empty() {
		t.Error("zero options should be empty")
	}
	if (updateOptions{clearImage: true}).empty() {
		t.Error("clear flag should count as a change")
	}
}
