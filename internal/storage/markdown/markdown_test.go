package markdown

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testEntry(t *testing.T, title, body string) entry.Entry {
	t.Helper()
	e, err := entry.New(entry.Draft{Title: title, Body: body}, time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("entry.New: %v", err)
	}
	return e
}

func TestEntryPathByCreationDay(t *testing.T) {
	s := newTestStore(t)
	e := testEntry(t, "path", "")
	if err := s.Create(e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := filepath.Join(s.baseDir, "2026", "05", "02", e.ID+".md")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected file at %s: %v", want, err)
	}
}

func TestBodyWhitespacePreserved(t *testing.T) {
	s := newTestStore(t)
	tests := []string{
		"",
		"single line",
		"trailing newline\n",
		"  leading spaces",
		"para one\n\n\npara two\n\n",
		"---\nlooks like front matter\n---\n",
	}
	for _, body := range tests {
		e := testEntry(t, "ws", body)
		if err := s.Create(e); err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, err := s.Get(e.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Body != body {
			t.Errorf("body = %q, want %q", got.Body, body)
		}
	}
}

func TestTitleQuoting(t *testing.T) {
	s := newTestStore(t)
	for _, title := range []string{"key: value", "# hash", `"quoted"`, "yes", "123"} {
		e := testEntry(t, title, "")
		if err := s.Create(e); err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, err := s.Get(e.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Title != title {
			t.Errorf("title = %q, want %q", got.Title, title)
		}
	}
}

func TestMalformedFileSkipped(t *testing.T) {
	s := newTestStore(t)
	good := testEntry(t, "good", "fine")
	if err := s.Create(good); err != nil {
		t.Fatalf("Create: %v", err)
	}

	bad := filepath.Join(s.baseDir, "2026", "05", "02", "zzzzzzzz.md")
	if err := os.WriteFile(bad, []byte("---\nid: zzzzzzzz\ncreated_at: not-a-time\n---\n"), 0644); err != nil {
		t.Fatalf("writing malformed file: %v", err)
	}

	entries, err := s.List(storage.Query{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != good.ID {
		t.Errorf("entries = %v, want only the valid entry", entries)
	}

	if _, err := s.Get("zzzzzzzz"); err == nil || !strings.Contains(err.Error(), "decoding") {
		t.Errorf("expected decoding error from Get, got %v", err)
	}
}

func TestWatchReportsExternalEdits(t *testing.T) {
	s := newTestStore(t)
	changed := make(chan struct{}, 16)
	stop, err := s.Watch(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer stop()

	e := testEntry(t, "watched", "")
	if err := s.Create(e); err != nil {
		t.Fatalf("Create: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification after writing an entry file")
	}
}

func TestCheckItemIDsStayInsideDataDir(t *testing.T) {
	s := newTestStore(t)
	outside := filepath.Join(filepath.Dir(s.itemsDir), "outside.md")
	content := "---\nid: outside\ntitle: \"SECRET\"\ncreated_at: 2026-05-02T08:00:00Z\nupdated_at: 2026-05-02T08:00:00Z\n---\n"
	if err := os.WriteFile(outside, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"../outside", "../../etc/passwd", "UPPERCAS", ""} {
		if _, err := s.GetCheckItem(id); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetCheckItem(%q): expected ErrNotFound, got %v", id, err)
		}
		if err := s.UpdateCheckItem(entry.CheckItem{ID: id, Title: "x"}); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("UpdateCheckItem(%q): expected ErrNotFound, got %v", id, err)
		}
		if err := s.DeleteCheckItem(id); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteCheckItem(%q): expected ErrNotFound, got %v", id, err)
		}
	}
	if _, err := os.Stat(outside); err != nil {
		t.Errorf("file outside the items dir was touched: %v", err)
	}
}
