package editor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveEditorConfig(t *testing.T) {
	result := ResolveEditor("nano")
	if result != "nano" {
		t.Errorf("expected nano, got %q", result)
	}
}

func TestResolveEditorEnvEditor(t *testing.T) {
	t.Setenv("EDITOR", "vim")
	t.Setenv("VISUAL", "code")
	result := ResolveEditor("")
	if result != "vim" {
		t.Errorf("expected vim (from EDITOR), got %q", result)
	}
}

func TestResolveEditorEnvVisual(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "code")
	result := ResolveEditor("")
	if result != "code" {
		t.Errorf("expected code (from VISUAL), got %q", result)
	}
}

func TestResolveEditorFallback(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")
	result := ResolveEditor("")
	if result != "vi" {
		t.Errorf("expected vi (fallback), got %q", result)
	}
}

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Document
	}{
		{"title and body", "# Beach day\n\nSand everywhere.\n", Document{Title: "Beach day", Body: "Sand everywhere."}},
		{"no blank line", "# Beach day\nSand.", Document{Title: "Beach day", Body: "Sand."}},
		{"title only", "# Beach day\n", Document{Title: "Beach day"}},
		{"empty heading", "#\n\nbody", Document{Body: "body"}},
		{"no heading", "Just text\nmore", Document{Body: "Just text\nmore"}},
		{"subheading is body", "## Notes\n\nx", Document{Body: "## Notes\n\nx"}},
		{"leading blank lines", "\n\n# T\n\nB", Document{Title: "T", Body: "B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDocument(tt.text); got != tt.want {
				t.Errorf("ParseDocument(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := Document{Title: "Walk", Body: "Around the lake.\n\nTwice."}
	if got := ParseDocument(doc.String()); got != doc {
		t.Errorf("round trip = %+v, want %+v", got, doc)
	}
}

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

func TestEditUnchanged(t *testing.T) {
	doc := Document{Title: "Same", Body: "text"}
	got, changed, err := Edit("true", doc)
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if changed {
		t.Error("expected changed=false for unchanged content")
	}
	if got != doc {
		t.Errorf("got %+v, want %+v", got, doc)
	}
}

func TestEditChanged(t *testing.T) {
	got, changed, err := Edit(fakeEditor(t, "# New title\n\nNew body\n"), Document{Title: "Old", Body: "old"})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if !changed {
		t.Error("expected changed=true")
	}
	if got != (Document{Title: "New title", Body: "New body"}) {
		t.Errorf("got %+v", got)
	}
}

func TestEditEmptyResult(t *testing.T) {
	got, changed, err := Edit(fakeEditor(t, "\n  \n"), Document{Title: "Old"})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if changed {
		t.Error("expected changed=false for empty result")
	}
	if got != (Document{}) {
		t.Errorf("got %+v, want empty", got)
	}
}

func TestEditErrors(t *testing.T) {
	if _, _, err := Edit("", Document{}); err == nil {
		t.Error("expected error for empty editor command")
	}
	if _, _, err := Edit("false", Document{}); err == nil {
		t.Error("expected error when the editor fails")
	}
}
