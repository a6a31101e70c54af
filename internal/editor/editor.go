// Package editor opens an entry in the user's $EDITOR.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ResolveEditor determines which editor to use based on config, env vars, and fallback.
func ResolveEditor(configEditor string) string {
	if configEditor != "" {
		return configEditor
	}
	if ed := os.Getenv("EDITOR"); ed != "" {
		return ed
	}
	if ed := os.Getenv("VISUAL"); ed != "" {
		return ed
	}
	return "vi"
}

// Document is the editable text of an entry: a "# Title" heading line,
// a blank line, then the body.
type Document struct {
	Title string
	Body  string
}

// String renders the document as it appears in the editor.
func (d Document) String() string {
	return "# " + d.Title + "\n\n" + d.Body
}

// ParseDocument reads edited text back. A leading "# " line is the title;
// everything after the blank line that follows it is the body. Text
// without a heading is all body.
func ParseDocument(text string) Document {
	text = strings.TrimLeft(text, "\n")
	first, rest, _ := strings.Cut(text, "\n")
	if !strings.HasPrefix(first, "# ") && first != "#" {
		return Document{Body: strings.TrimRight(text, " \n")}
	}
	return Document{
		Title: strings.TrimSpace(strings.TrimPrefix(first, "#")),
		Body:  strings.TrimRight(strings.TrimLeft(rest, "\n"), " \n"),
	}
}

// Edit opens doc in an editor and returns the edited document. changed is
// false when the file comes back empty or with the same title and body.
func Edit(editorCmd string, doc Document) (edited Document, changed bool, err error) {
	parts := strings.Fields(editorCmd)
	if len(parts) == 0 {
		return doc, false, fmt.Errorf("empty editor command")
	}

	tmp, err := os.CreateTemp("", "daybook-*.md")
	if err != nil {
		return doc, false, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(doc.String()); err != nil {
		tmp.Close()
		return doc, false, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return doc, false, fmt.Errorf("writing temp file: %w", err)
	}

	cmd := exec.Command(parts[0], append(parts[1:], tmpName)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return doc, false, fmt.Errorf("editor exited with error: %w", err)
	}

	data, err := os.ReadFile(tmpName)
	if err != nil {
		return doc, false, fmt.Errorf("reading edited file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return Document{}, false, nil
	}

	edited = ParseDocument(string(data))
	if edited.Title == doc.Title && edited.Body == strings.TrimRight(doc.Body, " \n") {
		return doc, false, nil
	}
	return edited, true, nil
}
