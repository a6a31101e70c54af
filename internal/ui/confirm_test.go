package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chris-regnier/daybook/internal/config"
	"github.com/chris-regnier/daybook/internal/entry"
)

func TestConfirmModelKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want bool
	}{
		{"lower y", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, true},
		{"upper Y", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Y")}, true},
		{"n", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, false},
		{"enter defaults to no", tea.KeyMsg{Type: tea.KeyEnter}, false},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := confirmModel{prompt: "Sure?", theme: ResolveTheme(config.ThemeConfig{})}
			next, cmd := m.Update(tt.msg)
			got := next.(confirmModel)
			if !got.done {
				t.Fatal("expected prompt to finish")
			}
			if got.confirmed != tt.want {
				t.Errorf("confirmed = %v, want %v", got.confirmed, tt.want)
			}
			if cmd == nil {
				t.Error("expected quit command")
			}
			if got.View() != "" {
				t.Error("finished prompt should render nothing")
			}
		})
	}
}

func TestConfirmModelIgnoresOtherKeys(t *testing.T) {
	m := confirmModel{prompt: "Sure?", theme: ResolveTheme(config.ThemeConfig{})}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if next.(confirmModel).done || cmd != nil {
		t.Error("unrelated key should leave the prompt open")
	}
	if !strings.Contains(stripANSI(m.View()), "Sure? [y/N]") {
		t.Errorf("unexpected view %q", stripANSI(m.View()))
	}
}

func TestDeletePrompt(t *testing.T) {
	date := time.Date(2026, 4, 9, 0, 0, 0, 0, time.Local)
	e := entry.Entry{ID: "abcd1234", Title: "Dentist", Date: &date}
	if got := deletePrompt(e); got != `Delete entry abcd1234 (2026-04-09, "Dentist")?` {
		t.Errorf("got %q", got)
	}

	e.Date = nil
	if got := deletePrompt(e); got != `Delete entry abcd1234 (undated, "Dentist")?` {
		t.Errorf("got %q", got)
	}
}
