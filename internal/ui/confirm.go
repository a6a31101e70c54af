package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chris-regnier/daybook/internal/entry"
)

// confirmModel is a one-line y/N prompt. Anything but y declines.
type confirmModel struct {
	prompt    string
	confirmed bool
	done      bool
	theme     Theme
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch strings.ToLower(key.String()) {
	case "y":
		m.confirmed = true
	case "n", "enter", "esc", "ctrl+c":
		m.confirmed = false
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	return m.theme.HeaderStyle().Render(m.prompt) + " " + m.theme.DangerStyle().Render("[y/N]") + " "
}

// Confirm asks a yes/no question on the terminal.
func Confirm(prompt string, theme Theme) (bool, error) {
	result, err := tea.NewProgram(confirmModel{prompt: prompt, theme: theme}).Run()
	if err != nil {
		return false, err
	}
	return result.(confirmModel).confirmed, nil
}

// deletePrompt names the entry by its headline so the user can tell what
// is about to go.
func deletePrompt(e entry.Entry) string {
	return fmt.Sprintf("Delete entry %s (%s, %q)?", e.ID, strings.TrimSpace(dateLabel(e)), e.Headline(40))
}

// ConfirmDelete asks before deleting e.
func ConfirmDelete(e entry.Entry, theme Theme) (bool, error) {
	return Confirm(deletePrompt(e), theme)
}
