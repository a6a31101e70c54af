package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/journal"
)

// EntrySource provides the views the browser can show.
type EntrySource interface {
	EntriesInMonth(ref time.Time) ([]entry.Entry, error)
	Bookmarked() ([]entry.Entry, error)
}

// EntryWriter applies the edits available from the browser.
type EntryWriter interface {
	SetBookmarked(id string, bookmarked bool) (entry.Entry, error)
	Delete(id string) error
}

// BrowserConfig holds what the browser needs besides its data.
type BrowserConfig struct {
	Theme    Theme
	MaxWidth int       // 0 = no limit
	Month    time.Time // initial month; zero means the current month
	// Changes, when set, triggers a reload after every journal mutation,
	// including edits made outside this process.
	Changes <-chan journal.Change
}

type browserView int

const (
	viewMonth browserView = iota
	viewBookmarked
)

type browserScreen int

const (
	screenList browserScreen = iota
	screenDetail
)

// entryItem implements list.Item for an entry.
type entryItem struct {
	entry entry.Entry
}

func (i entryItem) Title() string {
	mark := ""
	if i.entry.Bookmarked {
		mark = "★ "
	}
	return fmt.Sprintf("%s%s  %s", mark, dateLabel(i.entry), i.entry.Headline(60))
}

func (i entryItem) Description() string { return i.entry.Preview(80) }
func (i entryItem) FilterValue() string { return i.entry.Title + " " + i.entry.Body }

type entriesLoadedMsg struct {
	entries []entry.Entry
	err     error
}

type changedMsg struct{}

type mutationDoneMsg struct {
	err error
}

type browserModel struct {
	source EntrySource
	writer EntryWriter
	cfg    BrowserConfig

	view   browserView
	screen browserScreen
	month  time.Time

	list     list.Model
	viewport viewport.Model
	selected entry.Entry

	deleteActive bool
	status       string

	width  int
	height int
	ready  bool
	err    error
}

func newBrowserModel(source EntrySource, writer EntryWriter, cfg BrowserConfig) browserModel {
	month := cfg.Month
	if month.IsZero() {
		month = time.Now()
	}
	month = time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())

	l := cfg.Theme.NewList(nil, 0, 0)
	l.SetShowHelp(false)
	m := browserModel{
		source: source,
		writer: writer,
		cfg:    cfg,
		month:  month,
		list:   l,
	}
	m.list.Title = m.title(0)
	return m
}

func (m browserModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForChange())
}

func (m browserModel) load() tea.Cmd {
	view, month, source := m.view, m.month, m.source
	return func() tea.Msg {
		var (
			entries []entry.Entry
			err     error
		)
		if view == viewBookmarked {
			entries, err = source.Bookmarked()
		} else {
			entries, err = source.EntriesInMonth(month)
		}
		return entriesLoadedMsg{entries: entries, err: err}
	}
}

// waitForChange blocks on the change channel. It returns nil once the
// channel closes, which ends the wait loop.
func (m browserModel) waitForChange() tea.Cmd {
	ch := m.cfg.Changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (m browserModel) title(n int) string {
	label := "entries"
	if n == 1 {
		label = "entry"
	}
	if m.view == viewBookmarked {
		return fmt.Sprintf("Bookmarked (%d %s)", n, label)
	}
	return fmt.Sprintf("%s (%d %s)", m.month.Format("January 2006"), n, label)
}

func (m browserModel) contentWidth() int {
	if m.cfg.MaxWidth > 0 && m.width > m.cfg.MaxWidth {
		return m.cfg.MaxWidth
	}
	return m.width
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.list.SetSize(m.contentWidth(), m.height-2)
		if m.screen == screenDetail {
			m = m.openDetail(m.selected)
		}
		return m, nil

	case entriesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		return m.setEntries(msg.entries), nil

	case changedMsg:
		return m, tea.Batch(m.load(), m.waitForChange())

	case mutationDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		// Without a change feed the browser reloads itself.
		if m.cfg.Changes == nil {
			return m, m.load()
		}
		return m, nil

	case tea.KeyMsg:
		if m.deleteActive {
			return m.updateDeleteConfirm(msg)
		}
		if m.screen == screenDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browserModel) setEntries(entries []entry.Entry) browserModel {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e}
	}
	m.list.SetItems(items)
	m.list.Title = m.title(len(entries))

	if m.screen == screenDetail {
		found := false
		for _, e := range entries {
			if e.ID == m.selected.ID {
				m = m.openDetail(e)
				found = true
				break
			}
		}
		if !found {
			m.screen = screenList
		}
	}
	return m
}

func (m browserModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	m.status = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		if m.view == viewMonth {
			m.month = m.month.AddDate(0, -1, 0)
			return m, m.load()
		}
	case "right", "l":
		if m.view == viewMonth {
			m.month = m.month.AddDate(0, 1, 0)
			return m, m.load()
		}
	case "tab":
		if m.view == viewMonth {
			m.view = viewBookmarked
		} else {
			m.view = viewMonth
		}
		m.list.ResetSelected()
		return m, m.load()
	case "enter":
		if item, ok := m.list.SelectedItem().(entryItem); ok {
			return m.openDetail(item.entry), nil
		}
		return m, nil
	case "b":
		if item, ok := m.list.SelectedItem().(entryItem); ok {
			return m, m.toggleBookmark(item.entry)
		}
		return m, nil
	case "d":
		if item, ok := m.list.SelectedItem().(entryItem); ok {
			m.deleteActive = true
			m.selected = item.entry
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browserModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.screen = screenList
		return m, nil
	case "b":
		return m, m.toggleBookmark(m.selected)
	case "d":
		m.deleteActive = true
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m browserModel) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		m.deleteActive = false
		m.screen = screenList
		id, writer := m.selected.ID, m.writer
		return m, func() tea.Msg {
			return mutationDoneMsg{err: writer.Delete(id)}
		}
	case "n", "esc", "enter":
		m.deleteActive = false
	}
	return m, nil
}

func (m browserModel) toggleBookmark(e entry.Entry) tea.Cmd {
	writer := m.writer
	return func() tea.Msg {
		_, err := writer.SetBookmarked(e.ID, !e.Bookmarked)
		return mutationDoneMsg{err: err}
	}
}

func (m browserModel) openDetail(e entry.Entry) browserModel {
	m.selected = e
	m.screen = screenDetail
	vpHeight := max(m.height-4, 1)
	m.viewport = viewport.New(m.contentWidth(), vpHeight)
	m.viewport.Style = m.cfg.Theme.ViewPaneStyle()
	m.viewport.SetContent(m.renderEntry(e))
	return m
}

func (m browserModel) renderEntry(e entry.Entry) string {
	var b strings.Builder
	if !e.Weather.IsZero() {
		fmt.Fprintf(&b, "Weather: %s\n", e.Weather.Display())
	}
	if e.HasImage() {
		fmt.Fprintf(&b, "Photo: %d bytes\n", len(e.Image))
	}
	for _, item := range e.Checklist {
		fmt.Fprintf(&b, "[x] %s\n", item.Title)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(RenderMarkdownWithStyle(e.Body, m.contentWidth(), m.cfg.Theme.MarkdownStyle))
	return b.String()
}

func (m browserModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	theme := m.cfg.Theme
	cw := m.contentWidth()
	var result string

	switch m.screen {
	case screenList:
		hint := "←/→ month • tab bookmarked • enter open • b bookmark • d delete • / filter • q quit"
		if m.view == viewBookmarked {
			hint = "tab month • enter open • b bookmark • d delete • / filter • q quit"
		}
		result = m.list.View() + "\n" + theme.HelpStyle().Width(cw).Render(hint)
	case screenDetail:
		e := m.selected
		title := e.Title
		if title == "" {
			title = e.ID
		}
		if e.Bookmarked {
			title = "★ " + title
		}
		header := theme.HeaderStyle().Width(cw).Render(title)
		meta := theme.HelpStyle().Width(cw).Render(fmt.Sprintf("%s  Created: %s  Modified: %s",
			dateLabel(e),
			e.CreatedAt.Local().Format(stampFormat),
			e.UpdatedAt.Local().Format(stampFormat)))
		footer := theme.HelpStyle().Width(cw).Render("↑/↓ scroll • b bookmark • d delete • esc back • q quit")
		result = header + "\n" + meta + "\n" + m.viewport.View() + "\n" + footer
	}

	if m.deleteActive {
		prompt := fmt.Sprintf("Delete entry %s? [y/N] ", m.selected.ID)
		result += "\n" + theme.DangerStyle().Width(cw).Render(prompt)
	} else if m.status != "" {
		result += "\n" + theme.DangerStyle().Width(cw).Render(m.status)
	}

	return theme.PaintScreen(result, m.width, m.height, cw)
}

// RunBrowser opens the full-screen month browser.
func RunBrowser(source EntrySource, writer EntryWriter, cfg BrowserConfig) error {
	p := tea.NewProgram(newBrowserModel(source, writer, cfg), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return err
	}
	if bm, ok := result.(browserModel); ok && bm.err != nil {
		return bm.err
	}
	return nil
}
