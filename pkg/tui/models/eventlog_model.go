package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/readviz/pkg/tui"
	"github.com/go-go-golems/readviz/pkg/tui/styles"
	"github.com/go-go-golems/readviz/pkg/tui/widgets"
)

const eventLogCapacity = 200

// EventLogModel shows action lifecycle lines, newest at the bottom.
type EventLogModel struct {
	entries []tui.EventLogEntry

	width, height int

	searching bool
	search    textinput.Model
	filter    string
	hideDebug bool

	vp viewport.Model
}

func NewEventLogModel() EventLogModel {
	search := textinput.New()
	search.Placeholder = "filter…"
	search.Prompt = "/ "
	search.CharLimit = 200
	return EventLogModel{search: search, vp: viewport.New(0, 0)}
}

func (m EventLogModel) WithSize(width, height int) EventLogModel {
	m.width, m.height = width, height
	m.vp.Width = max(0, width)
	m.vp.Height = max(3, height-4)
	return m.refresh(false)
}

func (m EventLogModel) Searching() bool { return m.searching }

func (m EventLogModel) Entries() []tui.EventLogEntry {
	return append([]tui.EventLogEntry(nil), m.entries...)
}

func (m EventLogModel) Append(e tui.EventLogEntry) EventLogModel {
	m.entries = append(m.entries, e)
	if len(m.entries) > eventLogCapacity {
		m.entries = append([]tui.EventLogEntry(nil), m.entries[len(m.entries)-eventLogCapacity:]...)
	}
	return m.refresh(true)
}

func (m EventLogModel) Update(msg tea.Msg) (EventLogModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.searching {
		switch key.String() {
		case "esc":
			m.searching = false
			m.search.Blur()
			return m, nil
		case "enter":
			m.filter = strings.TrimSpace(m.search.Value())
			m.searching = false
			m.search.Blur()
			return m.refresh(true), nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(key)
		return m, cmd
	}

	switch key.String() {
	case "/":
		m.searching = true
		m.search.SetValue(m.filter)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd
	case "ctrl+l":
		m.filter = ""
		return m.refresh(true), nil
	case "d":
		m.hideDebug = !m.hideDebug
		return m.refresh(true), nil
	case "c":
		m.entries = nil
		return m.refresh(true), nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(key)
	return m, cmd
}

// visible applies the text filter and the debug toggle.
func (m EventLogModel) visible() []tui.EventLogEntry {
	out := make([]tui.EventLogEntry, 0, len(m.entries))
	for _, e := range m.entries {
		if m.hideDebug && e.Level == tui.LogLevelDebug {
			continue
		}
		if m.filter != "" && !strings.Contains(e.Text, m.filter) && !strings.Contains(e.Source, m.filter) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (m EventLogModel) refresh(bottom bool) EventLogModel {
	theme := styles.DefaultTheme()
	entries := m.visible()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, formatEntry(theme, e))
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if bottom {
		m.vp.GotoBottom()
	}
	return m
}

func formatEntry(theme styles.Theme, e tui.EventLogEntry) string {
	level := e.Level
	if level == "" {
		level = tui.LogLevelInfo
	}
	style := theme.TitleMuted
	switch level {
	case tui.LogLevelError:
		style = theme.StatusError
	case tui.LogLevelWarn:
		style = lipgloss.NewStyle().Foreground(theme.Warning)
	}
	source := strings.TrimSpace(e.Source)
	if source == "" {
		source = "readviz"
	}
	ts := "--:--:--"
	if !e.At.IsZero() {
		ts = e.At.Format("15:04:05")
	}
	return fmt.Sprintf("%s %s %s  %s",
		style.Render(styles.LogLevelIcon(string(level))),
		theme.TitleMuted.Render(ts),
		theme.TitleMuted.Render("["+source+"]"),
		style.Render(e.Text))
}

func (m EventLogModel) View() string {
	theme := styles.DefaultTheme()
	hints := "[/] filter  [d] debug  [c] clear  [↑/↓] scroll"
	if m.filter != "" {
		hints = fmt.Sprintf("filter=%q  %s", m.filter, hints)
	}

	box := widgets.NewBox(fmt.Sprintf("Events (%d)", len(m.entries))).WithTitleRight(hints)
	if len(m.entries) == 0 {
		box = box.WithContent(theme.TitleMuted.Render("(no events yet)")).WithSize(m.width, 5)
	} else {
		box = box.WithContent(m.vp.View()).WithSize(m.width, m.vp.Height+3)
	}

	if m.searching {
		return lipgloss.JoinVertical(lipgloss.Left, m.search.View(), box.Render())
	}
	return box.Render()
}
