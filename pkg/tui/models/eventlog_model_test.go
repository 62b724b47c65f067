package models

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/readviz/pkg/tui"
	"github.com/stretchr/testify/require"
)

func TestEventLogFilterAndDebugToggle(t *testing.T) {
	m := NewEventLogModel().WithSize(80, 20)
	m = m.Append(tui.EventLogEntry{At: time.Now(), Source: "action", Level: tui.LogLevelInfo, Text: "action start: sequence"})
	m = m.Append(tui.EventLogEntry{At: time.Now(), Source: "chart", Level: tui.LogLevelDebug, Text: "drew sequenceImage"})
	m = m.Append(tui.EventLogEntry{At: time.Now(), Source: "action", Level: tui.LogLevelError, Text: "paired failed"})
	require.Len(t, m.visible(), 3)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.Len(t, m.visible(), 2)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.True(t, m.Searching())
	for _, r := range "paired" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.Searching())
	got := m.visible()
	require.Len(t, got, 1)
	require.Equal(t, "paired failed", got[0].Text)
	require.Contains(t, m.View(), `filter="paired"`)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	require.Empty(t, m.Entries())
}

func TestEventLogKeepsNewestEntries(t *testing.T) {
	m := NewEventLogModel()
	for i := 0; i < eventLogCapacity+5; i++ {
		m = m.Append(tui.EventLogEntry{Text: "x"})
	}
	require.Len(t, m.Entries(), eventLogCapacity)
}
