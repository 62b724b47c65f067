package models

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/readviz/pkg/form"
	"github.com/go-go-golems/readviz/pkg/tui/styles"
	"github.com/go-go-golems/readviz/pkg/tui/widgets"
)

// FormModel edits every action control. Values are kept by control id.
type FormModel struct {
	fields []form.Field
	values map[string]string

	cursor  int
	editing bool
	input   textinput.Model

	width int
}

func NewFormModel(initial form.MapSource) FormModel {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 64

	values := map[string]string{}
	for k, v := range initial {
		values[k] = v
	}
	return FormModel{fields: form.Controls(), values: values, input: input}
}

func (m FormModel) WithWidth(w int) FormModel {
	m.width = w
	return m
}

func (m FormModel) Editing() bool { return m.editing }

// Source snapshots the current values.
func (m FormModel) Source() form.MapSource {
	out := form.MapSource{}
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

func (m FormModel) Value(control string) string { return m.values[control] }

func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.editing {
		switch key.String() {
		case "esc":
			m.editing = false
			m.input.Blur()
			return m, nil
		case "enter":
			m.values[m.fields[m.cursor].Control] = m.input.Value()
			m.editing = false
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(key)
		return m, cmd
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
	case "enter", " ", "space":
		if len(m.fields) == 0 {
			return m, nil
		}
		f := m.fields[m.cursor]
		if f.IsCheckbox() {
			checked, _ := strconv.ParseBool(m.values[f.Control])
			m.values[f.Control] = strconv.FormatBool(!checked)
			return m, nil
		}
		if key.String() != "enter" {
			return m, nil
		}
		m.editing = true
		m.input.SetValue(m.values[f.Control])
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd
	}
	return m, nil
}

func (m FormModel) View() string {
	theme := styles.DefaultTheme()
	rows := make([]widgets.TableRow, 0, len(m.fields))
	for i, f := range m.fields {
		v := m.values[f.Control]
		if f.IsCheckbox() {
			checked, _ := strconv.ParseBool(v)
			v = "[ ]"
			if checked {
				v = "[x]"
			}
		}
		if m.editing && i == m.cursor {
			v = m.input.View()
		}
		rows = append(rows, widgets.TableRow{Cells: []string{f.Control, v, f.Help}})
	}
	table := widgets.NewTable([]widgets.TableColumn{
		{Header: "Control", Width: 24},
		{Header: "Value", Width: 16},
		{Header: "Help", Width: 44},
	}).WithRows(rows).WithCursor(m.cursor).WithSize(m.width, 0)

	hint := "[↑/↓] select  [enter] edit  [space] toggle"
	if m.editing {
		hint = "[enter] save  [esc] cancel"
	}
	return lipgloss.JoinVertical(lipgloss.Left, table.Render(), "", theme.TitleMuted.Render(hint))
}
