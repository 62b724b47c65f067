package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/readviz/pkg/tui/styles"
)

type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

// TableRow is one line of cells. Styles, when set, overrides the style of
// the cell at the same index.
type TableRow struct {
	Cells  []string
	Styles []*lipgloss.Style
}

// Table renders fixed-width columns with an optional cursor row. A negative
// cursor disables selection.
type Table struct {
	Columns []TableColumn
	Rows    []TableRow
	Cursor  int
	Width   int
	theme   styles.Theme
}

const defaultColumnWidth = 20

func NewTable(cols []TableColumn) Table {
	return Table{Columns: cols, theme: styles.DefaultTheme()}
}

func (t Table) WithRows(rows []TableRow) Table {
	t.Rows = rows
	return t
}

func (t Table) WithCursor(idx int) Table {
	t.Cursor = idx
	return t
}

// WithSize sets the width used for the selection bar; height is ignored.
func (t Table) WithSize(width, height int) Table {
	_ = height
	t.Width = width
	return t
}

func (t Table) Render() string {
	if len(t.Rows) == 0 {
		return t.theme.TitleMuted.Render("(no data)")
	}

	var lines []string
	if h := t.header(); h != "" {
		lines = append(lines, h)
	}
	for i, row := range t.Rows {
		selected := i == t.Cursor
		var b strings.Builder
		if selected {
			b.WriteString(t.theme.KeybindKey.Render("> "))
		} else {
			b.WriteString("  ")
		}
		for j, cell := range row.Cells {
			col := t.column(j)
			style := lipgloss.NewStyle().Foreground(t.theme.TextDim)
			if j < len(row.Styles) && row.Styles[j] != nil {
				style = *row.Styles[j]
			}
			if selected {
				style = style.Bold(true).Foreground(t.theme.Text)
			}
			b.WriteString(style.Width(col.Width).Align(col.Align).Render(truncate(cell, col.Width)))
		}
		line := b.String()
		if selected {
			line = t.theme.Selected.Width(t.Width).Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (t Table) column(i int) TableColumn {
	c := TableColumn{Width: defaultColumnWidth}
	if i < len(t.Columns) {
		c = t.Columns[i]
		if c.Width <= 0 {
			c.Width = defaultColumnWidth
		}
	}
	return c
}

func (t Table) header() string {
	var b strings.Builder
	named := false
	b.WriteString("  ")
	for i, c := range t.Columns {
		named = named || c.Header != ""
		col := t.column(i)
		b.WriteString(t.theme.Title.Width(col.Width).Align(col.Align).Render(c.Header))
	}
	if !named {
		return ""
	}
	return b.String()
}

// truncate shortens s to width display cells, marking the cut with an
// ellipsis.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
