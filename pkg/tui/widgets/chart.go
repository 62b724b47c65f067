package widgets

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/readviz/pkg/chart"
	"github.com/go-go-golems/readviz/pkg/tui/styles"
	"github.com/pkg/errors"
)

// ChartView draws a chart spec with block characters.
type ChartView struct {
	Spec  chart.Spec
	Width int
	theme styles.Theme
}

func NewChartView(spec chart.Spec) ChartView {
	return ChartView{Spec: spec, Width: 60, theme: styles.DefaultTheme()}
}

func (c ChartView) WithWidth(w int) ChartView {
	if w < 20 {
		w = 20
	}
	c.Width = w
	return c
}

func (c ChartView) Render() string {
	var sections []string
	for i, s := range c.Spec.Series {
		color := c.theme.SeriesColor(i)
		if len(c.Spec.Series) > 1 && s.Name != "" {
			sections = append(sections, lipgloss.NewStyle().Bold(true).Foreground(color).Render(s.Name))
		}
		if len(s.Points) == 0 {
			sections = append(sections, c.theme.TitleMuted.Render("(no data)"))
			continue
		}
		switch s.Type {
		case chart.SeriesPie:
			sections = append(sections, c.renderPie(s))
		case chart.SeriesBubble:
			sections = append(sections, c.renderBubbles(s))
		default:
			sections = append(sections, c.renderColumns(s, color))
		}
	}
	if len(sections) == 0 {
		sections = append(sections, c.theme.TitleMuted.Render("(no data)"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (c ChartView) renderColumns(s chart.Series, color lipgloss.Color) string {
	maxY := 0.0
	labelWidth := 1
	for _, p := range s.Points {
		maxY = math.Max(maxY, p.Y)
		labelWidth = max(labelWidth, len(formatNumber(p.X)))
	}
	barWidth := c.Width - labelWidth - 12
	if barWidth < 5 {
		barWidth = 5
	}
	style := lipgloss.NewStyle().Foreground(color)

	lines := make([]string, 0, len(s.Points))
	for _, p := range s.Points {
		// Negative values draw as an empty bar.
		n := 0
		if maxY > 0 && p.Y > 0 {
			n = min(int(math.Round(p.Y/maxY*float64(barWidth))), barWidth)
		}
		lines = append(lines, fmt.Sprintf("%*s │%s %s",
			labelWidth, formatNumber(p.X),
			style.Render(strings.Repeat("█", n)),
			c.theme.TitleMuted.Render(formatNumber(p.Y))))
	}
	return strings.Join(lines, "\n")
}

func (c ChartView) renderPie(s chart.Series) string {
	nameWidth := 1
	for _, p := range s.Points {
		nameWidth = max(nameWidth, lipgloss.Width(p.Name))
	}
	style := lipgloss.NewStyle().Foreground(c.theme.Success)
	lines := make([]string, 0, len(s.Points))
	for _, p := range s.Points {
		bar := NewProgressBar(int(math.Round(p.Y))).
			WithWidth(c.Width - nameWidth - 8).
			WithStyle(style).
			Render()
		lines = append(lines, fmt.Sprintf("%-*s %s", nameWidth, p.Name, bar))
	}
	return strings.Join(lines, "\n")
}

func (c ChartView) renderBubbles(s chart.Series) string {
	rows := make([]TableRow, 0, len(s.Points))
	for _, p := range s.Points {
		bin := p.Bin
		if bin == "" {
			bin = formatNumber(p.Y)
		}
		label := c.theme.BaseStyle(p.Label)
		rows = append(rows, TableRow{
			Cells:  []string{p.Label, bin + "%", formatNumber(p.Z)},
			Styles: []*lipgloss.Style{&label},
		})
	}
	return NewTable([]TableColumn{
		{Header: "Nucleotide", Width: 10},
		{Header: "Percentage", Width: 12},
		{Header: "Sequences", Width: 10, Align: lipgloss.Right},
	}).WithRows(rows).WithCursor(-1).WithSize(c.Width, 0).Render()
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// TerminalRenderer writes each chart as a titled box.
type TerminalRenderer struct {
	W     io.Writer
	Width int

	mu sync.Mutex
}

var _ chart.Renderer = (*TerminalRenderer)(nil)

func (r *TerminalRenderer) Draw(ctx context.Context, spec chart.Spec) error {
	_ = ctx
	width := r.Width
	if width <= 0 {
		width = 80
	}
	out := NewBox(spec.Title).
		WithTitleRight(spec.Region).
		WithContent(NewChartView(spec).WithWidth(width - 4).Render()).
		WithSize(width, 0).
		Render()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := io.WriteString(r.W, out+"\n"); err != nil {
		return errors.Wrap(err, "write chart")
	}
	return nil
}
