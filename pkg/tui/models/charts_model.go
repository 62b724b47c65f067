package models

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/readviz/pkg/chart"
	"github.com/go-go-golems/readviz/pkg/tui/styles"
	"github.com/go-go-golems/readviz/pkg/tui/widgets"
)

var chartRegions = []string{
	chart.RegionSequence,
	chart.RegionPairs,
	chart.RegionFwNucleotide,
	chart.RegionRvcNucleotide,
	chart.RegionIdentity,
}

// ChartsModel keeps the latest chart per region; a new draw replaces it.
type ChartsModel struct {
	charts map[string]chart.Spec
	active int
	width  int
}

func NewChartsModel() ChartsModel {
	return ChartsModel{charts: map[string]chart.Spec{}}
}

func (m ChartsModel) WithWidth(w int) ChartsModel {
	m.width = w
	return m
}

func (m ChartsModel) WithChart(spec chart.Spec) ChartsModel {
	next := make(map[string]chart.Spec, len(m.charts)+1)
	for k, v := range m.charts {
		next[k] = v
	}
	next[spec.Region] = spec
	m.charts = next
	for i, r := range chartRegions {
		if r == spec.Region {
			m.active = i
		}
	}
	return m
}

func (m ChartsModel) Chart(region string) (chart.Spec, bool) {
	s, ok := m.charts[region]
	return s, ok
}

func (m ChartsModel) ActiveRegion() string { return chartRegions[m.active] }

func (m ChartsModel) Update(msg tea.Msg) (ChartsModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "left", "h":
			m.active = (m.active + len(chartRegions) - 1) % len(chartRegions)
		case "right", "l":
			m.active = (m.active + 1) % len(chartRegions)
		}
	}
	return m, nil
}

func (m ChartsModel) View() string {
	theme := styles.DefaultTheme()
	region := chartRegions[m.active]
	title := fmt.Sprintf("%s (%d/%d)", region, m.active+1, len(chartRegions))

	width := m.width
	if width <= 0 {
		width = 80
	}
	content := theme.TitleMuted.Render("(not drawn yet)")
	if spec, ok := m.charts[region]; ok {
		title = fmt.Sprintf("%s (%d/%d)", spec.Title, m.active+1, len(chartRegions))
		content = widgets.NewChartView(spec).WithWidth(width - 4).Render()
	}
	return widgets.NewBox(title).
		WithTitleRight("[←/→] region").
		WithContent(content).
		WithSize(width, 0).
		Render()
}
