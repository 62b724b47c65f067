package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/readviz/pkg/form"
	"github.com/go-go-golems/readviz/pkg/protocol"
	"github.com/go-go-golems/readviz/pkg/tui"
	"github.com/go-go-golems/readviz/pkg/tui/styles"
	"github.com/go-go-golems/readviz/pkg/tui/widgets"
	"github.com/go-go-golems/readviz/pkg/uistate"
)

type ViewID string

const (
	ViewForm   ViewID = "form"
	ViewCharts ViewID = "charts"
	ViewEvents ViewID = "events"
)

var viewOrder = []ViewID{ViewForm, ViewCharts, ViewEvents}

// PublishFunc hands an action request to whatever executes it.
type PublishFunc func(req protocol.ActionRequest) error

var actionKeys = map[string]protocol.ActionKind{
	"1": protocol.ActionSequence,
	"2": protocol.ActionPaired,
	"3": protocol.ActionNucleotide,
	"4": protocol.ActionCalcIdentity,
	"5": protocol.ActionIdentity,
	"6": protocol.ActionDiamond,
	"e": protocol.ActionExportTSV,
}

type RootModel struct {
	width  int
	height int

	active ViewID
	state  uistate.State

	form   FormModel
	charts ChartsModel
	events EventLogModel

	publish    PublishFunc
	info       string
	lastExport string
}

func NewRootModel(initial form.MapSource) RootModel {
	return RootModel{
		active: ViewForm,
		state:  uistate.New(),
		form:   NewFormModel(initial),
		charts: NewChartsModel(),
		events: NewEventLogModel(),
	}
}

func (m RootModel) WithPublisher(p PublishFunc) RootModel {
	m.publish = p
	return m
}

// WithInfo sets the text shown in the header, usually the backend URL.
func (m RootModel) WithInfo(info string) RootModel {
	m.info = info
	return m
}

func (m RootModel) State() uistate.State { return m.state }

func (m RootModel) Form() FormModel { return m.form }

func (m RootModel) Charts() ChartsModel { return m.charts }

func (m RootModel) Init() tea.Cmd { return nil }

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = v.Width, v.Height
		m.form = m.form.WithWidth(v.Width)
		m.charts = m.charts.WithWidth(v.Width)
		m.events = m.events.WithSize(v.Width, v.Height-8)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(v)
	case tui.UIStateMsg:
		m.state = v.State
		return m, nil
	case tui.ChartMsg:
		m.charts = m.charts.WithChart(v.Spec)
		return m, nil
	case tui.EventLogAppendMsg:
		m.events = m.events.Append(v.Entry)
		return m, nil
	case tui.ActionFinishedMsg:
		if v.Event.ExportURL != "" {
			m.lastExport = v.Event.ExportURL
		}
		return m, nil
	case tui.ActionPublishFailedMsg:
		m.state = m.state.ReleaseControls()
		m.events = m.events.Append(tui.EventLogEntry{
			At:     time.Now(),
			Source: "tui",
			Level:  tui.LogLevelError,
			Text:   "publish action: " + v.Err.Error(),
		})
		return m, nil
	}
	return m, nil
}

func (m RootModel) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if k.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.active == ViewForm && m.form.Editing() {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(k)
		return m, cmd
	}
	if m.active == ViewEvents && m.events.Searching() {
		var cmd tea.Cmd
		m.events, cmd = m.events.Update(k)
		return m, cmd
	}

	switch k.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		for i, id := range viewOrder {
			if id == m.active {
				m.active = viewOrder[(i+1)%len(viewOrder)]
				break
			}
		}
		return m, nil
	}

	if kind, ok := actionKeys[k.String()]; ok {
		return m.trigger(kind)
	}

	var cmd tea.Cmd
	switch m.active {
	case ViewForm:
		m.form, cmd = m.form.Update(k)
	case ViewCharts:
		m.charts, cmd = m.charts.Update(k)
	case ViewEvents:
		m.events, cmd = m.events.Update(k)
	}
	return m, cmd
}

// trigger gates on the controls, disables them locally for request actions
// and publishes the request.
func (m RootModel) trigger(kind protocol.ActionKind) (tea.Model, tea.Cmd) {
	if !m.state.ControlsEnabled || m.publish == nil {
		return m, nil
	}
	req := protocol.NewActionRequest(kind, form.Collect(kind, m.form.Source()))
	if kind != protocol.ActionExportTSV {
		m.state = m.state.BeginAction()
		if kind == protocol.ActionCalcIdentity {
			m.state = m.state.SetLoading(uistate.RegionIdentityLoader, true)
		}
	}
	publish := m.publish
	return m, func() tea.Msg {
		if err := publish(req); err != nil {
			return tui.ActionPublishFailedMsg{Err: err}
		}
		return nil
	}
}

func (m RootModel) View() string {
	theme := styles.DefaultTheme()

	status := "ready"
	if !m.state.ControlsEnabled {
		status = "busy"
	}
	header := widgets.NewHeader("readviz").
		WithStatus(styles.ControlsIcon(m.state.ControlsEnabled), status, m.state.ControlsEnabled).
		WithInfo(m.info).
		WithKeybinds([]widgets.Keybind{{Key: "tab", Label: string(m.active)}, {Key: "q", Label: "quit"}}).
		WithWidth(m.width)

	var body string
	switch m.active {
	case ViewCharts:
		body = m.charts.View()
	case ViewEvents:
		body = m.events.View()
	default:
		body = m.form.View()
	}

	sections := []string{header.Render(), body}
	if s := m.statusLines(theme); s != "" {
		sections = append(sections, s)
	}

	footer := widgets.NewFooter([]widgets.Keybind{
		{Key: "1", Label: "sequence"},
		{Key: "2", Label: "paired"},
		{Key: "3", Label: "nucleotide"},
		{Key: "4", Label: "calc identity"},
		{Key: "5", Label: "identity"},
		{Key: "6", Label: "diamond"},
		{Key: "e", Label: "export"},
	}).WithWidth(m.width)
	sections = append(sections, footer.Render())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m RootModel) statusLines(theme styles.Theme) string {
	var lines []string
	for _, r := range m.state.ErrorRegions() {
		lines = append(lines, theme.StatusError.Render(fmt.Sprintf("%s %s: %s", styles.IconError, r, m.state.Error(r))))
	}
	statusRegions := make([]string, 0, len(m.state.Status))
	for r := range m.state.Status {
		statusRegions = append(statusRegions, string(r))
	}
	sort.Strings(statusRegions)
	for _, r := range statusRegions {
		lines = append(lines, theme.StatusOK.Render(fmt.Sprintf("%s %s: %s", styles.IconSuccess, r, m.state.Status[uistate.Region(r)])))
	}
	if m.state.Loading[uistate.RegionIdentityLoader] {
		lines = append(lines, theme.StatusBusy.Render(styles.IconLoading+" calculating identity…"))
	}
	if m.lastExport != "" {
		lines = append(lines, theme.TitleMuted.Render("export: "+m.lastExport))
	}
	return strings.Join(lines, "\n")
}
