package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/readviz/pkg/tui/styles"
)

type Keybind struct {
	Key   string
	Label string
}

// Header is the top bar: app title, controls state, backend info and view
// keybinds.
type Header struct {
	Title    string
	Icon     string
	Status   string
	Ready    bool
	Info     string
	Keybinds []Keybind
	Width    int
	theme    styles.Theme
}

func NewHeader(title string) Header {
	return Header{Title: title, theme: styles.DefaultTheme()}
}

func (h Header) WithStatus(icon, status string, ready bool) Header {
	h.Icon, h.Status, h.Ready = icon, status, ready
	return h
}

// WithInfo sets muted text shown before the keybinds, usually the backend
// address.
func (h Header) WithInfo(text string) Header {
	h.Info = text
	return h
}

func (h Header) WithKeybinds(kb []Keybind) Header {
	h.Keybinds = kb
	return h
}

func (h Header) WithWidth(w int) Header {
	h.Width = w
	return h
}

func (h Header) Render() string {
	t := h.theme
	left := lipgloss.NewStyle().Bold(true).Foreground(t.Text).Background(t.Primary).Padding(0, 1).Render(h.Title)
	if h.Status != "" {
		st := t.StatusBusy
		if h.Ready {
			st = t.StatusOK
		}
		left += "  " + st.Render(h.Icon+" "+h.Status)
	}

	var right []string
	if h.Info != "" {
		right = append(right, t.TitleMuted.Render(h.Info))
	}
	if len(h.Keybinds) > 0 {
		right = append(right, RenderKeybinds(h.Keybinds, t))
	}
	line := spread(left, strings.Join(right, "  "), h.Width)
	return lipgloss.JoinVertical(lipgloss.Left, line, rule(h.Width, t))
}

// Footer lists the action keys under a rule.
type Footer struct {
	Keybinds []Keybind
	Width    int
	theme    styles.Theme
}

func NewFooter(keybinds []Keybind) Footer {
	return Footer{Keybinds: keybinds, theme: styles.DefaultTheme()}
}

func (f Footer) WithWidth(w int) Footer {
	f.Width = w
	return f
}

func (f Footer) Render() string {
	keys := RenderKeybinds(f.Keybinds, f.theme)
	if f.Width > 0 {
		keys = lipgloss.PlaceHorizontal(f.Width, lipgloss.Center, keys)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rule(f.Width, f.theme), keys)
}

func RenderKeybinds(keybinds []Keybind, theme styles.Theme) string {
	parts := make([]string, 0, len(keybinds))
	for _, kb := range keybinds {
		parts = append(parts, theme.KeybindKey.Render("["+kb.Key+"]")+theme.Keybind.Render(" "+kb.Label))
	}
	return strings.Join(parts, " ")
}

// spread places left and right at the two ends of width.
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func rule(width int, t styles.Theme) string {
	if width <= 0 {
		width = 80
	}
	return lipgloss.NewStyle().Foreground(t.Muted).Render(strings.Repeat("━", width))
}
