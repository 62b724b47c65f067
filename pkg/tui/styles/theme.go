package styles

import "github.com/charmbracelet/lipgloss"

// Theme holds the palette and the styles built from it.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
	Text      lipgloss.Color
	TextDim   lipgloss.Color

	// Series colors, by position in a chart's series list.
	Series []lipgloss.Color
	// Nucleotide colors keyed by base label.
	Bases map[string]lipgloss.Color

	Border     lipgloss.Style
	Title      lipgloss.Style
	TitleMuted lipgloss.Style
	Selected   lipgloss.Style
	Keybind    lipgloss.Style
	KeybindKey lipgloss.Style

	// Status lines under the active view.
	StatusOK    lipgloss.Style
	StatusError lipgloss.Style
	StatusBusy  lipgloss.Style
}

func DefaultTheme() Theme {
	primary := lipgloss.Color("#7C3AED")
	secondary := lipgloss.Color("#06B6D4")
	success := lipgloss.Color("#22C55E")
	warning := lipgloss.Color("#EAB308")
	errorC := lipgloss.Color("#EF4444")
	muted := lipgloss.Color("#6B7280")
	text := lipgloss.Color("#F9FAFB")
	textDim := lipgloss.Color("#9CA3AF")

	return Theme{
		Primary:   primary,
		Secondary: secondary,
		Success:   success,
		Warning:   warning,
		Error:     errorC,
		Muted:     muted,
		Text:      text,
		TextDim:   textDim,

		// forward, reverse
		Series: []lipgloss.Color{secondary, lipgloss.Color("#F97316")},
		Bases: map[string]lipgloss.Color{
			"A": success,
			"T": errorC,
			"C": lipgloss.Color("#3B82F6"),
			"G": warning,
		},

		Border:     lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(muted),
		Title:      lipgloss.NewStyle().Bold(true).Foreground(text),
		TitleMuted: lipgloss.NewStyle().Foreground(textDim),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(text).
			Background(lipgloss.Color("#374151")),
		Keybind:    lipgloss.NewStyle().Foreground(textDim),
		KeybindKey: lipgloss.NewStyle().Bold(true).Foreground(secondary),

		StatusOK:    lipgloss.NewStyle().Foreground(success),
		StatusError: lipgloss.NewStyle().Foreground(errorC),
		StatusBusy:  lipgloss.NewStyle().Foreground(warning),
	}
}

// SeriesColor cycles through the series palette.
func (t Theme) SeriesColor(i int) lipgloss.Color {
	if len(t.Series) == 0 {
		return t.Secondary
	}
	return t.Series[i%len(t.Series)]
}

// BaseStyle colors a nucleotide label; unknown labels use the text color.
func (t Theme) BaseStyle(label string) lipgloss.Style {
	c, ok := t.Bases[label]
	if !ok {
		c = t.Text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}
