package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar draws a percentage as a filled bar followed by the number.
type ProgressBar struct {
	percent int
	width   int
	style   lipgloss.Style
}

// NewProgressBar clamps percent into 0..100.
func NewProgressBar(percent int) ProgressBar {
	return ProgressBar{percent: min(max(percent, 0), 100), width: 20}
}

func (p ProgressBar) WithWidth(width int) ProgressBar {
	p.width = max(width, 5)
	return p
}

// WithStyle styles the filled part.
func (p ProgressBar) WithStyle(style lipgloss.Style) ProgressBar {
	p.style = style
	return p
}

func (p ProgressBar) Render() string {
	filled := min(max(p.width*p.percent/100, 0), p.width)
	return fmt.Sprintf("%s%s %3d%%",
		p.style.Render(strings.Repeat("█", filled)),
		strings.Repeat("░", p.width-filled),
		p.percent)
}
