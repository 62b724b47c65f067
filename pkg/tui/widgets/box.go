package widgets

import (
	"github.com/go-go-golems/readviz/pkg/tui/styles"
)

// Box is a rounded border around content, with a title row when either
// title is set.
type Box struct {
	Title      string
	TitleRight string
	Content    string
	Width      int
	Height     int
	theme      styles.Theme
}

func NewBox(title string) Box {
	return Box{Title: title, theme: styles.DefaultTheme()}
}

func (b Box) WithContent(content string) Box {
	b.Content = content
	return b
}

func (b Box) WithTitleRight(text string) Box {
	b.TitleRight = text
	return b
}

// WithSize sets the outer size; zero leaves a dimension to the content.
func (b Box) WithSize(width, height int) Box {
	b.Width, b.Height = width, height
	return b
}

func (b Box) Render() string {
	inner := max(b.Width-2, 0)
	body := b.Content
	titled := b.Title != "" || b.TitleRight != ""
	if titled {
		left := b.theme.Title.Render(b.Title)
		right := b.theme.TitleMuted.Render(b.TitleRight)
		body = spread(left, right, inner) + "\n" + body
	}

	style := b.theme.Border
	if b.Width > 0 {
		style = style.Width(inner)
	}
	if b.Height > 0 {
		h := b.Height - 2
		if titled {
			h--
		}
		style = style.Height(max(h, 0))
	}
	return style.Render(body)
}

