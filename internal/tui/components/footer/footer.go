package footer

import (
	"strings"

	"charm.land/lipgloss/v2"
)

type Footer struct {
	help         string
	rightContent string
	width        int
	padding      int
}

// New builds a footer with key help on the left and rightContent aligned to
// the right edge of width.
func New(help string, rightContent string, width int) Footer {
	return Footer{
		help:         help,
		rightContent: rightContent,
		width:        width,
		padding:      2,
	}
}

func (f Footer) Render() string {
	leftContent := f.leftContent()
	if f.help != "" {
		leftContent = strings.TrimSpace(leftContent + "  " + helpStyle.Render(f.help))
	}

	leftWidth := lipgloss.Width(leftContent)
	rightWidth := lipgloss.Width(f.rightContent)
	spacerWidth := max(f.width-leftWidth-rightWidth-(f.padding*2), 0)

	return lipgloss.NewStyle().
		PaddingLeft(f.padding).
		PaddingRight(f.padding).
		PaddingBottom(1).
		Render(leftContent + strings.Repeat(" ", spacerWidth) + f.rightContent)
}
