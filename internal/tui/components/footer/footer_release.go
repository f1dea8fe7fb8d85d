//go:build release

package footer

import (
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/cheevo/internal/tui/theme"
)

var helpStyle = lipgloss.NewStyle().Foreground(theme.ColorDim)

func (f Footer) leftContent() string {
	return ""
}
