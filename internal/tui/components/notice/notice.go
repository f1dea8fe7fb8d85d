package notice

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/cheevo/internal/notify"
	"github.com/garrettladley/cheevo/internal/tui/theme"
)

// Width is the column the notification stack is drawn in.
const Width = 44

var (
	titleStyle = lipgloss.NewStyle().Foreground(theme.ColorGold).Bold(true)
	bodyStyle  = lipgloss.NewStyle().Foreground(theme.ColorWhite)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBgLight).
			Padding(0, 1).
			Width(Width)
	toastStyle = lipgloss.NewStyle().
			Foreground(theme.ColorBlack).
			Background(theme.ColorGold).
			Padding(0, 2)
)

// Stack renders notifications newest first.
func Stack(ns []notify.Notification) string {
	boxes := make([]string, 0, len(ns))
	for i := len(ns) - 1; i >= 0; i-- {
		boxes = append(boxes, box(ns[i]))
	}
	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}

func box(n notify.Notification) string {
	var parts []string
	if n.Title != "" {
		parts = append(parts, titleStyle.Render(n.Title))
	}
	if n.Body != "" {
		parts = append(parts, bodyStyle.Render(n.Body))
	}
	return boxStyle.Render(strings.Join(parts, "\n"))
}

// Toast renders a one-line message, or "" when there is none.
func Toast(t notify.Toast, ok bool) string {
	if !ok {
		return ""
	}
	text := t.Body
	if t.Title != "" && t.Body != "" {
		text = t.Title + ": " + t.Body
	} else if t.Title != "" {
		text = t.Title
	}
	return toastStyle.Render(strings.ReplaceAll(text, "\n", " "))
}
