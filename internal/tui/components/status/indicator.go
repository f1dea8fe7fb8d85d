package status

import (
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/cheevo/internal/achievements"
	"github.com/garrettladley/cheevo/internal/tui/theme"
)

const statusDot = "●"

type Indicator struct {
	Active    bool
	LoggingIn bool
	LoggedIn  bool
	Username  string
	Hardcore  achievements.HardcoreState
}

func FromSnapshot(s achievements.Snapshot) Indicator {
	return Indicator{
		Active:    s.Active,
		LoggingIn: s.LoggingIn,
		LoggedIn:  s.LoggedIn,
		Username:  s.User.DisplayName,
		Hardcore:  s.Hardcore,
	}
}

func (i Indicator) Render() string {
	switch {
	case !i.Active:
		return lipgloss.NewStyle().
			Foreground(theme.ColorDim).
			Render(statusDot + " achievements off")
	case i.LoggingIn:
		return lipgloss.NewStyle().
			Foreground(theme.ColorBgLight).
			Render(statusDot + " logging in...")
	case !i.LoggedIn:
		return lipgloss.NewStyle().
			Foreground(theme.ColorOffline).
			Render(statusDot + " not logged in")
	}

	user := lipgloss.NewStyle().
		Foreground(theme.ColorOnline).
		Render(statusDot + " " + i.Username)
	return user + " " + i.modeBadge()
}

func (i Indicator) modeBadge() string {
	switch i.Hardcore {
	case achievements.HardcoreOn:
		return lipgloss.NewStyle().Foreground(theme.ColorHardcore).Bold(true).Render("HARDCORE")
	case achievements.HardcorePending:
		return lipgloss.NewStyle().Foreground(theme.ColorPending).Render("hardcore on reset")
	default:
		return lipgloss.NewStyle().Foreground(theme.ColorSoftcore).Render("softcore")
	}
}
