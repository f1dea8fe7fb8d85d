package splash

import (
	"time"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/cheevo/internal/tui/theme"
)

const Duration = 1200 * time.Millisecond

const Logo = `
  ▄▄▄▄▄▄  ▄▄    ▄▄  ▄▄▄▄▄▄▄▄  ▄▄▄▄▄▄▄▄  ▄▄    ▄▄    ▄▄▄▄
 ██▀▀▀▀▀  ██    ██  ██▀▀▀▀▀▀  ██▀▀▀▀▀▀  ██    ██   ██▀▀██
 ██       ████████  ██████    ██████    ▀█▄  ▄█▀  ██    ██
 ██       ██    ██  ██        ██         ██  ██   ██    ██
 ▀█▄▄▄▄▄  ██    ██  ██▄▄▄▄▄▄  ██▄▄▄▄▄▄    ████     ██▄▄██
   ▀▀▀▀▀  ▀▀    ▀▀  ▀▀▀▀▀▀▀▀  ▀▀▀▀▀▀▀▀    ▀▀▀▀      ▀▀▀▀`

type TickMsg struct{}

func LogoView(t theme.Theme) string {
	return t.TextAccent().Render(Logo)
}

func View(t theme.Theme, width, height int) string {
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		LogoView(t),
	)
}
