package theme

import "charm.land/lipgloss/v2"

var (
	ColorBlack = lipgloss.Color("#000000")
	ColorWhite = lipgloss.Color("#FFFFFF")
	ColorDim   = lipgloss.Color("#666666")
)

var (
	ColorGold     = lipgloss.Color("#F5C542") // unlocks, mastery, points
	ColorSoftcore = lipgloss.Color("#4FA3F7") // softcore progress
	ColorHardcore = lipgloss.Color("#E8453C") // hardcore badge and progress
	ColorPending  = lipgloss.Color("#FF9F1C") // hardcore waiting for a reset
	ColorOnline   = lipgloss.Color("#16EC06")
	ColorOffline  = lipgloss.Color("#FF0026")
	ColorSelf     = lipgloss.Color("#00F19F") // the logged in user in leaderboards
)

var (
	ColorBgDark  = lipgloss.Color("#101518")
	ColorBgLight = lipgloss.Color("#283339")
)
