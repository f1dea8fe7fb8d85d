package tui

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/cheevo/internal/achievements"
	"github.com/garrettladley/cheevo/internal/tui/components/footer"
	"github.com/garrettladley/cheevo/internal/tui/components/gauge"
	"github.com/garrettladley/cheevo/internal/tui/components/notice"
	"github.com/garrettladley/cheevo/internal/tui/components/status"
	"github.com/garrettladley/cheevo/internal/tui/page/leaderboard"
	"github.com/garrettladley/cheevo/internal/tui/theme"
)

const (
	overlayHelp     = "h hardcore · r reset · p pause · b leaderboards · s/l state · q quit"
	leaderboardHelp = "tab all/nearby · ↑/↓ scroll · esc close"
	pickerHelp      = "↑/↓ select · enter open · esc back"
)

func (m *Model) OverlayView() string {
	s := m.state.snapshot

	help := overlayHelp
	switch {
	case s.Leaderboard.Open:
		help = leaderboardHelp
	case m.state.leaderboard.Picking:
		help = pickerHelp
	}
	foot := footer.New(help, status.FromSnapshot(s).Render(), m.viewportWidth).Render()
	height := max(m.viewportHeight-lipgloss.Height(foot), 0)

	notes := notice.Stack(m.state.notifications)
	mainWidth := max(m.viewportWidth-lipgloss.Width(notes), 0)

	main := lipgloss.Place(
		mainWidth,
		height,
		lipgloss.Center,
		lipgloss.Center,
		m.mainView(),
	)
	side := lipgloss.Place(
		m.viewportWidth-mainWidth,
		height,
		lipgloss.Right,
		lipgloss.Top,
		notes,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, main, side),
		foot,
	)
}

func (m *Model) mainView() string {
	s := m.state.snapshot

	var center string
	switch {
	case s.Leaderboard.Open:
		center = leaderboard.View(m.theme, s.Leaderboard, m.state.leaderboard, s.User.Username)
	case m.state.leaderboard.Picking:
		center = leaderboard.PickerView(m.theme, m.state.leaderboard)
	default:
		center = m.summaryView()
	}

	parts := []string{}
	if toast := notice.Toast(m.state.toast, m.state.hasToast); toast != "" {
		parts = append(parts, toast, "")
	}
	parts = append(parts, m.headerView(), "", center)
	if row := m.indicatorsView(); row != "" {
		parts = append(parts, "", row)
	}
	if m.state.status.text != "" {
		parts = append(parts, "", m.theme.Muted().Render(m.state.status.text))
	}
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

func (m *Model) headerView() string {
	s := m.state.snapshot
	if s.GameID == 0 {
		return m.theme.Muted().Render("No game loaded")
	}

	title := m.theme.Title().Render(s.GameTitle)
	if m.state.paused {
		title += m.theme.Muted().Render("  (paused)")
	}
	if s.HasRichPresence && s.RichPresence != "" {
		return lipgloss.JoinVertical(lipgloss.Center, title, m.theme.Muted().Render(s.RichPresence))
	}
	return title
}

func (m *Model) summaryView() string {
	s := m.state.snapshot
	if s.GameID == 0 {
		return ""
	}
	if !s.HasAchievements {
		return m.theme.Muted().Render("This game has no achievements.")
	}

	ring := gauge.New(s.Summary.Unlocked, s.Summary.Total, "ACHIEVEMENTS", m.modeColor()).Render()
	points := m.theme.TextAccent().Render(fmt.Sprintf("%d/%d points", s.Summary.PointsUnlocked, s.Summary.PointsTotal))
	return lipgloss.JoinVertical(lipgloss.Center, ring, points)
}

func (m *Model) modeColor() color.Color {
	switch m.state.snapshot.Hardcore {
	case achievements.HardcoreOn:
		return theme.ColorHardcore
	case achievements.HardcorePending:
		return theme.ColorPending
	default:
		return theme.ColorSoftcore
	}
}

// indicatorsView draws challenge badges, the progress badge and leaderboard
// trackers on one line. Fading indicators are dimmed.
func (m *Model) indicatorsView() string {
	s := m.state.snapshot

	var items []string
	for _, c := range s.Challenges {
		items = append(items, fade(c.Opacity, theme.ColorGold).Render("◆ "+c.Payload.Achievement.Title))
	}
	if p := s.Progress; p != nil {
		a := p.Payload.Achievement
		items = append(items, fade(p.Opacity, theme.ColorWhite).Render(fmt.Sprintf("%s %s", a.Title, a.Measured)))
	}
	for _, t := range s.Trackers {
		items = append(items, fade(t.Opacity, theme.ColorSelf).Render("⏱ "+t.Payload.Display))
	}
	return strings.Join(items, "   ")
}

func fade(opacity float32, c color.Color) lipgloss.Style {
	if opacity < 0.5 {
		return lipgloss.NewStyle().Foreground(theme.ColorDim)
	}
	return lipgloss.NewStyle().Foreground(c)
}
