package leaderboard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/cheevo/internal/achievements"
	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/tui/theme"
)

// Rows is how many entries are on screen at once.
const Rows = 10

const (
	rankWidth  = 6
	userWidth  = 20
	scoreWidth = 14
)

// State is the browser's local UI state. The entries themselves live in the
// coordinator and arrive through snapshots.
type State struct {
	Picking bool
	Boards  []backend.Leaderboard
	Cursor  int
	Scroll  int
}

func (s *State) Pick(boards []backend.Leaderboard) {
	s.Picking = true
	s.Boards = boards
	s.Cursor = 0
	s.Scroll = 0
}

func (s *State) Reset() {
	*s = State{}
}

func (s *State) CursorUp() {
	s.Cursor = max(s.Cursor-1, 0)
}

func (s *State) CursorDown() {
	s.Cursor = min(s.Cursor+1, max(len(s.Boards)-1, 0))
}

// Selected returns the board under the cursor.
func (s State) Selected() (backend.Leaderboard, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Boards) {
		return backend.Leaderboard{}, false
	}
	return s.Boards[s.Cursor], true
}

func (s *State) ScrollUp() {
	s.Scroll = max(s.Scroll-1, 0)
}

func (s *State) ScrollDown(v achievements.LeaderboardView) {
	limit := max(len(Entries(v))-Rows, 0)
	if PlaceholderShown(v) {
		limit++
	}
	s.Scroll = min(s.Scroll+1, limit)
}

// Entries returns the rows for the current mode.
func Entries(v achievements.LeaderboardView) []achievements.Entry {
	if v.Mode == achievements.ModeNearby {
		return v.Nearby
	}
	return v.Entries
}

// PlaceholderShown reports whether the list ends in a row standing in for
// entries not fetched yet.
func PlaceholderShown(v achievements.LeaderboardView) bool {
	return v.Open && v.Mode == achievements.ModeAll && (v.HasMore || v.Loading)
}

// PlaceholderVisible reports whether that row is inside the scrolled window.
func (s State) PlaceholderVisible(v achievements.LeaderboardView) bool {
	return PlaceholderShown(v) && s.Scroll+Rows > len(v.Entries)
}

func PickerView(t theme.Theme, s State) string {
	var b strings.Builder
	b.WriteString(t.Title().Render("Leaderboards"))
	b.WriteString("\n\n")
	if len(s.Boards) == 0 {
		b.WriteString(t.Muted().Render("This game has no leaderboards."))
		return t.Panel().Render(b.String())
	}
	for i, lb := range s.Boards {
		line := lb.Title
		if i == s.Cursor {
			line = t.TextAccent().Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		if i < len(s.Boards)-1 {
			b.WriteByte('\n')
		}
	}
	return t.Panel().Render(b.String())
}

func View(t theme.Theme, v achievements.LeaderboardView, s State, self string) string {
	var b strings.Builder
	b.WriteString(t.Title().Render(v.Leaderboard.Title))
	if v.Leaderboard.Description != "" {
		b.WriteByte('\n')
		b.WriteString(t.Muted().Render(v.Leaderboard.Description))
	}
	b.WriteString("\n\n")
	b.WriteString(header(t, v))
	b.WriteByte('\n')

	entries := Entries(v)
	if len(entries) == 0 && !PlaceholderShown(v) {
		switch {
		case v.Loading:
			b.WriteString(t.Muted().Render("Downloading leaderboard data, please wait..."))
		default:
			b.WriteString(t.Muted().Render("No entries."))
		}
		return t.Panel().Render(b.String())
	}

	start := s.Scroll
	if v.Mode == achievements.ModeNearby {
		start = 0
	}
	var lines []string
	for i := start; i < len(entries) && len(lines) < Rows; i++ {
		lines = append(lines, row(t, entries[i], isSelf(v, i, entries[i], self)))
	}
	if PlaceholderShown(v) && len(lines) < Rows {
		lines = append(lines, t.Muted().Render("Loading..."))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return t.Panel().Render(b.String())
}

func header(t theme.Theme, v achievements.LeaderboardView) string {
	mode := "Nearby"
	if v.Mode == achievements.ModeAll {
		mode = "All"
		if v.Total > 0 {
			mode = fmt.Sprintf("All (%d entries)", v.Total)
		}
	}
	return t.Muted().Render(fmt.Sprintf("%-*s%-*s%*s   %s", rankWidth, "Rank", userWidth, "Name", scoreWidth, "Score", mode))
}

func row(t theme.Theme, e achievements.Entry, self bool) string {
	line := fmt.Sprintf("%-*d%-*s%*s", rankWidth, e.Rank, userWidth, truncate(e.User, userWidth-1), scoreWidth, e.Score)
	if self {
		return lipgloss.NewStyle().Foreground(theme.ColorSelf).Bold(true).Render(line)
	}
	return t.Base().Render(line)
}

func isSelf(v achievements.LeaderboardView, i int, e achievements.Entry, self string) bool {
	if v.Mode == achievements.ModeNearby {
		return i == v.UserIndex
	}
	return self != "" && e.User == self
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
