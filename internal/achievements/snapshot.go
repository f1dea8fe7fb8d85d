package achievements

import (
	"github.com/garrettladley/cheevo/internal/backend"
)

// Snapshot is a copy of coordinator state for a render pass. Readers take a
// snapshot instead of holding the lock while drawing.
type Snapshot struct {
	Active    bool
	Hardcore  HardcoreState
	LoggedIn  bool
	LoggingIn bool
	User      backend.User

	// LoadingGame is set while a game load request is in flight.
	LoadingGame bool

	GamePath        string
	GameHash        string
	GameID          uint32
	GameTitle       string
	GameIcon        string
	HasAchievements bool
	HasLeaderboards bool
	HasRichPresence bool
	RichPresence    string
	Summary         backend.Summary

	Challenges  []Indicator[Badge]
	Progress    *Indicator[Badge]
	Trackers    []Indicator[backend.Tracker]
	Leaderboard LeaderboardView
}

func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Active:          c.rt != nil,
		Hardcore:        c.hardcoreState(),
		GamePath:        c.gamePath,
		GameHash:        c.gameHash,
		GameID:          c.session.gameID,
		GameTitle:       c.session.title,
		GameIcon:        c.session.icon,
		HasAchievements: c.session.hasAchievements,
		HasLeaderboards: c.session.hasLeaderboards,
		HasRichPresence: c.session.hasRichPresence,
		RichPresence:    c.session.richPresence,
		Summary:         c.session.summary,
		Challenges:      c.indicators.Challenges.All(),
		Trackers:        c.indicators.Trackers.All(),
		Leaderboard:     LeaderboardView{UserIndex: -1},
	}
	if p, ok := c.indicators.Progress.Get(); ok {
		s.Progress = &p
	}
	if c.rt == nil {
		return s
	}
	s.User, s.LoggedIn = c.rt.User()
	s.LoggingIn = c.requests.Pending(RequestLogin)
	s.LoadingGame = c.requests.Pending(RequestLoadGame)
	s.Leaderboard = c.pager.view()
	return s
}

// Settings returns the settings in effect.
func (c *Coordinator) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}
