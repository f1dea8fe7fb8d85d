// Package achievements coordinates a local game session with the remote
// achievements backend: login, game identification, hardcore mode,
// leaderboard browsing, on-screen indicators and save-state progress.
package achievements

import "time"

const (
	IndicatorFadeIn  = 100 * time.Millisecond
	IndicatorFadeOut = 500 * time.Millisecond

	// NearbyEntries is the window fetched around the user when a leaderboard opens.
	NearbyEntries = 10
	// AllPageSize is the page size when browsing a leaderboard from rank 1.
	AllPageSize = 20

	richPresenceInterval = time.Second
)

const (
	loginNotificationTime              = 5 * time.Second
	summaryNotificationTime            = 5 * time.Second
	gameCompleteNotificationTime       = 20 * time.Second
	leaderboardStartedNotificationTime = 3 * time.Second
	leaderboardFailedNotificationTime  = 3 * time.Second

	osdCriticalErrorDuration = 20 * time.Second
	osdErrorDuration         = 15 * time.Second
	osdWarningDuration       = 10 * time.Second
	osdInfoDuration          = 5 * time.Second
)

// Sound names passed to Host.PlaySound.
const (
	SoundMessage           = "message"
	SoundUnlock            = "unlock"
	SoundLeaderboardSubmit = "lbsubmit"
)

type Settings struct {
	Enabled            bool
	Hardcore           bool
	Encore             bool
	Spectator          bool
	UnofficialTestMode bool

	Notifications            bool
	LeaderboardNotifications bool
	SoundEffects             bool
	NotificationDuration     time.Duration
	LeaderboardDuration      time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		Enabled:                  true,
		Notifications:            true,
		LeaderboardNotifications: true,
		SoundEffects:             true,
		NotificationDuration:     5 * time.Second,
		LeaderboardDuration:      10 * time.Second,
	}
}

// restartRequired reports whether a flag that cannot change while a game is
// loaded differs between s and old.
func (s Settings) restartRequired(old Settings) bool {
	return s.Encore != old.Encore ||
		s.Spectator != old.Spectator ||
		s.UnofficialTestMode != old.UnofficialTestMode
}
