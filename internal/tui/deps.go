package tui

import (
	"io"
	"log/slog"
	"time"

	"github.com/garrettladley/cheevo/internal/achievements"
	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/notify"
)

// Session is the part of the achievements coordinator the overlay drives.
type Session interface {
	Snapshot() achievements.Snapshot
	Settings() achievements.Settings
	FrameUpdate()
	IdleUpdate()

	SetHardcoreMode(wanted bool)
	ResetHardcoreMode() bool
	ResetRuntime()

	PrepareLeaderboards() bool
	Leaderboards() []backend.Leaderboard
	OpenLeaderboard(id uint32) error
	ShowAllEntries()
	ShowNearbyEntries()
	PlaceholderVisible()
	CloseLeaderboard()

	SaveProgress(w io.Writer) error
	LoadProgress(r io.Reader) error
}

type Notifications interface {
	Notifications() []notify.Notification
	Toast() (notify.Toast, bool)
}

type Deps struct {
	Logger        *slog.Logger
	Session       Session
	Notifications Notifications
	// StatePath is where save and load state keys write the progress blob.
	StatePath string
	// FrameInterval is the time between emulated frames.
	FrameInterval time.Duration
}
