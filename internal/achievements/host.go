package achievements

import (
	"time"

	"github.com/garrettladley/cheevo/internal/backend"
)

// NotificationSink shows on-screen messages. Notifications with the same
// non-empty key replace each other inside the sink.
type NotificationSink interface {
	AddNotification(key string, duration time.Duration, title string, body string, icon string)
	ShowToast(title string, body string, duration time.Duration)
}

// HashProvider identifies a game image. GameHash returns "" when the image
// cannot be hashed.
type HashProvider interface {
	GameHash(path string) string
}

type LoginRequestReason uint8

const (
	LoginRequestUserInitiated LoginRequestReason = iota
	LoginRequestTokenInvalid
)

// Host is the application embedding the coordinator. Callbacks run with the
// coordinator lock held, and the lock is not re-entrant: every exported
// Coordinator method (Start, Stop, Login, Logout, IdentifyGame,
// SetHardcoreMode, ResetHardcoreMode, UpdateSettings, FrameUpdate, Snapshot
// and the rest) deadlocks if called from a callback. Hosts that need to react
// should record the event and act after the callback returns. ConfirmMessage
// is the exception: it is invoked without the lock.
type Host interface {
	IsSystemValid() bool
	RunningGamePath() string
	ConfirmMessage(title string, message string) bool

	OnAchievementsRefreshed()
	OnHardcoreModeChanged(enabled bool)
	OnLoginRequested(reason LoginRequestReason)
	OnLoginSuccess(user backend.User)
	PlaySound(name string)
}

// NopHost is a host with no running system. It confirms every prompt.
type NopHost struct{}

var _ Host = NopHost{}

func (NopHost) IsSystemValid() bool                 { return false }
func (NopHost) RunningGamePath() string             { return "" }
func (NopHost) ConfirmMessage(string, string) bool  { return true }
func (NopHost) OnAchievementsRefreshed()            {}
func (NopHost) OnHardcoreModeChanged(bool)          {}
func (NopHost) OnLoginRequested(LoginRequestReason) {}
func (NopHost) OnLoginSuccess(backend.User)         {}
func (NopHost) PlaySound(string)                    {}
