package backend

// AsyncHandle identifies an in-flight runtime request. The zero value is no request.
type AsyncHandle uint64

// Runtime is the achievements backend. Methods are not safe for concurrent use;
// the caller serializes access. Each Begin call yields exactly one terminal
// callback, delivered from inside NetworkClient.PollRequests or
// WaitForAllRequests, or synchronously from Begin when the request fails
// before reaching the network. An aborted request reports ResultAborted.
type Runtime interface {
	SetEventHandler(h EventHandler)

	SetHardcoreEnabled(enabled bool)
	HardcoreEnabled() bool
	SetEncoreMode(enabled bool)
	SetUnofficialEnabled(enabled bool)
	SetSpectatorMode(enabled bool)
	SpectatorMode() bool

	BeginLoginWithPassword(username string, password string, cb Callback) AsyncHandle
	BeginLoginWithToken(username string, token string, cb Callback) AsyncHandle
	BeginLoadGame(hash string, cb Callback) AsyncHandle
	BeginFetchLeaderboardEntries(leaderboardID uint32, first uint32, count uint32, cb EntriesCallback) AsyncHandle
	BeginFetchLeaderboardEntriesAroundUser(leaderboardID uint32, count uint32, cb EntriesCallback) AsyncHandle
	Abort(h AsyncHandle)

	DoFrame()
	Idle()

	ProgressSize() int
	SerializeProgress(buf []byte) error
	DeserializeProgress(data []byte) error
	Reset()

	User() (User, bool)
	Game() (Game, bool)
	Summary() Summary
	Achievements(category Category) []Achievement
	Achievement(id uint32) (Achievement, bool)
	Leaderboards() []Leaderboard
	Leaderboard(id uint32) (Leaderboard, bool)
	HasAchievements() bool
	HasLeaderboards() bool
	HasRichPresence() bool
	RichPresence() string

	UnloadGame()
	Logout()
	Destroy()
}

// ProgressCapturer is implemented by runtimes that can snapshot progress in a
// single pass, avoiding a size query that may race the fill.
type ProgressCapturer interface {
	CaptureProgress() ([]byte, error)
}

// RuntimeFactory creates a runtime bound to a network client.
type RuntimeFactory func(nc NetworkClient) Runtime
