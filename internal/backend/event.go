package backend

// Event is raised by the runtime from DoFrame or Idle. The variant set is closed.
type Event interface {
	isEvent()
}

type EventHandler func(Event)

type (
	// Reset asks the host to reset the emulated system, e.g. to apply hardcore mode.
	Reset                 struct{}
	AchievementTriggered  struct{ Achievement Achievement }
	GameCompleted         struct{}
	LeaderboardStarted    struct{ Leaderboard Leaderboard }
	LeaderboardFailed     struct{ Leaderboard Leaderboard }
	LeaderboardSubmitted  struct{ Leaderboard Leaderboard }
	LeaderboardScoreboard struct {
		Leaderboard Leaderboard
		Scoreboard  Scoreboard
	}
	LeaderboardTrackerShow   struct{ Tracker Tracker }
	LeaderboardTrackerHide   struct{ Tracker Tracker }
	LeaderboardTrackerUpdate struct{ Tracker Tracker }
	ChallengeIndicatorShow   struct{ Achievement Achievement }
	ChallengeIndicatorHide   struct{ Achievement Achievement }
	ProgressIndicatorShow    struct{ Achievement Achievement }
	ProgressIndicatorHide    struct{}
	ProgressIndicatorUpdate  struct{ Achievement Achievement }
	ServerError              struct {
		API     string
		Message string
		Result  Result
	}
	Disconnected struct{}
	Reconnected  struct{}
)

func (Reset) isEvent()                    {}
func (AchievementTriggered) isEvent()     {}
func (GameCompleted) isEvent()            {}
func (LeaderboardStarted) isEvent()       {}
func (LeaderboardFailed) isEvent()        {}
func (LeaderboardSubmitted) isEvent()     {}
func (LeaderboardScoreboard) isEvent()    {}
func (LeaderboardTrackerShow) isEvent()   {}
func (LeaderboardTrackerHide) isEvent()   {}
func (LeaderboardTrackerUpdate) isEvent() {}
func (ChallengeIndicatorShow) isEvent()   {}
func (ChallengeIndicatorHide) isEvent()   {}
func (ProgressIndicatorShow) isEvent()    {}
func (ProgressIndicatorHide) isEvent()    {}
func (ProgressIndicatorUpdate) isEvent()  {}
func (ServerError) isEvent()              {}
func (Disconnected) isEvent()             {}
func (Reconnected) isEvent()              {}
