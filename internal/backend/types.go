package backend

import "time"

type User struct {
	Username      string
	DisplayName   string
	Token         string
	Score         uint32
	ScoreSoftcore uint32
	AvatarURL     string
}

type Game struct {
	ID        uint32
	Title     string
	Hash      string
	BadgeName string
	BadgeURL  string
}

// Summary counts core achievements for the loaded game.
type Summary struct {
	Unlocked       uint32
	Total          uint32
	PointsUnlocked uint32
	PointsTotal    uint32
}

type Category uint8

const (
	CategoryCore Category = 1 << iota
	CategoryUnofficial

	CategoryAll = CategoryCore | CategoryUnofficial
)

type AchievementState uint8

const (
	AchievementInactive AchievementState = iota
	AchievementActive
	AchievementUnlocked
	AchievementDisabled
)

type Achievement struct {
	ID             uint32
	Title          string
	Description    string
	BadgeName      string
	BadgeURL       string
	LockedBadgeURL string
	Points         uint32
	Category       Category
	State          AchievementState
	UnlockTime     time.Time
	Measured       string
	MeasuredPct    float32
}

func (a Achievement) Unofficial() bool { return a.Category == CategoryUnofficial }

type LeaderboardFormat uint8

const (
	FormatTime LeaderboardFormat = iota
	FormatScore
	FormatValue
)

type LeaderboardState uint8

const (
	LeaderboardInactive LeaderboardState = iota
	LeaderboardActive
	LeaderboardTracking
	LeaderboardDisabled
)

type Leaderboard struct {
	ID          uint32
	Title       string
	Description string
	Format      LeaderboardFormat
	State       LeaderboardState
	Tracker     string
	// LowerIsBetter orders entries ascending.
	LowerIsBetter bool
}

type LeaderboardEntry struct {
	User        string
	Rank        uint32
	Index       uint32
	Score       string
	SubmittedAt time.Time
}

// EntryList is one page of leaderboard entries. UserIndex is the position of
// the logged in user within Entries, or -1.
type EntryList struct {
	Entries      []LeaderboardEntry
	TotalEntries uint32
	UserIndex    int
}

type Tracker struct {
	ID      uint32
	Display string
}

type Scoreboard struct {
	LeaderboardID  uint32
	SubmittedScore string
	BestScore      string
	NewRank        uint32
	NumEntries     uint32
}
