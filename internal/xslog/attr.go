package xslog

import (
	"log/slog"
	"time"

	"github.com/garrettladley/cheevo/internal/version"
)

const (
	keyError = "error"
)

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(keyError, "<nil>")
	}
	return slog.String(keyError, err.Error())
}

func Version() slog.Attr {
	const versionKey = "version"
	return slog.String(versionKey, version.Get())
}

func Count(count int) slog.Attr {
	const countKey = "count"
	return slog.Int(countKey, count)
}

func Duration(duration time.Duration) slog.Attr {
	const durationKey = "duration"
	return slog.Duration(durationKey, duration)
}

func Status(status int) slog.Attr {
	const statusKey = "status"
	return slog.Int(statusKey, status)
}

func URL(u string) slog.Attr {
	const urlKey = "url"
	return slog.String(urlKey, u)
}

func Username(username string) slog.Attr {
	const usernameKey = "username"
	return slog.String(usernameKey, username)
}

func GameID(id uint32) slog.Attr {
	const gameIDKey = "game_id"
	return slog.Uint64(gameIDKey, uint64(id))
}

func GameTitle(title string) slog.Attr {
	const gameTitleKey = "game_title"
	return slog.String(gameTitleKey, title)
}

func AchievementID(id uint32) slog.Attr {
	const achievementIDKey = "achievement_id"
	return slog.Uint64(achievementIDKey, uint64(id))
}

func LeaderboardID(id uint32) slog.Attr {
	const leaderboardIDKey = "leaderboard_id"
	return slog.Uint64(leaderboardIDKey, uint64(id))
}

func TrackerID(id uint32) slog.Attr {
	const trackerIDKey = "tracker_id"
	return slog.Uint64(trackerIDKey, uint64(id))
}

func Hash(hash string) slog.Attr {
	const hashKey = "hash"
	return slog.String(hashKey, hash)
}

func Path(path string) slog.Attr {
	const pathKey = "path"
	return slog.String(pathKey, path)
}

func RequestKind(kind string) slog.Attr {
	const kindKey = "request_kind"
	return slog.String(kindKey, kind)
}

func Result(result string) slog.Attr {
	const resultKey = "result"
	return slog.String(resultKey, result)
}

func Rank(rank uint32) slog.Attr {
	const rankKey = "rank"
	return slog.Uint64(rankKey, uint64(rank))
}

func Size(n int) slog.Attr {
	const sizeKey = "size"
	return slog.Int(sizeKey, n)
}
