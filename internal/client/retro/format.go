package retro

import (
	"fmt"

	"github.com/garrettladley/cheevo/internal/backend"
)

// formatScore renders a raw leaderboard value. Times are milliseconds.
func formatScore(format backend.LeaderboardFormat, value int32) string {
	switch format {
	case backend.FormatTime:
		sign := ""
		ms := int64(value)
		if ms < 0 {
			sign = "-"
			ms = -ms
		}
		minutes := ms / 60000
		seconds := (ms / 1000) % 60
		hundredths := (ms % 1000) / 10
		if minutes >= 60 {
			return fmt.Sprintf("%s%dh%02d:%02d.%02d", sign, minutes/60, minutes%60, seconds, hundredths)
		}
		return fmt.Sprintf("%s%d:%02d.%02d", sign, minutes, seconds, hundredths)
	case backend.FormatScore:
		return fmt.Sprintf("%06d", value)
	default:
		return fmt.Sprintf("%d", value)
	}
}
