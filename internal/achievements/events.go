package achievements

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/xslog"
)

// handleEvent runs on the goroutine holding the coordinator lock, from inside
// Runtime.DoFrame or Runtime.Idle.
func (c *Coordinator) handleEvent(ev backend.Event) {
	switch ev := ev.(type) {
	case backend.Reset:
		c.handleReset()
	case backend.AchievementTriggered:
		c.handleUnlock(ev.Achievement)
	case backend.GameCompleted:
		c.handleGameComplete()
	case backend.LeaderboardStarted:
		c.handleLeaderboardAttempt(ev.Leaderboard, "Leaderboard attempt started.", leaderboardStartedNotificationTime)
	case backend.LeaderboardFailed:
		c.handleLeaderboardAttempt(ev.Leaderboard, "Leaderboard attempt failed.", leaderboardFailedNotificationTime)
	case backend.LeaderboardSubmitted:
		c.handleLeaderboardSubmitted(ev.Leaderboard)
	case backend.LeaderboardScoreboard:
		c.handleLeaderboardScoreboard(ev.Leaderboard, ev.Scoreboard)
	case backend.LeaderboardTrackerShow:
		c.logger.Debug("showing leaderboard tracker", xslog.TrackerID(ev.Tracker.ID))
		c.indicators.Trackers.Show(ev.Tracker.ID, ev.Tracker, c.clock())
	case backend.LeaderboardTrackerHide:
		c.logger.Debug("hiding leaderboard tracker", xslog.TrackerID(ev.Tracker.ID))
		c.indicators.Trackers.Hide(ev.Tracker.ID, c.clock())
	case backend.LeaderboardTrackerUpdate:
		c.indicators.Trackers.Update(ev.Tracker.ID, ev.Tracker)
	case backend.ChallengeIndicatorShow:
		c.logger.Debug("showing challenge indicator", xslog.AchievementID(ev.Achievement.ID))
		c.indicators.Challenges.Show(ev.Achievement.ID, c.badge(ev.Achievement), c.clock())
	case backend.ChallengeIndicatorHide:
		c.logger.Debug("hiding challenge indicator", xslog.AchievementID(ev.Achievement.ID))
		c.indicators.Challenges.Hide(ev.Achievement.ID, c.clock())
	case backend.ProgressIndicatorShow:
		c.logger.Debug("showing progress indicator",
			xslog.AchievementID(ev.Achievement.ID),
			slog.String("measured", ev.Achievement.Measured),
		)
		c.indicators.Progress.Show(c.badge(ev.Achievement), c.clock())
	case backend.ProgressIndicatorHide:
		c.indicators.Progress.Hide(c.clock())
	case backend.ProgressIndicatorUpdate:
		if !c.indicators.Progress.Update(c.badge(ev.Achievement)) {
			c.logger.Error("progress update without a progress indicator", xslog.AchievementID(ev.Achievement.ID))
		}
	case backend.ServerError:
		c.handleServerError(ev)
	case backend.Disconnected:
		c.logger.Warn("server disconnected")
		c.sink.ShowToast("Achievements Disconnected",
			"An unlock request could not be completed. We will keep retrying to submit this request.",
			osdErrorDuration)
	case backend.Reconnected:
		c.logger.Warn("server reconnected")
		c.sink.ShowToast("Achievements Reconnected", "All pending unlock requests have completed.", osdInfoDuration)
	default:
		c.logger.Error("unhandled event", slog.String("type", fmt.Sprintf("%T", ev)))
	}
}

func (c *Coordinator) badge(a backend.Achievement) Badge {
	return Badge{Achievement: a, BadgePath: c.achievementBadge(a, backend.AchievementUnlocked)}
}

// handleReset resets runtime state; the system reset itself is the host's.
func (c *Coordinator) handleReset() {
	c.logger.Info("resetting runtime due to reset event")
	c.rt.Reset()
	if c.hasActiveGame() {
		c.updateSummary()
	}
}

func (c *Coordinator) handleUnlock(a backend.Achievement) {
	c.logger.Info("achievement unlocked",
		xslog.AchievementID(a.ID),
		xslog.GameID(c.session.gameID),
		slog.String("title", a.Title),
	)
	c.updateSummary()

	if c.settings.Notifications {
		title := a.Title
		if a.Unofficial() {
			title += " (Unofficial)"
		}
		c.sink.AddNotification(fmt.Sprintf("achievement_unlock_%d", a.ID), c.settings.NotificationDuration,
			title, a.Description, c.achievementBadge(a, a.State))
	}
	c.playSound(SoundUnlock)
}

func (c *Coordinator) handleGameComplete() {
	c.logger.Info("game complete", xslog.GameID(c.session.gameID))
	c.updateSummary()

	if c.settings.Notifications {
		s := c.session.summary
		c.sink.AddNotification("achievement_mastery", gameCompleteNotificationTime,
			"Mastered "+c.session.title,
			fmt.Sprintf("%d achievements, %d points", s.Unlocked, s.PointsUnlocked),
			c.session.icon)
	}
}

func (c *Coordinator) handleLeaderboardAttempt(lb backend.Leaderboard, message string, d time.Duration) {
	c.logger.Debug("leaderboard attempt", xslog.LeaderboardID(lb.ID), slog.String("message", message))
	if c.settings.LeaderboardNotifications {
		c.sink.AddNotification(leaderboardKey(lb.ID), d, lb.Title, message, c.session.icon)
	}
}

func (c *Coordinator) handleLeaderboardSubmitted(lb backend.Leaderboard) {
	c.logger.Debug("leaderboard submitted", xslog.LeaderboardID(lb.ID))

	if c.settings.LeaderboardNotifications {
		value := lb.Tracker
		if value == "" {
			value = "Unknown"
		}
		suffix := " (Submitting)"
		if c.rt.SpectatorMode() {
			suffix = ""
		}
		body := fmt.Sprintf("Your %s: %s%s", formatNoun(lb.Format), value, suffix)
		c.sink.AddNotification(leaderboardKey(lb.ID), c.settings.LeaderboardDuration, lb.Title, body, c.session.icon)
	}
	c.playSound(SoundLeaderboardSubmit)
}

func (c *Coordinator) handleLeaderboardScoreboard(lb backend.Leaderboard, sb backend.Scoreboard) {
	c.logger.Debug("leaderboard scoreboard",
		xslog.LeaderboardID(sb.LeaderboardID),
		xslog.Rank(sb.NewRank),
		xslog.Count(int(sb.NumEntries)),
	)

	if c.settings.LeaderboardNotifications {
		body := fmt.Sprintf("Your %s: %s (Best: %s)\nLeaderboard Position: %d of %d",
			formatNoun(lb.Format), sb.SubmittedScore, sb.BestScore, sb.NewRank, sb.NumEntries)
		c.sink.AddNotification(leaderboardKey(lb.ID), c.settings.LeaderboardDuration, lb.Title, body, c.session.icon)
	}
}

func (c *Coordinator) handleServerError(ev backend.ServerError) {
	api, msg := ev.API, ev.Message
	if api == "" {
		api = "UNKNOWN"
	}
	if msg == "" {
		msg = "UNKNOWN"
	}
	message := fmt.Sprintf("Server error in %s:\n%s", api, msg)
	c.logger.Error("server error", slog.String("api", api), slog.String("message", msg), xslog.Result(ev.Result.String()))
	c.sink.AddNotification("", osdErrorDuration, "", message, "")
}

func leaderboardKey(id uint32) string { return fmt.Sprintf("leaderboard_%d", id) }

func formatNoun(f backend.LeaderboardFormat) string {
	switch f {
	case backend.FormatTime:
		return "Time"
	case backend.FormatScore:
		return "Score"
	default:
		return "Value"
	}
}
