package achievements

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/xslog"
)

// IdentifyGame records the game at path, hashing it with hp, and loads it
// when logged in. An unchanged path is ignored and an unchanged hash only
// updates the stored path.
func (c *Coordinator) IdentifyGame(path string, hp HashProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rt == nil {
		return
	}
	c.identifyGame(path, hp)
}

func (c *Coordinator) identifyGame(path string, hp HashProvider) {
	if c.gamePath == path {
		c.logger.Warn("game path is unchanged", xslog.Path(path))
		return
	}

	var hash string
	if path != "" && hp != nil {
		hash = hp.GameHash(path)
	}
	if c.gameHash == hash {
		c.logger.Info("game path changed", slog.String("from", c.gamePath), slog.String("to", path))
		c.gamePath = path
		return
	}

	c.clearGameHash()
	c.gamePath = path
	c.gameHash = hash

	if !c.loggedInOrLoggingIn() {
		c.logger.Info("skipping game load, not logged in", xslog.Hash(hash))
		c.disableHardcoreMode()
		return
	}
	c.beginLoadGame()
}

// beginLoadGame replaces any load in flight with one for the current hash.
func (c *Coordinator) beginLoadGame() {
	c.requests.AbortKind(RequestLoadGame)
	c.clearGameInfo()

	if c.gameHash == "" {
		// Booting without a game also lands here.
		if c.gamePath != "" {
			c.sink.AddNotification("retroachievements_disc_read_failed", osdErrorDuration, "",
				"Failed to read executable from disc. Achievements disabled.", "")
		}
		c.disableHardcoreMode()
		return
	}

	hash := c.gameHash
	c.logger.Info("loading game", xslog.Hash(hash), xslog.Path(c.gamePath))
	c.requests.Begin(RequestLoadGame, func(h Handle) backend.AsyncHandle {
		return c.rt.BeginLoadGame(hash, func(result backend.Result, message string) {
			c.loadGameDone(h, result, message)
		})
	})
}

func (c *Coordinator) loadGameDone(h Handle, result backend.Result, message string) {
	if !c.requests.Complete(h) {
		return
	}

	switch result {
	case backend.ResultOK:
	case backend.ResultNoGameLoaded:
		c.logger.Info("unknown game, disabling achievements", xslog.Hash(c.gameHash))
		c.disableHardcoreMode()
		return
	case backend.ResultLoginRequired:
		// The login prompt reloads the game once the user is back, so
		// hardcore stays as it is.
		return
	default:
		c.reportError(fmt.Sprintf("Loading game failed: %s", message))
		c.disableHardcoreMode()
		return
	}

	game, ok := c.rt.Game()
	if !ok {
		c.reportError("runtime reported no game after a successful load")
		c.disableHardcoreMode()
		return
	}
	if c.rt.HardcoreEnabled() != c.hardcore {
		c.logger.Error("runtime hardcore mode does not match session",
			slog.Bool("runtime", c.rt.HardcoreEnabled()),
			slog.Bool("session", c.hardcore),
		)
	}

	c.session = session{
		gameID:          game.ID,
		title:           game.Title,
		hasAchievements: c.rt.HasAchievements(),
		hasLeaderboards: c.rt.HasLeaderboards(),
		hasRichPresence: c.rt.HasRichPresence(),
	}
	c.session.icon = c.gameIcon(game)
	c.richPresenceAt = time.Time{}

	c.logger.Info("game loaded", xslog.GameID(game.ID), xslog.GameTitle(game.Title))
	c.updateSummary()
	c.displaySummary()
	c.host.OnAchievementsRefreshed()
}

func (c *Coordinator) clearGameInfo() {
	c.clearUIState()
	c.requests.AbortKind(RequestLoadGame)
	c.rt.UnloadGame()

	c.indicators.Clear()
	c.session = session{}
	c.host.OnAchievementsRefreshed()
}

func (c *Coordinator) clearGameHash() {
	c.gamePath = ""
	c.gameHash = ""
}

func (c *Coordinator) displaySummary() {
	if c.settings.Notifications {
		title := c.session.title
		if c.hardcore {
			title += " (Hardcore Mode)"
		}
		body := "This game has no achievements."
		if s := c.session.summary; s.Total > 0 {
			body = fmt.Sprintf("You have unlocked %d of %d achievements, and earned %d of %d points.",
				s.Unlocked, s.Total, s.PointsUnlocked, s.PointsTotal)
		}
		c.sink.AddNotification("achievement_summary", summaryNotificationTime, title, body, c.session.icon)
	}
	c.playSound(SoundMessage)
}
