package achievements

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/xslog"
)

// imagePath returns where name is cached, downloading url through the network
// client when the file is missing. It returns "" when no image directory is
// configured.
func (c *Coordinator) imagePath(name string, url string) string {
	if c.imageDir == "" {
		return ""
	}
	path := filepath.Join(c.imageDir, name)
	if url == "" || c.nc == nil {
		return path
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		c.downloadImage(url, path)
	}
	return path
}

func (c *Coordinator) downloadImage(url string, path string) {
	c.nc.CreateRequest(url, func(status int, _ string, body []byte) {
		if status != http.StatusOK {
			c.logger.Debug("image download failed", xslog.URL(url), xslog.Status(status))
			return
		}
		if err := os.WriteFile(path, body, 0o644); err != nil {
			c.logger.Error("failed to write image", xslog.Path(path), xslog.Error(err))
		}
	})
}

func (c *Coordinator) gameIcon(g backend.Game) string {
	if g.BadgeURL == "" {
		return ""
	}
	return c.imagePath(fmt.Sprintf("game_%d.png", g.ID), g.BadgeURL)
}

var achievementStateNames = [...]string{
	backend.AchievementInactive: "inactive",
	backend.AchievementActive:   "active",
	backend.AchievementUnlocked: "unlocked",
	backend.AchievementDisabled: "disabled",
}

func (c *Coordinator) achievementBadge(a backend.Achievement, state backend.AchievementState) string {
	if a.BadgeName == "" || int(state) >= len(achievementStateNames) {
		return ""
	}
	url := a.BadgeURL
	if state != backend.AchievementUnlocked {
		url = a.LockedBadgeURL
	}
	name := fmt.Sprintf("achievement_%d_%d_%s.png", c.session.gameID, a.ID, achievementStateNames[state])
	return c.imagePath(name, url)
}

func (c *Coordinator) userIcon(username string) string {
	clean := sanitizeFileName(username)
	if clean == "" {
		return ""
	}
	return c.imagePath("user_"+clean+".png", "")
}

func (c *Coordinator) userBadge(u backend.User) string {
	clean := sanitizeFileName(u.Username)
	if clean == "" {
		return ""
	}
	return c.imagePath("user_"+clean+".png", u.AvatarURL)
}

func sanitizeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, strings.Trim(s, ". "))
}
