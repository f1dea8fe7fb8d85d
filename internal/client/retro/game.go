package retro

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/xslog"
)

const (
	flagCore       = 3
	flagUnofficial = 5
)

type leaderboard struct {
	backend.Leaderboard
	value int32
}

type game struct {
	info               backend.Game
	achievements       []*backend.Achievement
	leaderboards       []*leaderboard
	richPresenceScript string
	richPresence       string

	hardcoreUnlocks map[uint32]time.Time
	softcoreUnlocks map[uint32]time.Time

	primed          map[uint32]bool
	visibleTrackers map[uint32]bool
	progressShown   bool
	progressID      uint32
	completed       bool
	// mode is the hardcore flag the unlock set was last applied for.
	mode bool
}

func newGame(hash string, patch patchData) *game {
	g := &game{
		info: backend.Game{
			ID:        patch.ID,
			Title:     patch.Title,
			Hash:      hash,
			BadgeName: strconv.FormatUint(uint64(patch.ID), 10),
			BadgeURL:  patch.ImageIconURL,
		},
		richPresenceScript: patch.RichPresencePatch,
		hardcoreUnlocks:    make(map[uint32]time.Time),
		softcoreUnlocks:    make(map[uint32]time.Time),
		primed:             make(map[uint32]bool),
		visibleTrackers:    make(map[uint32]bool),
	}

	for _, a := range patch.Achievements {
		category := backend.CategoryCore
		switch a.Flags {
		case flagCore:
		case flagUnofficial:
			category = backend.CategoryUnofficial
		default:
			continue
		}
		g.achievements = append(g.achievements, &backend.Achievement{
			ID:             a.ID,
			Title:          a.Title,
			Description:    a.Description,
			BadgeName:      a.BadgeName,
			BadgeURL:       a.BadgeURL,
			LockedBadgeURL: a.BadgeLockedURL,
			Points:         a.Points,
			Category:       category,
			State:          backend.AchievementActive,
		})
	}

	for _, lb := range patch.Leaderboards {
		if lb.Hidden {
			continue
		}
		g.leaderboards = append(g.leaderboards, &leaderboard{Leaderboard: backend.Leaderboard{
			ID:            lb.ID,
			Title:         lb.Title,
			Description:   lb.Description,
			Format:        parseFormat(lb.Format),
			State:         backend.LeaderboardActive,
			LowerIsBetter: lb.LowerIsBetter,
		}})
	}

	return g
}

func (g *game) achievement(id uint32) (*backend.Achievement, bool) {
	i := slices.IndexFunc(g.achievements, func(a *backend.Achievement) bool { return a.ID == id })
	if i < 0 {
		return nil, false
	}
	return g.achievements[i], true
}

func (g *game) leaderboard(id uint32) (*leaderboard, bool) {
	i := slices.IndexFunc(g.leaderboards, func(lb *leaderboard) bool { return lb.ID == id })
	if i < 0 {
		return nil, false
	}
	return g.leaderboards[i], true
}

func (g *game) unlocks(hardcore bool) map[uint32]time.Time {
	if hardcore {
		return g.hardcoreUnlocks
	}
	return g.softcoreUnlocks
}

// applyUnlocks recomputes achievement state from the unlock set of the active
// mode. Encore keeps earned achievements active so they can fire again.
func (g *game) applyUnlocks(hardcore bool, encore bool) {
	g.mode = hardcore
	set := g.unlocks(hardcore)
	for _, a := range g.achievements {
		when, ok := set[a.ID]
		switch {
		case ok && !encore:
			a.State = backend.AchievementUnlocked
			a.UnlockTime = when
		case ok:
			a.State = backend.AchievementActive
			a.UnlockTime = when
		default:
			a.State = backend.AchievementActive
			a.UnlockTime = time.Time{}
		}
	}
	g.completed = g.allCoreUnlocked(hardcore)
}

func (g *game) earned(id uint32, hardcore bool) bool {
	_, ok := g.unlocks(hardcore)[id]
	return ok
}

func (g *game) allCoreUnlocked(hardcore bool) bool {
	total := 0
	for _, a := range g.achievements {
		if a.Category != backend.CategoryCore {
			continue
		}
		total++
		if !g.earned(a.ID, hardcore) {
			return false
		}
	}
	return total > 0
}

func (g *game) summaryFor(hardcore bool) backend.Summary {
	var s backend.Summary
	for _, a := range g.achievements {
		if a.Category != backend.CategoryCore {
			continue
		}
		s.Total++
		s.PointsTotal += a.Points
		if g.earned(a.ID, hardcore) {
			s.Unlocked++
			s.PointsUnlocked += a.Points
		}
	}
	return s
}

func (g *game) summary() backend.Summary {
	return g.summaryFor(g.mode)
}

func parseFormat(s string) backend.LeaderboardFormat {
	switch strings.ToUpper(s) {
	case "TIME", "FRAMES", "MILLISECS", "SECS", "MINUTES", "TIMESECS":
		return backend.FormatTime
	case "SCORE", "POINTS":
		return backend.FormatScore
	default:
		return backend.FormatValue
	}
}

func formatID(id uint32) string { return strconv.FormatUint(uint64(id), 10) }

func (r *Runtime) BeginLoadGame(hash string, cb backend.Callback) backend.AsyncHandle {
	req := r.begin(apiGameID)

	if r.user == nil {
		r.finish(req)
		cb(backend.ResultLoginRequired, "login required")
		return req.handle
	}

	r.UnloadGame()

	fail := func(err error) {
		apiErr := err.(*APIError)
		r.logger.Warn("load game failed", xslog.Hash(hash), xslog.RequestKind(apiErr.API), xslog.Error(err))
		if apiErr.Result() == backend.ResultExpiredToken {
			r.user = nil
			cb(backend.ResultLoginRequired, apiErr.Message)
			return
		}
		cb(apiErr.Result(), apiErr.Message)
	}

	r.post(apiGameID, r.withAuth("m", hash), func(status int, _ string, body []byte) {
		if req.aborted {
			r.finish(req)
			cb(backend.ResultAborted, "")
			return
		}
		resp, err := decode[gameIDResponse](apiGameID, status, body)
		if err != nil {
			r.finish(req)
			fail(err)
			return
		}
		if resp.GameID == 0 {
			r.finish(req)
			r.logger.Info("unknown game", xslog.Hash(hash))
			cb(backend.ResultNoGameLoaded, "unknown game")
			return
		}
		r.fetchPatch(req, hash, resp.GameID, cb, fail)
	})

	return req.handle
}

func (r *Runtime) fetchPatch(req *request, hash string, gameID uint32, cb backend.Callback, fail func(error)) {
	req.api = apiPatch
	r.post(apiPatch, r.withAuth("g", formatID(gameID)), func(status int, _ string, body []byte) {
		if req.aborted {
			r.finish(req)
			cb(backend.ResultAborted, "")
			return
		}
		resp, err := decode[patchResponse](apiPatch, status, body)
		if err != nil {
			r.finish(req)
			fail(err)
			return
		}
		if resp.PatchData.ID == 0 {
			resp.PatchData.ID = gameID
		}
		r.startSession(req, newGame(hash, resp.PatchData), cb, fail)
	})
}

func (r *Runtime) startSession(req *request, g *game, cb backend.Callback, fail func(error)) {
	req.api = apiStartSession
	params := r.withAuth("g", formatID(g.info.ID))
	params.Set("h", boolParam(r.hardcore))
	r.post(apiStartSession, params, func(status int, _ string, body []byte) {
		if r.finish(req) {
			cb(backend.ResultAborted, "")
			return
		}
		resp, err := decode[startSessionResponse](apiStartSession, status, body)
		if err != nil {
			fail(err)
			return
		}
		for _, u := range resp.HardcoreUnlocks {
			when := time.Unix(u.When, 0)
			g.hardcoreUnlocks[u.ID] = when
			g.softcoreUnlocks[u.ID] = when
		}
		for _, u := range resp.Unlocks {
			g.softcoreUnlocks[u.ID] = time.Unix(u.When, 0)
		}
		g.applyUnlocks(r.hardcore, r.encore)

		r.game = g
		r.lastPing = r.clock()
		r.logger.Info("game loaded",
			xslog.GameID(g.info.ID),
			xslog.GameTitle(g.info.Title),
			xslog.Count(len(g.achievements)),
		)
		cb(backend.ResultOK, "")
	})
}

func (r *Runtime) withAuth(key string, value string) url.Values {
	params := r.authParams()
	params.Set(key, value)
	return params
}

func boolParam(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
