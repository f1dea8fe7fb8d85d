package retro

import (
	"net/url"
	"strconv"
	"time"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/xslog"
)

func formatInt(v int32) string { return strconv.FormatInt(int64(v), 10) }

func (r *Runtime) BeginFetchLeaderboardEntries(leaderboardID uint32, first uint32, count uint32, cb backend.EntriesCallback) backend.AsyncHandle {
	offset := uint32(0)
	if first > 0 {
		offset = first - 1
	}
	params := url.Values{
		"i": {formatID(leaderboardID)},
		"c": {formatID(count)},
		"o": {formatID(offset)},
	}
	return r.fetchEntries(leaderboardID, params, cb)
}

func (r *Runtime) BeginFetchLeaderboardEntriesAroundUser(leaderboardID uint32, count uint32, cb backend.EntriesCallback) backend.AsyncHandle {
	if r.user == nil {
		req := r.begin(apiLeaderboardInfo)
		r.finish(req)
		cb(backend.ResultLoginRequired, "login required", nil)
		return req.handle
	}
	params := url.Values{
		"i": {formatID(leaderboardID)},
		"c": {formatID(count)},
		"u": {r.user.Username},
	}
	return r.fetchEntries(leaderboardID, params, cb)
}

func (r *Runtime) fetchEntries(leaderboardID uint32, params url.Values, cb backend.EntriesCallback) backend.AsyncHandle {
	req := r.begin(apiLeaderboardInfo)

	r.post(apiLeaderboardInfo, params, func(status int, _ string, body []byte) {
		if r.finish(req) {
			cb(backend.ResultAborted, "", nil)
			return
		}
		resp, err := decode[lbInfoResponse](apiLeaderboardInfo, status, body)
		if err != nil {
			apiErr := err.(*APIError)
			r.logger.Warn("leaderboard fetch failed", xslog.LeaderboardID(leaderboardID), xslog.Error(err))
			cb(apiErr.Result(), apiErr.Message, nil)
			return
		}
		cb(backend.ResultOK, "", r.entryList(leaderboardID, resp))
	})

	return req.handle
}

func (r *Runtime) entryList(leaderboardID uint32, resp lbInfoResponse) *backend.EntryList {
	format := backend.FormatValue
	if r.game != nil {
		if lb, ok := r.game.leaderboard(leaderboardID); ok {
			format = lb.Format
		}
	}

	list := &backend.EntryList{
		Entries:      make([]backend.LeaderboardEntry, 0, len(resp.LeaderboardData.Entries)),
		TotalEntries: resp.LeaderboardData.TotalEntries,
		UserIndex:    -1,
	}
	for i, e := range resp.LeaderboardData.Entries {
		if r.user != nil && e.User == r.user.Username {
			list.UserIndex = i
		}
		list.Entries = append(list.Entries, backend.LeaderboardEntry{
			User:        e.User,
			Rank:        e.Rank,
			Index:       e.Index,
			Score:       formatScore(format, e.Score),
			SubmittedAt: time.Unix(e.DateSubmitted, 0),
		})
	}
	return list
}
