package achievements

import (
	"log/slog"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/xslog"
)

type PagerMode uint8

const (
	ModeNearby PagerMode = iota
	ModeAll
)

func (m PagerMode) String() string {
	if m == ModeAll {
		return "all"
	}
	return "nearby"
}

// Pager browses one open leaderboard, either as the window of entries around
// the user or as pages accumulated from rank 1. It is guarded by the
// coordinator lock.
type Pager struct {
	rt       backend.Runtime
	requests *Tracker
	logger   *slog.Logger
	failed   func(message string)
	userIcon func(username string) string

	open   *backend.Leaderboard
	mode   PagerMode
	nearby *backend.EntryList
	pages  []*backend.EntryList
	icons  map[string]string
}

func newPager(rt backend.Runtime, requests *Tracker, logger *slog.Logger, failed func(string), userIcon func(string) string) *Pager {
	return &Pager{
		rt:       rt,
		requests: requests,
		logger:   logger,
		failed:   failed,
		userIcon: userIcon,
	}
}

// Open closes any open leaderboard and fetches the entries around the user.
func (p *Pager) Open(lb backend.Leaderboard) {
	p.logger.Debug("opening leaderboard", xslog.LeaderboardID(lb.ID), slog.String("title", lb.Title))
	p.Close()

	p.open = &lb
	p.mode = ModeNearby
	p.requests.Begin(RequestLeaderboardFetch, func(h Handle) backend.AsyncHandle {
		return p.rt.BeginFetchLeaderboardEntriesAroundUser(lb.ID, NearbyEntries, func(result backend.Result, message string, list *backend.EntryList) {
			if !p.requests.Complete(h) {
				return
			}
			if result != backend.ResultOK {
				p.fail(message)
				return
			}
			p.nearby = list
		})
	})
}

// ShowAll switches to rank order, fetching the first page if none is cached.
func (p *Pager) ShowAll() {
	if p.open == nil {
		return
	}
	p.mode = ModeAll
	if len(p.pages) == 0 && !p.requests.Pending(RequestLeaderboardFetch) {
		p.FetchNext()
	}
}

func (p *Pager) ShowNearby() {
	if p.open == nil {
		return
	}
	p.mode = ModeNearby
}

// FetchNext requests the page after the accumulated entries, replacing any
// fetch in flight.
func (p *Pager) FetchNext() {
	if p.open == nil {
		return
	}
	start := p.nextRank()
	id := p.open.ID
	p.logger.Debug("fetching leaderboard entries",
		xslog.LeaderboardID(id),
		xslog.Rank(start),
		xslog.Count(AllPageSize),
	)

	p.requests.Begin(RequestLeaderboardFetch, func(h Handle) backend.AsyncHandle {
		return p.rt.BeginFetchLeaderboardEntries(id, start, AllPageSize, func(result backend.Result, message string, list *backend.EntryList) {
			if !p.requests.Complete(h) {
				return
			}
			if result != backend.ResultOK {
				p.fail(message)
				return
			}
			if list == nil {
				list = &backend.EntryList{}
			}
			p.pages = append(p.pages, list)
		})
	})
}

// PlaceholderVisible is called when the UI draws the loading row after the
// accumulated entries. It fetches the next page unless one is in flight or
// every entry is already loaded.
func (p *Pager) PlaceholderVisible() {
	if p.open == nil || p.mode != ModeAll || p.requests.Pending(RequestLeaderboardFetch) {
		return
	}
	if !p.hasMore() {
		return
	}
	p.FetchNext()
}

// Close aborts any fetch and forgets the open leaderboard.
func (p *Pager) Close() {
	p.requests.AbortKind(RequestLeaderboardFetch)
	clear(p.icons)
	p.pages = nil
	p.nearby = nil
	p.open = nil
	p.mode = ModeNearby
}

func (p *Pager) fail(message string) {
	p.logger.Warn("leaderboard download failed", slog.String("message", message))
	p.failed(message)
	p.Close()
}

func (p *Pager) accumulated() uint32 {
	var n uint32
	for _, page := range p.pages {
		n += uint32(len(page.Entries))
	}
	return n
}

func (p *Pager) nextRank() uint32 { return 1 + p.accumulated() }

// hasMore reports whether another page may exist. An empty page ends paging
// even when the reported total is larger.
func (p *Pager) hasMore() bool {
	if len(p.pages) == 0 {
		return true
	}
	last := p.pages[len(p.pages)-1]
	if len(last.Entries) == 0 {
		return false
	}
	return p.accumulated() < last.TotalEntries
}

// icon returns the cached image path for username.
func (p *Pager) icon(username string) string {
	if path, ok := p.icons[username]; ok {
		return path
	}
	if p.icons == nil {
		p.icons = make(map[string]string)
	}
	path := p.userIcon(username)
	p.icons[username] = path
	return path
}

type Entry struct {
	backend.LeaderboardEntry
	Icon string
}

// LeaderboardView is a copy of the pager state for drawing.
type LeaderboardView struct {
	Open        bool
	Leaderboard backend.Leaderboard
	Mode        PagerMode

	Nearby    []Entry
	UserIndex int

	Entries []Entry
	Total   uint32

	Loading bool
	HasMore bool
}

func (p *Pager) view() LeaderboardView {
	if p.open == nil {
		return LeaderboardView{UserIndex: -1}
	}
	v := LeaderboardView{
		Open:        true,
		Leaderboard: *p.open,
		Mode:        p.mode,
		UserIndex:   -1,
		Loading:     p.requests.Pending(RequestLeaderboardFetch),
		HasMore:     p.hasMore(),
	}
	if p.nearby != nil {
		v.Nearby = p.entries(p.nearby.Entries)
		v.UserIndex = p.nearby.UserIndex
	}
	for _, page := range p.pages {
		v.Entries = append(v.Entries, p.entries(page.Entries)...)
		v.Total = page.TotalEntries
	}
	return v
}

func (p *Pager) entries(in []backend.LeaderboardEntry) []Entry {
	out := make([]Entry, 0, len(in))
	for _, e := range in {
		out = append(out, Entry{LeaderboardEntry: e, Icon: p.icon(e.User)})
	}
	return out
}
