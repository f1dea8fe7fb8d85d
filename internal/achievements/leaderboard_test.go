package achievements

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/cheevo/internal/xerrors"
)

func ranks(entries []Entry) []uint32 {
	out := make([]uint32, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Rank)
	}
	return out
}

func rankRange(first uint32, last uint32) []uint32 {
	var out []uint32
	for r := first; r <= last; r++ {
		out = append(out, r)
	}
	return out
}

func TestLeaderboard_Browse(t *testing.T) {
	t.Parallel()

	h := newLoaded(t)

	if !h.c.PrepareLeaderboards() {
		t.Fatal("PrepareLeaderboards() = false")
	}
	lbs := h.c.Leaderboards()
	if len(lbs) != 1 || lbs[0].ID != 5 {
		t.Fatalf("Leaderboards() = %+v", lbs)
	}

	if err := h.c.OpenLeaderboard(5); err != nil {
		t.Fatalf("OpenLeaderboard() error = %v", err)
	}
	if v := h.c.Snapshot().Leaderboard; !v.Open || !v.Loading {
		t.Errorf("view = %+v, want open and loading", v)
	}
	h.settle()

	v := h.c.Snapshot().Leaderboard
	if diff := cmp.Diff(rankRange(33, 42), ranks(v.Nearby)); diff != "" {
		t.Errorf("nearby ranks mismatch (-want +got):\n%s", diff)
	}
	if v.UserIndex != 4 || v.Nearby[v.UserIndex].User != "alice" {
		t.Errorf("UserIndex = %d, want alice at 4", v.UserIndex)
	}
	calls := h.net().Calls("lbinfo")
	if got := calls[0].Form.Get("u"); got != "alice" {
		t.Errorf("nearby fetch u = %q, want alice", got)
	}

	h.c.ShowAllEntries()
	h.settle()
	v = h.c.Snapshot().Leaderboard
	if v.Mode != ModeAll || v.Total != 100 || !v.HasMore {
		t.Errorf("view = mode %v total %d more %v", v.Mode, v.Total, v.HasMore)
	}
	if diff := cmp.Diff(rankRange(1, 20), ranks(v.Entries)); diff != "" {
		t.Errorf("first page mismatch (-want +got):\n%s", diff)
	}

	h.net().Hold()
	h.c.PlaceholderVisible()
	h.c.PlaceholderVisible()
	calls = h.net().Calls("lbinfo")
	if got := len(calls); got != 3 {
		t.Errorf("lbinfo calls = %d, want one fetch per page", got)
	}
	if got := calls[len(calls)-1].Form.Get("o"); got != "20" {
		t.Errorf("offset = %q, want 20", got)
	}
	h.net().Release()
	h.settle()

	v = h.c.Snapshot().Leaderboard
	if diff := cmp.Diff(rankRange(1, 40), ranks(v.Entries)); diff != "" {
		t.Errorf("accumulated ranks mismatch (-want +got):\n%s", diff)
	}

	h.c.ShowNearbyEntries()
	if v := h.c.Snapshot().Leaderboard; v.Mode != ModeNearby || len(v.Nearby) != 10 || len(v.Entries) != 40 {
		t.Errorf("view after ShowNearby = mode %v nearby %d entries %d", v.Mode, len(v.Nearby), len(v.Entries))
	}

	h.c.CloseLeaderboard()
	if v := h.c.Snapshot().Leaderboard; v.Open || v.Entries != nil {
		t.Errorf("view after close = %+v", v)
	}
}

func TestLeaderboard_StopsAtTotal(t *testing.T) {
	t.Parallel()

	h := newLoaded(t, func(h *harness) { h.f.LeaderboardTotal = 25 })
	h.c.PrepareLeaderboards()
	if err := h.c.OpenLeaderboard(5); err != nil {
		t.Fatalf("OpenLeaderboard() error = %v", err)
	}
	h.c.ShowAllEntries()
	h.settle()
	h.c.PlaceholderVisible()
	h.settle()

	before := len(h.net().Calls("lbinfo"))
	h.c.PlaceholderVisible()
	h.settle()

	v := h.c.Snapshot().Leaderboard
	if len(v.Entries) != 25 || v.HasMore {
		t.Errorf("entries = %d, more = %v, want 25 and none", len(v.Entries), v.HasMore)
	}
	if got := len(h.net().Calls("lbinfo")); got != before {
		t.Errorf("lbinfo calls = %d, want no fetch past the total", got)
	}
}

func TestLeaderboard_EmptyPageEndsPaging(t *testing.T) {
	t.Parallel()

	h := newLoaded(t)
	h.net().HandleJSON("lbinfo", `{"Success":true,"LeaderboardData":{"LBID":5,"TotalEntries":100,"Entries":[]}}`)
	h.c.PrepareLeaderboards()
	if err := h.c.OpenLeaderboard(5); err != nil {
		t.Fatalf("OpenLeaderboard() error = %v", err)
	}
	h.c.ShowAllEntries()
	h.settle()

	for range 10 {
		h.c.PlaceholderVisible()
		h.settle()
	}

	if got := len(h.net().Calls("lbinfo")); got != 2 {
		t.Errorf("lbinfo calls = %d, want the nearby fetch and one page", got)
	}
	v := h.c.Snapshot().Leaderboard
	if v.HasMore || v.Loading || len(v.Entries) != 0 {
		t.Errorf("view = more %v loading %v entries %d, want an exhausted empty board", v.HasMore, v.Loading, len(v.Entries))
	}
}

func TestLeaderboard_PlaceholderOnlyInAllMode(t *testing.T) {
	t.Parallel()

	h := newLoaded(t)
	h.c.PrepareLeaderboards()
	if err := h.c.OpenLeaderboard(5); err != nil {
		t.Fatalf("OpenLeaderboard() error = %v", err)
	}
	h.settle()

	h.c.PlaceholderVisible()

	if got := len(h.net().Calls("lbinfo")); got != 1 {
		t.Errorf("lbinfo calls = %d, want 1", got)
	}
}

func TestLeaderboard_FetchFailureCloses(t *testing.T) {
	t.Parallel()

	h := newLoaded(t)
	h.net().Handle("lbinfo", func(url.Values) (int, string) {
		return http.StatusInternalServerError, `{"Success":false,"Error":"database is down"}`
	})
	h.c.PrepareLeaderboards()
	if err := h.c.OpenLeaderboard(5); err != nil {
		t.Fatalf("OpenLeaderboard() error = %v", err)
	}
	h.settle()

	toast, ok := h.sink.Toast()
	if !ok || toast.Title != "Leaderboard download failed" || toast.Body != "database is down" {
		t.Errorf("toast = %+v", toast)
	}
	if v := h.c.Snapshot().Leaderboard; v.Open {
		t.Errorf("view = %+v, want closed", v)
	}
}

func TestLeaderboard_CloseDiscardsFetch(t *testing.T) {
	t.Parallel()

	h := newLoaded(t)
	h.c.PrepareLeaderboards()
	h.net().Hold()
	if err := h.c.OpenLeaderboard(5); err != nil {
		t.Fatalf("OpenLeaderboard() error = %v", err)
	}

	h.c.CloseLeaderboard()
	h.net().Release()
	h.settle()

	if v := h.c.Snapshot().Leaderboard; v.Open || v.Nearby != nil {
		t.Errorf("view = %+v, want closed and empty", v)
	}
	if _, ok := h.sink.Toast(); ok {
		t.Error("aborted fetch raised a toast")
	}
}

func TestLeaderboard_OpenUnknown(t *testing.T) {
	t.Parallel()

	h := newLoaded(t)

	err := h.c.OpenLeaderboard(99)
	if !xerrors.IsKind(err, xerrors.KindOperation) {
		t.Errorf("OpenLeaderboard() error = %v, want operation error", err)
	}

	idle := newHarness(t)
	if err := idle.c.OpenLeaderboard(5); !xerrors.IsKind(err, xerrors.KindInvariant) {
		t.Errorf("OpenLeaderboard() on inactive coordinator error = %v, want invariant", err)
	}
}

func TestLeaderboard_HardcoreChangeClosesBoard(t *testing.T) {
	t.Parallel()

	h := newLoaded(t)
	h.c.PrepareLeaderboards()
	if err := h.c.OpenLeaderboard(5); err != nil {
		t.Fatalf("OpenLeaderboard() error = %v", err)
	}
	h.settle()

	h.c.SetHardcoreMode(true)
	h.c.ResetHardcoreMode()

	if v := h.c.Snapshot().Leaderboard; v.Open {
		t.Error("leaderboard still open after hardcore change")
	}
	if got := h.c.Leaderboards(); got != nil {
		t.Errorf("Leaderboards() = %+v, want cleared", got)
	}
}
