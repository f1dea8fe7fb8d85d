package tui

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/cheevo/internal/achievements"
	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/notify"
	"github.com/garrettladley/cheevo/internal/tui/page/splash"
)

type fakeSession struct {
	calls    []string
	snapshot achievements.Snapshot
	settings achievements.Settings
	boards   []backend.Leaderboard
	progress []byte
}

func (f *fakeSession) record(call string) { f.calls = append(f.calls, call) }

func (f *fakeSession) Snapshot() achievements.Snapshot     { return f.snapshot }
func (f *fakeSession) Settings() achievements.Settings     { return f.settings }
func (f *fakeSession) FrameUpdate()                        { f.record("frame") }
func (f *fakeSession) IdleUpdate()                         { f.record("idle") }
func (f *fakeSession) ResetRuntime()                       { f.record("reset runtime") }
func (f *fakeSession) Leaderboards() []backend.Leaderboard { return f.boards }
func (f *fakeSession) ShowAllEntries()                     { f.record("all") }
func (f *fakeSession) ShowNearbyEntries()                  { f.record("nearby") }
func (f *fakeSession) PlaceholderVisible()                 { f.record("placeholder") }

func (f *fakeSession) SetHardcoreMode(wanted bool) {
	f.settings.Hardcore = wanted
	if wanted {
		f.record("hardcore on")
	} else {
		f.record("hardcore off")
	}
}

func (f *fakeSession) ResetHardcoreMode() bool {
	f.record("reset hardcore")
	return false
}

func (f *fakeSession) PrepareLeaderboards() bool {
	f.record("prepare")
	return len(f.boards) > 0
}

func (f *fakeSession) OpenLeaderboard(id uint32) error {
	f.record("open")
	for _, lb := range f.boards {
		if lb.ID == id {
			f.snapshot.Leaderboard = achievements.LeaderboardView{Open: true, Leaderboard: lb, UserIndex: -1}
		}
	}
	return nil
}

func (f *fakeSession) CloseLeaderboard() {
	f.record("close")
	f.snapshot.Leaderboard = achievements.LeaderboardView{UserIndex: -1}
}

func (f *fakeSession) SaveProgress(w io.Writer) error {
	_, err := w.Write(f.progress)
	return err
}

func (f *fakeSession) LoadProgress(r io.Reader) error {
	data, err := io.ReadAll(r)
	f.progress = data
	return err
}

func newTestModel(t *testing.T, s *fakeSession, opts ...func(*Deps)) *Model {
	t.Helper()
	deps := Deps{Session: s, Notifications: notify.NewQueue()}
	for _, opt := range opts {
		opt(&deps)
	}
	m := New(deps)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(splash.TickMsg{})
	return &m
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyPressMsg
		switch k {
		case "enter":
			msg = tea.KeyPressMsg{Code: tea.KeyEnter}
		case "esc":
			msg = tea.KeyPressMsg{Code: tea.KeyEscape}
		case "down":
			msg = tea.KeyPressMsg{Code: tea.KeyDown}
		case "tab":
			msg = tea.KeyPressMsg{Code: tea.KeyTab}
		default:
			msg = tea.KeyPressMsg{Code: []rune(k)[0], Text: k}
		}
		m.Update(msg)
	}
}

func TestModel_FrameAdvancesSession(t *testing.T) {
	t.Parallel()

	s := &fakeSession{}
	m := newTestModel(t, s)

	_, cmd := m.Update(FrameMsg{})
	if cmd == nil {
		t.Error("FrameMsg did not schedule the next frame")
	}
	press(m, "p")
	m.Update(FrameMsg{})
	press(m, "p")
	m.Update(FrameMsg{})

	if diff := cmp.Diff([]string{"frame", "idle", "frame"}, s.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestModel_HardcoreKeys(t *testing.T) {
	t.Parallel()

	s := &fakeSession{}
	m := newTestModel(t, s)

	press(m, "h", "r", "h")

	want := []string{"hardcore on", "reset hardcore", "reset runtime", "hardcore off"}
	if diff := cmp.Diff(want, s.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestModel_LeaderboardBrowser(t *testing.T) {
	t.Parallel()

	s := &fakeSession{boards: []backend.Leaderboard{{ID: 5, Title: "High Score"}, {ID: 6, Title: "Fastest Lap"}}}
	m := newTestModel(t, s)

	press(m, "b")
	if !m.state.leaderboard.Picking {
		t.Fatal("picker not shown")
	}
	press(m, "down", "enter")

	if got := s.snapshot.Leaderboard.Leaderboard.ID; got != 6 {
		t.Errorf("opened board %d, want 6", got)
	}
	if !strings.Contains(ansi.Strip(m.OverlayView()), "Fastest Lap") {
		t.Error("view does not show the open board")
	}

	press(m, "tab", "esc")
	want := []string{"prepare", "open", "all", "close"}
	if diff := cmp.Diff(want, s.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestModel_NoLeaderboards(t *testing.T) {
	t.Parallel()

	s := &fakeSession{}
	m := newTestModel(t, s)

	press(m, "b")

	if m.state.leaderboard.Picking {
		t.Error("picker shown without leaderboards")
	}
	if got := m.state.status.text; got != "Leaderboards are not available." {
		t.Errorf("status = %q", got)
	}
}

func TestModel_PlaceholderFetchesMore(t *testing.T) {
	t.Parallel()

	entries := make([]achievements.Entry, 3)
	for i := range entries {
		entries[i].Rank = uint32(i + 1)
	}

	tests := []struct {
		name string
		view achievements.LeaderboardView
		want int
	}{
		{
			name: "more entries",
			view: achievements.LeaderboardView{Open: true, Mode: achievements.ModeAll, Entries: entries, HasMore: true},
			want: 1,
		},
		{
			name: "fetch in flight",
			view: achievements.LeaderboardView{Open: true, Mode: achievements.ModeAll, Entries: entries, HasMore: true, Loading: true},
			want: 0,
		},
		{
			name: "all fetched",
			view: achievements.LeaderboardView{Open: true, Mode: achievements.ModeAll, Entries: entries},
			want: 0,
		},
		{
			name: "nearby",
			view: achievements.LeaderboardView{Open: true, Mode: achievements.ModeNearby, Nearby: entries, HasMore: true},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := &fakeSession{snapshot: achievements.Snapshot{Leaderboard: tt.view}}
			m := newTestModel(t, s)

			m.Update(FrameMsg{})

			var got int
			for _, c := range s.calls {
				if c == "placeholder" {
					got++
				}
			}
			if got != tt.want {
				t.Errorf("PlaceholderVisible calls = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestModel_SaveLoadState(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.bin")
	s := &fakeSession{progress: []byte{3, 0, 0, 0, 'a', 'b', 'c'}}
	m := newTestModel(t, s, func(d *Deps) { d.StatePath = path })

	_, cmd := m.Update(tea.KeyPressMsg{Code: 's', Text: "s"})
	if cmd == nil {
		t.Fatal("save key returned no command")
	}
	msg := cmd()
	if saved, ok := msg.(StateSavedMsg); !ok || saved.Err != nil {
		t.Fatalf("save msg = %#v", msg)
	}
	m.Update(msg)
	if got := m.state.status.text; got != "State saved." {
		t.Errorf("status = %q", got)
	}

	want := s.progress
	s.progress = nil
	_, cmd = m.Update(tea.KeyPressMsg{Code: 'l', Text: "l"})
	if loaded, ok := cmd().(StateLoadedMsg); !ok || loaded.Err != nil {
		t.Fatalf("load msg = %#v", loaded)
	}
	if !bytes.Equal(s.progress, want) {
		t.Errorf("loaded %v, want %v", s.progress, want)
	}
}

func TestModel_StatusExpires(t *testing.T) {
	t.Parallel()

	now := time.Unix(0, 0)
	s := &fakeSession{}
	m := newTestModel(t, s)
	m.now = func() time.Time { return now }

	m.Update(StateLoadedMsg{Path: "x"})
	m.Update(FrameMsg{})
	if m.state.status.text == "" {
		t.Fatal("status cleared too early")
	}

	now = now.Add(statusDuration)
	m.Update(FrameMsg{})
	if m.state.status.text != "" {
		t.Errorf("status = %q, want cleared", m.state.status.text)
	}
}

func TestModel_OverlayView(t *testing.T) {
	t.Parallel()

	now := time.Now()
	q := notify.NewQueue(notify.WithClock(func() time.Time { return now }))
	q.AddNotification("achievement_unlock_7", time.Minute, "First Blood", "Win a match", "")

	s := &fakeSession{snapshot: achievements.Snapshot{
		Active:          true,
		LoggedIn:        true,
		User:            backend.User{Username: "alice", DisplayName: "Alice"},
		GameID:          42,
		GameTitle:       "Test Game",
		HasAchievements: true,
		HasRichPresence: true,
		RichPresence:    "Level 3",
		Summary:         backend.Summary{Unlocked: 1, Total: 10, PointsUnlocked: 5, PointsTotal: 50},
		Trackers:        []achievements.Indicator[backend.Tracker]{{Payload: backend.Tracker{ID: 1, Display: "000100"}, Active: true, Opacity: 1}},
	}}
	m := newTestModel(t, s, func(d *Deps) { d.Notifications = q })
	m.Update(FrameMsg{})

	out := ansi.Strip(m.OverlayView())
	for _, want := range []string{"Test Game", "Level 3", "1/10", "5/50 points", "First Blood", "000100", "Alice softcore"} {
		if !strings.Contains(out, want) {
			t.Errorf("view is missing %q:\n%s", want, out)
		}
	}
}
