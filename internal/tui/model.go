package tui

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/garrettladley/cheevo/internal/achievements"
	"github.com/garrettladley/cheevo/internal/notify"
	"github.com/garrettladley/cheevo/internal/tui/page/leaderboard"
	"github.com/garrettladley/cheevo/internal/tui/page/splash"
	"github.com/garrettladley/cheevo/internal/tui/theme"
	"github.com/garrettladley/cheevo/internal/xslog"
)

var _ tea.Model = (*Model)(nil)

type page uint

const (
	splashPage page = iota
	overlayPage
)

type status struct {
	text      string
	expiresAt time.Time
}

type state struct {
	snapshot      achievements.Snapshot
	notifications []notify.Notification
	toast         notify.Toast
	hasToast      bool
	leaderboard   leaderboard.State
	paused        bool
	status        status
}

type Model struct {
	ready          bool
	page           page
	viewportWidth  int
	viewportHeight int
	theme          theme.Theme
	state          state
	deps           Deps
	now            func() time.Time
}

func New(deps Deps) Model {
	if deps.FrameInterval <= 0 {
		deps.FrameInterval = defaultFrameInterval
	}
	if deps.Logger == nil {
		deps.Logger = xslog.Discard()
	}
	return Model{
		page:  splashPage,
		theme: theme.New(),
		deps:  deps,
		now:   time.Now,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(splash.Duration, func(time.Time) tea.Msg {
			return splash.TickMsg{}
		}),
		frameCmd(m.deps.FrameInterval),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewportWidth = msg.Width
		m.viewportHeight = msg.Height
		m.ready = true

	case tea.KeyMsg:
		return m, m.handleKey(msg.String())

	case splash.TickMsg:
		m.page = overlayPage

	case FrameMsg:
		m.frame()
		return m, frameCmd(m.deps.FrameInterval)

	case StateSavedMsg:
		if msg.Err != nil {
			m.deps.Logger.Error("failed to save state", xslog.Path(msg.Path), xslog.Error(msg.Err))
			m.setStatus(fmt.Sprintf("Save failed: %v", msg.Err))
		} else {
			m.setStatus("State saved.")
		}

	case StateLoadedMsg:
		if msg.Err != nil {
			m.deps.Logger.Error("failed to load state", xslog.Path(msg.Path), xslog.Error(msg.Err))
			m.setStatus(fmt.Sprintf("Load failed: %v", msg.Err))
		} else {
			m.setStatus("State loaded.")
		}
	}

	return m, nil
}

// frame advances the session one frame, or services the network while
// paused, and refreshes everything the view draws.
func (m *Model) frame() {
	if m.state.paused {
		m.deps.Session.IdleUpdate()
	} else {
		m.deps.Session.FrameUpdate()
	}
	m.refresh()

	lb := m.state.snapshot.Leaderboard
	if m.state.leaderboard.PlaceholderVisible(lb) && !lb.Loading {
		m.deps.Session.PlaceholderVisible()
	}
}

func (m *Model) refresh() {
	m.state.snapshot = m.deps.Session.Snapshot()
	if m.deps.Notifications != nil {
		m.state.notifications = m.deps.Notifications.Notifications()
		m.state.toast, m.state.hasToast = m.deps.Notifications.Toast()
	}
	if !m.state.status.expiresAt.IsZero() && !m.now().Before(m.state.status.expiresAt) {
		m.state.status = status{}
	}
}

func (m *Model) setStatus(text string) {
	m.state.status = status{text: text, expiresAt: m.now().Add(statusDuration)}
}

func (m *Model) handleKey(key string) tea.Cmd {
	if key == "q" || key == "ctrl+c" {
		return tea.Quit
	}

	lb := &m.state.leaderboard
	view := m.state.snapshot.Leaderboard
	switch {
	case view.Open:
		switch key {
		case "esc", "b":
			m.deps.Session.CloseLeaderboard()
			lb.Reset()
		case "tab", "a":
			lb.Scroll = 0
			if view.Mode == achievements.ModeAll {
				m.deps.Session.ShowNearbyEntries()
			} else {
				m.deps.Session.ShowAllEntries()
			}
		case "up", "k":
			lb.ScrollUp()
		case "down", "j":
			lb.ScrollDown(view)
		}
		m.refresh()
		return nil

	case lb.Picking:
		switch key {
		case "esc", "b":
			lb.Reset()
		case "up", "k":
			lb.CursorUp()
		case "down", "j":
			lb.CursorDown()
		case "enter":
			if board, ok := lb.Selected(); ok {
				if err := m.deps.Session.OpenLeaderboard(board.ID); err != nil {
					m.setStatus(err.Error())
				}
				lb.Picking = false
				lb.Scroll = 0
			}
		}
		m.refresh()
		return nil
	}

	session := m.deps.Session
	switch key {
	case "p":
		m.state.paused = !m.state.paused
	case "h":
		session.SetHardcoreMode(!session.Settings().Hardcore)
	case "r":
		// a system reset is the only point hardcore mode may turn on
		session.ResetHardcoreMode()
		session.ResetRuntime()
	case "b":
		if !session.PrepareLeaderboards() {
			m.setStatus("Leaderboards are not available.")
			break
		}
		lb.Pick(session.Leaderboards())
	case "s", "f5":
		if m.deps.StatePath == "" {
			break
		}
		return saveStateCmd(session, m.deps.StatePath)
	case "l", "f8":
		if m.deps.StatePath == "" {
			break
		}
		return loadStateCmd(session, m.deps.StatePath)
	}
	m.refresh()
	return nil
}

func (m *Model) View() tea.View {
	view := tea.NewView("")
	view.AltScreen = true

	if m.page == splashPage {
		view.BackgroundColor = theme.ColorBlack
	} else {
		view.BackgroundColor = m.theme.Background()
	}

	if !m.ready {
		return view
	}

	var content string
	switch m.page {
	case splashPage:
		content = splash.View(m.theme, m.viewportWidth, m.viewportHeight)
	case overlayPage:
		content = m.OverlayView()
	}

	view.SetContent(content)
	return view
}
