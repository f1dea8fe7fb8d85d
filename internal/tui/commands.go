package tui

import (
	"bufio"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
)

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return FrameMsg{}
	})
}

// saveStateCmd writes the progress blob the way a save state would embed it.
func saveStateCmd(session Session, path string) tea.Cmd {
	return func() tea.Msg {
		return StateSavedMsg{Path: path, Err: saveState(session, path)}
	}
}

func saveState(session Session, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create state file: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := session.SaveProgress(w); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return f.Close()
}

func loadStateCmd(session Session, path string) tea.Cmd {
	return func() tea.Msg {
		return StateLoadedMsg{Path: path, Err: loadState(session, path)}
	}
}

func loadState(session Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open state file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return session.LoadProgress(bufio.NewReader(f))
}
