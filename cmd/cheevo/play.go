package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/garrettladley/cheevo/internal/achievements"
	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/paths"
	"github.com/garrettladley/cheevo/internal/tui"
	"github.com/garrettladley/cheevo/internal/xslog"
)

const logFileName = "cheevo.log"

// playHost is a system that is always running the game it was started with.
type playHost struct {
	path string
}

var (
	_ achievements.Host = playHost{}
	_ tui.Session       = (*achievements.Coordinator)(nil)
)

func (h playHost) IsSystemValid() bool                            { return true }
func (h playHost) RunningGamePath() string                        { return h.path }
func (playHost) ConfirmMessage(string, string) bool               { return true }
func (playHost) OnAchievementsRefreshed()                         {}
func (playHost) OnHardcoreModeChanged(bool)                       {}
func (playHost) OnLoginRequested(achievements.LoginRequestReason) {}
func (playHost) OnLoginSuccess(backend.User)                      {}
func (playHost) PlaySound(string)                                 {}

func playCmd() *cobra.Command {
	var statePath string

	cmd := &cobra.Command{
		Use:   "play <game>",
		Short: "Open the achievements overlay for a game",
		Long: "Starts an achievements session for the game and shows the overlay: " +
			"unlock notifications, challenge and progress indicators, leaderboard " +
			"trackers and the leaderboard browser.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dir, err := paths.EnsureDir()
			if err != nil {
				return err
			}
			logFile, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer func() { _ = logFile.Close() }()

			a, err := newApp(ctx, withHost(playHost{path: args[0]}), withLogOutput(logFile))
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(ctx) }()

			if err := a.coordinator.Start(ctx, nil); err != nil {
				return err
			}

			if statePath == "" {
				statePath = filepath.Join(dir, stateFileName(args[0]))
			}
			model := tui.New(tui.Deps{
				Logger:        a.logger,
				Session:       a.coordinator,
				Notifications: a.queue,
				StatePath:     statePath,
			})

			p := tea.NewProgram(&model)
			if _, err := p.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "file the save and load state keys use")
	return cmd
}

func stateFileName(game string) string {
	base := filepath.Base(game)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".state"
}
