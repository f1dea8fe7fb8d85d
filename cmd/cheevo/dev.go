//go:build !release

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/garrettladley/cheevo/internal/backend"
)

func addDevCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(achievementsCmd())
}

func achievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements <game>",
		Short: "List the achievements of a game",
		Long:  "Loads the game and prints every achievement with its unlock state.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(ctx) }()

			s, err := a.loadGame(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (hardcore %s)\n\n", s.GameTitle, s.Hardcore)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPOINTS\tSTATE\tTITLE\tPROGRESS")
			for _, ach := range a.coordinator.Achievements() {
				state := "locked"
				if ach.State == backend.AchievementUnlocked {
					state = "unlocked"
				}
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", ach.ID, ach.Points, state, ach.Title, ach.Measured)
			}
			return w.Flush()
		},
	}
}
