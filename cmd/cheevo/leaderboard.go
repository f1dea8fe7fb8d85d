package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/garrettladley/cheevo/internal/achievements"
)

func leaderboardCmd() *cobra.Command {
	var (
		all   bool
		pages int
	)

	cmd := &cobra.Command{
		Use:   "leaderboard <game> [id]",
		Short: "List a game's leaderboards or show entries",
		Long: "Without an id, lists the leaderboards of the game. With an id, shows the " +
			"entries around you, or the top entries with --all.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(ctx) }()

			if _, err := a.loadGame(ctx, args[0]); err != nil {
				return err
			}
			c := a.coordinator
			if !c.PrepareLeaderboards() {
				return errors.New("this game has no leaderboards")
			}

			if len(args) == 1 {
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTITLE\tDESCRIPTION")
				for _, lb := range c.Leaderboards() {
					fmt.Fprintf(w, "%d\t%s\t%s\n", lb.ID, lb.Title, lb.Description)
				}
				return w.Flush()
			}

			id, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid leaderboard id %q: %w", args[1], err)
			}
			if err := c.OpenLeaderboard(uint32(id)); err != nil {
				return err
			}
			if all {
				c.ShowAllEntries()
			}

			settled := func(s achievements.Snapshot) bool { return !s.Leaderboard.Loading }
			s, err := a.waitFor(ctx, settled)
			if err != nil {
				return err
			}
			for fetched := 1; all && s.Leaderboard.Open && s.Leaderboard.HasMore && fetched < pages; fetched++ {
				c.FetchNextEntries()
				if s, err = a.waitFor(ctx, settled); err != nil {
					return err
				}
			}

			if !s.Leaderboard.Open {
				if toast, ok := a.queue.Toast(); ok {
					return fmt.Errorf("%s: %s", toast.Title, toast.Body)
				}
				return errors.New("leaderboard download failed")
			}
			return printEntries(out, s.Leaderboard)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "show the top entries instead of those around you")
	cmd.Flags().IntVar(&pages, "pages", 1, "pages of top entries to fetch with --all")
	return cmd
}

func printEntries(out io.Writer, v achievements.LeaderboardView) error {
	entries := v.Nearby
	if v.Mode == achievements.ModeAll {
		entries = v.Entries
	}

	fmt.Fprintf(out, "%s\n%s\n\n", v.Leaderboard.Title, v.Leaderboard.Description)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tUSER\tSCORE\t")
	for i, e := range entries {
		marker := ""
		if v.Mode == achievements.ModeNearby && i == v.UserIndex {
			marker = "<"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Rank, e.User, e.Score, marker)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if v.Mode == achievements.ModeAll && v.Total > 0 {
		fmt.Fprintf(out, "\n%d of %d entries\n", len(entries), v.Total)
	}
	return nil
}
