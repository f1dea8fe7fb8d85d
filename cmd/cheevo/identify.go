package main

import (
	"errors"
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

func identifyCmd() *cobra.Command {
	var (
		load     bool
		copyHash bool
	)

	cmd := &cobra.Command{
		Use:   "identify <game>...",
		Short: "Hash games and look them up",
		Long: "Prints the achievements hash of each game image. Zip, 7z, rar and gzip " +
			"archives are hashed by their first game file. With --load, a single game " +
			"is also looked up on the server. With --copy, its hash goes to the clipboard.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(ctx) }()

			hashes, err := a.hasher.HashAll(ctx, args, runtime.NumCPU())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, path := range args {
				hash := hashes[path]
				if hash == "" {
					hash = "(unreadable)"
				}
				fmt.Fprintf(w, "%s\t%s\n", hash, path)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if copyHash {
				if len(args) != 1 || hashes[args[0]] == "" {
					return errors.New("--copy takes a single readable game")
				}
				if err := clipboard.WriteAll(hashes[args[0]]); err != nil {
					return fmt.Errorf("failed to copy hash: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "hash copied to clipboard")
			}

			if !load {
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("--load takes a single game, got %d", len(args))
			}

			s, err := a.loadGame(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s (game %d)\n", s.GameTitle, s.GameID)
			if !s.HasAchievements {
				fmt.Fprintln(cmd.OutOrStdout(), "This game has no achievements.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d achievements unlocked, %d of %d points\n",
				s.Summary.Unlocked, s.Summary.Total, s.Summary.PointsUnlocked, s.Summary.PointsTotal)
			return nil
		},
	}

	cmd.Flags().BoolVar(&load, "load", false, "log in and load the game")
	cmd.Flags().BoolVar(&copyHash, "copy", false, "copy the game hash to the clipboard")
	return cmd
}
