package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/cheevo/internal/config"
	"github.com/garrettladley/cheevo/internal/settings"
)

func credentialsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "credentials",
		Short: "Show the stored login",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			store, err := cfg.OpenSettings(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			creds, err := settings.LoadCredentials(ctx, store)
			if err != nil {
				return fmt.Errorf("failed to load credentials: %w", err)
			}
			if !creds.Valid() {
				fmt.Println("Not logged in")
				return nil
			}

			fmt.Printf("Backend:   %s\n", cfg.SettingsBackend)
			fmt.Printf("Username:  %s\n", creds.Username)
			fmt.Printf("Token:     %s\n", maskToken(creds.Token))
			if !creds.LoginTimestamp.IsZero() {
				fmt.Printf("Logged in: %s (%s ago)\n",
					creds.LoginTimestamp.Format(time.RFC3339),
					time.Since(creds.LoginTimestamp).Round(time.Second))
			}
			return nil
		},
	}
}

func maskToken(token string) string {
	const visible = 4
	if len(token) <= visible {
		return "****"
	}
	return "****" + token[len(token)-visible:]
}
