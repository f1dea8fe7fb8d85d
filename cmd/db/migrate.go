package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garrettladley/cheevo/internal/config"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations to the configured settings backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			switch cfg.SettingsBackend {
			case config.SettingsBackendMemory, config.SettingsBackendRedis:
				fmt.Printf("The %s backend has no migrations\n", cfg.SettingsBackend)
				return nil
			}

			store, err := cfg.OpenSettings(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			fmt.Println("Migrations applied successfully")
			return nil
		},
	}
}
