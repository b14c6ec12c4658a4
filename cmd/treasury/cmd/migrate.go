package cmd

import (
	"errors"
	"fmt"

	"github.com/SscSPs/masjid_treasury/internal/platform/config"
	"github.com/SscSPs/masjid_treasury/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back PostgreSQL migrations",
	Long:      "Apply all pending migrations (up) or roll back the latest one (down). Only the pgsql store uses migrations.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.StoreDriver != config.DriverPgsql {
			return errors.New("migrations only apply to STORE_DRIVER=pgsql")
		}
		direction := database.MigrateDirection(args[0])
		if direction != database.MigrateUp && direction != database.MigrateDown {
			return fmt.Errorf("unknown direction %q, want up or down", args[0])
		}
		return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsURL, direction)
	},
}
