package main

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maxviazov/football-stats-service/internal/config"
	"github.com/maxviazov/football-stats-service/internal/logger"
	"github.com/maxviazov/football-stats-service/internal/migrations"
	"github.com/maxviazov/football-stats-service/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

func init() {
	migrateCmd.AddCommand(
		migrationCommand("up", "Apply all pending migrations", migrations.Up),
		migrationCommand("down", "Roll back the latest migration", migrations.Down),
		migrationCommand("status", "Print applied and pending migrations", migrations.Status),
	)
}

func migrationCommand(use, short string, run func(*sql.DB, zerolog.Logger) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("config loading failed: %w", err)
			}
			log, err := logger.New(&cfg.Logger)
			if err != nil {
				return fmt.Errorf("logger initialization failed: %w", err)
			}

			db, err := migrations.OpenDB(repository.DSN(cfg.Postgres))
			if err != nil {
				return err
			}
			defer db.Close()

			if err := run(db, log); err != nil {
				return fmt.Errorf("migrate %s: %w", use, err)
			}
			return nil
		},
	}
}
