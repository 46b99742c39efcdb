package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-SlotService/internal/config"
	"github.com/m04kA/SMC-SlotService/internal/infra/migrations"
)

func migrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(*configPath, func(m *migrations.Migrator) error {
				return m.Up(cmd.Context())
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(*configPath, func(m *migrations.Migrator) error {
				return m.Status(cmd.Context())
			})
		},
	})

	return cmd
}

func withMigrator(configPath string, fn func(m *migrations.Migrator) error) error {
	cfg, log, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer log.Close()

	if cfg.Database.Storage != config.StoragePostgres {
		return errors.New("migrations require database.storage = \"postgres\"")
	}

	db, err := openDB(cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	migrator, err := migrations.NewMigrator(db, log)
	if err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}

	return fn(migrator)
}
