package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cubeforge/internal/config"
	"cubeforge/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := migrationManager()
		if err != nil {
			return err
		}
		defer func() { _ = mgr.Close() }()

		if err := mgr.Up(); err != nil {
			return err
		}
		fmt.Println("Migrations applied.")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := migrationManager()
		if err != nil {
			return err
		}
		defer func() { _ = mgr.Close() }()

		if err := mgr.Steps(-1); err != nil {
			return err
		}
		fmt.Println("Migration rolled back.")
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := migrationManager()
		if err != nil {
			return err
		}
		defer func() { _ = mgr.Close() }()

		version, dirty, err := mgr.Version()
		if err != nil {
			return err
		}
		state := "clean"
		if dirty {
			state = "dirty"
		}
		fmt.Printf("Schema version %d (%s)\n", version, state)
		return nil
	},
}

func migrationManager() (*storage.MigrationManager, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return storage.NewMigrationManager(cfg.Storage.Path)
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}
