package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cubeforge/internal/config"
	"cubeforge/internal/cube"
	"cubeforge/internal/scryfall"
	"cubeforge/internal/storage"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local card catalog snapshot",
}

var catalogUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Rebuild the catalog from the Scryfall bulk dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		db, err := storage.Open(storage.DefaultConfig(cfg.Storage.Path))
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer func() { _ = db.Close() }()

		client := scryfall.NewClient(cfg.Fetch.UserAgent)

		var records []cube.CardRecord
		seen := make(map[cube.CardIdentity]struct{})
		err = client.OracleCards(cmd.Context(), func(bc scryfall.BulkCard) error {
			rec, ok := scryfall.ToCardRecord(bc)
			if !ok {
				return nil
			}
			if _, dup := seen[rec.Identity]; dup {
				return nil
			}
			seen[rec.Identity] = struct{}{}
			records = append(records, rec)
			return nil
		})
		if err != nil {
			return fmt.Errorf("downloading oracle cards: %w", err)
		}

		if err := db.ReplaceCatalog(cmd.Context(), records); err != nil {
			return fmt.Errorf("storing catalog: %w", err)
		}

		fmt.Printf("Catalog updated: %d cards.\n", len(records))
		return nil
	},
}

var catalogStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the size of the stored catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		db, err := storage.Open(storage.DefaultConfig(cfg.Storage.Path))
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer func() { _ = db.Close() }()

		n, err := db.CatalogSize(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Catalog holds %d cards.\n", n)
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogUpdateCmd)
	catalogCmd.AddCommand(catalogStatusCmd)
}
