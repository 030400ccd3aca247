package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"cubeforge/internal/config"
	"cubeforge/internal/cubecobra"
	"cubeforge/internal/storage"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the configured source cubes from CubeCobra",
	Long: `Download the mainboard list and last-update timestamp of every cube id
in the configuration and store them locally for generation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		db, err := storage.Open(storage.DefaultConfig(cfg.Storage.Path))
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer func() { _ = db.Close() }()

		client := cubecobra.NewClient(cfg.Fetch.UserAgent)
		fetcher := cubecobra.NewFetcher(client, slog.Default())
		fetcher.Concurrency = cfg.Fetch.Concurrency
		fetcher.UpdateWindow = time.Duration(cfg.Fetch.UpdateWindowDays) * 24 * time.Hour

		ctx := cmd.Context()
		sources, err := fetcher.FetchAll(ctx, cfg.Cube.CubeIDs)
		if err != nil {
			return fmt.Errorf("fetching source cubes: %w", err)
		}

		for i := range sources {
			if err := db.SaveSourceCube(ctx, &sources[i]); err != nil {
				return fmt.Errorf("saving source cube %s: %w", sources[i].ID, err)
			}
		}

		fmt.Printf("Fetched %d of %d source cubes.\n", len(sources), len(cfg.Cube.CubeIDs))
		return nil
	},
}
