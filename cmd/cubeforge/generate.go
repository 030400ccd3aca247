package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"cubeforge/internal/catalog"
	"cubeforge/internal/config"
	"cubeforge/internal/cube"
	"cubeforge/internal/generate"
	"cubeforge/internal/storage"
)

var flagWatch bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a cube from the stored source cubes",
	Long: `Run the synthesis pipeline against the locally stored source cubes:
resolve names against the catalog, filter by blacklist and category,
weight by recency-scaled frequency, and sample the final list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !flagWatch {
			return runGenerate(cmd.Context())
		}
		return watchGenerate(cmd.Context())
	},
}

func init() {
	generateCmd.Flags().BoolVar(&flagWatch, "watch", false, "re-run generation when the config file changes")
}

func runGenerate(ctx context.Context) error {
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

	records, err := db.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("catalog is empty; run 'cubeforge catalog update' first")
	}
	cat, err := catalog.New(records)
	if err != nil {
		return fmt.Errorf("building catalog: %w", err)
	}

	sources, err := db.GetSourceCubes(ctx, cfg.Cube.CubeIDs)
	if err != nil {
		return fmt.Errorf("loading source cubes: %w", err)
	}
	if len(sources) < len(cfg.Cube.CubeIDs) {
		slog.Warn("some configured cubes have no stored snapshot; run 'cubeforge fetch'",
			"configured", len(cfg.Cube.CubeIDs), "stored", len(sources))
	}

	opts, err := generateOptions(cfg)
	if err != nil {
		return err
	}

	generated, diag, err := generate.Run(cat, sources, opts)
	if err != nil {
		var insufficient *generate.InsufficientCandidatesError
		if errors.As(err, &insufficient) && diag != nil {
			printDiagnostics(diag)
		}
		return fmt.Errorf("generating cube: %w", err)
	}

	if err := db.SaveGeneratedCube(ctx, generated, cfg.Cube.Overwrite); err != nil {
		if errors.Is(err, storage.ErrCubeExists) {
			return fmt.Errorf("%w (set overwrite = true to replace it)", err)
		}
		return fmt.Errorf("saving generated cube: %w", err)
	}

	fmt.Printf("Generated %q: %d cards (%s)\n", generated.Name, len(generated.Cards), generated.Category)
	printDiagnostics(diag)
	return nil
}

func generateOptions(cfg *config.Config) (generate.Options, error) {
	blacklist, err := cfg.BlacklistEntries()
	if err != nil {
		return generate.Options{}, err
	}

	var decay generate.Decay
	switch cfg.Decay.Strategy {
	case "hyperbolic":
		scale, err := cfg.GetDecayScale()
		if err != nil {
			return generate.Options{}, err
		}
		decay = generate.HyperbolicDecay{Scale: scale}
	default:
		halfLife, err := cfg.GetDecayHalfLife()
		if err != nil {
			return generate.Options{}, err
		}
		decay = generate.ExponentialDecay{HalfLife: halfLife}
	}

	return generate.Options{
		Name:      cfg.Cube.Name,
		Category:  cube.Category(cfg.Cube.Category),
		Count:     cfg.Cube.CardCount,
		Tolerance: &cfg.Cube.Tolerance,
		Blacklist: blacklist,
		Seed:      cfg.Cube.Seed,
		Decay:     decay,
		Logger:    slog.Default(),
	}, nil
}

func printDiagnostics(diag *cube.Diagnostics) {
	fmt.Printf("  sources:            %d\n", diag.SourceCount)
	fmt.Printf("  candidates:         %d before filtering, %d after\n", diag.CandidatesBefore, diag.CandidatesAfter)
	fmt.Printf("  excluded:           %d blacklisted, %d wrong category\n", diag.ExcludedByBlacklist, diag.ExcludedByCategory)
	fmt.Printf("  weights:            min %.4f / max %.4f / mean %.4f\n", diag.WeightMin, diag.WeightMax, diag.WeightMean)
	if len(diag.UnresolvedNames) > 0 {
		fmt.Printf("  unresolved names:   %d (see log)\n", len(diag.UnresolvedNames))
	}
}

// watchGenerate re-runs generation whenever the config file is written,
// so blacklist and count tuning gives immediate feedback.
func watchGenerate(ctx context.Context) error {
	if err := runGenerate(ctx); err != nil {
		log.Printf("generate failed: %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(flagConfig); err != nil {
		return fmt.Errorf("watching %s: %w", flagConfig, err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	log.Printf("Watching %s for changes (Ctrl+C to stop)", flagConfig)

	// Editors often emit bursts of write events for one save; debounce
	// so each save triggers a single run.
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sig:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pending = time.After(500 * time.Millisecond)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		case <-pending:
			pending = nil
			log.Printf("Config changed, regenerating")
			if err := runGenerate(ctx); err != nil {
				log.Printf("generate failed: %v", err)
			}
		}
	}
}
