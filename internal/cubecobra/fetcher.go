package cubecobra

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cubeforge/internal/cube"
)

// Fetcher downloads a set of source cubes concurrently and hands the
// fully materialized records to the caller. All network I/O for a run
// happens here; the generation core never fetches.
type Fetcher struct {
	client *Client
	logger *slog.Logger

	// Concurrency bounds the number of parallel cube fetches.
	// Default: 4
	Concurrency int

	// UpdateWindow drops sources whose last mainboard change is older
	// than this. Zero disables the cutoff.
	UpdateWindow time.Duration
}

// NewFetcher creates a fetcher around the given client.
func NewFetcher(client *Client, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:      client,
		logger:      logger,
		Concurrency: 4,
	}
}

// FetchAll downloads the cubes with the given ids. Individual failures
// are logged and skipped so one dead cube does not sink the run; the
// returned error is non-nil only when the context is cancelled. Results
// are sorted by cube id.
func (f *Fetcher) FetchAll(ctx context.Context, ids []string) ([]cube.SourceCube, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.Concurrency)

	var mu sync.Mutex
	var sources []cube.SourceCube

	for _, id := range ids {
		id := id
		g.Go(func() error {
			src, err := f.fetchOne(ctx, id)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				f.logger.Warn("skipping source cube", "cube", id, "error", err)
				return nil
			}
			if src == nil {
				return nil
			}
			mu.Lock()
			sources = append(sources, *src)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].ID < sources[j].ID })
	return sources, nil
}

// fetchOne downloads one cube and stamps it with its last mainboard
// change. Returns (nil, nil) for sources outside the update window.
func (f *Fetcher) fetchOne(ctx context.Context, id string) (*cube.SourceCube, error) {
	src, err := f.client.GetCube(ctx, id)
	if err != nil {
		return nil, err
	}

	lastModified, err := f.client.LastMainboardChange(ctx, id)
	if err != nil {
		return nil, err
	}
	src.LastModified = lastModified

	if f.UpdateWindow > 0 && time.Since(lastModified) > f.UpdateWindow {
		f.logger.Warn("source cube outside update window",
			"cube", id, "last_modified", lastModified)
		return nil, nil
	}

	f.logger.Info("fetched source cube",
		"cube", id, "cards", len(src.Cards), "last_modified", lastModified)
	return src, nil
}
