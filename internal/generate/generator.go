// Package generate implements the cube synthesis engine: cross-source
// aggregation, admissibility filtering, frequency/recency weighting,
// and weighted sampling without replacement.
package generate

import (
	"log/slog"
	"math/rand"
	"time"

	"cubeforge/internal/catalog"
	"cubeforge/internal/cube"
)

// DefaultTolerance is the permitted fractional deviation of the output
// size from the nominal target count when none is configured.
const DefaultTolerance = 0.1

// Options configures one generation run.
type Options struct {
	// Name of the generated cube.
	Name string

	// Category is the target cube category; only cards tagged for it
	// are admissible.
	Category cube.Category

	// Count is the nominal target card count. Must be positive.
	Count int

	// Tolerance is the permitted fractional deviation of the output
	// size, in [0, 1). Nil means DefaultTolerance; an explicit zero
	// demands exactly Count cards.
	Tolerance *float64

	// Blacklist holds card names (raw or normalized) that must never
	// be sampled.
	Blacklist []string

	// Seed, when set, makes the run reproducible: identical inputs and
	// seed produce identical cubes. When nil the run is seeded from the
	// clock and repeated runs may differ, which is intentional.
	Seed *int64

	// Decay is the recency strategy. Nil means DefaultDecay.
	Decay Decay

	// Now anchors recency computation. Zero means time.Now.
	Now time.Time

	// Rand overrides the sampling randomness source. Intended for
	// tests; when set, Seed is ignored.
	Rand Rand

	// Logger receives per-card resolution warnings. Nil means
	// slog.Default.
	Logger *slog.Logger
}

func (o *Options) validate() error {
	if o.Count <= 0 {
		return &InvalidConfigurationError{Field: "count", Reason: "must be positive"}
	}
	if o.Tolerance != nil && (*o.Tolerance < 0 || *o.Tolerance >= 1) {
		return &InvalidConfigurationError{Field: "tolerance", Reason: "must be in [0, 1)"}
	}
	if _, err := cube.ParseCategory(string(o.Category)); err != nil {
		return &InvalidConfigurationError{Field: "category", Reason: err.Error()}
	}
	return nil
}

func (o *Options) rand() Rand {
	if o.Rand != nil {
		return o.Rand
	}
	if o.Seed != nil {
		return rand.New(rand.NewSource(*o.Seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Run executes one generation pass: resolve and aggregate the source
// lists, filter to the admissible pool, weight by recency-scaled
// frequency, sample, and assemble the artifact. The returned
// diagnostics are populated on success and on pool-level failures.
func Run(cat *catalog.Catalog, sources []cube.SourceCube, opts Options) (*cube.GeneratedCube, *cube.Diagnostics, error) {
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}
	if len(sources) == 0 {
		return nil, nil, &EmptySourceSetError{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	decay := opts.Decay
	if decay == nil {
		decay = DefaultDecay()
	}
	tolerance := DefaultTolerance
	if opts.Tolerance != nil {
		tolerance = *opts.Tolerance
	}

	diag := &cube.Diagnostics{SourceCount: len(sources)}

	agg := aggregate(cat, sources, logger)
	diag.UnresolvedNames = agg.unresolved
	diag.CandidatesBefore = len(agg.stats)

	filter := NewFilter(cat, opts.Category, opts.Blacklist)
	pool := make([]*cube.AggregatedCardStat, 0, len(agg.stats))
	for _, stat := range agg.sortedStats() {
		rec, err := cat.AttributesOf(stat.Identity)
		if err != nil {
			// Resolve produced this identity, so a missing record is a
			// catalog integrity fault, not bad input.
			return nil, nil, err
		}
		switch filter.check(rec) {
		case admitted:
			pool = append(pool, stat)
		case rejectedBlacklist:
			diag.ExcludedByBlacklist++
		case rejectedCategory:
			diag.ExcludedByCategory++
		}
	}
	diag.CandidatesAfter = len(pool)

	lastModified := make(map[string]time.Time, len(sources))
	for _, src := range sources {
		lastModified[src.ID] = src.LastModified
	}
	weigh(pool, lastModified, decay, now)
	diag.WeightMin, diag.WeightMax, diag.WeightMean = weightStats(pool)

	picks, err := sample(pool, opts.Count, tolerance, opts.rand())
	if err != nil {
		return nil, diag, err
	}

	logger.Info("generated cube",
		"name", opts.Name,
		"category", opts.Category,
		"cards", len(picks),
		"candidates", len(pool),
		"sources", len(sources))

	return assemble(opts.Name, opts.Category, picks, agg.stats, opts.Seed, now), diag, nil
}
