package generate

import (
	"log/slog"
	"sort"

	"cubeforge/internal/catalog"
	"cubeforge/internal/cube"
)

// aggregation holds the cross-source statistics for one run, keyed by
// resolved card identity, plus the names that failed to resolve.
type aggregation struct {
	stats      map[cube.CardIdentity]*cube.AggregatedCardStat
	unresolved []string
}

// aggregate resolves every card occurrence in the given sources against
// the catalog and folds them into per-card statistics. A card counts
// once per source regardless of how many copies the source runs. Names
// the catalog cannot resolve are skipped, logged, and recorded; they
// never count toward frequency.
func aggregate(cat *catalog.Catalog, sources []cube.SourceCube, logger *slog.Logger) *aggregation {
	agg := &aggregation{
		stats: make(map[cube.CardIdentity]*cube.AggregatedCardStat),
	}
	unresolvedSeen := make(map[string]struct{})

	for _, src := range sources {
		seen := make(map[cube.CardIdentity]struct{}, len(src.Cards))

		for _, raw := range src.Cards {
			id, err := cat.Resolve(raw)
			if err != nil {
				logger.Warn("skipping unresolved card name",
					"name", raw, "source", src.ID, "error", err)
				if _, dup := unresolvedSeen[raw]; !dup {
					unresolvedSeen[raw] = struct{}{}
					agg.unresolved = append(agg.unresolved, raw)
				}
				continue
			}

			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			stat, ok := agg.stats[id]
			if !ok {
				stat = &cube.AggregatedCardStat{Identity: id}
				agg.stats[id] = stat
			}
			stat.SourceCount++
			stat.Sources = append(stat.Sources, src.ID)
			if src.LastModified.After(stat.LastSeen) {
				stat.LastSeen = src.LastModified
			}
		}
	}

	sort.Strings(agg.unresolved)
	return agg
}

// sortedStats returns the aggregated statistics as a slice in a stable
// order, so that seeded runs are reproducible regardless of map
// iteration order.
func (a *aggregation) sortedStats() []*cube.AggregatedCardStat {
	stats := make([]*cube.AggregatedCardStat, 0, len(a.stats))
	for _, stat := range a.stats {
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Identity.Name != stats[j].Identity.Name {
			return stats[i].Identity.Name < stats[j].Identity.Name
		}
		return stats[i].Identity.Printing < stats[j].Identity.Printing
	})
	return stats
}
