package generate

import (
	"time"

	"cubeforge/internal/cube"
)

// weigh computes the sampling weight for each aggregated card:
// the sum over contributing sources of that source's recency factor.
// A card counts once per source, but each source's vote is scaled by
// how fresh it is. Weight therefore grows monotonically in both
// frequency and recency, and every per-source contribution stays above
// zero, so no contributing source is ever fully silenced.
//
// Weights are not normalized here; the sampler renormalizes against the
// shrinking pool on every draw.
func weigh(stats []*cube.AggregatedCardStat, lastModified map[string]time.Time, decay Decay, now time.Time) {
	for _, stat := range stats {
		weight := 0.0
		for _, sourceID := range stat.Sources {
			weight += decay.Factor(now.Sub(lastModified[sourceID]))
		}
		stat.Weight = weight
	}
}

// weightStats returns min, max, and mean weight across the pool, for
// the run diagnostics. Zero values for an empty pool.
func weightStats(pool []*cube.AggregatedCardStat) (min, max, mean float64) {
	if len(pool) == 0 {
		return 0, 0, 0
	}
	min = pool[0].Weight
	max = pool[0].Weight
	sum := 0.0
	for _, stat := range pool {
		if stat.Weight < min {
			min = stat.Weight
		}
		if stat.Weight > max {
			max = stat.Weight
		}
		sum += stat.Weight
	}
	return min, max, sum / float64(len(pool))
}
