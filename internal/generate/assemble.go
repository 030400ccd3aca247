package generate

import (
	"time"

	"cubeforge/internal/cube"
)

// assemble packages the sampled identities into the output artifact,
// mapping each pick back to the statistic that earned its inclusion.
// Pure transformation; persistence belongs to the caller.
func assemble(name string, category cube.Category, picks []cube.CardIdentity,
	stats map[cube.CardIdentity]*cube.AggregatedCardStat, seed *int64, now time.Time) *cube.GeneratedCube {

	provenance := make(map[cube.CardIdentity]*cube.AggregatedCardStat, len(picks))
	for _, id := range picks {
		provenance[id] = stats[id]
	}

	return &cube.GeneratedCube{
		Name:        name,
		Category:    category,
		Cards:       picks,
		Provenance:  provenance,
		Seed:        seed,
		GeneratedAt: now,
	}
}
