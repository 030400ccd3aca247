package generate

import (
	"math"

	"cubeforge/internal/cube"
)

// Rand is the randomness source for sampling. *math/rand.Rand satisfies
// it; tests inject fixed sequences. The generator instantiates one
// source per run and never shares it across runs.
type Rand interface {
	Float64() float64
}

// sizeBounds returns the tolerance window around the target count.
func sizeBounds(target int, tolerance float64) (low, high int) {
	low = int(math.Floor(float64(target) * (1 - tolerance)))
	high = int(math.Ceil(float64(target) * (1 + tolerance)))
	return low, high
}

// sample draws up to target cards from the pool without replacement,
// with per-draw probability proportional to current weight. If the pool
// holds fewer than target but at least low candidates, the whole pool
// is returned: a cube smaller than nominal but within tolerance is an
// accepted outcome. A pool smaller than low fails with
// *InsufficientCandidatesError.
//
// Ties in weight are broken only by the draw's own randomness; there is
// no secondary ordering key, so no alphabetical or insertion-order bias
// can creep in.
func sample(pool []*cube.AggregatedCardStat, target int, tolerance float64, rng Rand) ([]cube.CardIdentity, error) {
	low, _ := sizeBounds(target, tolerance)

	if len(pool) < low {
		return nil, &InsufficientCandidatesError{
			Admissible: len(pool),
			Minimum:    low,
			Target:     target,
		}
	}

	if len(pool) <= target {
		picks := make([]cube.CardIdentity, len(pool))
		for i, stat := range pool {
			picks[i] = stat.Identity
		}
		return picks, nil
	}

	// Draw, remove, renormalize. The pool slice is consumed in place:
	// a drawn candidate is swapped with the last live element.
	remaining := make([]*cube.AggregatedCardStat, len(pool))
	copy(remaining, pool)

	total := 0.0
	for _, stat := range remaining {
		total += stat.Weight
	}

	picks := make([]cube.CardIdentity, 0, target)
	for len(picks) < target {
		idx := drawOne(remaining, total, rng)
		picks = append(picks, remaining[idx].Identity)
		total -= remaining[idx].Weight
		remaining[idx] = remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
	}

	return picks, nil
}

// drawOne picks an index from the live pool with probability
// proportional to weight. Accumulated floating point error can leave
// the roll past the final bucket; the last live index absorbs it.
func drawOne(remaining []*cube.AggregatedCardStat, total float64, rng Rand) int {
	if total <= 0 {
		// Degenerate pool; fall back to a uniform draw.
		return int(rng.Float64() * float64(len(remaining)))
	}

	roll := rng.Float64() * total
	for i, stat := range remaining {
		roll -= stat.Weight
		if roll < 0 {
			return i
		}
	}
	return len(remaining) - 1
}
