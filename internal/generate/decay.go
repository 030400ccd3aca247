package generate

import (
	"math"
	"time"
)

// minFactor is the floor for any recency factor. A source must never
// lose all influence purely from age; it still reflects a real played
// cube.
const minFactor = 1e-9

// Decay converts the age of a source cube into a recency factor in
// (0, 1]. Implementations must be monotonically non-increasing in age.
type Decay interface {
	Factor(age time.Duration) float64
}

// ExponentialDecay halves a source's influence every HalfLife. This is
// the default strategy.
type ExponentialDecay struct {
	HalfLife time.Duration
}

// DefaultDecay returns an exponential decay with a one-year half-life.
func DefaultDecay() Decay {
	return ExponentialDecay{HalfLife: 365 * 24 * time.Hour}
}

// Factor implements Decay.
func (d ExponentialDecay) Factor(age time.Duration) float64 {
	if age <= 0 {
		return 1
	}
	f := math.Exp2(-float64(age) / float64(d.HalfLife))
	return clampFactor(f)
}

// HyperbolicDecay scales influence as 1/(1 + age/Scale), decaying
// faster than exponential at first and slower in the long tail.
type HyperbolicDecay struct {
	Scale time.Duration
}

// Factor implements Decay.
func (d HyperbolicDecay) Factor(age time.Duration) float64 {
	if age <= 0 {
		return 1
	}
	f := 1 / (1 + float64(age)/float64(d.Scale))
	return clampFactor(f)
}

func clampFactor(f float64) float64 {
	if f < minFactor {
		return minFactor
	}
	if f > 1 {
		return 1
	}
	return f
}
