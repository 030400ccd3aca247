// Package cube defines the value types shared by the cube generation
// pipeline: card identities, source cube lists, aggregated statistics,
// and the generated cube artifact.
package cube

import (
	"fmt"
	"time"
)

// CardIdentity is the canonical key for a card. Name is the normalized
// card name (lowercase, collapsed whitespace); Printing optionally pins
// a specific printing by set code and is empty for most cards.
type CardIdentity struct {
	Name     string
	Printing string
}

// String returns a human-readable form of the identity.
func (id CardIdentity) String() string {
	if id.Printing != "" {
		return fmt.Sprintf("%s (%s)", id.Name, id.Printing)
	}
	return id.Name
}

// CardRecord carries the static attributes of a card needed for
// filtering: its identity, the display name as published, and the set
// of category tags the card is eligible for.
type CardRecord struct {
	Identity    CardIdentity
	DisplayName string
	Tags        []Tag
}

// HasTag reports whether the record carries the given tag.
func (r CardRecord) HasTag(tag Tag) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SourceCube is one curator's published card list. Cards holds the raw
// card names exactly as published; resolution against the catalog
// happens at the start of a generation run. A name may repeat if the
// source allows multiples.
type SourceCube struct {
	ID           string
	Cards        []string
	LastModified time.Time
	Category     string // declared category, may be empty
}

// AggregatedCardStat is the derived per-card statistic across all
// source cubes. A card appearing multiple times within one source
// counts once toward SourceCount.
type AggregatedCardStat struct {
	Identity    CardIdentity
	SourceCount int
	Sources     []string
	LastSeen    time.Time // most recent LastModified among contributing sources
	Weight      float64
}

// GeneratedCube is the output artifact: the sampled card set plus
// per-card provenance, consumed by downstream persistence and analysis.
type GeneratedCube struct {
	Name        string
	Category    Category
	Cards       []CardIdentity
	Provenance  map[CardIdentity]*AggregatedCardStat
	Seed        *int64
	GeneratedAt time.Time
}

// Diagnostics summarizes a generation run so that callers can audit
// filtering and sampling behavior without re-deriving it.
type Diagnostics struct {
	SourceCount         int
	UnresolvedNames     []string
	CandidatesBefore    int
	CandidatesAfter     int
	ExcludedByBlacklist int
	ExcludedByCategory  int
	WeightMin           float64
	WeightMax           float64
	WeightMean          float64
}
