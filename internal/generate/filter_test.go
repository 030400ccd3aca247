package generate

import (
	"testing"

	"cubeforge/internal/catalog"
	"cubeforge/internal/cube"
)

func filterCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]cube.CardRecord{
		{Identity: cube.CardIdentity{Name: "sol ring"}, DisplayName: "Sol Ring",
			Tags: []cube.Tag{cube.TagVintage, cube.TagPauper}},
		{Identity: cube.CardIdentity{Name: "lightning bolt"}, DisplayName: "Lightning Bolt",
			Tags: []cube.Tag{cube.TagVintage, cube.TagPauper}},
		{Identity: cube.CardIdentity{Name: "counterspell"}, DisplayName: "Counterspell",
			Tags: []cube.Tag{cube.TagVintage, cube.TagPauper, cube.TagPeasant}},
		{Identity: cube.CardIdentity{Name: "fire // ice"}, DisplayName: "Fire // Ice",
			Tags: []cube.Tag{cube.TagVintage, cube.TagPauper}},
	})
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return cat
}

func TestFilterCheck(t *testing.T) {
	filter := NewFilter(filterCatalog(t), cube.CategoryPauper, []string{"Sol Ring", "  LIGHTNING   bolt "})

	tests := []struct {
		name string
		rec  cube.CardRecord
		want rejectReason
	}{
		{
			name: "admissible common",
			rec: cube.CardRecord{
				Identity: cube.CardIdentity{Name: "counterspell"},
				Tags:     []cube.Tag{cube.TagVintage, cube.TagPauper, cube.TagPeasant},
			},
			want: admitted,
		},
		{
			name: "blacklisted exactly",
			rec: cube.CardRecord{
				Identity: cube.CardIdentity{Name: "sol ring"},
				Tags:     []cube.Tag{cube.TagVintage, cube.TagPauper},
			},
			want: rejectedBlacklist,
		},
		{
			name: "blacklist entries are normalized",
			rec: cube.CardRecord{
				Identity: cube.CardIdentity{Name: "lightning bolt"},
				Tags:     []cube.Tag{cube.TagVintage, cube.TagPauper},
			},
			want: rejectedBlacklist,
		},
		{
			name: "wrong category",
			rec: cube.CardRecord{
				Identity: cube.CardIdentity{Name: "black lotus"},
				Tags:     []cube.Tag{cube.TagVintage},
			},
			want: rejectedCategory,
		},
		{
			name: "blacklist wins over category mismatch",
			rec: cube.CardRecord{
				Identity: cube.CardIdentity{Name: "sol ring", Printing: "lea"},
				Tags:     []cube.Tag{},
			},
			want: rejectedBlacklist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter.check(tt.rec); got != tt.want {
				t.Errorf("check(%v) = %v, want %v", tt.rec.Identity, got, tt.want)
			}
		})
	}
}

func TestFilterResolvesBlacklistAliases(t *testing.T) {
	// "Fire" is only a front face; the catalog resolves it to the full
	// split card, and the ban must follow the resolved identity.
	filter := NewFilter(filterCatalog(t), cube.CategoryPauper, []string{"Fire"})

	rec := cube.CardRecord{
		Identity: cube.CardIdentity{Name: "fire // ice"},
		Tags:     []cube.Tag{cube.TagVintage, cube.TagPauper},
	}
	if got := filter.check(rec); got != rejectedBlacklist {
		t.Errorf("check(%v) = %v, want rejectedBlacklist via the front-face alias", rec.Identity, got)
	}
}

func TestFilterUnresolvableBlacklistEntryMatchesByName(t *testing.T) {
	filter := NewFilter(filterCatalog(t), cube.CategoryPauper, []string{"Not A Real Card"})

	rec := cube.CardRecord{
		Identity: cube.CardIdentity{Name: "not a real card"},
		Tags:     []cube.Tag{cube.TagPauper},
	}
	if got := filter.check(rec); got != rejectedBlacklist {
		t.Errorf("check(%v) = %v, want rejectedBlacklist by normalized name", rec.Identity, got)
	}
}

func TestFilterAdmissiblePureAndOrderIndependent(t *testing.T) {
	filter := NewFilter(filterCatalog(t), cube.CategoryVintage, []string{"channel"})
	rec := cube.CardRecord{
		Identity: cube.CardIdentity{Name: "ancestral recall"},
		Tags:     []cube.Tag{cube.TagVintage},
	}

	// Repeated checks must not change the outcome or any weight state;
	// the filter holds no per-card mutable data.
	for i := 0; i < 3; i++ {
		if !filter.Admissible(rec) {
			t.Fatalf("Admissible changed across calls on iteration %d", i)
		}
	}
}
