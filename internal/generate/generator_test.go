package generate

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"cubeforge/internal/catalog"
	"cubeforge/internal/cube"
)

var testNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testCatalog builds a catalog of vintage-tagged cards named card-0,
// card-1, and so on.
func testCatalog(t *testing.T, n int) *catalog.Catalog {
	t.Helper()
	records := make([]cube.CardRecord, n)
	for i := range records {
		name := fmt.Sprintf("card-%d", i)
		records[i] = cube.CardRecord{
			Identity:    cube.CardIdentity{Name: name},
			DisplayName: name,
			Tags:        []cube.Tag{cube.TagVintage},
		}
	}
	cat, err := catalog.New(records)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return cat
}

// sourceWith returns a source cube holding the named cards.
func sourceWith(id string, modified time.Time, names ...string) cube.SourceCube {
	return cube.SourceCube{ID: id, Cards: names, LastModified: modified}
}

func cardNames(from, to int) []string {
	names := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		names = append(names, fmt.Sprintf("card-%d", i))
	}
	return names
}

func floatPtr(v float64) *float64 { return &v }

func baseOptions(count int) Options {
	return Options{
		Name:     "test-cube",
		Category: cube.CategoryVintage,
		Count:    count,
		Now:      testNow,
		Logger:   discardLogger(),
	}
}

func TestRunPoolEqualToTargetReturnsWholePool(t *testing.T) {
	cat := testCatalog(t, 20)
	sources := []cube.SourceCube{
		sourceWith("s1", testNow, cardNames(0, 20)...),
		sourceWith("s2", testNow, cardNames(0, 20)...),
	}

	generated, diag, err := Run(cat, sources, baseOptions(20))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(generated.Cards) != 20 {
		t.Errorf("got %d cards, want the full pool of 20", len(generated.Cards))
	}
	if diag.CandidatesAfter != 20 {
		t.Errorf("diagnostics report %d candidates, want 20", diag.CandidatesAfter)
	}
}

func TestRunPoolBelowLowerBoundFails(t *testing.T) {
	cat := testCatalog(t, 10)
	sources := []cube.SourceCube{
		sourceWith("s1", testNow, cardNames(0, 10)...),
	}

	generated, _, err := Run(cat, sources, baseOptions(40))
	var insufficient *InsufficientCandidatesError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Run() error = %v, want InsufficientCandidatesError", err)
	}
	if generated != nil {
		t.Errorf("Run() returned a partial artifact alongside the error")
	}
	if insufficient.Admissible != 10 || insufficient.Target != 40 {
		t.Errorf("error counts = %+v, want admissible 10 target 40", insufficient)
	}
}

func TestRunZeroToleranceDemandsExactCount(t *testing.T) {
	cat := testCatalog(t, 9)
	sources := []cube.SourceCube{
		sourceWith("s1", testNow, cardNames(0, 9)...),
	}

	// Nine admissible candidates cannot satisfy an exact count of ten.
	opts := baseOptions(10)
	opts.Tolerance = floatPtr(0)

	_, _, err := Run(cat, sources, opts)
	var insufficient *InsufficientCandidatesError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Run() error = %v, want InsufficientCandidatesError", err)
	}
	if insufficient.Minimum != 10 {
		t.Errorf("Minimum = %d, want 10: zero tolerance must not widen the window", insufficient.Minimum)
	}

	// With exactly ten candidates the same options succeed.
	cat = testCatalog(t, 10)
	sources = []cube.SourceCube{sourceWith("s1", testNow, cardNames(0, 10)...)}
	generated, _, err := Run(cat, sources, opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(generated.Cards) != 10 {
		t.Errorf("got %d cards, want exactly 10", len(generated.Cards))
	}
}

func TestRunEmptySourceSet(t *testing.T) {
	cat := testCatalog(t, 5)

	_, _, err := Run(cat, nil, baseOptions(5))
	var empty *EmptySourceSetError
	if !errors.As(err, &empty) {
		t.Fatalf("Run() error = %v, want EmptySourceSetError", err)
	}
}

func TestRunInvalidOptions(t *testing.T) {
	cat := testCatalog(t, 5)
	sources := []cube.SourceCube{sourceWith("s1", testNow, "card-0")}

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{name: "zero count", mutate: func(o *Options) { o.Count = 0 }},
		{name: "negative count", mutate: func(o *Options) { o.Count = -3 }},
		{name: "tolerance at one", mutate: func(o *Options) { o.Tolerance = floatPtr(1) }},
		{name: "negative tolerance", mutate: func(o *Options) { o.Tolerance = floatPtr(-0.1) }},
		{name: "unknown category", mutate: func(o *Options) { o.Category = "Modern" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := baseOptions(5)
			tt.mutate(&opts)

			_, _, err := Run(cat, sources, opts)
			var invalid *InvalidConfigurationError
			if !errors.As(err, &invalid) {
				t.Fatalf("Run() error = %v, want InvalidConfigurationError", err)
			}
		})
	}
}

func TestRunBlacklistRemovesUbiquitousCard(t *testing.T) {
	cat := testCatalog(t, 30)
	// card-0 appears in 4 of 5 sources and would otherwise be the
	// heaviest candidate by far.
	sources := []cube.SourceCube{
		sourceWith("s1", testNow, append([]string{"card-0"}, cardNames(1, 25)...)...),
		sourceWith("s2", testNow, "card-0", "card-1", "card-2"),
		sourceWith("s3", testNow, "card-0", "card-3", "card-4"),
		sourceWith("s4", testNow, "card-0", "card-5", "card-6"),
		sourceWith("s5", testNow, cardNames(7, 20)...),
	}

	opts := baseOptions(20)
	opts.Blacklist = []string{"Card-0"}

	generated, diag, err := Run(cat, sources, opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, id := range generated.Cards {
		if id.Name == "card-0" {
			t.Fatalf("blacklisted card sampled despite appearing in 4 of 5 sources")
		}
	}
	if diag.ExcludedByBlacklist != 1 {
		t.Errorf("diagnostics report %d blacklist exclusions, want 1", diag.ExcludedByBlacklist)
	}
}

func TestRunCountsOncePerSource(t *testing.T) {
	cat := testCatalog(t, 25)
	// s1 runs five copies of card-0; frequency must still be 1 source.
	sources := []cube.SourceCube{
		sourceWith("s1", testNow, "card-0", "card-0", "card-0", "card-0", "card-0"),
		sourceWith("s2", testNow, cardNames(0, 25)...),
	}

	generated, _, err := Run(cat, sources, baseOptions(25))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	stat := generated.Provenance[cube.CardIdentity{Name: "card-0"}]
	if stat == nil {
		t.Fatal("card-0 missing from provenance")
	}
	if stat.SourceCount != 2 {
		t.Errorf("card-0 SourceCount = %d, want 2 (multiples within one source count once)", stat.SourceCount)
	}
}

func TestRunSkipsUnresolvedNames(t *testing.T) {
	cat := testCatalog(t, 10)
	sources := []cube.SourceCube{
		sourceWith("s1", testNow, append(cardNames(0, 10), "No Such Card", "No Such Card")...),
	}

	generated, diag, err := Run(cat, sources, baseOptions(10))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(generated.Cards) != 10 {
		t.Errorf("got %d cards, want 10", len(generated.Cards))
	}
	if len(diag.UnresolvedNames) != 1 || diag.UnresolvedNames[0] != "No Such Card" {
		t.Errorf("UnresolvedNames = %v, want the one unknown name recorded once", diag.UnresolvedNames)
	}
}

func TestRunDeterministicWithSeed(t *testing.T) {
	cat := testCatalog(t, 120)
	mkSources := func() []cube.SourceCube {
		return []cube.SourceCube{
			sourceWith("s1", testNow.Add(-10*24*time.Hour), cardNames(0, 80)...),
			sourceWith("s2", testNow.Add(-300*24*time.Hour), cardNames(40, 120)...),
			sourceWith("s3", testNow.Add(-700*24*time.Hour), cardNames(20, 100)...),
		}
	}

	seed := int64(1337)
	opts := baseOptions(60)
	opts.Seed = &seed

	first, _, err := Run(cat, mkSources(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	second, _, err := Run(cat, mkSources(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(first.Cards) != len(second.Cards) {
		t.Fatalf("seeded runs differ in size: %d vs %d", len(first.Cards), len(second.Cards))
	}
	for i := range first.Cards {
		if first.Cards[i] != second.Cards[i] {
			t.Fatalf("seeded runs diverge at index %d: %s vs %s", i, first.Cards[i], second.Cards[i])
		}
	}
}

func TestRunOutputWithinToleranceAndAdmissible(t *testing.T) {
	cat := testCatalog(t, 200)
	sources := []cube.SourceCube{
		sourceWith("s1", testNow, cardNames(0, 150)...),
		sourceWith("s2", testNow.Add(-100*24*time.Hour), cardNames(50, 200)...),
	}

	opts := baseOptions(100)
	opts.Tolerance = floatPtr(0.1)
	opts.Blacklist = []string{"card-7"}

	generated, diag, err := Run(cat, sources, opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(generated.Cards) != 100 {
		t.Errorf("got %d cards, want exactly the target 100 from an abundant pool", len(generated.Cards))
	}

	filter := NewFilter(cat, opts.Category, opts.Blacklist)
	seen := make(map[cube.CardIdentity]struct{})
	for _, id := range generated.Cards {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate %s in output", id)
		}
		seen[id] = struct{}{}

		rec, err := cat.AttributesOf(id)
		if err != nil {
			t.Fatalf("output card %s not in catalog: %v", id, err)
		}
		if !filter.Admissible(rec) {
			t.Errorf("output card %s is not admissible", id)
		}

		if generated.Provenance[id] == nil {
			t.Errorf("output card %s has no provenance", id)
		}
	}

	if diag.ExcludedByBlacklist != 1 {
		t.Errorf("diagnostics report %d blacklist exclusions, want 1", diag.ExcludedByBlacklist)
	}
	if diag.CandidatesBefore != 200 || diag.CandidatesAfter != 199 {
		t.Errorf("diagnostics candidates = %d/%d, want 200/199", diag.CandidatesBefore, diag.CandidatesAfter)
	}
	if diag.WeightMax < diag.WeightMin || diag.WeightMean <= 0 {
		t.Errorf("implausible weight stats: min %v max %v mean %v", diag.WeightMin, diag.WeightMax, diag.WeightMean)
	}
}

func TestRunCategoryFiltering(t *testing.T) {
	records := []cube.CardRecord{
		{Identity: cube.CardIdentity{Name: "gray ogre"}, DisplayName: "Gray Ogre",
			Tags: []cube.Tag{cube.TagVintage, cube.TagPauper, cube.TagPeasant}},
		{Identity: cube.CardIdentity{Name: "shivan dragon"}, DisplayName: "Shivan Dragon",
			Tags: []cube.Tag{cube.TagVintage}},
		{Identity: cube.CardIdentity{Name: "chaos orb"}, DisplayName: "Chaos Orb",
			Tags: []cube.Tag{cube.TagVintage}},
	}
	cat, err := catalog.New(records)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}

	sources := []cube.SourceCube{
		sourceWith("s1", testNow, "Gray Ogre", "Shivan Dragon", "Chaos Orb"),
	}

	opts := baseOptions(1)
	opts.Category = cube.CategoryPauper
	opts.Tolerance = floatPtr(0.5)

	generated, diag, err := Run(cat, sources, opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(generated.Cards) != 1 || generated.Cards[0].Name != "gray ogre" {
		t.Errorf("pauper run selected %v, want only the common", generated.Cards)
	}
	if diag.ExcludedByCategory != 2 {
		t.Errorf("diagnostics report %d category exclusions, want 2", diag.ExcludedByCategory)
	}
}
