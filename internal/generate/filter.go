package generate

import (
	"cubeforge/internal/catalog"
	"cubeforge/internal/cube"
)

// rejectReason classifies why a candidate was excluded from the pool.
type rejectReason int

const (
	admitted rejectReason = iota
	rejectedBlacklist
	rejectedCategory
)

// Filter decides candidate admissibility from the blacklist and the
// target category's accepted tag set. Filtering is pure and
// order-independent: it never touches weights, so filtering before or
// after weighting yields identical weights for surviving cards.
type Filter struct {
	blacklist map[string]struct{}
	accepted  map[cube.Tag]struct{}
}

// NewFilter builds a filter for the target category. Blacklist entries
// are resolved through the catalog so that any alias of a card (a
// front-face name, a variant spelling) bans the card itself; entries
// the catalog cannot resolve are matched by their normalized form.
func NewFilter(cat *catalog.Catalog, category cube.Category, blacklist []string) *Filter {
	f := &Filter{
		blacklist: make(map[string]struct{}, len(blacklist)),
		accepted:  make(map[cube.Tag]struct{}),
	}
	for _, entry := range blacklist {
		if cat != nil {
			if id, err := cat.Resolve(entry); err == nil {
				f.blacklist[id.Name] = struct{}{}
			}
		}
		f.blacklist[catalog.NormalizeName(entry)] = struct{}{}
	}
	for _, tag := range category.AcceptedTags() {
		f.accepted[tag] = struct{}{}
	}
	return f
}

// Admissible reports whether the card may enter the candidate pool.
func (f *Filter) Admissible(rec cube.CardRecord) bool {
	return f.check(rec) == admitted
}

// check returns the admission decision with the rejection reason, used
// by the run diagnostics. The blacklist is consulted first, matching
// the excluded-count semantics reported to callers.
func (f *Filter) check(rec cube.CardRecord) rejectReason {
	if _, banned := f.blacklist[rec.Identity.Name]; banned {
		return rejectedBlacklist
	}
	for _, tag := range rec.Tags {
		if _, ok := f.accepted[tag]; ok {
			return admitted
		}
	}
	return rejectedCategory
}
