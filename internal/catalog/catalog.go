// Package catalog provides the canonical card registry used to resolve
// raw card names from source cubes into stable identities.
package catalog

import (
	"fmt"

	"cubeforge/internal/catalog/fuzzy"
	"cubeforge/internal/cube"
)

// Catalog is an immutable card registry. It is built once per run and
// treated as read-only afterwards; all lookups are deterministic.
type Catalog struct {
	byName  map[string]cube.CardIdentity
	records map[cube.CardIdentity]cube.CardRecord
	names   []string // normalized names, for suggestions
}

// New builds a catalog from a snapshot of card records. Records must
// carry normalized identities; duplicate identities are rejected.
func New(records []cube.CardRecord) (*Catalog, error) {
	c := &Catalog{
		byName:  make(map[string]cube.CardIdentity, len(records)),
		records: make(map[cube.CardIdentity]cube.CardRecord, len(records)),
		names:   make([]string, 0, len(records)),
	}

	for _, rec := range records {
		if rec.Identity.Name == "" {
			return nil, fmt.Errorf("card record with empty name (display name %q)", rec.DisplayName)
		}
		if _, exists := c.records[rec.Identity]; exists {
			return nil, fmt.Errorf("duplicate card record for %s", rec.Identity)
		}
		c.records[rec.Identity] = rec

		if _, taken := c.byName[rec.Identity.Name]; !taken {
			c.byName[rec.Identity.Name] = rec.Identity
			c.names = append(c.names, rec.Identity.Name)
		}

		// Index the front face of double-faced cards so that lists
		// publishing only the front half still resolve.
		if front := NormalizeName(frontFace(rec.Identity.Name)); front != rec.Identity.Name {
			if _, taken := c.byName[front]; !taken {
				c.byName[front] = rec.Identity
			}
		}
	}

	return c, nil
}

// Resolve maps a raw card name to its canonical identity. Resolution is
// deterministic and idempotent: resolving the display name of a
// resolved identity yields the same identity. Unknown names fail with
// *UnknownCardError.
func (c *Catalog) Resolve(rawName string) (cube.CardIdentity, error) {
	normalized := NormalizeName(rawName)
	if id, ok := c.byName[normalized]; ok {
		return id, nil
	}
	if id, ok := c.byName[NormalizeName(frontFace(normalized))]; ok {
		return id, nil
	}

	suggestion, _ := fuzzy.Suggest(normalized, c.names)
	return cube.CardIdentity{}, &UnknownCardError{Name: rawName, Suggestion: suggestion}
}

// AttributesOf returns the record for a resolved identity. Fails with
// *NotFoundError if the identity is not in the snapshot.
func (c *Catalog) AttributesOf(id cube.CardIdentity) (cube.CardRecord, error) {
	rec, ok := c.records[id]
	if !ok {
		return cube.CardRecord{}, &NotFoundError{Identity: id}
	}
	return rec, nil
}

// Size returns the number of records in the snapshot.
func (c *Catalog) Size() int {
	return len(c.records)
}
