package catalog

import (
	"fmt"

	"cubeforge/internal/cube"
)

// UnknownCardError indicates a raw name that could not be resolved to
// any card in the catalog snapshot. Callers decide whether to skip the
// occurrence or abort; the resolver never drops names silently.
type UnknownCardError struct {
	Name       string
	Suggestion string // closest catalog name, empty if nothing plausible
}

func (e *UnknownCardError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown card %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown card %q", e.Name)
}

// NotFoundError indicates an attribute lookup for an identity that is
// not in the catalog snapshot. Since identities are only produced by
// Resolve, this is a data-integrity fault rather than bad input.
type NotFoundError struct {
	Identity cube.CardIdentity
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("card %s not in catalog snapshot", e.Identity)
}
