package scryfall

import (
	"cubeforge/internal/catalog"
	"cubeforge/internal/cube"
)

// skippedLayouts lists card layouts that never belong in a cube list
// (tokens, emblems, art cards and the like).
var skippedLayouts = map[string]bool{
	"token":              true,
	"double_faced_token": true,
	"emblem":             true,
	"art_series":         true,
	"planar":             true,
	"scheme":             true,
	"vanguard":           true,
}

// ToCardRecord converts a bulk card into a catalog record with its
// eligibility tags, or ok=false for cards that cannot appear in cubes.
func ToCardRecord(bc BulkCard) (cube.CardRecord, bool) {
	if bc.Name == "" || skippedLayouts[bc.Layout] {
		return cube.CardRecord{}, false
	}

	rec := cube.CardRecord{
		Identity:    cube.CardIdentity{Name: catalog.NormalizeName(bc.Name)},
		DisplayName: bc.Name,
		Tags:        cardTags(bc),
	}
	return rec, true
}

// cardTags derives the category eligibility tags from the card's
// printed attributes.
func cardTags(bc BulkCard) []cube.Tag {
	var tags []cube.Tag

	silver := bc.BorderColor == "silver" || bc.SetType == "funny"
	if silver {
		tags = append(tags, cube.TagSilverBordered)
		return tags
	}

	if bc.Legalities["vintage"] == "legal" || bc.Legalities["vintage"] == "restricted" {
		tags = append(tags, cube.TagVintage)
	}
	if bc.Legalities["commander"] == "legal" {
		tags = append(tags, cube.TagCommander)
	}

	switch bc.Rarity {
	case "common":
		tags = append(tags, cube.TagPauper, cube.TagPeasant, cube.TagBudget)
	case "uncommon":
		tags = append(tags, cube.TagPeasant, cube.TagBudget)
	}

	return tags
}
