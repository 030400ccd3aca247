package cube

import "fmt"

// Category is a cube format category as declared on CubeCobra.
type Category string

// Supported cube categories.
const (
	CategoryVintage        Category = "Vintage"
	CategoryPowered        Category = "Powered"
	CategoryUnpowered      Category = "Unpowered"
	CategoryPauper         Category = "Pauper"
	CategoryPeasant        Category = "Peasant"
	CategoryBudget         Category = "Budget"
	CategorySilverBordered Category = "Silver-bordered"
	CategoryCommander      Category = "Commander"
	CategoryBattleBox      Category = "Battle Box"
	CategoryMultiplayer    Category = "Multiplayer"
	CategoryJudgeTower     Category = "Judge Tower"
)

// Tag marks a card as eligible for a class of cube categories. Tags are
// assigned when the catalog snapshot is built from card attributes
// (rarity, border, format legality).
type Tag string

// Card eligibility tags.
const (
	TagVintage        Tag = "vintage"         // legal in vintage
	TagPauper         Tag = "pauper"          // printed at common
	TagPeasant        Tag = "peasant"         // printed at common or uncommon
	TagBudget         Tag = "budget"          // low-cost printing exists
	TagSilverBordered Tag = "silver-bordered" // silver-bordered / acorn card
	TagCommander      Tag = "commander"       // legal in commander
)

// categoryTags maps each cube category to the card tags it accepts.
// Casual multiplayer formats accept anything vintage-legal; the
// restricted formats narrow by rarity or border.
var categoryTags = map[Category][]Tag{
	CategoryVintage:        {TagVintage},
	CategoryPowered:        {TagVintage},
	CategoryUnpowered:      {TagVintage},
	CategoryPauper:         {TagPauper},
	CategoryPeasant:        {TagPauper, TagPeasant},
	CategoryBudget:         {TagBudget, TagPauper, TagPeasant},
	CategorySilverBordered: {TagSilverBordered},
	CategoryCommander:      {TagCommander},
	CategoryBattleBox:      {TagVintage},
	CategoryMultiplayer:    {TagVintage},
	CategoryJudgeTower:     {TagVintage},
}

// ParseCategory validates a category string from configuration.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := categoryTags[c]; !ok {
		return "", fmt.Errorf("unknown cube category %q", s)
	}
	return c, nil
}

// AcceptedTags returns the card tags accepted by the category.
func (c Category) AcceptedTags() []Tag {
	return categoryTags[c]
}

// Categories returns all supported categories. Primarily for help text
// and validation messages.
func Categories() []Category {
	return []Category{
		CategoryVintage,
		CategoryPowered,
		CategoryUnpowered,
		CategoryPauper,
		CategoryPeasant,
		CategoryBudget,
		CategorySilverBordered,
		CategoryCommander,
		CategoryBattleBox,
		CategoryMultiplayer,
		CategoryJudgeTower,
	}
}
