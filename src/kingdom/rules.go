package kingdom

import (
	"slices"

	"github.com/lost-woods/kingdom/src/catalog"
)

// trigger adds components to a kingdom when its cards are drawn.
type trigger struct {
	name string
	// group is the catalog rule group checked; tag is used when group is empty.
	group string
	tag   catalog.Category
	// requires names a set that must be active for the trigger to fire.
	requires string
	// sample, when non-zero, checks only that many randomly chosen supply
	// cards instead of the whole supply.
	sample int
	// landscape also checks the landscape list.
	landscape bool
	labels    []string
}

// triggers are evaluated in order; the sampled ones draw from the entropy
// stream, so the order is part of what a seed reproduces.
var triggers = []trigger{
	{name: "shelters", group: catalog.GroupShelterLove, requires: "Dark Ages", sample: 2,
		labels: []string{"Dark Ages: Shelters"}},
	{name: "colonies", group: catalog.GroupPlatinumLove, requires: "Prosperity", sample: 2,
		labels: []string{"Prosperity: Colony", "Prosperity: Platinum"}},
	{name: "boulder traps", group: catalog.GroupTrapLove, requires: "Antiquities", sample: 1,
		labels: []string{"Antiquities: Boulder Traps"}},
	{name: "potions", tag: catalog.RequiresPotion, labels: []string{"Alchemy: Potions"}},
	{name: "ruins", group: catalog.GroupLooters, labels: []string{"Dark Ages: Ruins"}},
	{name: "madman", group: catalog.GroupMadman, labels: []string{"Dark Ages: Madman"}},
	{name: "mercenary", group: catalog.GroupMercenary, labels: []string{"Dark Ages: Mercenary"}},
	{name: "spoils", group: catalog.GroupSpoils, labels: []string{"Dark Ages: Spoils"}},
	{name: "prizes", group: catalog.GroupPrizes, labels: []string{
		"Cornucopia: Bag of Gold",
		"Cornucopia: Diadem",
		"Cornucopia: Followers",
		"Cornucopia: Princess",
		"Cornucopia: Trusty Steed",
	}},
	{name: "ghost", group: catalog.GroupGhost, labels: []string{"Nocturne: Ghost"}},
	{name: "boons", group: catalog.GroupBoons, labels: []string{"Nocturne: Boons Deck"}},
	{name: "hexes", group: catalog.GroupHexes, labels: []string{"Nocturne: Hexes Deck"}},
	{name: "will-o-wisp", group: catalog.GroupWisp, labels: []string{"Nocturne: Will-o-wisp"}},
	{name: "bat", group: catalog.GroupBat, labels: []string{"Nocturne: Bat"}},
	{name: "imp", group: catalog.GroupImp, labels: []string{"Nocturne: Imp"}},
	{name: "wish", group: catalog.GroupWishes, labels: []string{"Nocturne: Wish"}},
	{name: "horse", group: catalog.GroupHorse, landscape: true, labels: []string{"Menagerie: Horse"}},
}

// Evaluate returns the sorted component labels the draw calls for.
//
// Shelters, Colonies/Platinum and Boulder Traps only look at a random one or
// two of the ten supply cards, so the same supply can come back with or
// without them. The other triggers check the whole supply.
func (e *Engine) Evaluate(result catalog.Cards, landscape []catalog.Card, active []*catalog.CardSet) ([]string, error) {
	var labels []string
	for _, t := range triggers {
		if t.requires != "" && !isActive(active, t.requires) {
			continue
		}

		checked := result
		if t.sample > 0 {
			var err error
			checked, err = e.draw(result, min(t.sample, result.Len()), t.name+" check")
			if err != nil {
				return nil, err
			}
		}
		if t.landscape {
			checked = checked.Union(catalog.NewCards(landscape...))
		}

		var fired bool
		if t.group != "" {
			fired = checked.Overlaps(e.catalog.Group(t.group))
		} else {
			fired = checked.WithTag(t.tag).Len() > 0
		}
		if fired {
			e.log.Debugw("component triggered", "trigger", t.name)
			labels = append(labels, t.labels...)
		}
	}

	slices.Sort(labels)
	return slices.Compact(labels), nil
}
