// Package catalog holds the read-only card catalog: every set, its cards and
// editions, and the named rule groups the randomizer intersects draws with.
//
// A Catalog is built once by Load and never mutated afterwards, so it is safe
// for unlimited concurrent readers.
package catalog

import (
	"slices"
	"strings"
)

// Rule group names the kingdom engine relies on. Load fails when one is
// missing from the catalog document.
const (
	GroupPlatinumLove = "platinum_love"
	GroupShelterLove  = "shelter_love"
	GroupTrapLove     = "trap_love"
	GroupLooters      = "looter_cards"
	GroupSpoils       = "spoils_cards"
	GroupBoons        = "boon_cards"
	GroupHexes        = "hex_cards"
	GroupWishes       = "wish_cards"
	GroupBanes        = "bane_cards"
	GroupBaneRequired = "bane_required"
	GroupMadman       = "madman"
	GroupMercenary    = "mercenary"
	GroupPrizes       = "prizes"
	GroupGhost        = "ghost"
	GroupWisp         = "will_o_wisp"
	GroupBat          = "bat"
	GroupImp          = "imp"
	GroupHorse        = "horse"
)

var RequiredGroups = []string{
	GroupPlatinumLove, GroupShelterLove, GroupTrapLove, GroupLooters,
	GroupSpoils, GroupBoons, GroupHexes, GroupWishes, GroupBanes,
	GroupBaneRequired, GroupMadman, GroupMercenary, GroupPrizes, GroupGhost,
	GroupWisp, GroupBat, GroupImp, GroupHorse,
}

// CardSet is one expansion. Its first edition holds legacy cards that are
// not part of the base collection; its second edition is the subset of the
// base collection that only exists in the second printing.
type CardSet struct {
	name          string
	cards         Cards
	firstEdition  Cards
	secondEdition Cards
}

func (s *CardSet) Name() string         { return s.name }
func (s *CardSet) Cards() Cards         { return s.cards }
func (s *CardSet) FirstEdition() Cards  { return s.firstEdition }
func (s *CardSet) SecondEdition() Cards { return s.secondEdition }

func (s *CardSet) HasEditions() bool {
	return s.firstEdition.Len() > 0 || s.secondEdition.Len() > 0
}

// Slug is the option prefix for the set, e.g. "dark-ages".
func (s *CardSet) Slug() string {
	return strings.ReplaceAll(strings.ToLower(s.name), " ", "-")
}

func (s *CardSet) FirstEditionKey() string  { return s.Slug() + "-first-edition" }
func (s *CardSet) SecondEditionKey() string { return s.Slug() + "-second-edition" }

// Pool returns the cards this set contributes to a draw. The set itself is
// left untouched.
func (s *CardSet) Pool(withFirstEdition, withSecondEdition bool) Cards {
	pool := s.cards
	if withFirstEdition {
		pool = pool.Union(s.firstEdition)
	}
	if !withSecondEdition {
		pool = pool.Minus(s.secondEdition)
	}
	return pool
}

type Catalog struct {
	sets      map[string]*CardSet
	order     []string
	groups    map[string]Cards
	landscape map[Category]Cards
}

// Set looks up a set by its exact name.
func (c *Catalog) Set(name string) (*CardSet, bool) {
	s, ok := c.sets[name]
	return s, ok
}

// Sets returns every set in catalog order.
func (c *Catalog) Sets() []*CardSet {
	out := make([]*CardSet, len(c.order))
	for i, name := range c.order {
		out[i] = c.sets[name]
	}
	return out
}

func (c *Catalog) SetNames() []string { return slices.Clone(c.order) }

// Group returns a rule group; unknown names yield an empty set.
func (c *Catalog) Group(name string) Cards { return c.groups[name] }

func (c *Catalog) GroupNames() []string {
	names := make([]string, 0, len(c.groups))
	for name := range c.groups {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Landscape returns every catalog card of one landscape category.
func (c *Catalog) Landscape(cat Category) Cards { return c.landscape[cat] }

// LandscapeCards returns every Event, Landmark, Project and Way.
func (c *Catalog) LandscapeCards() Cards {
	var all Cards
	for _, l := range Landscapes {
		all = all.Union(c.landscape[l])
	}
	return all
}
