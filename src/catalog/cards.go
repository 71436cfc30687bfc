package catalog

import (
	"slices"
	"strings"
)

// Cards is an immutable set of cards ordered by display string. Every
// operation returns a new value, so a Cards can be shared between requests.
// The fixed order is what makes seeded draws reproducible.
type Cards struct {
	items []Card
	keys  []string
}

func NewCards(cards ...Card) Cards {
	if len(cards) == 0 {
		return Cards{}
	}
	items := make([]Card, len(cards))
	copy(items, cards)
	slices.SortFunc(items, func(a, b Card) int { return strings.Compare(a.String(), b.String()) })
	items = slices.CompactFunc(items, func(a, b Card) bool { return a.String() == b.String() })

	keys := make([]string, len(items))
	for i, c := range items {
		keys[i] = c.String()
	}
	return Cards{items: items, keys: keys}
}

func (c Cards) Len() int { return len(c.items) }

// Slice returns the cards in order. The caller owns the returned slice.
func (c Cards) Slice() []Card { return slices.Clone(c.items) }

// Strings returns the display strings in order.
func (c Cards) Strings() []string { return slices.Clone(c.keys) }

func (c Cards) Contains(card Card) bool {
	_, ok := slices.BinarySearch(c.keys, card.String())
	return ok
}

// ContainsByName reports whether any card is called name, whatever its set.
func (c Cards) ContainsByName(name string) bool {
	return slices.ContainsFunc(c.items, func(card Card) bool { return card.Name == name })
}

// FilterByNames returns the cards called any of names.
func (c Cards) FilterByNames(names ...string) Cards {
	return c.Filter(func(card Card) bool { return slices.Contains(names, card.Name) })
}

func (c Cards) Filter(keep func(Card) bool) Cards {
	var out []Card
	for _, card := range c.items {
		if keep(card) {
			out = append(out, card)
		}
	}
	return NewCards(out...)
}

// WithTag returns the cards carrying tag.
func (c Cards) WithTag(tag Category) Cards {
	return c.Filter(func(card Card) bool { return card.Has(tag) })
}

func (c Cards) Union(others ...Cards) Cards {
	all := slices.Clone(c.items)
	for _, o := range others {
		all = append(all, o.items...)
	}
	return NewCards(all...)
}

func (c Cards) Intersect(o Cards) Cards {
	return c.Filter(o.Contains)
}

func (c Cards) Minus(o Cards) Cards {
	return c.Filter(func(card Card) bool { return !o.Contains(card) })
}

// Overlaps reports whether c and o share at least one card.
func (c Cards) Overlaps(o Cards) bool {
	return slices.ContainsFunc(c.items, o.Contains)
}
