package catalog

import (
	"fmt"
	"strings"
)

// Category is a bit set of card tags.
type Category uint8

const (
	Event Category = 1 << iota
	Landmark
	Project
	Way
	RequiresPotion
)

// Landscapes lists the landscape categories in draw order.
var Landscapes = []Category{Event, Landmark, Project, Way}

var categoryNames = map[Category]string{
	Event:          "Event",
	Landmark:       "Landmark",
	Project:        "Project",
	Way:            "Way",
	RequiresPotion: "Potion",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	var parts []string
	for bit := Event; bit <= RequiresPotion; bit <<= 1 {
		if c&bit != 0 {
			parts = append(parts, categoryNames[bit])
		}
	}
	return strings.Join(parts, "|")
}

// ParseCategory maps a catalog tag to its Category.
func ParseCategory(tag string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "event":
		return Event, nil
	case "landmark":
		return Landmark, nil
	case "project":
		return Project, nil
	case "way":
		return Way, nil
	case "potion":
		return RequiresPotion, nil
	}
	return 0, fmt.Errorf("unknown category %q", tag)
}

// Card is one kingdom or landscape card. Two cards are the same card when
// their display strings match.
type Card struct {
	Name string
	Set  string
	Tags Category
}

func (c Card) Has(tag Category) bool { return c.Tags&tag != 0 }

// Landscape returns the card's landscape category, if it has one.
func (c Card) Landscape() (Category, bool) {
	for _, l := range Landscapes {
		if c.Has(l) {
			return l, true
		}
	}
	return 0, false
}

// String renders "<Set>: <Name>", or "<Set> (<Category>): <Name>" for
// landscape cards.
func (c Card) String() string {
	if l, ok := c.Landscape(); ok {
		return fmt.Sprintf("%s (%s): %s", c.Set, l, c.Name)
	}
	return c.Set + ": " + c.Name
}
