package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/lost-woods/kingdom/src/errs"
)

//go:embed data/catalog.yaml
var defaultData []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog, parsed on first use.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load(bytes.NewReader(defaultData))
	})
	return defaultCatalog, defaultErr
}

type document struct {
	Sets   []setDoc            `yaml:"sets"`
	Groups map[string]groupDoc `yaml:"groups"`
}

type setDoc struct {
	Name          string    `yaml:"name"`
	Cards         []cardDoc `yaml:"cards"`
	FirstEdition  []cardDoc `yaml:"first_edition"`
	SecondEdition []string  `yaml:"second_edition"`
}

// cardDoc accepts either a bare card name or {name, tags}.
type cardDoc struct {
	Name string   `yaml:"name"`
	Tags []string `yaml:"tags"`
}

func (c *cardDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.Name = node.Value
		return nil
	}
	type plain cardDoc
	return node.Decode((*plain)(c))
}

type groupDoc struct {
	Sets    []string            `yaml:"sets"`
	Cards   map[string][]string `yaml:"cards"`
	Include []string            `yaml:"include"`
}

// Load parses a catalog document and precomputes its rule groups. Any
// reference to a set or card the document does not define is a data
// integrity error.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.CodeDataIntegrity, "parse catalog", err)
	}

	c := &Catalog{
		sets:      make(map[string]*CardSet, len(doc.Sets)),
		groups:    make(map[string]Cards, len(doc.Groups)),
		landscape: make(map[Category]Cards, len(Landscapes)),
	}

	for _, sd := range doc.Sets {
		set, err := buildSet(sd)
		if err != nil {
			return nil, err
		}
		if _, dup := c.sets[set.name]; dup {
			return nil, integrity("duplicate set", map[string]string{"set": set.name})
		}
		c.sets[set.name] = set
		c.order = append(c.order, set.name)
	}

	for _, l := range Landscapes {
		var cards Cards
		for _, name := range c.order {
			cards = cards.Union(c.sets[name].cards.WithTag(l))
		}
		c.landscape[l] = cards
	}

	b := groupBuilder{catalog: c, docs: doc.Groups, state: map[string]int{}}
	names := make([]string, 0, len(doc.Groups))
	for name := range doc.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := b.build(name); err != nil {
			return nil, err
		}
	}

	for _, name := range RequiredGroups {
		if _, ok := c.groups[name]; !ok {
			return nil, integrity("missing rule group", map[string]string{"group": name})
		}
	}

	return c, nil
}

func buildSet(sd setDoc) (*CardSet, error) {
	if sd.Name == "" {
		return nil, integrity("set without a name", nil)
	}

	base, err := buildCards(sd.Name, sd.Cards)
	if err != nil {
		return nil, err
	}
	first, err := buildCards(sd.Name, sd.FirstEdition)
	if err != nil {
		return nil, err
	}
	if base.Overlaps(first) {
		return nil, integrity("first edition card also in base collection", map[string]string{"set": sd.Name})
	}

	var second []Card
	for _, name := range sd.SecondEdition {
		found := base.FilterByNames(name)
		if found.Len() == 0 {
			return nil, integrity("second edition card not in set", map[string]string{"set": sd.Name, "card": name})
		}
		second = append(second, found.Slice()...)
	}

	return &CardSet{
		name:          sd.Name,
		cards:         base,
		firstEdition:  first,
		secondEdition: NewCards(second...),
	}, nil
}

func buildCards(set string, docs []cardDoc) (Cards, error) {
	cards := make([]Card, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for _, cd := range docs {
		if cd.Name == "" {
			return Cards{}, integrity("card without a name", map[string]string{"set": set})
		}
		if seen[cd.Name] {
			return Cards{}, integrity("duplicate card", map[string]string{"set": set, "card": cd.Name})
		}
		seen[cd.Name] = true

		var tags Category
		for _, t := range cd.Tags {
			cat, err := ParseCategory(t)
			if err != nil {
				return Cards{}, errs.WithMetadata(errs.CodeDataIntegrity, err.Error(),
					map[string]string{"set": set, "card": cd.Name})
			}
			tags |= cat
		}
		cards = append(cards, Card{Name: cd.Name, Set: set, Tags: tags})
	}
	return NewCards(cards...), nil
}

const (
	building = 1
	built    = 2
)

type groupBuilder struct {
	catalog *Catalog
	docs    map[string]groupDoc
	state   map[string]int
}

func (b *groupBuilder) build(name string) (Cards, error) {
	switch b.state[name] {
	case built:
		return b.catalog.groups[name], nil
	case building:
		return Cards{}, integrity("rule group include cycle", map[string]string{"group": name})
	}

	gd, ok := b.docs[name]
	if !ok {
		return Cards{}, integrity("unknown rule group", map[string]string{"group": name})
	}
	b.state[name] = building

	var group Cards
	for _, inc := range gd.Include {
		cards, err := b.build(inc)
		if err != nil {
			return Cards{}, err
		}
		group = group.Union(cards)
	}

	for _, setName := range gd.Sets {
		set, ok := b.catalog.sets[setName]
		if !ok {
			return Cards{}, integrity("rule group names unknown set", map[string]string{"group": name, "set": setName})
		}
		group = group.Union(set.cards)
	}

	for setName, cardNames := range gd.Cards {
		set, ok := b.catalog.sets[setName]
		if !ok {
			return Cards{}, integrity("rule group names unknown set", map[string]string{"group": name, "set": setName})
		}
		for _, cardName := range cardNames {
			found := set.cards.FilterByNames(cardName)
			if found.Len() == 0 {
				return Cards{}, integrity(
					fmt.Sprintf("rule group %s names %q, which %s does not contain", name, cardName, setName),
					map[string]string{"group": name, "set": setName, "card": cardName})
			}
			group = group.Union(found)
		}
	}

	b.catalog.groups[name] = group
	b.state[name] = built
	return group, nil
}

func integrity(message string, metadata map[string]string) *errs.Error {
	return errs.WithMetadata(errs.CodeDataIntegrity, message, metadata)
}
