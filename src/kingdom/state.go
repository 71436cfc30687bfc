package kingdom

import (
	"slices"

	"github.com/lost-woods/kingdom/src/catalog"
)

// State is the working selection of one Randomize call. It is never shared
// between calls.
type State struct {
	Active    []*catalog.CardSet
	Complete  catalog.Cards
	Pull      catalog.Cards
	Result    catalog.Cards
	Landscape []catalog.Card
	Triggers  []string
	Bane      *catalog.Card
}

func isActive(active []*catalog.CardSet, name string) bool {
	return slices.ContainsFunc(active, func(s *catalog.CardSet) bool { return s.Name() == name })
}

func (st *State) kingdom() *Kingdom {
	k := &Kingdom{
		Cards:      st.Result.Slice(),
		Landscape:  slices.Clone(st.Landscape),
		Components: slices.Clone(st.Triggers),
		Bane:       st.Bane,
	}
	for _, s := range st.Active {
		k.Sets = append(k.Sets, s.Name())
	}
	return k
}
