package kingdom_test

import (
	"crypto/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lost-woods/kingdom/src/catalog"
	"github.com/lost-woods/kingdom/src/errs"
	"github.com/lost-woods/kingdom/src/kingdom"
	"github.com/lost-woods/kingdom/src/rng"
)

func newEngine(t *testing.T, opts ...kingdom.EngineOption) *kingdom.Engine {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return kingdom.New(c, rng.NewSampler(rng.NewSeededReader(1), nil), zap.NewNop().Sugar(), opts...)
}

func countSet(cards []catalog.Card, set string) int {
	n := 0
	for _, c := range cards {
		if c.Set == set {
			n++
		}
	}
	return n
}

func TestRandomize_Invariants(t *testing.T) {
	e := newEngine(t)

	for seed := uint64(0); seed < 300; seed++ {
		k, err := e.WithSeed(seed).Randomize(nil, nil)
		require.NoError(t, err, "seed %d", seed)

		require.Len(t, k.Cards, kingdom.KingdomSize, "seed %d", seed)
		seen := map[string]bool{}
		for _, c := range k.Cards {
			_, isLandscape := c.Landscape()
			assert.False(t, isLandscape, "seed %d: landscape card %s in supply", seed, c)
			assert.False(t, seen[c.String()], "seed %d: duplicate %s", seed, c)
			seen[c.String()] = true
		}

		assert.LessOrEqual(t, len(k.Landscape), kingdom.MaxLandscapes, "seed %d", seed)
		for _, c := range k.Landscape {
			_, isLandscape := c.Landscape()
			assert.True(t, isLandscape, "seed %d: %s is not a landscape", seed, c)
		}

		alchemy := countSet(k.Cards, "Alchemy")
		assert.True(t, alchemy == 0 || alchemy >= 3, "seed %d: %d Alchemy cards", seed, alchemy)

		if k.Bane != nil {
			assert.False(t, seen[k.Bane.String()], "seed %d: bane %s is also in the supply", seed, k.Bane)
		}
	}
}

func TestRandomizeKingdom_SameSeedSameOutput(t *testing.T) {
	e := newEngine(t)

	first, err := e.WithSeed(42).RandomizeKingdom(nil, nil)
	require.NoError(t, err)
	second, err := e.WithSeed(42).RandomizeKingdom(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := e.WithSeed(43).RandomizeKingdom(nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestRandomizeKingdom_InactiveSetsNeverTrigger(t *testing.T) {
	e := newEngine(t)

	var sets []string
	for _, name := range e.Catalog().SetNames() {
		if name != "Dark Ages" && name != "Prosperity" {
			sets = append(sets, name)
		}
	}

	for seed := uint64(0); seed < 200; seed++ {
		lines, err := e.WithSeed(seed).RandomizeKingdom(sets, nil)
		require.NoError(t, err)
		for _, line := range lines {
			assert.NotContains(t, line, "Dark Ages", "seed %d", seed)
			assert.NotContains(t, line, "Prosperity", "seed %d", seed)
		}
	}
}

func TestRandomizeKingdom_BaseOnly(t *testing.T) {
	e := newEngine(t)
	base, ok := e.Catalog().Set("Base")
	require.True(t, ok)

	secondEditionSeen := map[string]bool{}
	for seed := uint64(0); seed < 200; seed++ {
		lines, err := e.WithSeed(seed).RandomizeKingdom([]string{"Base"}, nil)
		require.NoError(t, err)
		require.Len(t, lines, 10)
		for _, line := range lines {
			require.True(t, strings.HasPrefix(line, "Base: "), "seed %d: %q", seed, line)
			name := strings.TrimPrefix(line, "Base: ")
			assert.False(t, base.FirstEdition().ContainsByName(name), "seed %d: first edition %s drawn", seed, name)
			if base.SecondEdition().ContainsByName(name) {
				secondEditionSeen[name] = true
			}
		}
	}
	assert.Len(t, secondEditionSeen, base.SecondEdition().Len())
}

func TestRandomizeKingdom_EditionOptions(t *testing.T) {
	e := newEngine(t)
	base, _ := e.Catalog().Set("Base")

	opts, err := kingdom.ParseOptions([]string{"base-first-edition", "base-second-edition=false"})
	require.NoError(t, err)

	firstSeen := false
	for seed := uint64(0); seed < 100; seed++ {
		k, err := e.WithSeed(seed).Randomize([]string{"Base"}, opts)
		require.NoError(t, err)
		for _, c := range k.Cards {
			assert.False(t, base.SecondEdition().Contains(c), "seed %d: second edition %s drawn", seed, c)
			if base.FirstEdition().Contains(c) {
				firstSeen = true
			}
		}
	}
	assert.True(t, firstSeen, "first edition cards never drawn")

	// Toggles are request scoped.
	assert.Equal(t, 26, base.Cards().Len())
	k, err := e.WithSeed(7).Randomize([]string{"Intrigue"}, opts)
	require.NoError(t, err)
	assert.Len(t, k.Cards, 10)
}

func TestRandomizeKingdom_OptionKeysIgnoreCase(t *testing.T) {
	e := newEngine(t)
	base, _ := e.Catalog().Set("Base")
	opts := kingdom.Options{"Base-First-Edition": true, "BASE-SECOND-EDITION": false}

	firstSeen := false
	for seed := uint64(0); seed < 100; seed++ {
		k, err := e.WithSeed(seed).Randomize([]string{"Base"}, opts)
		require.NoError(t, err)
		for _, c := range k.Cards {
			assert.False(t, base.SecondEdition().Contains(c), "seed %d: second edition %s drawn", seed, c)
			firstSeen = firstSeen || base.FirstEdition().Contains(c)
		}
	}
	assert.True(t, firstSeen, "first edition cards never drawn")
}

func TestRandomizeKingdom_YoungWitchGetsBane(t *testing.T) {
	e := newEngine(t)
	banes := e.Catalog().Group(catalog.GroupBanes)

	found := 0
	for seed := uint64(0); seed < 300; seed++ {
		lines, err := e.WithSeed(seed).RandomizeKingdom([]string{"Cornucopia", "Base"}, nil)
		require.NoError(t, err)

		var baneLines []string
		hasWitch := false
		for _, line := range lines {
			if strings.HasPrefix(line, kingdom.BanePrefix) {
				baneLines = append(baneLines, line)
			}
			if line == "Cornucopia: Young Witch" {
				hasWitch = true
			}
		}
		if !hasWitch {
			assert.Empty(t, baneLines, "seed %d", seed)
			continue
		}
		found++

		require.Len(t, baneLines, 1, "seed %d", seed)
		assert.Equal(t, baneLines[0], lines[len(lines)-1], "seed %d: bane line must be last", seed)
		bane := strings.TrimPrefix(baneLines[0], kingdom.BanePrefix)
		assert.NotContains(t, lines[:len(lines)-1], bane, "seed %d", seed)
		assert.Contains(t, banes.Strings(), bane, "seed %d", seed)
	}
	assert.NotZero(t, found, "Young Witch never drawn")
}

func TestRandomize_CornucopiaOnlyAlwaysFindsBane(t *testing.T) {
	// 13 cards, three of them bane-eligible: the swap fallback is exercised
	// whenever all three land in the supply next to Young Witch.
	e := newEngine(t)

	for seed := uint64(0); seed < 300; seed++ {
		k, err := e.WithSeed(seed).Randomize([]string{"Cornucopia"}, nil)
		require.NoError(t, err, "seed %d", seed)
		require.Len(t, k.Cards, 10)

		if k.Bane == nil {
			continue
		}
		for _, c := range k.Cards {
			assert.NotEqual(t, k.Bane.String(), c.String(), "seed %d", seed)
		}
	}
}

func TestRandomize_Errors(t *testing.T) {
	e := newEngine(t)

	_, err := e.Randomize([]string{}, nil)
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	_, err = e.Randomize([]string{"Not A Set"}, nil)
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	// Unknown names next to known ones are ignored.
	k, err := e.Randomize([]string{"Not A Set", "Seaside"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Seaside"}, k.Sets)

	// Landscape cards never count towards the ten.
	_, err = kingdom.New(fixtureCatalog(t, landscapeOnly), rng.NewSampler(rng.NewSeededReader(1), nil),
		zap.NewNop().Sugar()).Randomize(nil, nil)
	assert.ErrorIs(t, err, errs.ErrConfiguration)
}

func TestRandomize_LandscapeShare(t *testing.T) {
	none := newEngine(t, kingdom.WithLandscapeShare(rng.Fraction{Num: 0, Den: 1}))
	for seed := uint64(0); seed < 50; seed++ {
		k, err := none.WithSeed(seed).Randomize(nil, nil)
		require.NoError(t, err)
		assert.Empty(t, k.Landscape)
	}

	// With a larger share some kingdoms get landscapes.
	some := newEngine(t, kingdom.WithLandscapeShare(rng.Fraction{Num: 1, Den: 4}))
	got := 0
	for seed := uint64(0); seed < 50; seed++ {
		k, err := some.WithSeed(seed).Randomize([]string{"Menagerie", "Empires"}, nil)
		require.NoError(t, err)
		got += len(k.Landscape)
	}
	assert.NotZero(t, got)
}

func TestRandomize_ConcurrentCallers(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	e := kingdom.New(c, rng.NewSampler(rng.NewLockedReader(rand.Reader), nil), zap.NewNop().Sugar())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				k, err := e.Randomize(nil, kingdom.Options{"base-first-edition": j%2 == 0})
				if err != nil {
					t.Error(err)
					return
				}
				if len(k.Cards) != kingdom.KingdomSize {
					t.Errorf("got %d cards", len(k.Cards))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestParseOptions(t *testing.T) {
	opts, err := kingdom.ParseOptions([]string{"Base-First-Edition", "intrigue-second-edition=false", " ", "x=1"})
	require.NoError(t, err)
	assert.Equal(t, kingdom.Options{
		"base-first-edition":      true,
		"intrigue-second-edition": false,
		"x":                       true,
	}, opts)

	_, err = kingdom.ParseOptions([]string{"base-first-edition=maybe"})
	assert.Error(t, err)
}

func TestKingdom_Lines(t *testing.T) {
	bane := catalog.Card{Name: "Moat", Set: "Base"}
	k := &kingdom.Kingdom{
		Cards: []catalog.Card{
			{Name: "Witch", Set: "Base"},
			{Name: "Young Witch", Set: "Cornucopia"},
			{Name: "Altar", Set: "Dark Ages"},
		},
		Components: []string{"Dark Ages: Shelters", "Alchemy: Potions"},
		Landscape: []catalog.Card{
			{Name: "Wall", Set: "Empires", Tags: catalog.Landmark},
			{Name: "Alms", Set: "Adventures", Tags: catalog.Event},
		},
		Bane: &bane,
	}

	assert.Equal(t, []string{
		"Alchemy: Potions",
		"Base: Witch",
		"Cornucopia: Young Witch",
		"Dark Ages: Altar",
		"Dark Ages: Shelters",
		"Empires (Landmark): Wall",
		"Adventures (Event): Alms",
		"Bane is Base: Moat",
	}, k.Lines())
}
