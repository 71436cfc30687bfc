package kingdom

import (
	"errors"
	"fmt"

	"github.com/lost-woods/kingdom/src/catalog"
	"github.com/lost-woods/kingdom/src/errs"
	"github.com/lost-woods/kingdom/src/rng"
)

// alchemySet is the sub-pool that must appear either not at all or with at
// least three cards.
const alchemySet = "Alchemy"

// Select builds the request pool from the active sets and draws the
// landscape list and the ten supply cards.
func (e *Engine) Select(active []*catalog.CardSet, opts Options) (*State, error) {
	st := &State{Active: active}

	var complete catalog.Cards
	for _, s := range active {
		pool := s.Cards()
		if s.HasEditions() {
			pool = s.Pool(opts.get(s.FirstEditionKey(), false), opts.get(s.SecondEditionKey(), true))
		}
		complete = complete.Union(pool)
	}
	st.Complete = complete

	if err := e.drawLandscape(st); err != nil {
		return nil, err
	}
	if err := e.drawSupply(st); err != nil {
		return nil, err
	}
	return st, nil
}

// drawLandscape samples a share of the whole pool once per landscape
// category and keeps one card of that category when the sample holds an odd
// number of them. It is a prevalence heuristic: categories that make up more
// of the pool show up more often. At most MaxLandscapes survive.
func (e *Engine) drawLandscape(st *State) error {
	share := e.landscapeShare.Of(st.Complete.Len())

	var candidates []catalog.Card
	for _, cat := range catalog.Landscapes {
		sample, err := e.sample(st.Complete, share, "landscape sample")
		if err != nil {
			return err
		}
		hits := catalog.NewCards(sample...).Intersect(e.catalog.Landscape(cat))
		if hits.Len()%2 == 0 {
			continue
		}
		picked, err := e.sample(hits, 1, "landscape pick")
		if err != nil {
			return err
		}
		candidates = append(candidates, picked...)
	}

	landscape, err := rng.Sample(e.sampler, candidates, min(len(candidates), MaxLandscapes))
	if err != nil {
		return err
	}
	st.Landscape = landscape
	return nil
}

// drawSupply draws the ten supply cards and enforces the Alchemy rule.
func (e *Engine) drawSupply(st *State) error {
	st.Pull = st.Complete.Minus(e.catalog.LandscapeCards())

	result, err := e.draw(st.Pull, KingdomSize, "kingdom draw")
	if err != nil {
		return err
	}

	var alchemy catalog.Cards
	if s, ok := e.catalog.Set(alchemySet); ok {
		alchemy = s.Cards().Intersect(st.Pull)
	}

	switch count := result.Intersect(alchemy).Len(); count {
	case 1:
		// A lone Alchemy card is not worth its Potion: drop the set and redraw.
		e.log.Debugw("redrawing without alchemy", "alchemy_cards", count)
		st.Pull = st.Pull.Minus(alchemy)
		result, err = e.draw(st.Pull, KingdomSize, "kingdom redraw without "+alchemySet)
		if err != nil {
			return err
		}
	case 2:
		e.log.Debugw("topping up alchemy", "alchemy_cards", count)
		three, err := e.draw(alchemy, 3, alchemySet+" top-up")
		if err != nil {
			return err
		}
		st.Pull = st.Pull.Minus(alchemy)
		rest, err := e.draw(st.Pull, KingdomSize-3, "kingdom redraw around "+alchemySet)
		if err != nil {
			return err
		}
		result = three.Union(rest)
	}

	st.Result = result
	return nil
}

func (e *Engine) draw(pool catalog.Cards, k int, what string) (catalog.Cards, error) {
	cards, err := e.sample(pool, k, what)
	if err != nil {
		return catalog.Cards{}, err
	}
	return catalog.NewCards(cards...), nil
}

// sample draws k cards from pool in draw order. A pool too small for the
// draw is a configuration error.
func (e *Engine) sample(pool catalog.Cards, k int, what string) ([]catalog.Card, error) {
	cards, err := rng.Sample(e.sampler, pool.Slice(), k)
	if errors.Is(err, rng.ErrSampleTooLarge) {
		return nil, errs.WithMetadata(errs.CodeConfiguration,
			fmt.Sprintf("%s needs %d cards but only %d are available", what, k, pool.Len()),
			map[string]string{"step": what})
	}
	return cards, err
}
