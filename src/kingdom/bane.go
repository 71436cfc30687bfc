package kingdom

import (
	"github.com/lost-woods/kingdom/src/catalog"
	"github.com/lost-woods/kingdom/src/errs"
	"github.com/lost-woods/kingdom/src/rng"
)

// ResolveBane picks the bane pile when the supply holds a card that needs one
// (Young Witch). The bane is never one of the returned supply cards.
//
// When every bane-eligible card of the pool is already in the supply, one
// more card is drawn into the supply and one of its bane-eligible cards is
// moved out to become the bane, so the supply stays at ten.
func (e *Engine) ResolveBane(result, pull catalog.Cards) (catalog.Cards, *catalog.Card, error) {
	if !result.Overlaps(e.catalog.Group(catalog.GroupBaneRequired)) {
		return result, nil, nil
	}
	banes := e.catalog.Group(catalog.GroupBanes)

	if eligible := pull.Intersect(banes).Minus(result); eligible.Len() > 0 {
		bane, err := rng.Pick(e.sampler, eligible.Slice())
		if err != nil {
			return result, nil, err
		}
		return result, &bane, nil
	}

	// Prefer giving up a card the pool could replace; Alchemy top-up cards
	// are outside the pool and keep their count.
	candidates := result.Intersect(banes).Intersect(pull)
	if candidates.Len() == 0 {
		candidates = result.Intersect(banes)
	}
	if candidates.Len() == 0 {
		return result, nil, errs.New(errs.CodeConfiguration, "a bane is required but no bane-eligible card is available")
	}

	e.log.Debugw("no free bane; swapping one out of the supply", "supply", result.Len())
	extra, err := e.draw(pull.Minus(result), 1, "bane replacement")
	if err != nil {
		return result, nil, err
	}
	bane, err := rng.Pick(e.sampler, candidates.Slice())
	if err != nil {
		return result, nil, err
	}

	result = result.Union(extra).Minus(catalog.NewCards(bane))
	return result, &bane, nil
}
