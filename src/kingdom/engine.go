// Package kingdom draws a random, rule-consistent Kingdom: ten supply cards,
// up to two landscape cards, the extra components those cards require, and a
// bane pile when one is needed.
package kingdom

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/lost-woods/kingdom/src/catalog"
	"github.com/lost-woods/kingdom/src/errs"
	"github.com/lost-woods/kingdom/src/rng"
)

// KingdomSize is the number of supply cards in every kingdom.
const KingdomSize = 10

// MaxLandscapes caps Events, Landmarks, Projects and Ways combined.
const MaxLandscapes = 2

// DefaultLandscapeShare is the share of the pool sampled per landscape
// category when deciding whether that category shows up.
var DefaultLandscapeShare = rng.Fraction{Num: 1, Den: 10}

// Options are per-request edition toggles keyed "<set>-first-edition" and
// "<set>-second-edition". Keys match case-insensitively.
type Options map[string]bool

// ParseOptions turns "key" or "key=bool" strings into Options.
func ParseOptions(raw []string) (Options, error) {
	opts := make(Options, len(raw))
	for _, r := range raw {
		key, value, hasValue := strings.Cut(strings.TrimSpace(r), "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		v := true
		if hasValue {
			b, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("option %s: %w", key, err)
			}
			v = b
		}
		opts[key] = v
	}
	return opts, nil
}

// get looks key up ignoring case; keys built by hand need not be lowercase.
func (o Options) get(key string, fallback bool) bool {
	if v, ok := o[key]; ok {
		return v
	}
	for k, v := range o {
		if strings.EqualFold(strings.TrimSpace(k), key) {
			return v
		}
	}
	return fallback
}

type Engine struct {
	catalog        *catalog.Catalog
	sampler        *rng.Sampler
	landscapeShare rng.Fraction
	log            *zap.SugaredLogger
}

type EngineOption func(*Engine)

// WithLandscapeShare overrides DefaultLandscapeShare.
func WithLandscapeShare(f rng.Fraction) EngineOption {
	return func(e *Engine) { e.landscapeShare = f }
}

func New(c *catalog.Catalog, s *rng.Sampler, log *zap.SugaredLogger, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog:        c,
		sampler:        s,
		landscapeShare: DefaultLandscapeShare,
		log:            log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithSeed returns a copy of e drawing from a private deterministic stream.
func (e *Engine) WithSeed(seed uint64) *Engine {
	cp := *e
	cp.sampler = rng.NewSampler(rng.NewSeededReader(seed), nil)
	return &cp
}

func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Kingdom is one resolved selection.
type Kingdom struct {
	Sets       []string
	Cards      []catalog.Card
	Landscape  []catalog.Card
	Components []string
	Bane       *catalog.Card
}

// Randomize draws a kingdom from the named sets; nil means every set and
// unknown names are ignored.
func (e *Engine) Randomize(setNames []string, opts Options) (*Kingdom, error) {
	active := e.activeSets(setNames)
	if len(active) == 0 {
		return nil, errs.New(errs.CodeConfiguration, "no known sets selected")
	}

	st, err := e.Select(active, opts)
	if err != nil {
		return nil, err
	}

	st.Result, st.Bane, err = e.ResolveBane(st.Result, st.Pull)
	if err != nil {
		return nil, err
	}

	st.Triggers, err = e.Evaluate(st.Result, st.Landscape, st.Active)
	if err != nil {
		return nil, err
	}

	return st.kingdom(), nil
}

// RandomizeKingdom is Randomize rendered as display lines.
func (e *Engine) RandomizeKingdom(setNames []string, opts Options) ([]string, error) {
	k, err := e.Randomize(setNames, opts)
	if err != nil {
		return nil, err
	}
	return k.Lines(), nil
}

func (e *Engine) activeSets(names []string) []*catalog.CardSet {
	if names == nil {
		return e.catalog.Sets()
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.TrimSpace(n)] = true
	}
	var active []*catalog.CardSet
	for _, s := range e.catalog.Sets() {
		if want[s.Name()] {
			active = append(active, s)
		}
	}
	return active
}
