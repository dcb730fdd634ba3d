// Package params models validated search parameters.
package params

// Parameter defaults. Ranking is a convenience surface, so out-of-range
// values are clamped rather than rejected.
const (
	// DefaultMaxResults is the cap on returned items when unset.
	DefaultMaxResults = 10
	// DefaultMinScore is the relevance floor below which items are dropped.
	DefaultMinScore = 0.1
)

// Params is a validated, immutable search parameter set.
type Params struct {
	maxResults     int
	minScore       float64
	boostPopular   bool
	boostAvailable bool
	fuzzy          bool
}

// Defaults returns the default parameter set: maxResults=10, minScore=0.1,
// popularity and availability boosts on, fuzzy matching on.
func Defaults() Params {
	return Params{
		maxResults:     DefaultMaxResults,
		minScore:       DefaultMinScore,
		boostPopular:   true,
		boostAvailable: true,
		fuzzy:          true,
	}
}

// New creates a parameter set from explicit values. Negative maxResults
// clamps to zero (zero results), negative minScore clamps to zero.
func New(maxResults int, minScore float64, boostPopular, boostAvailable, fuzzy bool) Params {
	if maxResults < 0 {
		maxResults = 0
	}
	if minScore < 0 {
		minScore = 0
	}
	return Params{
		maxResults:     maxResults,
		minScore:       minScore,
		boostPopular:   boostPopular,
		boostAvailable: boostAvailable,
		fuzzy:          fuzzy,
	}
}

// MaxResults returns the cap on returned items.
func (p Params) MaxResults() int { return p.maxResults }

// MinScore returns the relevance floor.
func (p Params) MinScore() float64 { return p.minScore }

// BoostPopular reports whether popular items get the popularity boost.
func (p Params) BoostPopular() bool { return p.boostPopular }

// BoostAvailable reports whether available items get the availability boost.
func (p Params) BoostAvailable() bool { return p.boostAvailable }

// Fuzzy reports whether approximate matching (prefix + edit distance) is on.
func (p Params) Fuzzy() bool { return p.fuzzy }

// Config is a partial parameter set as carried over the wire or in a config
// file; nil fields take defaults, so partial configuration is always valid.
type Config struct {
	MaxResults     *int     `json:"max_results,omitempty" yaml:"max_results,omitempty"`
	MinScore       *float64 `json:"min_score,omitempty" yaml:"min_score,omitempty"`
	BoostPopular   *bool    `json:"boost_popular,omitempty" yaml:"boost_popular,omitempty"`
	BoostAvailable *bool    `json:"boost_available,omitempty" yaml:"boost_available,omitempty"`
	EnableFuzzy    *bool    `json:"enable_fuzzy,omitempty" yaml:"enable_fuzzy,omitempty"`
}

// Override returns a copy of c with o's non-nil fields taking precedence.
func (c Config) Override(o Config) Config {
	if o.MaxResults != nil {
		c.MaxResults = o.MaxResults
	}
	if o.MinScore != nil {
		c.MinScore = o.MinScore
	}
	if o.BoostPopular != nil {
		c.BoostPopular = o.BoostPopular
	}
	if o.BoostAvailable != nil {
		c.BoostAvailable = o.BoostAvailable
	}
	if o.EnableFuzzy != nil {
		c.EnableFuzzy = o.EnableFuzzy
	}
	return c
}

// Params resolves the partial config against the defaults.
func (c Config) Params() Params {
	p := Defaults()
	if c.MaxResults != nil {
		p.maxResults = *c.MaxResults
		if p.maxResults < 0 {
			p.maxResults = 0
		}
	}
	if c.MinScore != nil {
		p.minScore = *c.MinScore
		if p.minScore < 0 {
			p.minScore = 0
		}
	}
	if c.BoostPopular != nil {
		p.boostPopular = *c.BoostPopular
	}
	if c.BoostAvailable != nil {
		p.boostAvailable = *c.BoostAvailable
	}
	if c.EnableFuzzy != nil {
		p.fuzzy = *c.EnableFuzzy
	}
	return p
}
