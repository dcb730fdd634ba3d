// Package compact derives the minimal catalog projection used for scoring
// and for low-token transmission to a language model.
package compact

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/calliope-systems/shelfrank/internal/domain/catalog"
)

// MinimalItem is the lossy fixed-shape projection of a catalog item.
// The single-letter JSON keys are deliberate: the projection exists to
// shrink the payload sent inside an LLM prompt.
type MinimalItem struct {
	Title     string   `json:"t"`
	Creator   string   `json:"c,omitempty"`
	Subjects  []string `json:"s,omitempty"`
	Available int      `json:"av"`
	Rating    float64  `json:"r,omitempty"`
	Year      int      `json:"y,omitempty"`
}

// Stats summarizes the size effect of compacting the whole catalog.
type Stats struct {
	ItemCount      int `json:"item_count"`
	OriginalBytes  int `json:"original_bytes"`
	CompactBytes   int `json:"compact_bytes"`
	OriginalTokens int `json:"original_tokens"`
	CompactTokens  int `json:"compact_tokens"`
}

// Savings estimates the token reduction for sending n compact projections
// instead of n full records.
type Savings struct {
	OriginalTokens int     `json:"original_tokens"`
	CompactTokens  int     `json:"compact_tokens"`
	Percentage     float64 `json:"percentage"`
}

// Compactor owns the minimal projection of one catalog snapshot. The
// projection is computed once at construction and is read-only afterwards;
// a catalog change means building a new Compactor, so sharing one across
// concurrent queries is safe.
type Compactor struct {
	items   []catalog.Item
	minimal []MinimalItem
	byID    map[string]int
	est     TokenEstimator
	stats   Stats
	logger  *zap.Logger
}

// Option configures a Compactor.
type Option func(*Compactor)

// WithLogger sets the logger. Default is zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(c *Compactor) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTokenEstimator sets the token estimator used for size statistics.
// Default is the bytes/4 heuristic.
func WithTokenEstimator(est TokenEstimator) Option {
	return func(c *Compactor) {
		if est != nil {
			c.est = est
		}
	}
}

// New builds the compactor and projects every item eagerly. Individual
// malformed records are projected with empty fields and logged, never
// skipped: output length always equals input length so index i of the
// minimal slice corresponds to index i of the catalog.
func New(items []catalog.Item, opts ...Option) *Compactor {
	c := &Compactor{
		items:  items,
		est:    NewHeuristicEstimator(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.minimal = make([]MinimalItem, len(items))
	c.byID = make(map[string]int, len(items))
	for i, it := range items {
		c.minimal[i] = Project(it)
		if c.minimal[i].Title == "" {
			c.logger.Warn("catalog item has no title, projecting anyway",
				zap.Int("index", i))
		}
		if it != nil {
			c.byID[it.Common().ID] = i
		}
	}
	c.stats = c.computeStats()

	return c
}

// Project derives the minimal view of one item. A nil item yields the zero
// projection; one bad record must not abort ranking for the whole catalog.
func Project(it catalog.Item) MinimalItem {
	if it == nil {
		return MinimalItem{}
	}
	core := it.Common()

	m := MinimalItem{
		Title:    core.Title,
		Creator:  it.Creator(),
		Subjects: dedupeLower(it.SubjectTags()),
		Year:     it.ReleaseYear(),
	}
	if core.Available() {
		m.Available = 1
	}
	if core.Rating != nil {
		m.Rating = *core.Rating
	}
	return m
}

// Minimal returns the projection aligned index-for-index with the catalog.
// Callers must treat it as read-only.
func (c *Compactor) Minimal() []MinimalItem { return c.minimal }

// OptimizedByID returns the compact representations for the given item
// identifiers, in the order requested. Unknown ids are skipped.
func (c *Compactor) OptimizedByID(ids []string) []MinimalItem {
	out := make([]MinimalItem, 0, len(ids))
	for _, id := range ids {
		i, ok := c.byID[id]
		if !ok {
			c.logger.Debug("optimized lookup for unknown item id", zap.String("id", id))
			continue
		}
		out = append(out, c.minimal[i])
	}
	return out
}

// Stats returns the size summary computed at construction.
func (c *Compactor) Stats() Stats { return c.stats }

// Savings estimates the token reduction for a result set of n items, based
// on the catalog-wide average sizes of full vs compact records.
func (c *Compactor) Savings(n int) Savings {
	if n < 0 {
		n = 0
	}
	if c.stats.ItemCount == 0 || c.stats.OriginalTokens == 0 {
		return Savings{}
	}

	orig := c.stats.OriginalTokens * n / c.stats.ItemCount
	comp := c.stats.CompactTokens * n / c.stats.ItemCount

	s := Savings{OriginalTokens: orig, CompactTokens: comp}
	if orig > 0 {
		s.Percentage = (1 - float64(comp)/float64(orig)) * 100
	}
	return s
}

func (c *Compactor) computeStats() Stats {
	st := Stats{ItemCount: len(c.items)}

	for i, it := range c.items {
		full, err := json.Marshal(fullView(it))
		if err != nil {
			c.logger.Warn("marshal full record for size estimate", zap.Error(err))
			continue
		}
		comp, err := json.Marshal(c.minimal[i])
		if err != nil {
			continue
		}
		st.OriginalBytes += len(full)
		st.CompactBytes += len(comp)
		st.OriginalTokens += c.est.Count(string(full))
		st.CompactTokens += c.est.Count(string(comp))
	}
	return st
}

// fullRecord approximates the full wire shape of an item for size
// estimation, flattening kind-specific details onto common field names.
type fullRecord struct {
	ID          string           `json:"id"`
	Kind        catalog.Kind     `json:"type"`
	Title       string           `json:"title"`
	Cover       string           `json:"cover,omitempty"`
	Formats     []catalog.Format `json:"formats,omitempty"`
	Description string           `json:"description,omitempty"`
	Rating      *float64         `json:"rating,omitempty"`
	Popular     bool             `json:"popular,omitempty"`
	Creator     string           `json:"creator,omitempty"`
	Subjects    []string         `json:"subjects,omitempty"`
	Year        int              `json:"year,omitempty"`
}

func fullView(it catalog.Item) fullRecord {
	if it == nil {
		return fullRecord{}
	}
	core := it.Common()
	return fullRecord{
		ID:          core.ID,
		Kind:        it.Kind(),
		Title:       core.Title,
		Cover:       core.Cover,
		Formats:     core.Formats,
		Description: core.Description,
		Rating:      core.Rating,
		Popular:     core.Popular,
		Creator:     it.Creator(),
		Subjects:    it.SubjectTags(),
		Year:        it.ReleaseYear(),
	}
}

// dedupeLower lowercases tags and drops duplicates, preserving order.
func dedupeLower(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		lt := strings.ToLower(strings.TrimSpace(t))
		if lt == "" {
			continue
		}
		if _, ok := seen[lt]; ok {
			continue
		}
		seen[lt] = struct{}{}
		out = append(out, lt)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
