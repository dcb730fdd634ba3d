package result

import (
	"github.com/calliope-systems/shelfrank/internal/domain/catalog"
	"github.com/calliope-systems/shelfrank/internal/domain/search/field"
)

// Result is a single ranked hit. It references the full catalog record,
// lives only for the duration of one query, and is never persisted.
type Result struct {
	item    catalog.Item
	score   float64
	matched []field.Field
}

// New creates a search result.
func New(item catalog.Item, score float64, matched []field.Field) Result {
	return Result{item: item, score: score, matched: matched}
}

// Item returns the full catalog record this hit refers to.
func (r *Result) Item() catalog.Item { return r.item }

// Score returns the normalized relevance score.
func (r *Result) Score() float64 { return r.score }

// Matched returns the fields that contributed to the match, deduplicated,
// in first-contribution order.
func (r *Result) Matched() []field.Field { return r.matched }
