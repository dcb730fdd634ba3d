// Package shelfrank ranks heterogeneous library catalogs against
// natural-language queries and produces compact result payloads sized for
// LLM prompts.
package shelfrank

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/calliope-systems/shelfrank/internal/domain"
	"github.com/calliope-systems/shelfrank/internal/domain/catalog"
	"github.com/calliope-systems/shelfrank/internal/domain/search/params"
	"github.com/calliope-systems/shelfrank/internal/domain/search/result"
	"github.com/calliope-systems/shelfrank/internal/usecase/compact"
	"github.com/calliope-systems/shelfrank/internal/usecase/rank"
)

// Source supplies catalog snapshots from a backing store.
type Source interface {
	Load(ctx context.Context) ([]catalog.Item, error)
}

// Engine is the ranking entry point. It owns the current catalog snapshot
// and the immutable services derived from it; swapping the catalog
// rebuilds both under the write lock, so queries always see one coherent
// snapshot.
type Engine struct {
	mu        sync.RWMutex
	items     []catalog.Item
	svc       *rank.Service
	comp      *compact.Compactor
	source    Source
	defaults  params.Config
	estimator compact.TokenEstimator
	logger    *zap.Logger
}

// New creates an Engine. With a Source and no static catalog, the initial
// snapshot is loaded immediately.
func New(opts ...Option) (*Engine, error) {
	cfg := &engineConfig{
		estimator: compact.NewHeuristicEstimator(),
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	e := &Engine{
		source:    cfg.source,
		defaults:  cfg.defaults,
		estimator: cfg.estimator,
		logger:    cfg.logger,
	}

	items := cfg.items
	if items == nil && cfg.source != nil {
		loaded, err := cfg.source.Load(context.Background())
		if err != nil {
			return nil, fmt.Errorf("shelfrank: load catalog: %w", err)
		}
		items = loaded
	}
	e.rebuild(items)

	return e, nil
}

// rebuild derives fresh services for the snapshot. Caller must hold the
// write lock (or be the constructor).
func (e *Engine) rebuild(items []catalog.Item) {
	e.items = items
	e.comp = compact.New(items,
		compact.WithLogger(e.logger),
		compact.WithTokenEstimator(e.estimator),
	)
	e.svc = rank.New(items, e.comp, rank.WithLogger(e.logger))
}

// snapshot returns the current service under the read lock.
func (e *Engine) snapshot() (*rank.Service, *compact.Compactor, []catalog.Item) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.svc, e.comp, e.items
}

// Search ranks the catalog against the query. Overrides apply on top of
// the engine's configured defaults for this call only.
func (e *Engine) Search(query string, overrides params.Config) ([]result.Result, rank.Summary) {
	svc, _, _ := e.snapshot()
	return svc.Search(query, e.defaults.Override(overrides).Params())
}

// SearchForPrompt ranks the catalog and returns compact representations of
// the hits plus a token-savings estimate.
func (e *Engine) SearchForPrompt(query string, overrides params.Config) (rank.PromptPayload, rank.Summary) {
	svc, _, _ := e.snapshot()
	return svc.SearchForPrompt(query, e.defaults.Override(overrides).Params())
}

// Keywords exposes keyword extraction for callers that build their own
// prompts or diagnostics.
func (e *Engine) Keywords(query string) []string {
	return rank.ExtractKeywords(query)
}

// SetCatalog swaps in a new catalog snapshot.
func (e *Engine) SetCatalog(items []catalog.Item) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rebuild(items)
	e.logger.Info("catalog replaced", zap.Int("items", len(items)))
}

// Reload fetches a fresh snapshot from the source and swaps it in. The
// previous snapshot stays active when the load fails or comes back empty.
func (e *Engine) Reload(ctx context.Context) (int, error) {
	if e.source == nil {
		return 0, domain.ErrNoSource
	}

	items, err := e.source.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("shelfrank: reload catalog: %w", err)
	}
	if len(items) == 0 {
		return 0, domain.ErrEmptyCatalog
	}

	e.SetCatalog(items)
	return len(items), nil
}

// Stats returns the size summary of the current snapshot.
func (e *Engine) Stats() compact.Stats {
	_, comp, _ := e.snapshot()
	return comp.Stats()
}

// Savings estimates the token reduction for a result set of n items.
func (e *Engine) Savings(n int) compact.Savings {
	_, comp, _ := e.snapshot()
	return comp.Savings(n)
}

// CatalogSize returns the number of items in the current snapshot.
func (e *Engine) CatalogSize() int {
	_, _, items := e.snapshot()
	return len(items)
}

// Popular returns the items flagged popular, in catalog order.
func (e *Engine) Popular() []catalog.Item {
	_, _, items := e.snapshot()

	var out []catalog.Item
	for _, it := range items {
		if it != nil && it.Common().Popular {
			out = append(out, it)
		}
	}
	return out
}

// BySubject returns items whose subject tags contain the given term,
// case-insensitively.
func (e *Engine) BySubject(subject string) []catalog.Item {
	_, _, items := e.snapshot()
	want := strings.ToLower(subject)

	var out []catalog.Item
	for _, it := range items {
		if it == nil {
			continue
		}
		for _, tag := range it.SubjectTags() {
			if strings.Contains(strings.ToLower(tag), want) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// AvailableByFormat returns items that have an available copy in the given
// format type.
func (e *Engine) AvailableByFormat(formatType string) []catalog.Item {
	_, _, items := e.snapshot()

	var out []catalog.Item
	for _, it := range items {
		if it == nil {
			continue
		}
		for _, f := range it.Common().Formats {
			if f.Type == formatType && f.Status == catalog.StatusAvailable {
				out = append(out, it)
				break
			}
		}
	}
	return out
}
