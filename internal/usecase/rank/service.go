package rank

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/calliope-systems/shelfrank/internal/domain/catalog"
	"github.com/calliope-systems/shelfrank/internal/domain/search/field"
	"github.com/calliope-systems/shelfrank/internal/domain/search/params"
	"github.com/calliope-systems/shelfrank/internal/domain/search/result"
	"github.com/calliope-systems/shelfrank/internal/usecase/compact"
)

// Field weights and metadata boosts. Empirically tuned; treat as knobs,
// not business rules.
const (
	titleWeight       = 3.0
	creatorWeight     = 2.0
	subjectWeight     = 1.5
	descriptionWeight = 0.5

	popularBoost   = 1.2
	availableBoost = 1.1
	ratingBoost    = 1.1
	recencyBoost   = 1.05

	highRatingFloor = 4.5
	recentYearFloor = 2020

	fallbackScore = 0.5
)

// Service ranks a catalog snapshot against natural-language queries. It is
// immutable after construction: every query works on the same read-only
// catalog and projection, so one Service is safe for concurrent use.
type Service struct {
	catalog []catalog.Item
	proj    Projector
	logger  *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Default is zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a ranking service over one catalog snapshot and its
// projection. The projection must be aligned index-for-index with items.
func New(items []catalog.Item, proj Projector, opts ...Option) *Service {
	s := &Service{catalog: items, proj: proj, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary is the per-query diagnostic report for observability callers.
type Summary struct {
	Keywords    []string      `json:"keywords"`
	ResultCount int           `json:"result_count"`
	CatalogSize int           `json:"catalog_size"`
	Elapsed     time.Duration `json:"elapsed"`
}

// PromptPayload is the minimized result set handed to prompt construction.
type PromptPayload struct {
	Items        []compact.MinimalItem `json:"items"`
	TotalResults int                   `json:"total_results"`
	TokenSavings compact.Savings       `json:"token_savings"`
}

// Search ranks the catalog against the query and returns at most
// p.MaxResults() results with score >= p.MinScore(), sorted by score
// descending, catalog order preserved on ties. It never fails: degenerate
// input (empty query, empty catalog) yields a short or empty list.
func (s *Service) Search(query string, p params.Params) ([]result.Result, Summary) {
	start := time.Now()

	keywords := ExtractKeywords(query)

	var results []result.Result
	if len(keywords) == 0 {
		results = s.fallback(p)
	} else {
		results = s.rank(keywords, p)
	}

	sum := Summary{
		Keywords:    keywords,
		ResultCount: len(results),
		CatalogSize: len(s.catalog),
		Elapsed:     time.Since(start),
	}
	s.logger.Debug("search completed",
		zap.Strings("keywords", keywords),
		zap.Int("results", sum.ResultCount),
		zap.Int("catalog_size", sum.CatalogSize),
		zap.Duration("elapsed", sum.Elapsed),
	)

	return results, sum
}

// SearchForPrompt runs Search and maps the hits through the projector,
// returning compact representations plus a token-savings estimate for the
// prompt-construction caller.
func (s *Service) SearchForPrompt(query string, p params.Params) (PromptPayload, Summary) {
	results, sum := s.Search(query, p)

	ids := make([]string, 0, len(results))
	for i := range results {
		it := results[i].Item()
		if it == nil {
			continue
		}
		ids = append(ids, it.Common().ID)
	}

	return PromptPayload{
		Items:        s.proj.OptimizedByID(ids),
		TotalResults: len(results),
		TokenSavings: s.proj.Savings(len(results)),
	}, sum
}

func (s *Service) rank(keywords []string, p params.Params) []result.Result {
	minimal := s.proj.Minimal()

	n := len(s.catalog)
	if len(minimal) < n {
		// Alignment is the projector's invariant; score what lines up.
		s.logger.Error("projection shorter than catalog",
			zap.Int("catalog", n), zap.Int("projection", len(minimal)))
		n = len(minimal)
	}

	results := make([]result.Result, 0, n)
	for i := 0; i < n; i++ {
		r := s.scoreItem(minimal[i], s.catalog[i], keywords, p)
		if r.Score() >= p.MinScore() {
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})

	if len(results) > p.MaxResults() {
		results = results[:p.MaxResults()]
	}
	return results
}

// scoreItem accumulates weighted field contributions for every keyword,
// then applies the metadata boosts and normalizes by keyword count so
// long and short queries stay comparable.
func (s *Service) scoreItem(
	min compact.MinimalItem, full catalog.Item, keywords []string, p params.Params,
) result.Result {
	var score float64
	matched := newFieldSet()

	desc := ""
	if full != nil {
		desc = strings.ToLower(full.Common().Description)
	}

	for _, kw := range keywords {
		if ts := fuzzyMatch(min.Title, kw, p.Fuzzy()); ts > 0 {
			score += ts * titleWeight
			matched.add(field.Title)
		}
		if cs := fuzzyMatch(min.Creator, kw, p.Fuzzy()); cs > 0 {
			score += cs * creatorWeight
			matched.add(field.Creator)
		}
		for _, subj := range min.Subjects {
			if ss := fuzzyMatch(subj, kw, p.Fuzzy()); ss > 0 {
				score += ss * subjectWeight
				matched.add(field.Subjects)
			}
		}
		if ds := fuzzyMatch(desc, kw, p.Fuzzy()); ds > 0 {
			score += ds * descriptionWeight
			matched.add(field.Description)
		}
	}

	if p.BoostPopular() && full != nil && full.Common().Popular {
		score *= popularBoost
	}
	if p.BoostAvailable() && min.Available == 1 {
		score *= availableBoost
	}
	if min.Rating >= highRatingFloor {
		score *= ratingBoost
	}
	if min.Year >= recentYearFloor {
		score *= recencyBoost
	}

	score /= float64(len(keywords))

	return result.New(full, score, matched.fields)
}

// fallback returns up to maxResults popular or available items when the
// query produced no keywords, each with the fixed fallback score.
func (s *Service) fallback(p params.Params) []result.Result {
	results := make([]result.Result, 0, p.MaxResults())
	for _, it := range s.catalog {
		if len(results) >= p.MaxResults() {
			break
		}
		if it == nil {
			continue
		}
		core := it.Common()
		if core.Popular || core.Available() {
			results = append(results,
				result.New(it, fallbackScore, []field.Field{field.Popular}))
		}
	}
	return results
}

// fieldSet is an ordered set of matched fields.
type fieldSet struct {
	fields []field.Field
	seen   map[field.Field]struct{}
}

func newFieldSet() *fieldSet {
	return &fieldSet{seen: make(map[field.Field]struct{}, 4)}
}

func (fs *fieldSet) add(f field.Field) {
	if _, ok := fs.seen[f]; ok {
		return
	}
	fs.seen[f] = struct{}{}
	fs.fields = append(fs.fields, f)
}
