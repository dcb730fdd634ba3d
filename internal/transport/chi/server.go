package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/calliope-systems/shelfrank/internal/domain"
	"github.com/calliope-systems/shelfrank/internal/domain/search/field"
	"github.com/calliope-systems/shelfrank/internal/domain/search/params"
	"github.com/calliope-systems/shelfrank/internal/domain/search/result"
	"github.com/calliope-systems/shelfrank/internal/metrics"
	repocatalog "github.com/calliope-systems/shelfrank/internal/repository/catalog"
	"github.com/calliope-systems/shelfrank/internal/usecase/compact"
	"github.com/calliope-systems/shelfrank/internal/usecase/health"
	"github.com/calliope-systems/shelfrank/internal/usecase/rank"
)

// Engine is the ranking facade the HTTP layer talks to.
type Engine interface {
	Search(query string, overrides params.Config) ([]result.Result, rank.Summary)
	SearchForPrompt(query string, overrides params.Config) (rank.PromptPayload, rank.Summary)
	Stats() compact.Stats
	Reload(ctx context.Context) (int, error)
}

// errorCode identifies an error category in API responses.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeReloadFailed     errorCode = "reload_failed"
	codeNoSource         errorCode = "no_reload_source"
	codeInternalError    errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// Server exposes the ranking engine over HTTP.
type Server struct {
	engine Engine
	health *health.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(engine Engine, healthSvc *health.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{engine: engine, health: healthSvc, logger: logger}
}

// Routes mounts all handlers on the given router.
func (s *Server) Routes(r interface {
	Get(pattern string, h http.HandlerFunc)
	Post(pattern string, h http.HandlerFunc)
}) {
	r.Post("/api/v1/search", s.SearchItems)
	r.Post("/api/v1/search/prompt", s.SearchForPrompt)
	r.Get("/api/v1/catalog/stats", s.CatalogStats)
	r.Post("/api/v1/catalog/reload", s.ReloadCatalog)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// searchRequest carries the query plus optional per-request overrides of
// the configured search parameters.
type searchRequest struct {
	Query string `json:"query"`
	params.Config
}

type resultItem struct {
	Item          repocatalog.Record `json:"item"`
	Score         float64            `json:"score"`
	MatchedFields []field.Field      `json:"matched_fields"`
}

type searchResponse struct {
	Results     []resultItem `json:"results"`
	Keywords    []string     `json:"keywords"`
	ResultCount int          `json:"result_count"`
	CatalogSize int          `json:"catalog_size"`
	ElapsedMS   float64      `json:"elapsed_ms"`
}

// SearchItems handles POST /api/v1/search.
func (s *Server) SearchItems(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearchRequest(w, r)
	if !ok {
		return
	}

	results, sum := s.engine.Search(req.Query, req.Config)
	metrics.ObserveSearch(len(sum.Keywords), sum.ResultCount, sum.Elapsed.Seconds())

	items := make([]resultItem, len(results))
	for i := range results {
		items[i] = resultItem{
			Item:          repocatalog.FromItem(results[i].Item()),
			Score:         results[i].Score(),
			MatchedFields: results[i].Matched(),
		}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Results:     items,
		Keywords:    keywordsOrEmpty(sum.Keywords),
		ResultCount: sum.ResultCount,
		CatalogSize: sum.CatalogSize,
		ElapsedMS:   float64(sum.Elapsed.Microseconds()) / 1000,
	})
}

type promptResponse struct {
	Items        []compact.MinimalItem `json:"items"`
	TotalResults int                   `json:"total_results"`
	TokenSavings compact.Savings       `json:"token_savings"`
	Keywords     []string              `json:"keywords"`
}

// SearchForPrompt handles POST /api/v1/search/prompt.
func (s *Server) SearchForPrompt(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearchRequest(w, r)
	if !ok {
		return
	}

	payload, sum := s.engine.SearchForPrompt(req.Query, req.Config)
	metrics.ObserveSearch(len(sum.Keywords), sum.ResultCount, sum.Elapsed.Seconds())

	writeJSON(w, http.StatusOK, promptResponse{
		Items:        payload.Items,
		TotalResults: payload.TotalResults,
		TokenSavings: payload.TokenSavings,
		Keywords:     keywordsOrEmpty(sum.Keywords),
	})
}

type statsResponse struct {
	ItemCount      int     `json:"item_count"`
	OriginalBytes  int     `json:"original_bytes"`
	CompactBytes   int     `json:"compact_bytes"`
	OriginalTokens int     `json:"original_tokens"`
	CompactTokens  int     `json:"compact_tokens"`
	SavingsPercent float64 `json:"savings_percent"`
}

// CatalogStats handles GET /api/v1/catalog/stats.
func (s *Server) CatalogStats(w http.ResponseWriter, r *http.Request) {
	st := s.engine.Stats()

	resp := statsResponse{
		ItemCount:      st.ItemCount,
		OriginalBytes:  st.OriginalBytes,
		CompactBytes:   st.CompactBytes,
		OriginalTokens: st.OriginalTokens,
		CompactTokens:  st.CompactTokens,
	}
	if st.OriginalTokens > 0 {
		resp.SavingsPercent = (1 - float64(st.CompactTokens)/float64(st.OriginalTokens)) * 100
	}

	writeJSON(w, http.StatusOK, resp)
}

type reloadResponse struct {
	Items int `json:"items"`
}

// ReloadCatalog handles POST /api/v1/catalog/reload.
func (s *Server) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	n, err := s.engine.Reload(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoSource):
			writeError(w, http.StatusConflict, codeNoSource, "catalog has no reloadable source")
		case errors.Is(err, domain.ErrEmptyCatalog):
			writeError(w, http.StatusBadGateway, codeReloadFailed, "catalog source returned no items")
		default:
			s.logger.Error("catalog reload failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, codeReloadFailed, "catalog reload failed")
		}
		return
	}

	s.logger.Info("catalog reloaded", zap.Int("items", n))
	writeJSON(w, http.StatusOK, reloadResponse{Items: n})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != health.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) decodeSearchRequest(w http.ResponseWriter, r *http.Request) (searchRequest, bool) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return searchRequest{}, false
	}

	if req.MaxResults != nil && *req.MaxResults < 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "max_results must be >= 0")
		return searchRequest{}, false
	}
	if req.MinScore != nil && *req.MinScore < 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "min_score must be >= 0")
		return searchRequest{}, false
	}
	return req, true
}

// keywordsOrEmpty keeps the JSON field an array, never null.
func keywordsOrEmpty(kws []string) []string {
	if kws == nil {
		return []string{}
	}
	return kws
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
