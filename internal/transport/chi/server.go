package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geoknow/internal/domain"
	"github.com/kailas-cloud/geoknow/internal/logger"
	"github.com/kailas-cloud/geoknow/internal/usecase/answer"
	healthuc "github.com/kailas-cloud/geoknow/internal/usecase/health"
	searchuc "github.com/kailas-cloud/geoknow/internal/usecase/search"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v1"

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the question answering, search and ingestion API.
type Server struct {
	answers       Answerer
	search        Searcher
	ingest        Ingester
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	answers Answerer,
	search Searcher,
	ingest Ingester,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		answers: answers,
		search:  search,
		ingest:  ingest,
		health:  health,
		logger:  logger,
	}
	// Order matters: a retrieval error can wrap ErrNotConfigured or a deadline.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, ErrorCodeInvalidFilter),
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrNotConfigured, http.StatusServiceUnavailable, ErrorCodeBackendUnavailable),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, ErrorCodeTimeout),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, ErrorCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrRetrievalFailed, http.StatusBadGateway, ErrorCodeRetrievalFailed),
		sentinelHandler(domain.ErrGenerationFailed, http.StatusBadGateway, ErrorCodeGenerationFailed),
	}
	return s
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route(APIPrefix, func(r chi.Router) {
		r.Post("/query", s.Query)
		r.Post("/query/stream", s.QueryStream)
		r.Get("/search", s.Search)
		r.Post("/entries", s.CreateEntry)
		r.Get("/entries/{id}", s.GetEntry)
	})
}

// Query handles POST /query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	req, filters, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	ans, err := s.answers.Ask(ctx, req.Query, filters, queryOptions(req.Options))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if req.Options != nil && req.Options.IncludeSources != nil && !*req.Options.IncludeSources {
		ans.Sources = []domain.Source{}
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, ans)
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	sr, err := params.toRequest()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	cands, err := s.search.Search(ctx, sr)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	limit := sr.Limit
	if limit == 0 {
		limit = searchuc.DefaultLimit
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, SearchResponse{
		Items: answer.FormatSources(cands),
		Total: len(cands),
		Limit: limit,
	})
}

// CreateEntry handles POST /entries.
func (s *Server) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req EntryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	id, err := s.ingest.Ingest(ctx, entryFromRequest(&req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", APIPrefix+"/entries/"+id)
	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusCreated, EntryResponse{ID: id})
}

// GetEntry handles GET /entries/{id}.
func (s *Server) GetEntry(w http.ResponseWriter, r *http.Request) {
	c, err := s.ingest.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entryDetail(&c))
}

// HealthCheck handles GET /health. Degraded still answers 200.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request) (QueryRequest, domain.RequestFilters, bool) {
	var req QueryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return req, domain.RequestFilters{}, false
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "query is required")
		return req, domain.RequestFilters{}, false
	}
	filters, err := filtersFromBody(req.Filters)
	if err != nil {
		s.handleDomainError(w, r, err)
		return req, domain.RequestFilters{}, false
	}
	return req, filters, true
}

func queryOptions(o *QueryOptions) domain.QueryOptions {
	if o == nil {
		return domain.QueryOptions{}
	}
	return domain.QueryOptions{TopK: o.TopK}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage == nil || !usage.Used {
		return
	}
	w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	w.Header().Set("X-Embedding-Calls", strconv.Itoa(usage.Calls))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Validation errors are built from request data and returned whole.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidFilter) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrNotConfigured,
		context.DeadlineExceeded,
		domain.ErrEmbeddingProviderError,
		domain.ErrRetrievalFailed,
		domain.ErrGenerationFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

// requestLogger prefers the request-scoped logger set by the wide-event middleware.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logger.FromContextOr(r.Context(), s.logger)
}
