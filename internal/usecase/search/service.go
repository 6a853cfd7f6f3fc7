package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// Result count bounds for condition search.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Request is a condition search: filters plus optional keywords, no generation.
type Request struct {
	Keywords []string
	Geo      *domain.GeoFilter
	Time     *domain.TimeFilter
	Category string
	Limit    int
}

// Service handles condition search. Without keywords only the structured
// store is queried; with keywords the hybrid retrieval runs on their embedding.
type Service struct {
	structured StructuredSearcher
	retriever  Retriever
	embed      Embedder
}

// New creates a search service.
func New(structured StructuredSearcher, retriever Retriever, embed Embedder) *Service {
	return &Service{structured: structured, retriever: retriever, embed: embed}
}

// Search returns matching entries, at most req.Limit of them.
func (s *Service) Search(ctx context.Context, req *Request) ([]domain.Candidate, error) {
	limit, err := normalizeLimit(req.Limit)
	if err != nil {
		return nil, err
	}

	keywords := cleanKeywords(req.Keywords)
	if len(keywords) == 0 {
		return s.searchStructured(ctx, req, limit)
	}
	return s.searchHybrid(ctx, req, keywords, limit)
}

func (s *Service) searchStructured(ctx context.Context, req *Request, limit int) ([]domain.Candidate, error) {
	cands, err := s.structured.Search(ctx, req.Geo, req.Time, req.Category, limit)
	if err != nil {
		return nil, domain.NewRetrievalError(domain.OriginStructured, err)
	}
	if len(cands) > limit {
		cands = cands[:limit]
	}
	return cands, nil
}

func (s *Service) searchHybrid(
	ctx context.Context, req *Request, keywords []string, limit int,
) ([]domain.Candidate, error) {
	query := strings.Join(keywords, " ")

	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	domain.UsageFromContext(ctx).AddTokens(embResult.TotalTokens)

	intent := domain.QueryIntent{
		OriginalQuery: query,
		SemanticQuery: query,
		IntentType:    domain.IntentExploration,
		Keywords:      keywords,
		Category:      req.Category,
		Geo:           req.Geo,
		Time:          req.Time,
		Embedding:     embResult.Embedding,
	}

	cands, err := s.retriever.Retrieve(ctx, &intent, limit)
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}
	return cands, nil
}

func normalizeLimit(limit int) (int, error) {
	switch {
	case limit == 0:
		return DefaultLimit, nil
	case limit < 0 || limit > MaxLimit:
		return 0, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidArgument, MaxLimit)
	}
	return limit, nil
}

func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
