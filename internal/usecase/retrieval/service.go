package retrieval

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/geoknow/internal/domain"
	"github.com/kailas-cloud/geoknow/internal/metrics"
)

// overFetch is how many candidates each source returns per requested result.
const overFetch = 2

// Service is the hybrid retrieval engine: concurrent vector and structured search,
// merge by id, then composite rerank. It holds no per-call state.
type Service struct {
	vector     VectorSearcher
	structured StructuredSearcher
	timeout    time.Duration
	logger     *zap.Logger
}

// New creates a retrieval service. A zero timeout leaves the deadline to the caller.
func New(vector VectorSearcher, structured StructuredSearcher, timeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{vector: vector, structured: structured, timeout: timeout, logger: logger}
}

// Retrieve returns at most topK candidates ranked by composite score.
// An empty result is not an error. If either source fails the whole call fails.
func (s *Service) Retrieve(ctx context.Context, intent *domain.QueryIntent, topK int) ([]domain.Candidate, error) {
	if topK < 0 {
		return nil, fmt.Errorf("%w: top_k must not be negative, got %d", domain.ErrInvalidArgument, topK)
	}
	if topK == 0 {
		return []domain.Candidate{}, nil
	}
	if intent == nil || len(intent.Embedding) == 0 {
		return nil, fmt.Errorf("%w: intent has no embedding", domain.ErrInvalidArgument)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	limit := overFetch * topK
	var vecRes, structRes []domain.Candidate

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.searchVector(gctx, intent, limit)
		if err != nil {
			return domain.NewRetrievalError(domain.OriginVector, err)
		}
		vecRes = res
		return nil
	})
	g.Go(func() error {
		res, err := s.searchStructured(gctx, intent, limit)
		if err != nil {
			return domain.NewRetrievalError(domain.OriginStructured, err)
		}
		structRes = res
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("Retrieval failed", zap.Error(err))
		return nil, err
	}

	merged := merge(vecRes, structRes)
	metrics.ObserveCandidates("merged", len(merged))

	rerank(merged, intent)
	if len(merged) > topK {
		merged = merged[:topK]
	}

	out := make([]domain.Candidate, len(merged))
	for i, c := range merged {
		out[i] = *c
	}
	metrics.ObserveCandidates("returned", len(out))
	return out, nil
}

func (s *Service) searchVector(ctx context.Context, intent *domain.QueryIntent, limit int) ([]domain.Candidate, error) {
	start := time.Now()
	res, err := s.vector.Search(ctx, intent.Embedding, intent.Geo, intent.Time, intent.Category, limit)
	metrics.ObserveRetrieval(string(domain.OriginVector), start, len(res), err)
	return res, err
}

func (s *Service) searchStructured(ctx context.Context, intent *domain.QueryIntent, limit int) ([]domain.Candidate, error) {
	start := time.Now()
	res, err := s.structured.Search(ctx, intent.Geo, intent.Time, intent.Category, limit)
	metrics.ObserveRetrieval(string(domain.OriginStructured), start, len(res), err)
	return res, err
}
