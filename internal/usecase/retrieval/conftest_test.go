package retrieval

import (
	"context"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// --- Mocks ---

type mockVector struct {
	searchFn func(ctx context.Context, vec []float32, geo *domain.GeoFilter, tf *domain.TimeFilter, category string, limit int) ([]domain.Candidate, error)
}

func (m *mockVector) Search(
	ctx context.Context, vec []float32, geo *domain.GeoFilter, tf *domain.TimeFilter, category string, limit int,
) ([]domain.Candidate, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, vec, geo, tf, category, limit)
	}
	return nil, nil
}

type mockStructured struct {
	searchFn func(ctx context.Context, geo *domain.GeoFilter, tf *domain.TimeFilter, category string, limit int) ([]domain.Candidate, error)
}

func (m *mockStructured) Search(
	ctx context.Context, geo *domain.GeoFilter, tf *domain.TimeFilter, category string, limit int,
) ([]domain.Candidate, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, geo, tf, category, limit)
	}
	return nil, nil
}

// --- Helpers ---

func vecHit(id string, score float64) domain.Candidate {
	return domain.Candidate{ID: id, Score: score, Scored: true, Origin: domain.OriginVector}
}

func structHit(id string) domain.Candidate {
	return domain.Candidate{ID: id, Origin: domain.OriginStructured}
}

func testIntent() *domain.QueryIntent {
	return &domain.QueryIntent{
		OriginalQuery: "Forbidden City",
		SemanticQuery: "Forbidden City",
		IntentType:    domain.IntentFact,
		Embedding:     []float32{0.1, 0.2, 0.3},
	}
}
