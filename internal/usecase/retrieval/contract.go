package retrieval

import (
	"context"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// VectorSearcher runs filtered KNN search over entry embeddings.
// Results carry native similarity and come back highest first.
type VectorSearcher interface {
	Search(
		ctx context.Context, vector []float32,
		geo *domain.GeoFilter, tf *domain.TimeFilter, category string, limit int,
	) ([]domain.Candidate, error)
}

// StructuredSearcher runs spatial/temporal predicate search. Results are unscored.
type StructuredSearcher interface {
	Search(
		ctx context.Context,
		geo *domain.GeoFilter, tf *domain.TimeFilter, category string, limit int,
	) ([]domain.Candidate, error)
}
