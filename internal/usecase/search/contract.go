package search

import (
	"context"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// StructuredSearcher runs filter-only search against the structured store.
type StructuredSearcher interface {
	Search(
		ctx context.Context,
		geo *domain.GeoFilter, tf *domain.TimeFilter, category string, limit int,
	) ([]domain.Candidate, error)
}

// Retriever runs the hybrid vector + structured retrieval.
type Retriever interface {
	Retrieve(ctx context.Context, intent *domain.QueryIntent, topK int) ([]domain.Candidate, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
