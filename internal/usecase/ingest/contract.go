package ingest

import (
	"context"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// StructuredWriter stores the entry with its geo and temporal rows.
type StructuredWriter interface {
	Insert(ctx context.Context, e *domain.Entry) error
}

// VectorIndex indexes entry embeddings and serves stored entries back.
type VectorIndex interface {
	Upsert(ctx context.Context, e *domain.Entry, embedding []float32) error
	Get(ctx context.Context, id string) (domain.Candidate, error)
}

// PlaceRegistry learns place names for later geocoding.
type PlaceRegistry interface {
	Add(ctx context.Context, places ...domain.GeoPoint) error
}

// Embedder vectorizes entry text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
