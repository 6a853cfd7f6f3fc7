package intent

import (
	"context"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// Structurer extracts intent, keywords and hints from a question.
type Structurer interface {
	Structure(ctx context.Context, question string) (domain.StructuredQuery, error)
}

// Geocoder resolves a place name. ok is false when the place is unknown.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (lat, lon float64, ok bool, err error)
}

// Embedder vectorizes the semantic query.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// TimeNormalizer turns a time expression into a concrete range.
type TimeNormalizer interface {
	Normalize(expr string) (*domain.TimeFilter, bool)
}
