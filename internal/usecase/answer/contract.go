package answer

import (
	"context"
	"iter"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// IntentParser builds the retrieval intent for a question.
type IntentParser interface {
	Parse(ctx context.Context, question string, filters domain.RequestFilters) (domain.QueryIntent, error)
}

// Retriever returns ranked evidence for an intent.
type Retriever interface {
	Retrieve(ctx context.Context, intent *domain.QueryIntent, topK int) ([]domain.Candidate, error)
}

// Generator synthesizes answer text from numbered contexts.
type Generator interface {
	Generate(ctx context.Context, question string, contexts []domain.GenerationContext) (string, error)
	Stream(ctx context.Context, question string, contexts []domain.GenerationContext) iter.Seq2[string, error]
	Model() string
}

// HistoryRecorder stores a finished query without blocking the caller.
type HistoryRecorder interface {
	Record(rec domain.QueryRecord)
}
