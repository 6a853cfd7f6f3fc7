package embedding

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// WithInstruction prefixes every text with instruction before it reaches
// next. Models such as e5 expect a "query: " prefix on questions. An empty
// instruction returns next as is.
func WithInstruction(next domain.Embedder, instruction string) domain.Embedder {
	if instruction == "" {
		return next
	}
	return &instructed{next: next, instruction: instruction}
}

type instructed struct {
	next        domain.Embedder
	instruction string
}

func (e *instructed) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := e.next.Embed(ctx, e.instruction+text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("instruction embed: %w", err)
	}
	return res, nil
}

func (e *instructed) HealthCheck(ctx context.Context) error {
	return domain.ProbeHealth(ctx, e.next)
}
