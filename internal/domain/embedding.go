package domain

import "context"

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is implemented by collaborators that can probe their backend.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult is one vector and the tokens billed for it. A cache hit
// reports zero tokens.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// ProbeHealth runs v's health check when it has one. Anything else is healthy.
func ProbeHealth(ctx context.Context, v any) error {
	if hc, ok := v.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
