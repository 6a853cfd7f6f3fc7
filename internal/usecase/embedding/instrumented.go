// Package embedding holds the decorators stacked around the embedding
// provider: instruction prefixing and result checking. Provider metrics
// are recorded by the transport itself.
package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// InstrumentedEmbedder logs provider calls and rejects vectors of the wrong
// size. Every error it returns unwraps to domain.ErrEmbeddingProviderError.
type InstrumentedEmbedder struct {
	inner      domain.Embedder
	provider   string
	dimensions int
	log        *zap.Logger
}

// NewInstrumentedEmbedder wraps inner. dimensions <= 0 accepts any size.
func NewInstrumentedEmbedder(
	inner domain.Embedder, provider, model string, dimensions int, logger *zap.Logger,
) *InstrumentedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedEmbedder{
		inner:      inner,
		provider:   provider,
		dimensions: dimensions,
		log:        logger.With(zap.String("provider", provider), zap.String("model", model)),
	}
}

// Embed implements domain.Embedder.
func (p *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	start := time.Now()
	res, err := p.inner.Embed(ctx, text)
	took := time.Since(start)

	if err != nil {
		p.log.Error("Embedding request failed", zap.Duration("duration", took), zap.Error(err))
		return domain.EmbeddingResult{}, fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, err)
	}
	if err := p.checkSize(res.Embedding); err != nil {
		p.log.Error("Embedding dimension mismatch", zap.Error(err))
		return domain.EmbeddingResult{}, err
	}

	p.log.Debug("Embedding request completed",
		zap.Duration("duration", took),
		zap.Int("dimensions", len(res.Embedding)),
		zap.Int("total_tokens", res.TotalTokens),
	)
	return res, nil
}

// HealthCheck probes the wrapped provider.
func (p *InstrumentedEmbedder) HealthCheck(ctx context.Context) error {
	if err := domain.ProbeHealth(ctx, p.inner); err != nil {
		return fmt.Errorf("%s health: %w", p.provider, err)
	}
	return nil
}

func (p *InstrumentedEmbedder) checkSize(vec []float32) error {
	if p.dimensions <= 0 || len(vec) == p.dimensions {
		return nil
	}
	return fmt.Errorf("%w: expected %d dimensions, got %d",
		domain.ErrEmbeddingProviderError, p.dimensions, len(vec))
}
