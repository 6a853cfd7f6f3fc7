package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geoknow/internal/domain"
	"github.com/kailas-cloud/geoknow/internal/metrics"
)

// Embedder is an embedding provider using the OpenAI-compatible API.
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	user       string
	provider   string
	logger     *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
// dimensions > 0 asks the model for shortened vectors.
func NewEmbedder(cfg *Config, dimensions int) *Embedder {
	return &Embedder{
		client:     cfg.client(),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: dimensions,
		user:       cfg.User,
		provider:   cfg.Provider,
		logger:     cfg.logger(),
	}
}

// Embed requests one vector for text and records provider metrics.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{strings.TrimSpace(text)},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		User:           e.user,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	call := metrics.EmbeddingCall{Provider: e.provider, Model: string(e.model)}
	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	call.Took = time.Since(start)

	switch {
	case err != nil:
		call.Failure = metrics.EmbeddingFailureAPI
		metrics.ObserveEmbedding(&call)
		e.logger.Warn("Embedding request failed", zap.Duration("took", call.Took), zap.Error(err))
		return domain.EmbeddingResult{}, apiError("embedding", err, domain.ErrEmbeddingProviderError)
	case len(resp.Data) == 0:
		call.Failure = metrics.EmbeddingFailureEmpty
		metrics.ObserveEmbedding(&call)
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}

	call.PromptTokens, call.TotalTokens = resp.Usage.PromptTokens, resp.Usage.TotalTokens
	metrics.ObserveEmbedding(&call)

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: call.PromptTokens,
		TotalTokens:  call.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	return ping(ctx, e.client)
}
