package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geoknow/internal/config"
	dbRedis "github.com/kailas-cloud/geoknow/internal/db/redis"
	"github.com/kailas-cloud/geoknow/internal/domain"
	"github.com/kailas-cloud/geoknow/internal/metrics"
	"github.com/kailas-cloud/geoknow/internal/repository/embcache"
	openaiTransport "github.com/kailas-cloud/geoknow/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/geoknow/internal/usecase/embedding"
	intentuc "github.com/kailas-cloud/geoknow/internal/usecase/intent"
)

func providerConfig(cfg *config.Config, provider, model string, logger *zap.Logger) *openaiTransport.Config {
	p := cfg.LLM.Providers[provider]
	return &openaiTransport.Config{
		APIKey:   p.APIKey,
		BaseURL:  p.BaseURL,
		Model:    model,
		Provider: provider,
		Logger:   logger,
	}
}

func eras(in []config.EraConfig) []intentuc.Era {
	out := make([]intentuc.Era, 0, len(in))
	for _, e := range in {
		out = append(out, intentuc.Era{Name: e.Name, Aliases: e.Aliases, StartYear: e.StartYear, EndYear: e.EndYear})
	}
	return out
}

// llmHealthChecker is healthy when both the embedding and the chat provider answer.
type llmHealthChecker struct {
	embedder  domain.HealthChecker
	generator domain.HealthChecker
}

func (h *llmHealthChecker) HealthCheck(ctx context.Context) error {
	if err := h.embedder.HealthCheck(ctx); err != nil {
		return fmt.Errorf("embedding provider: %w", err)
	}
	if err := h.generator.HealthCheck(ctx); err != nil {
		return fmt.Errorf("chat provider: %w", err)
	}
	return nil
}

// buildEmbedder wraps base as instruction(instrumented(cache(base))).
// A nil cache, or a zero TTL, leaves the cache out.
func buildEmbedder(
	base domain.Embedder,
	cfg *config.Config,
	instruction string,
	cache *dbRedis.Store,
	logger *zap.Logger,
) domain.Embedder {
	emb := cfg.LLM.Embedding

	e := base
	if cache != nil && emb.CacheTTLSec > 0 {
		e = embcache.New(base, cache, embcache.Options{
			Model:      emb.Model,
			Dimensions: emb.Dimensions,
			TTL:        time.Duration(emb.CacheTTLSec) * time.Second,
		}, metrics.EmbeddingCacheTotal, logger)
	}
	e = embeddinguc.NewInstrumentedEmbedder(e, emb.Provider, emb.Model, emb.Dimensions, logger)

	// Outermost, so the cache key covers the prefixed text.
	return embeddinguc.WithInstruction(e, instruction)
}
