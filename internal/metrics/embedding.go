package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Embedding failure kinds, the error_type label.
const (
	EmbeddingFailureAPI   = "api_error"
	EmbeddingFailureEmpty = "empty_response"
)

var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "embedding_requests_total",
		Help:      "Embedding provider calls by outcome.",
	}, []string{"provider", "model", "status"})

	EmbeddingRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "embedding_request_duration_seconds",
		Help:      "Latency of successful embedding provider calls.",
		Buckets:   prometheus.ExponentialBuckets(0.025, 2, 10),
	}, []string{"provider", "model"})

	EmbeddingTokensTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "embedding_tokens_total",
		Help:      "Tokens billed by the embedding provider.",
	}, []string{"provider", "model", "type"})

	EmbeddingErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "embedding_errors_total",
		Help:      "Failed embedding provider calls by kind.",
	}, []string{"provider", "model", "error_type"})

	// EmbeddingCacheTotal counts query embedding lookups, result "hit" or "miss".
	EmbeddingCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "embedding_cache_total",
		Help:      "Query embedding cache lookups.",
	}, []string{"result"})
)

var embeddingGroup = newGroup(
	EmbeddingRequestsTotal,
	EmbeddingRequestDuration,
	EmbeddingTokensTotal,
	EmbeddingErrorsTotal,
	EmbeddingCacheTotal,
)

// RegisterEmbeddingMetrics adds the embedding collectors to the default registry.
func RegisterEmbeddingMetrics() { embeddingGroup.register() }

// EmbeddingCall is one round trip to an embedding provider.
type EmbeddingCall struct {
	Provider     string
	Model        string
	Took         time.Duration
	PromptTokens int
	TotalTokens  int
	// Failure is empty for a successful call.
	Failure string
}

// ObserveEmbedding records c. Latency and tokens are kept for successful calls only.
func ObserveEmbedding(c *EmbeddingCall) {
	if c.Failure != "" {
		EmbeddingRequestsTotal.WithLabelValues(c.Provider, c.Model, "error").Inc()
		EmbeddingErrorsTotal.WithLabelValues(c.Provider, c.Model, c.Failure).Inc()
		return
	}
	EmbeddingRequestsTotal.WithLabelValues(c.Provider, c.Model, "success").Inc()
	EmbeddingRequestDuration.WithLabelValues(c.Provider, c.Model).Observe(c.Took.Seconds())
	if c.TotalTokens > 0 {
		EmbeddingTokensTotal.WithLabelValues(c.Provider, c.Model, "prompt").Add(float64(c.PromptTokens))
		EmbeddingTokensTotal.WithLabelValues(c.Provider, c.Model, "total").Add(float64(c.TotalTokens))
	}
}
