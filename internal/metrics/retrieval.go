package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RetrievalDuration is labeled by source, "vector" or "structured".
	RetrievalDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "retrieval_duration_seconds",
		Help:      "Latency of one retrieval path.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2.5, 8),
	}, []string{"source", "status"})

	// RetrievalCandidates is labeled by stage: a source name, "merged" or "returned".
	RetrievalCandidates = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "retrieval_candidates",
		Help:      "Candidates seen at each retrieval stage.",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
	}, []string{"stage"})

	RetrievalFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "retrieval_failures_total",
		Help:      "Failed retrieval paths.",
	}, []string{"source"})
)

var retrievalGroup = newGroup(RetrievalDuration, RetrievalCandidates, RetrievalFailuresTotal)

// RegisterRetrievalMetrics adds the retrieval collectors to the default registry.
func RegisterRetrievalMetrics() { retrievalGroup.register() }

// ObserveRetrieval records one retrieval path that began at start and
// yielded n candidates or err. Cancellation is not counted as a failure.
func ObserveRetrieval(source string, start time.Time, n int, err error) {
	status := "ok"
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = "canceled"
	case err != nil:
		status = "error"
	}
	RetrievalDuration.WithLabelValues(source, status).Observe(time.Since(start).Seconds())
	switch status {
	case "ok":
		RetrievalCandidates.WithLabelValues(source).Observe(float64(n))
	case "error":
		RetrievalFailuresTotal.WithLabelValues(source).Inc()
	}
}

// ObserveCandidates records the candidate count at a pipeline stage.
func ObserveCandidates(stage string, n int) {
	RetrievalCandidates.WithLabelValues(stage).Observe(float64(n))
}
