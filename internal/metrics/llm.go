package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// History outcomes, the status label of HistoryRecordsTotal.
const (
	HistoryStored  = "ok"
	HistoryFailed  = "error"
	HistoryDropped = "dropped"
)

var (
	// GenerationRequestsTotal is labeled by mode: blocking, stream or structure.
	GenerationRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "generation_requests_total",
		Help:      "Chat completion calls by mode and outcome.",
	}, []string{"model", "mode", "status"})

	GenerationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "generation_duration_seconds",
		Help:      "Chat completion latency, until the last token for streams.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 9),
	}, []string{"model", "mode"})

	HistoryRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "history_records_total",
		Help:      "Query history writes by outcome.",
	}, []string{"status"})
)

var llmGroup = newGroup(GenerationRequestsTotal, GenerationDuration, HistoryRecordsTotal)

// RegisterLLMMetrics adds the generation and history collectors to the default registry.
func RegisterLLMMetrics() { llmGroup.register() }

// ObserveGeneration records one chat completion that began at start.
func ObserveGeneration(model, mode string, start time.Time, failed bool) {
	status := "success"
	if failed {
		status = "error"
	}
	GenerationRequestsTotal.WithLabelValues(model, mode, status).Inc()
	GenerationDuration.WithLabelValues(model, mode).Observe(time.Since(start).Seconds())
}

// CountHistory records a history write outcome.
func CountHistory(outcome string) {
	HistoryRecordsTotal.WithLabelValues(outcome).Inc()
}
