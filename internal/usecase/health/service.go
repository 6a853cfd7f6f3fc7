// Package health aggregates backend probes into one report.
package health

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status is the overall verdict.
type Status string

const (
	Healthy   Status = "ok"
	Degraded  Status = "degraded"
	Unhealthy Status = "error" // both retrieval backends are down
)

// CheckResult is the outcome of one probe.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Component names in the report.
const (
	VectorIndex     = "vector_index"
	StructuredStore = "structured_store"
	LLM             = "llm"
)

// ProbeTimeout bounds each probe so one hung backend cannot stall the report.
const ProbeTimeout = 3 * time.Second

// Report is the result of Check.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type probe struct {
	name string
	fn   func(context.Context) error
}

// Service probes the vector index, the structured store and, optionally,
// the model provider.
type Service struct {
	probes []probe
}

// New creates a Service. llm may be nil.
func New(vector, structured Pinger, llm ProviderChecker) *Service {
	s := &Service{probes: []probe{
		{VectorIndex, vector.Ping},
		{StructuredStore, structured.Ping},
	}}
	if llm != nil {
		s.probes = append(s.probes, probe{LLM, llm.HealthCheck})
	}
	return s
}

// Check runs every probe concurrently. The report is Unhealthy only when
// neither retrieval backend answers.
func (s *Service) Check(ctx context.Context) Report {
	results := make([]CheckResult, len(s.probes))
	var g errgroup.Group
	for i, p := range s.probes {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
			defer cancel()
			results[i] = CheckOK
			if p.fn(pctx) != nil {
				results[i] = CheckError
			}
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Status: Healthy, Checks: make(map[string]CheckResult, len(s.probes))}
	for i, p := range s.probes {
		report.Checks[p.name] = results[i]
		if results[i] == CheckError {
			report.Status = Degraded
		}
	}
	if report.Checks[VectorIndex] == CheckError && report.Checks[StructuredStore] == CheckError {
		report.Status = Unhealthy
	}
	return report
}
