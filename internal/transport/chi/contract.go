package chi

import (
	"context"
	"iter"

	"github.com/kailas-cloud/geoknow/internal/domain"
	healthuc "github.com/kailas-cloud/geoknow/internal/usecase/health"
	searchuc "github.com/kailas-cloud/geoknow/internal/usecase/search"
)

// Answerer answers questions, blocking or as an event stream.
type Answerer interface {
	Ask(ctx context.Context, question string, filters domain.RequestFilters, opts domain.QueryOptions) (domain.Answer, error)
	Stream(ctx context.Context, question string, filters domain.RequestFilters, opts domain.QueryOptions) iter.Seq[domain.Event]
}

// Searcher runs condition search without generation.
type Searcher interface {
	Search(ctx context.Context, req *searchuc.Request) ([]domain.Candidate, error)
}

// Ingester stores knowledge entries and reads them back.
type Ingester interface {
	Ingest(ctx context.Context, e *domain.Entry) (string, error)
	Get(ctx context.Context, id string) (domain.Candidate, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
