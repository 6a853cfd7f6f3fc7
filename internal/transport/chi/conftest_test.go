package chi

import (
	"context"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/geoknow/internal/domain"
	healthuc "github.com/kailas-cloud/geoknow/internal/usecase/health"
	searchuc "github.com/kailas-cloud/geoknow/internal/usecase/search"
)

type mockAnswerer struct {
	askFn    func(ctx context.Context, q string, f domain.RequestFilters, o domain.QueryOptions) (domain.Answer, error)
	streamFn func(ctx context.Context, q string, f domain.RequestFilters, o domain.QueryOptions) iter.Seq[domain.Event]
}

func (m *mockAnswerer) Ask(
	ctx context.Context, q string, f domain.RequestFilters, o domain.QueryOptions,
) (domain.Answer, error) {
	return m.askFn(ctx, q, f, o)
}

func (m *mockAnswerer) Stream(
	ctx context.Context, q string, f domain.RequestFilters, o domain.QueryOptions,
) iter.Seq[domain.Event] {
	return m.streamFn(ctx, q, f, o)
}

type mockSearcher struct {
	searchFn func(ctx context.Context, req *searchuc.Request) ([]domain.Candidate, error)
}

func (m *mockSearcher) Search(ctx context.Context, req *searchuc.Request) ([]domain.Candidate, error) {
	return m.searchFn(ctx, req)
}

type mockIngester struct {
	ingestFn func(ctx context.Context, e *domain.Entry) (string, error)
	getFn    func(ctx context.Context, id string) (domain.Candidate, error)
}

func (m *mockIngester) Ingest(ctx context.Context, e *domain.Entry) (string, error) {
	return m.ingestFn(ctx, e)
}

func (m *mockIngester) Get(ctx context.Context, id string) (domain.Candidate, error) {
	return m.getFn(ctx, id)
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

// events returns a stream that yields evs in order.
func events(evs ...domain.Event) iter.Seq[domain.Event] {
	return func(yield func(domain.Event) bool) {
		for _, ev := range evs {
			if !yield(ev) {
				return
			}
		}
	}
}

func testServer(a Answerer, s Searcher, i Ingester, h HealthChecker) http.Handler {
	if a == nil {
		a = &mockAnswerer{}
	}
	if s == nil {
		s = &mockSearcher{}
	}
	if i == nil {
		i = &mockIngester{}
	}
	if h == nil {
		h = &mockHealth{}
	}
	r := chi.NewRouter()
	NewServer(a, s, i, h, nil).Routes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
