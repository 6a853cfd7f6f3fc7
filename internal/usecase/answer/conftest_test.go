package answer

import (
	"context"
	"iter"
	"sync"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// --- Mocks ---

type mockIntents struct {
	parseFn func(ctx context.Context, q string, f domain.RequestFilters) (domain.QueryIntent, error)
}

func (m *mockIntents) Parse(ctx context.Context, q string, f domain.RequestFilters) (domain.QueryIntent, error) {
	if m.parseFn != nil {
		return m.parseFn(ctx, q, f)
	}
	return domain.QueryIntent{OriginalQuery: q, SemanticQuery: q, IntentType: domain.IntentFact, Embedding: []float32{1}}, nil
}

type mockRetriever struct {
	results []domain.Candidate
	err     error
	gotTopK int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ *domain.QueryIntent, topK int) ([]domain.Candidate, error) {
	m.gotTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	if len(m.results) > topK {
		return m.results[:topK], nil
	}
	return m.results, nil
}

type mockGenerator struct {
	text        string
	chunks      []string
	err         error
	streamErrAt int // index of chunk that fails, -1 for none
	gotContexts []domain.GenerationContext
	called      bool
}

func (m *mockGenerator) Generate(_ context.Context, _ string, contexts []domain.GenerationContext) (string, error) {
	m.called = true
	m.gotContexts = contexts
	return m.text, m.err
}

func (m *mockGenerator) Stream(_ context.Context, _ string, contexts []domain.GenerationContext) iter.Seq2[string, error] {
	m.called = true
	m.gotContexts = contexts
	return func(yield func(string, error) bool) {
		for i, c := range m.chunks {
			if i == m.streamErrAt {
				yield("", m.err)
				return
			}
			if !yield(c, nil) {
				return
			}
		}
	}
}

func (m *mockGenerator) Model() string { return "test-model" }

type mockHistory struct {
	mu   sync.Mutex
	recs []domain.QueryRecord
}

func (m *mockHistory) Record(rec domain.QueryRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
}

func palace() domain.Candidate {
	return domain.Candidate{
		ID:     "e1",
		Score:  0.87654,
		Scored: true,
		Origin: domain.OriginVector,
		Payload: domain.Payload{
			Title:   "Forbidden City",
			Content: "Built between 1406 and 1420.",
			Geo:     &domain.GeoPoint{Lat: 39.9163, Lon: 116.3972, Address: "Beijing"},
			Metadata: domain.Metadata{
				DisplayTime: "Ming(1368-1644)",
			},
		},
	}
}

func collect(seq iter.Seq[domain.Event]) []domain.Event {
	var out []domain.Event
	for e := range seq {
		out = append(out, e)
	}
	return out
}
