package intent

import (
	"context"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// --- Mocks ---

type mockStructurer struct {
	structureFn func(ctx context.Context, q string) (domain.StructuredQuery, error)
}

func (m *mockStructurer) Structure(ctx context.Context, q string) (domain.StructuredQuery, error) {
	if m.structureFn != nil {
		return m.structureFn(ctx, q)
	}
	return domain.StructuredQuery{}, nil
}

type place struct{ lat, lon float64 }

type mockGeocoder struct {
	places map[string]place
	err    error
	asked  []string
}

func (m *mockGeocoder) Geocode(_ context.Context, name string) (lat, lon float64, ok bool, err error) {
	m.asked = append(m.asked, name)
	if m.err != nil {
		return 0, 0, false, m.err
	}
	p, ok := m.places[name]
	return p.lat, p.lon, ok, nil
}

type mockEmbedder struct {
	vec  []float32
	err  error
	got  string
	toks int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.got = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: m.toks}, nil
}

func strPtr(s string) *string { return &s }

func testEras() []Era {
	return []Era{
		{Name: "Ming", Aliases: []string{"Ming dynasty", "明朝"}, StartYear: 1368, EndYear: 1644},
		{Name: "Tang", Aliases: []string{"唐朝"}, StartYear: 618, EndYear: 907},
	}
}
