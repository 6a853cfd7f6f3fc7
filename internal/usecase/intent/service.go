package intent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// Service turns a question plus request filters into a QueryIntent.
// Structuring and geocoding degrade gracefully; embedding does not.
type Service struct {
	structurer Structurer
	geocoder   Geocoder
	times      TimeNormalizer
	embed      Embedder
	logger     *zap.Logger
}

// New creates an intent service. structurer and geocoder may be nil.
func New(structurer Structurer, geocoder Geocoder, times TimeNormalizer, embed Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{structurer: structurer, geocoder: geocoder, times: times, embed: embed, logger: logger}
}

// Parse builds the intent. Explicit filters win over hints found in the text.
func (s *Service) Parse(ctx context.Context, question string, filters domain.RequestFilters) (domain.QueryIntent, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.QueryIntent{}, fmt.Errorf("%w: query is required", domain.ErrInvalidArgument)
	}

	sq := s.structure(ctx, question)

	intent := domain.QueryIntent{
		OriginalQuery: question,
		SemanticQuery: sq.SemanticQuery,
		IntentType:    domain.ParseIntentType(sq.IntentType),
		Keywords:      sq.Keywords,
		Category:      filters.Category,
		Geo:           filters.Geo,
		Time:          filters.Time,
	}
	if intent.Category == "" && sq.Category != nil {
		intent.Category = strings.TrimSpace(*sq.Category)
	}
	if intent.Geo == nil {
		intent.Geo = s.geoFromHints(ctx, sq.GeoHints)
	}
	if intent.Time == nil {
		intent.Time = s.timeFromHints(sq.TimeHints)
	}

	res, err := s.embed.Embed(ctx, intent.SemanticQuery)
	if err != nil {
		return domain.QueryIntent{}, fmt.Errorf("vectorize query: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)
	intent.Embedding = res.Embedding

	return intent, nil
}

// structure asks the LLM and falls back to the raw question on any failure.
func (s *Service) structure(ctx context.Context, question string) domain.StructuredQuery {
	var sq domain.StructuredQuery
	if s.structurer != nil {
		var err error
		sq, err = s.structurer.Structure(ctx, question)
		if err != nil {
			s.logger.Warn("Query structuring failed, using raw question", zap.Error(err))
			sq = domain.StructuredQuery{}
		}
	}

	if strings.TrimSpace(sq.SemanticQuery) == "" {
		sq.SemanticQuery = question
	}
	if len(sq.Keywords) == 0 {
		sq.Keywords = strings.Fields(question)
	}
	return sq
}

// geoFromHints geocodes hints in order and keeps the first resolved place.
func (s *Service) geoFromHints(ctx context.Context, hints []string) *domain.GeoFilter {
	if s.geocoder == nil {
		return nil
	}
	for _, h := range hints {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		lat, lon, ok, err := s.geocoder.Geocode(ctx, h)
		if err != nil {
			s.logger.Warn("Geocoding failed", zap.String("place", h), zap.Error(err))
			return nil
		}
		if !ok {
			continue
		}
		gf, err := domain.NewGeoFilter(lat, lon, domain.DefaultRadiusKm, h)
		if err != nil {
			s.logger.Warn("Geocoder returned invalid point", zap.String("place", h), zap.Error(err))
			continue
		}
		return &gf
	}
	return nil
}

func (s *Service) timeFromHints(hints []string) *domain.TimeFilter {
	if s.times == nil {
		return nil
	}
	for _, h := range hints {
		if tf, ok := s.times.Normalize(h); ok {
			return tf
		}
	}
	return nil
}
