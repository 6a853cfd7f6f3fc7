package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geoknow/internal/domain"
	"github.com/kailas-cloud/geoknow/internal/domain/geo"
)

// Service writes knowledge entries to both retrieval backends.
type Service struct {
	structured StructuredWriter
	vector     VectorIndex
	places     PlaceRegistry
	embed      Embedder
	logger     *zap.Logger
	newID      func() string
}

// New creates an ingestion service. places may be nil.
func New(structured StructuredWriter, vector VectorIndex, places PlaceRegistry, embed Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		structured: structured,
		vector:     vector,
		places:     places,
		embed:      embed,
		logger:     logger,
		newID:      uuid.NewString,
	}
}

// Ingest validates and stores e, assigning an id when it has none.
// The structured row is written before the vector hash so that every indexed
// vector has a row to join against.
func (s *Service) Ingest(ctx context.Context, e *domain.Entry) (string, error) {
	if err := validate(e); err != nil {
		return "", err
	}
	if e.ID == "" {
		e.ID = s.newID()
	}

	res, err := s.embed.Embed(ctx, embeddingText(e))
	if err != nil {
		return "", fmt.Errorf("vectorize entry: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)

	if err := s.structured.Insert(ctx, e); err != nil {
		return "", fmt.Errorf("insert entry: %w", err)
	}
	if err := s.vector.Upsert(ctx, e, res.Embedding); err != nil {
		return "", fmt.Errorf("index entry: %w", err)
	}

	if s.places != nil && e.Geo != nil && strings.TrimSpace(e.Geo.Address) != "" {
		if err := s.places.Add(ctx, *e.Geo); err != nil {
			s.logger.Warn("Failed to register place", zap.String("address", e.Geo.Address), zap.Error(err))
		}
	}

	return e.ID, nil
}

// Get returns a stored entry as indexed for retrieval.
func (s *Service) Get(ctx context.Context, id string) (domain.Candidate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Candidate{}, fmt.Errorf("%w: entry id is required", domain.ErrInvalidArgument)
	}
	c, err := s.vector.Get(ctx, id)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("get entry: %w", err)
	}
	return c, nil
}

func validate(e *domain.Entry) error {
	if e == nil {
		return fmt.Errorf("%w: entry is required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(e.Content) == "" {
		return fmt.Errorf("%w: content is required", domain.ErrInvalidArgument)
	}
	if e.Geo != nil && !geo.ValidCoordinates(e.Geo.Lat, e.Geo.Lon) {
		return fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidArgument)
	}
	if t := e.Temporal; t != nil {
		if t.Start > t.End {
			return fmt.Errorf("%w: temporal start is after end", domain.ErrInvalidArgument)
		}
		if t.Precision != "" && !t.Precision.IsValid() {
			return fmt.Errorf("%w: unknown time precision %q", domain.ErrInvalidArgument, t.Precision)
		}
	}
	if c := e.Confidence; c != nil && (*c < 0 || *c > 1) {
		return fmt.Errorf("%w: confidence must be in [0, 1]", domain.ErrInvalidArgument)
	}
	return nil
}

func embeddingText(e *domain.Entry) string {
	return e.Title + "\n" + e.Content
}
