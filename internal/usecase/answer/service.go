package answer

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// ErrStreamConsumed is emitted when an answer stream is iterated twice.
var ErrStreamConsumed = errors.New("answer stream already consumed")

// Options configure the answer service.
type Options struct {
	DefaultTopK int
	MaxTopK     int
}

// Service answers questions: parse intent, retrieve evidence, generate text.
type Service struct {
	intents   IntentParser
	retriever Retriever
	generator Generator
	history   HistoryRecorder
	opts      Options
	logger    *zap.Logger
}

// New creates an answer service. history may be nil.
func New(
	intents IntentParser, retriever Retriever, generator Generator,
	history HistoryRecorder, opts Options, logger *zap.Logger,
) *Service {
	if opts.DefaultTopK <= 0 {
		opts.DefaultTopK = domain.DefaultTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		intents:   intents,
		retriever: retriever,
		generator: generator,
		history:   history,
		opts:      opts,
		logger:    logger,
	}
}

// Ask runs the whole pipeline and returns the complete answer.
func (s *Service) Ask(
	ctx context.Context, question string, filters domain.RequestFilters, opts domain.QueryOptions,
) (domain.Answer, error) {
	start := time.Now()

	intent, cands, err := s.prepare(ctx, question, filters, opts)
	if err != nil {
		return domain.Answer{}, err
	}

	text := domain.NoAnswerText
	if len(cands) > 0 {
		text, err = s.generator.Generate(ctx, question, generationContexts(cands))
		if err != nil {
			return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
		}
	}

	elapsed := time.Since(start)
	s.record(&intent, len(cands))

	return domain.Answer{
		Text:        text,
		Sources:     FormatSources(cands),
		QueryTimeMs: math.Round(float64(elapsed.Microseconds())/10) / 100,
		Model:       s.generator.Model(),
	}, nil
}

// Stream emits Sources, then Content fragments, then Done. Any failure ends
// the sequence with a single Error event. The sequence can be ranged once.
func (s *Service) Stream(
	ctx context.Context, question string, filters domain.RequestFilters, opts domain.QueryOptions,
) iter.Seq[domain.Event] {
	var used atomic.Bool
	return func(yield func(domain.Event) bool) {
		if used.Swap(true) {
			yield(errorEvent(ErrStreamConsumed))
			return
		}

		intent, cands, err := s.prepare(ctx, question, filters, opts)
		if err != nil {
			yield(errorEvent(err))
			return
		}

		if !yield(domain.Event{Type: domain.EventSources, Sources: FormatSources(cands)}) {
			return
		}

		if len(cands) == 0 {
			if !yield(domain.Event{Type: domain.EventContent, Content: domain.NoAnswerText}) {
				return
			}
		} else {
			for chunk, err := range s.generator.Stream(ctx, question, generationContexts(cands)) {
				if err != nil {
					yield(errorEvent(fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)))
					return
				}
				if chunk == "" {
					continue
				}
				if !yield(domain.Event{Type: domain.EventContent, Content: chunk}) {
					return
				}
			}
		}

		if !yield(domain.Event{Type: domain.EventDone}) {
			return
		}
		s.record(&intent, len(cands))
	}
}

func (s *Service) prepare(
	ctx context.Context, question string, filters domain.RequestFilters, opts domain.QueryOptions,
) (domain.QueryIntent, []domain.Candidate, error) {
	topK, err := s.topK(opts.TopK)
	if err != nil {
		return domain.QueryIntent{}, nil, err
	}

	intent, err := s.intents.Parse(ctx, question, filters)
	if err != nil {
		return domain.QueryIntent{}, nil, fmt.Errorf("parse query: %w", err)
	}

	cands, err := s.retriever.Retrieve(ctx, &intent, topK)
	if err != nil {
		return domain.QueryIntent{}, nil, fmt.Errorf("retrieve: %w", err)
	}
	return intent, cands, nil
}

func (s *Service) topK(requested int) (int, error) {
	switch {
	case requested < 0:
		return 0, fmt.Errorf("%w: top_k must not be negative", domain.ErrInvalidArgument)
	case requested == 0:
		return s.opts.DefaultTopK, nil
	case s.opts.MaxTopK > 0 && requested > s.opts.MaxTopK:
		return 0, fmt.Errorf("%w: top_k must be at most %d", domain.ErrInvalidArgument, s.opts.MaxTopK)
	}
	return requested, nil
}

func (s *Service) record(intent *domain.QueryIntent, results int) {
	if s.history == nil {
		return
	}
	s.history.Record(domain.QueryRecord{
		Query:        intent.OriginalQuery,
		IntentType:   intent.IntentType,
		Geo:          intent.Geo,
		Time:         intent.Time,
		ResultsCount: results,
		CreatedAt:    time.Now().UTC(),
	})
}

func errorEvent(err error) domain.Event {
	return domain.Event{Type: domain.EventError, Err: err}
}
