package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geoknow/internal/domain"
	"github.com/kailas-cloud/geoknow/internal/metrics"
)

// ErrStructureInvalid is returned when the model reply is not the expected JSON.
var ErrStructureInvalid = errors.New("invalid structured query")

// Structurer asks a chat model to extract intent, keywords and hints.
type Structurer struct {
	client   *openai.Client
	model    string
	jsonMode bool
	logger   *zap.Logger
}

// NewStructurer creates a query structurer. jsonMode requests a JSON object
// response format, which not every compatible provider supports.
func NewStructurer(cfg *Config, jsonMode bool) *Structurer {
	return &Structurer{
		client:   cfg.client(),
		model:    cfg.Model,
		jsonMode: jsonMode,
		logger:   cfg.logger(),
	}
}

// Structure returns the model's reading of question.
func (s *Structurer) Structure(ctx context.Context, question string) (domain.StructuredQuery, error) {
	req := openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: 1024,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: structurePrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	}
	if s.jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, req)
	metrics.ObserveGeneration(s.model, modeStructure, start, err != nil)
	if err != nil {
		s.logger.Warn("Query structuring request failed", zap.Error(err))
		return domain.StructuredQuery{}, apiError("structure", err, domain.ErrGenerationFailed)
	}
	if len(resp.Choices) == 0 {
		return domain.StructuredQuery{}, fmt.Errorf("empty structure response: %w", ErrStructureInvalid)
	}

	return parseStructured(resp.Choices[0].Message.Content)
}

// parseStructured decodes the reply, tolerating a surrounding markdown fence.
func parseStructured(raw string) (domain.StructuredQuery, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var sq domain.StructuredQuery
	if err := json.Unmarshal([]byte(s), &sq); err != nil {
		return domain.StructuredQuery{}, fmt.Errorf("%w: %w", ErrStructureInvalid, err)
	}
	if sq.Category != nil && (*sq.Category == "" || strings.EqualFold(*sq.Category, "null")) {
		sq.Category = nil
	}
	return sq, nil
}
