package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geoknow/internal/domain"
	"github.com/kailas-cloud/geoknow/internal/metrics"
)

// Generation modes used as metric labels.
const (
	modeBlocking  = "blocking"
	modeStream    = "stream"
	modeStructure = "structure"
)

// GeneratorOptions tune answer generation.
type GeneratorOptions struct {
	MaxTokens    int
	Temperature  float32
	SystemPrompt string
}

// Generator writes answers with an OpenAI-compatible chat completion API.
type Generator struct {
	client *openai.Client
	model  string
	opts   GeneratorOptions
	logger *zap.Logger
}

// NewGenerator creates an answer generator.
func NewGenerator(cfg *Config, opts GeneratorOptions) *Generator {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2048
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}
	return &Generator{
		client: cfg.client(),
		model:  cfg.Model,
		opts:   opts,
		logger: cfg.logger(),
	}
}

// Model returns the chat model name.
func (g *Generator) Model() string { return g.model }

// Generate returns the complete answer.
func (g *Generator) Generate(ctx context.Context, question string, contexts []domain.GenerationContext) (string, error) {
	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, g.request(question, contexts, false))
	g.observe(modeBlocking, start, err)
	if err != nil {
		return "", apiError("chat", err, domain.ErrGenerationFailed)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty chat response: %w", domain.ErrGenerationFailed)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Stream yields answer fragments as they arrive. A failure is yielded once as
// the final element. Breaking out of the loop closes the upstream stream.
func (g *Generator) Stream(ctx context.Context, question string, contexts []domain.GenerationContext) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		start := time.Now()
		stream, err := g.client.CreateChatCompletionStream(ctx, g.request(question, contexts, true))
		if err != nil {
			g.observe(modeStream, start, err)
			yield("", apiError("chat stream", err, domain.ErrGenerationFailed))
			return
		}
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				g.observe(modeStream, start, nil)
				return
			}
			if err != nil {
				g.observe(modeStream, start, err)
				yield("", apiError("chat stream", err, domain.ErrGenerationFailed))
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			if !yield(resp.Choices[0].Delta.Content, nil) {
				g.observe(modeStream, start, context.Canceled)
				return
			}
		}
	}
}

// HealthCheck verifies API availability.
func (g *Generator) HealthCheck(ctx context.Context) error {
	return ping(ctx, g.client)
}

func (g *Generator) request(question string, contexts []domain.GenerationContext, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
		Stream:      stream,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: g.opts.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(question, contexts)},
		},
	}
}

func (g *Generator) observe(mode string, start time.Time, err error) {
	if err != nil {
		g.logger.Warn("Chat completion failed",
			zap.String("mode", mode),
			zap.Error(err),
		)
	}
	metrics.ObserveGeneration(g.model, mode, start, err != nil)
}
