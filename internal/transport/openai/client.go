// Package openai adapts OpenAI-compatible APIs for embeddings, answer generation
// and query structuring.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Config holds the provider settings shared by all adapters.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	User     string
	Logger   *zap.Logger
}

func (c *Config) client() *openai.Client {
	oc := openai.DefaultConfig(c.APIKey)
	if c.BaseURL != "" {
		oc.BaseURL = c.BaseURL
	}
	return openai.NewClientWithConfig(oc)
}

func (c *Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger.With(zap.String("provider", c.Provider), zap.String("model", c.Model))
}

// ping lists models, which costs no tokens.
func ping(ctx context.Context, c *openai.Client) error {
	if _, err := c.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// apiError wraps a client error with sentinel and the provider's own message.
func apiError(op string, err, sentinel error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%s: HTTP %d: %s: %w", op, reqErr.HTTPStatusCode, errorDetail(reqErr.Body), sentinel)
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: HTTP %d: %s: %w", op, apiErr.HTTPStatusCode, apiErr.Message, sentinel)
	}
	return fmt.Errorf("%s: %w: %w", op, sentinel, err)
}

// errorDetail reads {"detail": ...} as sent by Nebius and similar gateways,
// falling back to the raw body.
func errorDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return string(bytes.TrimSpace(body))
}
