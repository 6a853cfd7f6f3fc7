package geoknow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidFilter          = domain.ErrInvalidFilter
	ErrInvalidArgument        = domain.ErrInvalidArgument
	ErrNotConfigured          = domain.ErrNotConfigured
	ErrRetrievalFailed        = domain.ErrRetrievalFailed
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrGenerationFailed       = domain.ErrGenerationFailed
	ErrNotFound               = domain.ErrNotFound
)

// ErrStreamInterrupted is reported when a stream ends without a terminal event.
var ErrStreamInterrupted = errors.New("stream ended before done")

// codeSentinels maps API error codes onto the sentinels above.
var codeSentinels = map[string]error{
	"bad_request":              ErrInvalidArgument,
	"validation_failed":        ErrInvalidArgument,
	"invalid_filter":           ErrInvalidFilter,
	"not_found":                ErrNotFound,
	"backend_unavailable":      ErrNotConfigured,
	"timeout":                  context.DeadlineExceeded,
	"retrieval_failed":         ErrRetrievalFailed,
	"embedding_provider_error": ErrEmbeddingProviderError,
	"generation_failed":        ErrGenerationFailed,
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("geoknow: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap lets errors.Is match the sentinel for the error code.
func (e *APIError) Unwrap() error {
	return codeSentinels[e.Code]
}

// streamError is the error carried by an "error" line of an answer stream.
type streamError struct {
	message string
}

func (e *streamError) Error() string { return "geoknow: stream: " + e.message }

// Unwrap matches the sentinel whose text prefixes the server message.
func (e *streamError) Unwrap() error {
	for _, s := range codeSentinels {
		if strings.HasPrefix(e.message, s.Error()) {
			return s
		}
	}
	return nil
}
