package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFilter signals a geo or time filter that violates its invariants.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidArgument signals a malformed request parameter.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotConfigured signals a backend that is not connected or initialized.
	ErrNotConfigured = errors.New("backend not configured")
	// ErrRetrievalFailed signals that at least one retrieval path failed.
	ErrRetrievalFailed = errors.New("retrieval failed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationFailed signals a text generation failure.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrNotFound signals a missing entry.
	ErrNotFound = errors.New("not found")
)

// RetrievalError names the retrieval path that failed. It unwraps to both
// ErrRetrievalFailed and the underlying cause.
type RetrievalError struct {
	Source Origin
	Err    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s: %s search: %v", ErrRetrievalFailed.Error(), e.Source, e.Err)
}

// Unwrap exposes the sentinel and the cause to errors.Is/As.
func (e *RetrievalError) Unwrap() []error { return []error{ErrRetrievalFailed, e.Err} }

// NewRetrievalError wraps err for the given path.
func NewRetrievalError(source Origin, err error) error {
	return &RetrievalError{Source: source, Err: err}
}
