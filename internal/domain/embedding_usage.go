package domain

import (
	"context"
	"sync"
)

type usageKey struct{}

// EmbeddingUsage accumulates embedding calls made while serving one request.
// Handlers read it after the use case returns to fill response headers.
type EmbeddingUsage struct {
	mu          sync.Mutex
	TotalTokens int
	Calls       int
	// Used is set by any call, including cache hits that report zero tokens.
	Used bool
}

// NewContextWithUsage attaches a fresh collector to ctx.
func NewContextWithUsage(ctx context.Context) (context.Context, *EmbeddingUsage) {
	u := new(EmbeddingUsage)
	return context.WithValue(ctx, usageKey{}, u), u
}

// UsageFromContext returns the request collector, or nil outside a request.
// A nil collector ignores AddTokens.
func UsageFromContext(ctx context.Context) *EmbeddingUsage {
	if u, ok := ctx.Value(usageKey{}).(*EmbeddingUsage); ok {
		return u
	}
	return nil
}

// AddTokens records one embedding call that consumed n tokens.
func (u *EmbeddingUsage) AddTokens(n int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.TotalTokens += n
	u.Calls++
	u.Used = true
}
