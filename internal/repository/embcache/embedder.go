// Package embcache keeps query embeddings in Redis so that a repeated
// question skips the provider.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/geoknow/internal/db"
	"github.com/kailas-cloud/geoknow/internal/domain"
)

var keyPrefix = domain.KeyPrefix + "emb_cache:"

type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Options tune the cache.
type Options struct {
	// Model is hashed into every key, so a model switch starts a fresh cache.
	Model string
	// Dimensions rejects cached vectors of another length; 0 accepts any.
	Dimensions int
	TTL        time.Duration
}

// Embedder serves repeated texts from the cache and shares one provider
// call between concurrent misses on the same text. Cache failures are
// logged and treated as misses.
type Embedder struct {
	next    domain.Embedder
	kv      kv
	opts    Options
	lookups *prometheus.CounterVec
	calls   singleflight.Group
	logger  *zap.Logger
}

// New wraps next. lookups, when set, is counted with result "hit" or "miss".
func New(next domain.Embedder, store kv, opts Options, lookups *prometheus.CounterVec, logger *zap.Logger) *Embedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Embedder{next: next, kv: store, opts: opts, lookups: lookups, logger: logger}
}

// Embed returns the cached vector with zero tokens, or embeds text and
// caches the result.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := e.key(text)
	if vec := e.load(ctx, key); vec != nil {
		e.count("hit")
		return domain.EmbeddingResult{Embedding: vec}, nil
	}
	e.count("miss")

	v, err, _ := e.calls.Do(key, func() (any, error) {
		res, err := e.next.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		e.save(ctx, key, res.Embedding)
		return res, nil
	})
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}
	return v.(domain.EmbeddingResult), nil
}

// HealthCheck reports the wrapped provider's health.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	return domain.ProbeHealth(ctx, e.next)
}

// key is keyPrefix + hex(sha256(model NUL text)).
func (e *Embedder) key(text string) string {
	sum := sha256.Sum256([]byte(e.opts.Model + "\x00" + text))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (e *Embedder) load(ctx context.Context, key string) []float32 {
	data, err := e.kv.Get(ctx, key)
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
		return nil
	case err != nil:
		e.logger.Warn("Embedding cache read failed", zap.String("key", key), zap.Error(err))
		return nil
	}

	vec, err := db.DecodeFloat32(data)
	if err != nil {
		e.logger.Warn("Embedding cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return nil
	}
	if len(vec) == 0 || (e.opts.Dimensions > 0 && len(vec) != e.opts.Dimensions) {
		e.logger.Warn("Embedding cache entry has wrong size",
			zap.String("key", key), zap.Int("got", len(vec)), zap.Int("want", e.opts.Dimensions))
		return nil
	}
	return vec
}

func (e *Embedder) save(ctx context.Context, key string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	if err := e.kv.Set(ctx, key, db.EncodeFloat32(vec), e.opts.TTL); err != nil {
		e.logger.Warn("Embedding cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (e *Embedder) count(result string) {
	if e.lookups != nil {
		e.lookups.WithLabelValues(result).Inc()
	}
}
