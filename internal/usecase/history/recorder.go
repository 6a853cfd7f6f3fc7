package history

import (
	"context"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geoknow/internal/domain"
	"github.com/kailas-cloud/geoknow/internal/metrics"
)

// Store persists query history records.
type Store interface {
	Insert(ctx context.Context, rec *domain.QueryRecord) error
}

// Recorder writes history off the request path. When every worker is busy the
// record is dropped rather than delaying the caller.
type Recorder struct {
	pool    *ants.Pool
	store   Store
	timeout time.Duration
	logger  *zap.Logger
}

// NewRecorder creates a recorder backed by a non-blocking pool of size workers.
func NewRecorder(store Store, size int, timeout time.Duration, logger *zap.Logger) (*Recorder, error) {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	pool, err := ants.NewPool(size, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create history pool: %w", err)
	}
	return &Recorder{pool: pool, store: store, timeout: timeout, logger: logger}, nil
}

// Record schedules rec for persistence and returns immediately.
// Failures are logged and counted, never returned.
func (r *Recorder) Record(rec domain.QueryRecord) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	err := r.pool.Submit(func() {
		ctx := context.Background()
		if r.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}
		if err := r.store.Insert(ctx, &rec); err != nil {
			metrics.CountHistory(metrics.HistoryFailed)
			r.logger.Warn("Failed to record query history", zap.String("query", rec.Query), zap.Error(err))
			return
		}
		metrics.CountHistory(metrics.HistoryStored)
	})
	if err != nil {
		metrics.CountHistory(metrics.HistoryDropped)
		r.logger.Warn("Query history dropped", zap.String("query", rec.Query), zap.Error(err))
	}
}

// Close waits up to timeout for in-flight records, then releases the workers.
func (r *Recorder) Close(timeout time.Duration) error {
	if err := r.pool.ReleaseTimeout(timeout); err != nil {
		return fmt.Errorf("release history pool: %w", err)
	}
	return nil
}
