// Package history persists the query log into Postgres.
package history

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"

	"github.com/kailas-cloud/geoknow/internal/db"
	"github.com/kailas-cloud/geoknow/internal/domain"
	"github.com/kailas-cloud/geoknow/internal/domain/geo"
)

const insertQuery = `INSERT INTO query_history
	(id, query, query_type, geo_filter, time_filter, results_count, created_at)
VALUES
	(@id, @query, @query_type, ST_GeomFromWKB(@geo_filter, 4326), @time_filter, @results_count, @created_at)`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repo writes query history rows.
type Repo struct {
	pool  execer
	newID func() string
}

// New creates a history repository.
func New(p execer) *Repo {
	return &Repo{pool: p, newID: uuid.NewString}
}

// timeFilterDoc is the JSONB shape of the recorded time filter.
type timeFilterDoc struct {
	Start     int64  `json:"start"`
	End       int64  `json:"end"`
	Precision string `json:"precision"`
	Display   string `json:"display,omitempty"`
}

// Insert stores one record. The geo filter is recorded as its bounding square.
func (r *Repo) Insert(ctx context.Context, rec *domain.QueryRecord) error {
	args, err := r.insertArgs(rec)
	if err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, insertQuery, args); err != nil {
		return &db.Error{Op: db.OpInsert, Err: err}
	}
	return nil
}

func (r *Repo) insertArgs(rec *domain.QueryRecord) (pgx.NamedArgs, error) {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	args := pgx.NamedArgs{
		"id":            r.newID(),
		"query":         rec.Query,
		"query_type":    string(rec.IntentType),
		"geo_filter":    nil,
		"time_filter":   nil,
		"results_count": rec.ResultsCount,
		"created_at":    createdAt.UTC(),
	}

	if g := rec.Geo; g != nil {
		area, err := envelopeWKB(g)
		if err != nil {
			return nil, fmt.Errorf("encode geo area: %w", err)
		}
		args["geo_filter"] = area
	}
	if tf := rec.Time; tf != nil {
		args["time_filter"] = timeFilterDoc{
			Start:     tf.Start,
			End:       tf.End,
			Precision: string(tf.Precision),
			Display:   tf.DisplayTime,
		}
	}
	return args, nil
}

func envelopeWKB(g *domain.GeoFilter) ([]byte, error) {
	ring := geo.SquareRing(g.Lat, g.Lon, g.RadiusKm)
	flat := make([]float64, 0, len(ring)*2)
	for _, p := range ring {
		flat = append(flat, p[0], p[1])
	}
	poly := geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
	return wkb.Marshal(poly, binary.LittleEndian)
}
