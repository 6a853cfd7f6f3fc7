package structured

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"

	"github.com/kailas-cloud/geoknow/internal/db"
	"github.com/kailas-cloud/geoknow/internal/domain"
)

// pool is the consumer interface over pgxpool.Pool (ISP).
type pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repo is the structured retrieval client over PostgreSQL + PostGIS.
type Repo struct {
	pool  pool
	newID func() string
}

// New creates a structured repository.
func New(p pool) *Repo {
	return &Repo{pool: p, newID: uuid.NewString}
}

// Search returns up to limit entries matching every present filter, one row
// per entry. The structured store has no similarity notion: Score is 0 and
// Scored is false.
func (r *Repo) Search(
	ctx context.Context, geo *domain.GeoFilter, tf *domain.TimeFilter, category string, limit int,
) ([]domain.Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}

	sql, args := buildSearchQuery(geo, tf, category, limit)
	rows, err := r.pool.Query(ctx, sql, args)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Candidate, error) {
		var er entryRow
		if err := row.Scan(
			&er.ID, &er.Title, &er.Content, &er.Category, &er.Tags, &er.Source, &er.Confidence,
			&er.GeomWKB, &er.Address,
			&er.StartTime, &er.EndTime, &er.Dynasty, &er.Era,
		); err != nil {
			return domain.Candidate{}, err
		}
		return er.toCandidate()
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return out, nil
}

// Insert writes the entry and its optional geo and temporal rows in one transaction.
func (r *Repo) Insert(ctx context.Context, e *domain.Entry) error {
	if e.ID == "" {
		return fmt.Errorf("%w: entry id is required", domain.ErrInvalidArgument)
	}

	var pointWKB []byte
	if e.Geo != nil {
		var err error
		pointWKB, err = encodePoint(e.Geo.Lat, e.Geo.Lon)
		if err != nil {
			return fmt.Errorf("encode point: %w", err)
		}
	}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertEntry, pgx.NamedArgs{
			"id":         e.ID,
			"title":      e.Title,
			"content":    e.Content,
			"category":   nonNil(e.Category),
			"tags":       nonNil(e.Tags),
			"source":     e.Source,
			"confidence": e.Confidence,
		}); err != nil {
			return fmt.Errorf("entry: %w", err)
		}

		if e.Geo != nil {
			if _, err := tx.Exec(ctx, insertGeo, pgx.NamedArgs{
				"id":       r.newID(),
				"entry_id": e.ID,
				"wkb":      pointWKB,
				"address":  e.Geo.Address,
			}); err != nil {
				return fmt.Errorf("geo location: %w", err)
			}
		}

		if t := e.Temporal; t != nil {
			precision := t.Precision
			if precision == "" {
				precision = domain.PrecisionYear
			}
			if _, err := tx.Exec(ctx, insertTemporal, pgx.NamedArgs{
				"id":        r.newID(),
				"entry_id":  e.ID,
				"start_ts":  float64(t.Start),
				"end_ts":    float64(t.End),
				"precision": string(precision),
				"dynasty":   t.Dynasty,
				"era":       t.Era,
			}); err != nil {
				return fmt.Errorf("temporal info: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: err}
	}
	return nil
}

// entryRow mirrors one joined result row; joined columns are nullable.
type entryRow struct {
	ID         string
	Title      string
	Content    *string
	Category   []string
	Tags       []string
	Source     *string
	Confidence *float64
	GeomWKB    []byte
	Address    *string
	StartTime  *int64
	EndTime    *int64
	Dynasty    *string
	Era        *string
}

func (er *entryRow) toCandidate() (domain.Candidate, error) {
	p := domain.Payload{
		Title:     er.Title,
		Content:   deref(er.Content),
		Category:  er.Category,
		Tags:      er.Tags,
		StartTime: er.StartTime,
		EndTime:   er.EndTime,
		Metadata: domain.Metadata{
			Source:     deref(er.Source),
			Confidence: er.Confidence,
		},
	}

	if len(er.GeomWKB) > 0 {
		lat, lon, err := decodePoint(er.GeomWKB)
		if err != nil {
			return domain.Candidate{}, fmt.Errorf("entry %s: %w", er.ID, err)
		}
		p.Geo = &domain.GeoPoint{Lat: lat, Lon: lon, Address: deref(er.Address)}
	}

	if dynasty := deref(er.Dynasty); dynasty != "" && er.StartTime != nil && er.EndTime != nil {
		p.Metadata.DisplayTime = domain.PeriodLabel(dynasty, *er.StartTime, *er.EndTime)
	} else if era := deref(er.Era); era != "" {
		p.Metadata.DisplayTime = era
	}

	return domain.Candidate{
		ID:      er.ID,
		Origin:  domain.OriginStructured,
		Payload: p,
	}, nil
}

// decodePoint reads a WKB point; PostGIS stores X=lon, Y=lat.
func decodePoint(b []byte) (lat, lon float64, err error) {
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return 0, 0, fmt.Errorf("decode wkb: %w", err)
	}
	pt, ok := g.(*geom.Point)
	if !ok {
		return 0, 0, fmt.Errorf("decode wkb: expected point, got %T", g)
	}
	return pt.Y(), pt.X(), nil
}

func encodePoint(lat, lon float64) ([]byte, error) {
	return wkb.Marshal(geom.NewPointFlat(geom.XY, []float64{lon, lat}), binary.LittleEndian)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
