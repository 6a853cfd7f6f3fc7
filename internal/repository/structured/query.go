package structured

import (
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

const selectEntries = `SELECT DISTINCT ON (e.id)
	e.id::text, e.title, e.content, e.category, e.tags, e.source, e.confidence,
	ST_AsBinary(g.geom), g.address,
	EXTRACT(EPOCH FROM t.start_time)::bigint, EXTRACT(EPOCH FROM t.end_time)::bigint,
	t.dynasty, t.era
FROM knowledge_entries e
LEFT JOIN geo_locations g ON g.entry_id = e.id
LEFT JOIN temporal_info t ON t.entry_id = e.id`

// Predicates on joined columns evaluate to NULL when the entry has no such
// row, so a present filter excludes entries without geo or time data.
const (
	geoPredicate      = `ST_DWithin(g.geom::geography, ST_SetSRID(ST_MakePoint(@lon, @lat), 4326)::geography, @radius_m)`
	timePredicate     = `t.start_time <= (to_timestamp(@end_ts) AT TIME ZONE 'UTC') AND t.end_time >= (to_timestamp(@start_ts) AT TIME ZONE 'UTC')`
	categoryPredicate = `@category = ANY(e.category)`
)

// buildSearchQuery assembles the filtered entry query. Only present filters add predicates.
func buildSearchQuery(geo *domain.GeoFilter, tf *domain.TimeFilter, category string, limit int) (string, pgx.NamedArgs) {
	var where []string
	args := pgx.NamedArgs{"limit": limit}

	if geo != nil {
		where = append(where, geoPredicate)
		args["lat"] = geo.Lat
		args["lon"] = geo.Lon
		args["radius_m"] = geo.RadiusMeters()
	}
	if tf != nil {
		where = append(where, timePredicate)
		args["start_ts"] = float64(tf.Start)
		args["end_ts"] = float64(tf.End)
	}
	if category != "" {
		where = append(where, categoryPredicate)
		args["category"] = category
	}

	var sb strings.Builder
	sb.WriteString(selectEntries)
	if len(where) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(where, "\n\tAND "))
	}
	sb.WriteString("\nORDER BY e.id\nLIMIT @limit")
	return sb.String(), args
}

const (
	insertEntry = `INSERT INTO knowledge_entries (id, title, content, category, tags, source, confidence)
VALUES (@id, @title, @content, @category, @tags, @source, @confidence)`

	insertGeo = `INSERT INTO geo_locations (id, entry_id, geom, address)
VALUES (@id, @entry_id, ST_GeomFromWKB(@wkb, 4326), @address)`

	insertTemporal = `INSERT INTO temporal_info (id, entry_id, start_time, end_time, time_precision, dynasty, era)
VALUES (@id, @entry_id, to_timestamp(@start_ts) AT TIME ZONE 'UTC', to_timestamp(@end_ts) AT TIME ZONE 'UTC',
	@precision, NULLIF(@dynasty, ''), NULLIF(@era, ''))`
)
