package geoknow

import "github.com/kailas-cloud/geoknow/internal/domain"

// Re-exported response types.
type (
	Answer    = domain.Answer
	Source    = domain.Source
	EventType = domain.EventType
)

// Stream event types.
const (
	EventSources = domain.EventSources
	EventContent = domain.EventContent
	EventDone    = domain.EventDone
	EventError   = domain.EventError
)

// Event is one element of an answer stream. Err is set on EventError.
type Event struct {
	Type    EventType
	Sources []Source
	Content string
	Err     error
}

// Query is a natural-language question with optional filters.
type Query struct {
	Text           string
	Filters        *Filters
	TopK           int
	IncludeSources *bool
}

// Filters narrow retrieval explicitly.
type Filters struct {
	Geo      *GeoFilter  `json:"geo,omitempty"`
	Time     *TimeFilter `json:"time,omitempty"`
	Category string      `json:"category,omitempty"`
}

// GeoFilter is a circle around a point. A zero radius means the server default.
type GeoFilter struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	RadiusKm float64 `json:"radius_km,omitempty"`
	Address  string  `json:"address,omitempty"`
}

// TimeFilter is a range of Unix seconds. A nil bound is open-ended.
type TimeFilter struct {
	Start       *int64 `json:"start,omitempty"`
	End         *int64 `json:"end,omitempty"`
	Precision   string `json:"precision,omitempty"`
	DisplayTime string `json:"display_time,omitempty"`
}

// AskResult is the blocking answer plus embedding usage.
type AskResult struct {
	Answer
	EmbeddingTokens int `json:"-"`
}

// SearchParams drive a structured or keyword search.
type SearchParams struct {
	Keywords  []string
	Lat       *float64
	Lon       *float64
	RadiusKm  *float64
	StartTime *int64
	EndTime   *int64
	Category  string
	Limit     int
}

// SearchResult is a page of search hits.
type SearchResult struct {
	Items []Source `json:"items"`
	Total int      `json:"total"`
	Limit int      `json:"limit"`
}

// Entry is a knowledge entry to ingest.
type Entry struct {
	ID         string         `json:"id,omitempty"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Category   []string       `json:"category,omitempty"`
	Tags       []string       `json:"tags,omitempty"`
	Source     string         `json:"source,omitempty"`
	Confidence *float64       `json:"confidence,omitempty"`
	Geo        *EntryGeo      `json:"geo,omitempty"`
	Temporal   *EntryTemporal `json:"temporal,omitempty"`
}

// EntryGeo is the location of an entry.
type EntryGeo struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Address string  `json:"address,omitempty"`
}

// EntryTemporal is the time span of an entry in Unix seconds.
type EntryTemporal struct {
	Start     int64  `json:"start"`
	End       int64  `json:"end"`
	Precision string `json:"precision,omitempty"`
	Dynasty   string `json:"dynasty,omitempty"`
	Era       string `json:"era,omitempty"`
}

// StoredEntry is an entry as read back from the index.
type StoredEntry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    []string  `json:"category"`
	Tags        []string  `json:"tags"`
	Source      string    `json:"source,omitempty"`
	Confidence  *float64  `json:"confidence,omitempty"`
	Geo         *EntryGeo `json:"geo,omitempty"`
	StartTime   *int64    `json:"start_time,omitempty"`
	EndTime     *int64    `json:"end_time,omitempty"`
	DisplayTime string    `json:"display_time,omitempty"`
}

// HealthStatus represents the aggregated server health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"`
}

// Int64Ptr is a helper for optional time bounds.
func Int64Ptr(v int64) *int64 { return &v }

// Float64Ptr is a helper for optional coordinates.
func Float64Ptr(v float64) *float64 { return &v }

type queryBody struct {
	Query   string       `json:"query"`
	Filters *Filters     `json:"filters,omitempty"`
	Options *optionsBody `json:"options,omitempty"`
}

type optionsBody struct {
	TopK           int   `json:"top_k,omitempty"`
	IncludeSources *bool `json:"include_sources,omitempty"`
}

func (q *Query) body() queryBody {
	b := queryBody{Query: q.Text, Filters: q.Filters}
	if q.TopK > 0 || q.IncludeSources != nil {
		b.Options = &optionsBody{TopK: q.TopK, IncludeSources: q.IncludeSources}
	}
	return b
}
