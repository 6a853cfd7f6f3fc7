package chi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// ErrorCode is the machine-readable error identifier in error responses.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest             ErrorCode = "bad_request"
	ErrorCodeValidationFailed       ErrorCode = "validation_failed"
	ErrorCodeInvalidFilter          ErrorCode = "invalid_filter"
	ErrorCodeNotFound               ErrorCode = "not_found"
	ErrorCodeBackendUnavailable     ErrorCode = "backend_unavailable"
	ErrorCodeTimeout                ErrorCode = "timeout"
	ErrorCodeRetrievalFailed        ErrorCode = "retrieval_failed"
	ErrorCodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	ErrorCodeGenerationFailed       ErrorCode = "generation_failed"
	ErrorCodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// QueryRequest is the body of POST /query and POST /query/stream.
type QueryRequest struct {
	Query   string        `json:"query"`
	Filters *FiltersBody  `json:"filters,omitempty"`
	Options *QueryOptions `json:"options,omitempty"`
}

// FiltersBody carries explicit geo, time and category constraints.
type FiltersBody struct {
	Geo      *GeoFilterBody  `json:"geo,omitempty"`
	Time     *TimeFilterBody `json:"time,omitempty"`
	Category string          `json:"category,omitempty"`
}

// GeoFilterBody is a circle; radius_km defaults to 10.
type GeoFilterBody struct {
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	RadiusKm float64  `json:"radius_km,omitempty"`
	Address  string   `json:"address,omitempty"`
}

// TimeFilterBody is a closed range of Unix seconds. Either bound may be omitted.
type TimeFilterBody struct {
	Start       *UnixTime `json:"start,omitempty"`
	End         *UnixTime `json:"end,omitempty"`
	Precision   string    `json:"precision,omitempty"`
	DisplayTime string    `json:"display_time,omitempty"`
}

// QueryOptions tune a single question.
type QueryOptions struct {
	TopK           int   `json:"top_k,omitempty"`
	IncludeSources *bool `json:"include_sources,omitempty"`
}

// UnixTime accepts signed Unix seconds as a JSON number or a numeric string.
type UnixTime int64

// UnmarshalJSON implements json.Unmarshaler.
func (t *UnixTime) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("time must be Unix seconds: %q", s)
	}
	*t = UnixTime(v)
	return nil
}

// EntryRequest is the body of POST /entries.
type EntryRequest struct {
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

// EntryTemporal is the time span of an entry.
type EntryTemporal struct {
	Start     UnixTime `json:"start"`
	End       UnixTime `json:"end"`
	Precision string   `json:"precision,omitempty"`
	Dynasty   string   `json:"dynasty,omitempty"`
	Era       string   `json:"era,omitempty"`
}

// EntryResponse acknowledges a stored entry.
type EntryResponse struct {
	ID string `json:"id"`
}

// EntryDetail is the body of GET /entries/{id}.
type EntryDetail struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    []string  `json:"category"`
	Tags        []string  `json:"tags"`
	Source      string    `json:"source,omitempty"`
	Confidence  *float64  `json:"confidence,omitempty"`
	Geo         *EntryGeo `json:"geo,omitempty"`
	Start       *int64    `json:"start_time,omitempty"`
	End         *int64    `json:"end_time,omitempty"`
	DisplayTime string    `json:"display_time,omitempty"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Items []domain.Source `json:"items"`
	Total int             `json:"total"`
	Limit int             `json:"limit"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// streamLine is one NDJSON line of an answer stream.
type streamLine struct {
	Type domain.EventType `json:"type"`
	Data any              `json:"data,omitempty"`
}

func filtersFromBody(f *FiltersBody) (domain.RequestFilters, error) {
	var out domain.RequestFilters
	if f == nil {
		return out, nil
	}
	out.Category = strings.TrimSpace(f.Category)

	if f.Geo != nil {
		g, err := geoFromBody(f.Geo)
		if err != nil {
			return out, err
		}
		out.Geo = g
	}
	if f.Time != nil {
		var start, end *int64
		if f.Time.Start != nil {
			start = domain.Int64Ptr(int64(*f.Time.Start))
		}
		if f.Time.End != nil {
			end = domain.Int64Ptr(int64(*f.Time.End))
		}
		tf, err := timeFilter(start, end, domain.TimePrecision(f.Time.Precision), f.Time.DisplayTime)
		if err != nil {
			return out, err
		}
		out.Time = tf
	}
	return out, nil
}

func geoFromBody(g *GeoFilterBody) (*domain.GeoFilter, error) {
	if g.Lat == nil || g.Lon == nil {
		return nil, fmt.Errorf("%w: geo filter requires lat and lon", domain.ErrInvalidFilter)
	}
	gf, err := domain.NewGeoFilter(*g.Lat, *g.Lon, g.RadiusKm, g.Address)
	if err != nil {
		return nil, err
	}
	return &gf, nil
}

// timeFilter builds a filter from optional bounds. A missing bound is open-ended;
// both missing yields nil.
func timeFilter(start, end *int64, precision domain.TimePrecision, display string) (*domain.TimeFilter, error) {
	if start == nil && end == nil {
		return nil, nil
	}
	lo, hi := domain.MinTime, domain.MaxTime
	if start != nil {
		lo = *start
	}
	if end != nil {
		hi = *end
	}
	tf, err := domain.NewTimeFilter(lo, hi, precision, display)
	if err != nil {
		return nil, err
	}
	return &tf, nil
}

func entryFromRequest(req *EntryRequest) *domain.Entry {
	e := &domain.Entry{
		ID:         strings.TrimSpace(req.ID),
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		Tags:       req.Tags,
		Source:     req.Source,
		Confidence: req.Confidence,
	}
	if req.Geo != nil {
		e.Geo = &domain.GeoPoint{Lat: req.Geo.Lat, Lon: req.Geo.Lon, Address: req.Geo.Address}
	}
	if t := req.Temporal; t != nil {
		e.Temporal = &domain.Temporal{
			Start:     int64(t.Start),
			End:       int64(t.End),
			Precision: domain.TimePrecision(t.Precision),
			Dynasty:   t.Dynasty,
			Era:       t.Era,
		}
	}
	return e
}

func entryDetail(c *domain.Candidate) EntryDetail {
	p := c.Payload
	d := EntryDetail{
		ID:          c.ID,
		Title:       p.Title,
		Content:     p.Content,
		Category:    p.Category,
		Tags:        p.Tags,
		Source:      p.Metadata.Source,
		Confidence:  p.Metadata.Confidence,
		Start:       p.StartTime,
		End:         p.EndTime,
		DisplayTime: p.Metadata.DisplayTime,
	}
	if d.Category == nil {
		d.Category = []string{}
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if p.Geo != nil {
		d.Geo = &EntryGeo{Lat: p.Geo.Lat, Lon: p.Geo.Lon, Address: p.Geo.Address}
	}
	return d
}
