package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kailas-cloud/geoknow/internal/domain/geo"
)

// DefaultRadiusKm is applied when a geo filter arrives without a radius.
const DefaultRadiusKm = 10.0

// GeoFilter restricts retrieval to a circle around a WGS84 point.
type GeoFilter struct {
	Lat      float64
	Lon      float64
	RadiusKm float64
	Address  string
}

// NewGeoFilter validates coordinates and fills the default radius.
func NewGeoFilter(lat, lon, radiusKm float64, address string) (GeoFilter, error) {
	if !geo.ValidCoordinates(lat, lon) {
		return GeoFilter{}, fmt.Errorf("%w: coordinates out of range (lat=%g, lon=%g)", ErrInvalidFilter, lat, lon)
	}
	if radiusKm == 0 {
		radiusKm = DefaultRadiusKm
	}
	if !(radiusKm > 0) || math.IsInf(radiusKm, 0) {
		return GeoFilter{}, fmt.Errorf("%w: radius_km must be a positive finite number, got %g", ErrInvalidFilter, radiusKm)
	}
	return GeoFilter{Lat: lat, Lon: lon, RadiusKm: radiusKm, Address: address}, nil
}

// RadiusMeters converts the radius for backends that take meters.
func (g GeoFilter) RadiusMeters() float64 { return g.RadiusKm * 1000 }

// TimePrecision is the granularity of a normalized time expression.
type TimePrecision string

// Time precision values.
const (
	PrecisionDay    TimePrecision = "day"
	PrecisionMonth  TimePrecision = "month"
	PrecisionYear   TimePrecision = "year"
	PrecisionDecade TimePrecision = "decade"
	PrecisionEra    TimePrecision = "era"
)

// IsValid checks if the precision is one of the supported values.
func (p TimePrecision) IsValid() bool {
	switch p {
	case PrecisionDay, PrecisionMonth, PrecisionYear, PrecisionDecade, PrecisionEra:
		return true
	}
	return false
}

// TimeFilter is a closed range of signed Unix seconds. Pre-epoch values are legal.
type TimeFilter struct {
	Start       int64
	End         int64
	Precision   TimePrecision
	DisplayTime string
}

// NewTimeFilter validates the range. Empty precision defaults to year.
func NewTimeFilter(start, end int64, precision TimePrecision, display string) (TimeFilter, error) {
	if start > end {
		return TimeFilter{}, fmt.Errorf("%w: time start %d is after end %d", ErrInvalidFilter, start, end)
	}
	if precision == "" {
		precision = PrecisionYear
	}
	if !precision.IsValid() {
		return TimeFilter{}, fmt.Errorf("%w: unknown time precision %q", ErrInvalidFilter, precision)
	}
	return TimeFilter{Start: start, End: end, Precision: precision, DisplayTime: display}, nil
}

// Outer bounds substituted for the missing side of a half-open time range.
var (
	MinTime = time.Date(-4000, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	MaxTime = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).Unix()
)

// Span returns End-Start.
func (t TimeFilter) Span() int64 { return t.End - t.Start }

// IntentType classifies what the user is asking for.
type IntentType string

// Intent types.
const (
	IntentFact        IntentType = "fact"
	IntentComparison  IntentType = "comparison"
	IntentExplanation IntentType = "explanation"
	IntentExploration IntentType = "exploration"
)

// ParseIntentType maps free-form labels onto the enum, falling back to fact.
func ParseIntentType(s string) IntentType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "comparison":
		return IntentComparison
	case "explanation":
		return IntentExplanation
	case "exploration":
		return IntentExploration
	default:
		// "fact", "fact_query" and anything unrecognised
		return IntentFact
	}
}

// QueryIntent is the normalized form of a question. It is built once upstream of
// retrieval and never modified afterwards.
type QueryIntent struct {
	OriginalQuery string
	SemanticQuery string
	IntentType    IntentType
	Keywords      []string
	Category      string
	Geo           *GeoFilter
	Time          *TimeFilter
	Embedding     []float32
}

// HasGeo reports whether the intent carries a geo filter.
func (q *QueryIntent) HasGeo() bool { return q.Geo != nil }

// HasTime reports whether the intent carries a time filter.
func (q *QueryIntent) HasTime() bool { return q.Time != nil }
