package domain

import (
	"fmt"
	"time"
)

// Origin records which retrieval path produced a candidate first.
type Origin string

// Candidate origins.
const (
	OriginVector     Origin = "vector"
	OriginStructured Origin = "structured"
)

// GeoPoint is an optional location attached to an entry.
type GeoPoint struct {
	Lat     float64
	Lon     float64
	Address string
}

// Metadata holds provenance fields for an entry.
type Metadata struct {
	Source      string
	Confidence  *float64
	DisplayTime string
}

// Payload is the evidence carried by a candidate.
type Payload struct {
	Title     string
	Content   string
	Category  []string
	Tags      []string
	Geo       *GeoPoint
	StartTime *int64
	EndTime   *int64
	Metadata  Metadata
}

// HasCategory reports whether the category set contains c.
func (p *Payload) HasCategory(c string) bool {
	for _, v := range p.Category {
		if v == c {
			return true
		}
	}
	return false
}

// Candidate is one evidence record under consideration for an answer.
// Score starts as the source's native similarity and is overwritten by rerank.
// Scored is false for hits that never had a semantic score (structured store).
type Candidate struct {
	ID      string
	Score   float64
	Scored  bool
	Origin  Origin
	Payload Payload
}

// Entry is a knowledge record as written by the ingestion path.
type Entry struct {
	ID         string
	Title      string
	Content    string
	Category   []string
	Tags       []string
	Source     string
	Confidence *float64
	Geo        *GeoPoint
	Temporal   *Temporal
}

// Temporal is the time association of an entry.
type Temporal struct {
	Start     int64
	End       int64
	Precision TimePrecision
	Dynasty   string
	Era       string
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 { return &v }

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 { return &v }

// DisplayTime renders the period label shown next to a source, e.g. "Ming(1368-1644)".
// Without a dynasty the era name is used; empty when neither is recorded.
func (t *Temporal) DisplayTime() string {
	if t.Dynasty != "" {
		return PeriodLabel(t.Dynasty, t.Start, t.End)
	}
	return t.Era
}

// PeriodLabel formats "<name>(<startYear>-<endYear>)" in UTC years.
func PeriodLabel(name string, start, end int64) string {
	return fmt.Sprintf("%s(%d-%d)", name, time.Unix(start, 0).UTC().Year(), time.Unix(end, 0).UTC().Year())
}
