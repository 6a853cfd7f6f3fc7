package retrieval

import (
	"sort"

	"github.com/kailas-cloud/geoknow/internal/domain"
	"github.com/kailas-cloud/geoknow/internal/domain/geo"
)

// Composite score weights. They sum to 1 so the final score stays in [0, 1].
const (
	WeightSemantic = 0.6
	WeightGeo      = 0.3
	WeightTime     = 0.1
)

// neutralSemantic stands in for candidates that never had a similarity score.
const neutralSemantic = 0.5

// rerank overwrites each candidate's score with the weighted composite and sorts
// descending. Equal scores keep their input order.
func rerank(cands []*domain.Candidate, intent *domain.QueryIntent) {
	for _, c := range cands {
		c.Score = WeightSemantic*semanticScore(c) +
			WeightGeo*geoScore(c, intent.Geo) +
			WeightTime*timeScore(c, intent.Time)
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score > cands[j].Score
	})
}

func semanticScore(c *domain.Candidate) float64 {
	if !c.Scored {
		return neutralSemantic
	}
	return clamp01(c.Score)
}

// geoScore decays linearly from 1 at the filter center to 0 at the radius.
func geoScore(c *domain.Candidate, f *domain.GeoFilter) float64 {
	if f == nil || c.Payload.Geo == nil {
		return 1
	}
	if f.RadiusKm <= 0 {
		return 0
	}
	d := geo.DistanceKm(f.Lat, f.Lon, c.Payload.Geo.Lat, c.Payload.Geo.Lon)
	return max(0, 1-d/f.RadiusKm)
}

// timeScore is the share of the query window covered by the candidate interval.
// Only a candidate with no bounds scores the neutral 1. A candidate with one
// bound is open-ended on the other side and can still score 0.
func timeScore(c *domain.Candidate, f *domain.TimeFilter) float64 {
	start, end := c.Payload.StartTime, c.Payload.EndTime
	if f == nil || (start == nil && end == nil) {
		return 1
	}

	cs, ce := f.Start, f.End
	if start != nil {
		cs = *start
	}
	if end != nil {
		ce = *end
	}

	// point query
	if f.Start == f.End {
		if cs <= f.Start && f.Start <= ce {
			return 1
		}
		return 0
	}

	overlapStart := max(f.Start, cs)
	overlapEnd := min(f.End, ce)
	if overlapEnd <= overlapStart {
		return 0
	}
	return float64(overlapEnd-overlapStart) / float64(f.End-f.Start)
}

func clamp01(v float64) float64 {
	return min(1, max(0, v))
}
