package db

import "github.com/kailas-cloud/geoknow/internal/domain/filter"

// KNNQuery asks for the K hashes nearest to Vector among those that pass Filter.
type KNNQuery struct {
	Index  string
	Field  string // vector attribute, "vector" when empty
	Vector []float32
	K      int
	Filter filter.Expression
	// Return limits the hash fields loaded per hit; empty loads all of them.
	Return []string
}

// Hit is one search result. Similarity is 1 - cosine distance, floored at 0.
type Hit struct {
	Key        string
	Similarity float64
	Fields     map[string]string
}

// SearchResult holds hits nearest first. Total counts all matches, which
// may exceed len(Hits).
type SearchResult struct {
	Total int
	Hits  []Hit
}
