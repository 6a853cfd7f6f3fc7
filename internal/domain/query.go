package domain

// RequestFilters are the explicit constraints a caller sends with a question.
// Each present field overrides whatever the question text implies.
type RequestFilters struct {
	Geo      *GeoFilter
	Time     *TimeFilter
	Category string
}

// StructuredQuery is the LLM's reading of a question. Hints are raw place and
// time expressions still to be geocoded or normalized.
type StructuredQuery struct {
	SemanticQuery string   `json:"semantic_query"`
	IntentType    string   `json:"intent_type"`
	Keywords      []string `json:"keywords"`
	Category      *string  `json:"category"`
	GeoHints      []string `json:"geo_hints"`
	TimeHints     []string `json:"time_hints"`
}
