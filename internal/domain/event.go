package domain

// EventType tags a streamed answer event.
type EventType string

// Stream event types. A stream is Sources, Content*, then Done; Error may end it early.
const (
	EventSources EventType = "sources"
	EventContent EventType = "content"
	EventDone    EventType = "done"
	EventError   EventType = "error"
)

// Source is the caller-facing view of a ranked candidate.
type Source struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Snippet        string     `json:"snippet"`
	Geo            SourceGeo  `json:"geo"`
	Temporal       SourceTime `json:"temporal"`
	RelevanceScore float64    `json:"relevance_score"`
}

// SourceGeo is [lon, lat] plus an address label.
type SourceGeo struct {
	Location []float64 `json:"location"`
	Address  string    `json:"address"`
}

// SourceTime carries the human-readable period.
type SourceTime struct {
	Period string `json:"period"`
}

// Event is one element of an answer stream.
type Event struct {
	Type    EventType
	Sources []Source
	Content string
	Err     error
}

// IsTerminal reports whether no event can follow this one.
func (e Event) IsTerminal() bool { return e.Type == EventDone || e.Type == EventError }
