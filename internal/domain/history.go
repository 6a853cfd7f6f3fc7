package domain

import "time"

// QueryRecord is one row of the query history log.
type QueryRecord struct {
	Query        string
	IntentType   IntentType
	Geo          *GeoFilter
	Time         *TimeFilter
	ResultsCount int
	CreatedAt    time.Time
}
